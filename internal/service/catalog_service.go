package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/snackparty/catering-api/internal/domain"
	"github.com/snackparty/catering-api/internal/repository"
	apperrors "github.com/snackparty/catering-api/pkg/util/errorutil"
)

const (
	msgCatalogNotFound    = "Item no encontrado"
	msgCatalogRequired    = "Nombre y tipo son campos obligatorios"
	msgCatalogType        = `Tipo debe ser "Barra" o "Combo"`
	msgCatalogStatus      = `Estado debe ser "Activo" o "Inactivo"`
	msgProductIDRequired  = "id_producto es obligatorio"
	msgProductNotFound    = "Producto no encontrado"
	msgProductLinked      = "El producto ya está asociado a este item"
	msgRelationNotFound   = "Relación no encontrada"
	msgImageURLRequired   = "imagen_url es obligatorio"
	msgInvalidProductLine = "Cantidad de producto inválida"
)

// CatalogService manages catalog items and their product recipes.
type CatalogService struct {
	store     repository.TxRunner
	catalog   repository.CatalogRepository
	inventory repository.InventoryRepository
	logger    *zap.Logger
}

// CatalogDependencies bundles collaborators for the catalog service.
type CatalogDependencies struct {
	Store     repository.TxRunner
	Catalog   repository.CatalogRepository
	Inventory repository.InventoryRepository
	Logger    *zap.Logger
}

// CatalogListInput holds raw query filters.
type CatalogListInput struct {
	Type    string
	Popular string
	Status  string
}

// CatalogProductInput links an inventory product to an item.
type CatalogProductInput struct {
	ProductID int64
	Quantity  decimal.Decimal
}

// CreateCatalogInput describes a new catalog item.
type CreateCatalogInput struct {
	Name        string
	Description *string
	Type        string
	IsPopular   bool
	Details     *string
	Products    []CatalogProductInput
}

// UpdateCatalogInput is a partial update; nil fields are left untouched.
type UpdateCatalogInput struct {
	Name        *string
	Description *string
	Type        *string
	IsPopular   *bool
	Details     *string
	Status      *string
}

// NewCatalogService creates the service.
func NewCatalogService(deps CatalogDependencies) *CatalogService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		store:     deps.Store,
		catalog:   deps.Catalog,
		inventory: deps.Inventory,
		logger:    logger,
	}
}

// List returns items with their products. Status defaults to Activo.
func (s *CatalogService) List(ctx context.Context, in CatalogListInput) ([]domain.CatalogItem, error) {
	filter := repository.CatalogFilter{}
	if t := strings.TrimSpace(in.Type); t != "" {
		ct := domain.CatalogType(t)
		filter.Type = &ct
	}
	if p := strings.TrimSpace(in.Popular); p != "" {
		if popular, err := strconv.ParseBool(p); err == nil {
			filter.Popular = &popular
		}
	}
	status := domain.CatalogStatusActive
	if st := strings.TrimSpace(in.Status); st != "" {
		status = domain.CatalogStatus(st)
	}
	filter.Status = &status
	return s.catalog.List(ctx, filter)
}

// Get returns one item with its products.
func (s *CatalogService) Get(ctx context.Context, id int64) (*domain.CatalogItem, error) {
	item, err := s.catalog.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err, msgCatalogNotFound)
	}
	return item, nil
}

// Create inserts the item and its product lines in one transaction.
func (s *CatalogService) Create(ctx context.Context, in CreateCatalogInput) (*domain.CatalogItem, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || strings.TrimSpace(in.Type) == "" {
		return nil, apperrors.NewValidationError(msgCatalogRequired, nil)
	}
	itemType, ok := domain.ParseCatalogType(strings.TrimSpace(in.Type))
	if !ok {
		return nil, apperrors.NewValidationError(msgCatalogType, nil)
	}
	for i := range in.Products {
		if err := s.checkProductLine(ctx, &in.Products[i]); err != nil {
			return nil, err
		}
	}

	item := &domain.CatalogItem{
		Name:        name,
		Description: in.Description,
		Type:        itemType,
		IsPopular:   in.IsPopular,
		Details:     in.Details,
		Status:      domain.CatalogStatusActive,
	}
	err := s.store.WithinTx(ctx, func(repos repository.TxRepositories) error {
		if err := repos.Catalog.Create(ctx, item); err != nil {
			return err
		}
		for _, p := range in.Products {
			if err := repos.Catalog.AddProduct(ctx, item.ID, p.ProductID, p.Quantity); err != nil {
				if errors.Is(err, repository.ErrDuplicate) {
					return apperrors.NewConflict(msgProductLinked, map[string]any{"id_producto": p.ProductID})
				}
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("catalog item created", zap.Int64("item_id", item.ID), zap.Int("products", len(in.Products)))
	return s.Get(ctx, item.ID)
}

// Update applies a partial update.
func (s *CatalogService) Update(ctx context.Context, id int64, in UpdateCatalogInput) error {
	patch := repository.CatalogPatch{
		Name:        in.Name,
		Description: in.Description,
		IsPopular:   in.IsPopular,
		Details:     in.Details,
	}
	if in.Type != nil {
		t, ok := domain.ParseCatalogType(strings.TrimSpace(*in.Type))
		if !ok {
			return apperrors.NewValidationError(msgCatalogType, nil)
		}
		patch.Type = &t
	}
	if in.Status != nil {
		st, ok := domain.ParseCatalogStatus(strings.TrimSpace(*in.Status))
		if !ok {
			return apperrors.NewValidationError(msgCatalogStatus, nil)
		}
		patch.Status = &st
	}
	if patch.IsEmpty() {
		return apperrors.NewValidationError(msgNothingToUpdate, nil)
	}
	return apperrors.MapError(s.catalog.Update(ctx, id, patch), msgCatalogNotFound)
}

// Delete removes the item; product links cascade.
func (s *CatalogService) Delete(ctx context.Context, id int64) error {
	return apperrors.MapError(s.catalog.Delete(ctx, id), msgCatalogNotFound)
}

// AddProduct links an inventory product to an item.
func (s *CatalogService) AddProduct(ctx context.Context, itemID int64, in CatalogProductInput) error {
	if _, err := s.catalog.GetByID(ctx, itemID); err != nil {
		return apperrors.MapError(err, msgCatalogNotFound)
	}
	if err := s.checkProductLine(ctx, &in); err != nil {
		return err
	}
	if err := s.catalog.AddProduct(ctx, itemID, in.ProductID, in.Quantity); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.NewConflict(msgProductLinked, nil)
		}
		return err
	}
	return nil
}

// RemoveProduct unlinks a product from an item.
func (s *CatalogService) RemoveProduct(ctx context.Context, itemID, productID int64) error {
	return apperrors.MapError(s.catalog.RemoveProduct(ctx, itemID, productID), msgRelationNotFound)
}

// SetImage stores the item's picture URL.
func (s *CatalogService) SetImage(ctx context.Context, id int64, imageURL string) error {
	url := strings.TrimSpace(imageURL)
	if url == "" {
		return apperrors.NewValidationError(msgImageURLRequired, nil)
	}
	return apperrors.MapError(s.catalog.SetImage(ctx, id, url), msgCatalogNotFound)
}

// checkProductLine defaults the quantity to 1 and verifies the product exists.
func (s *CatalogService) checkProductLine(ctx context.Context, p *CatalogProductInput) error {
	if p.ProductID <= 0 {
		return apperrors.NewValidationError(msgProductIDRequired, nil)
	}
	if p.Quantity.IsZero() {
		p.Quantity = decimal.NewFromInt(1)
	}
	if p.Quantity.IsNegative() {
		return apperrors.NewValidationError(msgInvalidProductLine, nil)
	}
	if s.inventory == nil {
		return nil
	}
	if _, err := s.inventory.GetByID(ctx, p.ProductID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound(msgProductNotFound, map[string]any{"id_producto": p.ProductID})
		}
		return err
	}
	return nil
}
