package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/snackparty/catering-api/internal/domain"
	"github.com/snackparty/catering-api/internal/repository"
	apperrors "github.com/snackparty/catering-api/pkg/util/errorutil"
)

const (
	msgProductNameRequired = "El nombre es obligatorio"
	msgStockRequired       = "stock_actual (o stock) es requerido y debe ser >= 0"
	msgStockNegative       = "Los valores de stock deben ser >= 0"
)

// InventoryService manages stock-tracked products.
type InventoryService struct {
	products repository.InventoryRepository
	logger   *zap.Logger
}

// InventoryInput carries product fields after alias resolution.
type InventoryInput struct {
	Name         string
	Category     string
	CurrentStock decimal.Decimal
	MinStock     decimal.Decimal
	Unit         string
}

// InventoryListInput holds raw query filters.
type InventoryListInput struct {
	Category string
	Search   string
}

// NewInventoryService creates the service.
func NewInventoryService(products repository.InventoryRepository, logger *zap.Logger) *InventoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InventoryService{products: products, logger: logger}
}

// List returns products ordered by name.
func (s *InventoryService) List(ctx context.Context, in InventoryListInput) ([]domain.InventoryProduct, error) {
	filter := repository.InventoryFilter{}
	if c := strings.TrimSpace(in.Category); c != "" {
		category := domain.NormalizeCategory(c)
		filter.Category = &category
	}
	if q := strings.TrimSpace(in.Search); q != "" {
		filter.Search = &q
	}
	return s.products.List(ctx, filter)
}

// LowStock returns products at or below their minimum.
func (s *InventoryService) LowStock(ctx context.Context) ([]domain.InventoryProduct, error) {
	return s.products.ListLowStock(ctx)
}

// Get returns one product.
func (s *InventoryService) Get(ctx context.Context, id int64) (*domain.InventoryProduct, error) {
	p, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err, msgProductNotFound)
	}
	return p, nil
}

// Create inserts a product.
func (s *InventoryService) Create(ctx context.Context, in InventoryInput) (*domain.InventoryProduct, error) {
	p, err := buildProduct(in)
	if err != nil {
		return nil, err
	}
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("inventory product created", zap.Int64("product_id", p.ID), zap.String("category", p.Category))
	return p, nil
}

// Update replaces every field of a product.
func (s *InventoryService) Update(ctx context.Context, id int64, in InventoryInput) (*domain.InventoryProduct, error) {
	p, err := buildProduct(in)
	if err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.products.Update(ctx, p); err != nil {
		return nil, apperrors.MapError(err, msgProductNotFound)
	}
	return p, nil
}

// UpdateStock sets the current stock. A nil value means it was missing.
func (s *InventoryService) UpdateStock(ctx context.Context, id int64, stock *decimal.Decimal) error {
	if stock == nil || stock.IsNegative() {
		return apperrors.NewValidationError(msgStockRequired, nil)
	}
	return apperrors.MapError(s.products.UpdateStock(ctx, id, *stock), msgProductNotFound)
}

// Delete removes a product.
func (s *InventoryService) Delete(ctx context.Context, id int64) error {
	return apperrors.MapError(s.products.Delete(ctx, id), msgProductNotFound)
}

// Stats runs the three aggregate queries concurrently.
func (s *InventoryService) Stats(ctx context.Context) (*domain.InventoryStats, error) {
	var stats domain.InventoryStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.products.CountAll(gctx)
		stats.TotalProducts = n
		return err
	})
	g.Go(func() error {
		n, err := s.products.CountLowStock(gctx)
		stats.LowStock = n
		return err
	})
	g.Go(func() error {
		sum, err := s.products.SumStock(gctx)
		stats.TotalUnits = sum
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

func buildProduct(in InventoryInput) (*domain.InventoryProduct, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, apperrors.NewValidationError(msgProductNameRequired, nil)
	}
	if in.CurrentStock.IsNegative() || in.MinStock.IsNegative() {
		return nil, apperrors.NewValidationError(msgStockNegative, nil)
	}
	unit := strings.TrimSpace(in.Unit)
	if unit == "" {
		unit = domain.DefaultUnit
	}
	return &domain.InventoryProduct{
		Name:         name,
		Category:     domain.NormalizeCategory(in.Category),
		CurrentStock: in.CurrentStock,
		MinStock:     in.MinStock,
		Unit:         unit,
	}, nil
}
