package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/snackparty/catering-api/internal/domain"
)

// CatalogFilter narrows catalog listings.
type CatalogFilter struct {
	Type    *domain.CatalogType
	Popular *bool
	Status  *domain.CatalogStatus
}

// CatalogPatch holds the fields of a partial catalog update.
type CatalogPatch struct {
	Name        *string
	Description *string
	Type        *domain.CatalogType
	IsPopular   *bool
	Details     *string
	Status      *domain.CatalogStatus
}

// IsEmpty reports whether the patch changes nothing.
func (p CatalogPatch) IsEmpty() bool {
	return p.Name == nil && p.Description == nil && p.Type == nil &&
		p.IsPopular == nil && p.Details == nil && p.Status == nil
}

// CatalogRepository encapsulates catalog persistence.
type CatalogRepository interface {
	List(ctx context.Context, filter CatalogFilter) ([]domain.CatalogItem, error)
	GetByID(ctx context.Context, id int64) (*domain.CatalogItem, error)
	GetActiveItem(ctx context.Context, id int64) (*domain.CatalogItem, error)
	Create(ctx context.Context, item *domain.CatalogItem) error
	Update(ctx context.Context, id int64, patch CatalogPatch) error
	Delete(ctx context.Context, id int64) error
	AddProduct(ctx context.Context, itemID, productID int64, quantity decimal.Decimal) error
	RemoveProduct(ctx context.Context, itemID, productID int64) error
	SetImage(ctx context.Context, id int64, imageURL string) error
}

type catalogRepository struct {
	db Querier
}

// NewCatalogRepository instantiates repository.
func NewCatalogRepository(db Querier) CatalogRepository {
	return &catalogRepository{db: db}
}

const catalogSelect = `
        SELECT id, name, description, type, is_popular, details, status, image_url, created_at
        FROM catalog_items`

func (r *catalogRepository) List(ctx context.Context, filter CatalogFilter) ([]domain.CatalogItem, error) {
	var b clauseBuilder
	if filter.Type != nil {
		b.add("type = %s", string(*filter.Type))
	}
	if filter.Popular != nil {
		b.add("is_popular = %s", *filter.Popular)
	}
	if filter.Status != nil {
		b.add("status = %s", string(*filter.Status))
	}

	rows, err := r.db.Query(ctx, catalogSelect+b.where()+" ORDER BY is_popular DESC, name", b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.CatalogItem, 0)
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	if err := r.attachProducts(ctx, items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *catalogRepository) GetByID(ctx context.Context, id int64) (*domain.CatalogItem, error) {
	item, err := scanCatalogItem(r.db.QueryRow(ctx, catalogSelect+" WHERE id=$1", id))
	if err != nil {
		return nil, err
	}
	list := []domain.CatalogItem{*item}
	if err := r.attachProducts(ctx, list); err != nil {
		return nil, err
	}
	return &list[0], nil
}

func (r *catalogRepository) GetActiveItem(ctx context.Context, id int64) (*domain.CatalogItem, error) {
	return scanCatalogItem(r.db.QueryRow(ctx, catalogSelect+" WHERE id=$1 AND status=$2", id, string(domain.CatalogStatusActive)))
}

func (r *catalogRepository) Create(ctx context.Context, item *domain.CatalogItem) error {
	const query = `
        INSERT INTO catalog_items (name, description, type, is_popular, details, status, image_url)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	if item.Status == "" {
		item.Status = domain.CatalogStatusActive
	}
	return r.db.QueryRow(ctx, query,
		item.Name,
		item.Description,
		item.Type,
		item.IsPopular,
		item.Details,
		item.Status,
		item.ImageURL,
	).Scan(&item.ID, &item.CreatedAt)
}

func (r *catalogRepository) Update(ctx context.Context, id int64, patch CatalogPatch) error {
	var b clauseBuilder
	if patch.Name != nil {
		b.add("name = %s", *patch.Name)
	}
	if patch.Description != nil {
		b.add("description = %s", *patch.Description)
	}
	if patch.Type != nil {
		b.add("type = %s", string(*patch.Type))
	}
	if patch.IsPopular != nil {
		b.add("is_popular = %s", *patch.IsPopular)
	}
	if patch.Details != nil {
		b.add("details = %s", *patch.Details)
	}
	if patch.Status != nil {
		b.add("status = %s", string(*patch.Status))
	}
	if b.empty() {
		return nil
	}
	query := "UPDATE catalog_items SET " + b.set() + " WHERE id = " + b.bind(id)
	cmd, err := r.db.Exec(ctx, query, b.args...)
	if err != nil {
		return err
	}
	return requireAffected(cmd)
}

func (r *catalogRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM catalog_items WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireAffected(cmd)
}

func (r *catalogRepository) AddProduct(ctx context.Context, itemID, productID int64, quantity decimal.Decimal) error {
	const query = `INSERT INTO catalog_item_products (catalog_item_id, product_id, quantity) VALUES ($1,$2,$3)`
	if _, err := r.db.Exec(ctx, query, itemID, productID, quantity); err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *catalogRepository) RemoveProduct(ctx context.Context, itemID, productID int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM catalog_item_products WHERE catalog_item_id=$1 AND product_id=$2`, itemID, productID)
	if err != nil {
		return err
	}
	return requireAffected(cmd)
}

func (r *catalogRepository) SetImage(ctx context.Context, id int64, imageURL string) error {
	cmd, err := r.db.Exec(ctx, `UPDATE catalog_items SET image_url=$1 WHERE id=$2`, imageURL, id)
	if err != nil {
		return err
	}
	return requireAffected(cmd)
}

func (r *catalogRepository) attachProducts(ctx context.Context, items []domain.CatalogItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, len(items))
	index := make(map[int64]int, len(items))
	for i := range items {
		ids[i] = items[i].ID
		index[items[i].ID] = i
		items[i].Products = []domain.CatalogProduct{}
	}

	const query = `
        SELECT cp.catalog_item_id, p.id, p.name, p.category, p.unit, cp.quantity
        FROM catalog_item_products cp
        JOIN inventory_products p ON p.id = cp.product_id
        WHERE cp.catalog_item_id = ANY($1)
        ORDER BY p.name`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var cp domain.CatalogProduct
		if err := rows.Scan(&cp.CatalogItemID, &cp.ProductID, &cp.Name, &cp.Category, &cp.Unit, &cp.Quantity); err != nil {
			return err
		}
		i := index[cp.CatalogItemID]
		items[i].Products = append(items[i].Products, cp)
	}
	return rows.Err()
}

func scanCatalogItem(row scanner) (*domain.CatalogItem, error) {
	var item domain.CatalogItem
	if err := row.Scan(
		&item.ID,
		&item.Name,
		&item.Description,
		&item.Type,
		&item.IsPopular,
		&item.Details,
		&item.Status,
		&item.ImageURL,
		&item.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &item, nil
}
