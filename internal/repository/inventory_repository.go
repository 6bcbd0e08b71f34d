package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/snackparty/catering-api/internal/domain"
)

// InventoryFilter narrows inventory listings.
type InventoryFilter struct {
	Category *string
	Search   *string
}

// InventoryRepository encapsulates inventory persistence.
type InventoryRepository interface {
	List(ctx context.Context, filter InventoryFilter) ([]domain.InventoryProduct, error)
	ListLowStock(ctx context.Context) ([]domain.InventoryProduct, error)
	GetByID(ctx context.Context, id int64) (*domain.InventoryProduct, error)
	Create(ctx context.Context, p *domain.InventoryProduct) error
	Update(ctx context.Context, p *domain.InventoryProduct) error
	UpdateStock(ctx context.Context, id int64, stock decimal.Decimal) error
	Delete(ctx context.Context, id int64) error

	CountAll(ctx context.Context) (int64, error)
	CountLowStock(ctx context.Context) (int64, error)
	SumStock(ctx context.Context) (decimal.Decimal, error)
}

type inventoryRepository struct {
	db Querier
}

// NewInventoryRepository instantiates repository.
func NewInventoryRepository(db Querier) InventoryRepository {
	return &inventoryRepository{db: db}
}

const inventorySelect = `
        SELECT id, name, category, current_stock, min_stock, unit, updated_at
        FROM inventory_products`

func (r *inventoryRepository) List(ctx context.Context, filter InventoryFilter) ([]domain.InventoryProduct, error) {
	var b clauseBuilder
	if filter.Category != nil {
		b.add("category = %s", *filter.Category)
	}
	if filter.Search != nil && *filter.Search != "" {
		b.add("name ILIKE %s", "%"+*filter.Search+"%")
	}
	return r.query(ctx, inventorySelect+b.where()+" ORDER BY name", b.args...)
}

func (r *inventoryRepository) ListLowStock(ctx context.Context) ([]domain.InventoryProduct, error) {
	return r.query(ctx, inventorySelect+" WHERE current_stock <= min_stock ORDER BY current_stock ASC, name")
}

func (r *inventoryRepository) GetByID(ctx context.Context, id int64) (*domain.InventoryProduct, error) {
	return scanInventoryProduct(r.db.QueryRow(ctx, inventorySelect+" WHERE id=$1", id))
}

func (r *inventoryRepository) Create(ctx context.Context, p *domain.InventoryProduct) error {
	const query = `
        INSERT INTO inventory_products (name, category, current_stock, min_stock, unit)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING id, updated_at`
	return r.db.QueryRow(ctx, query, p.Name, p.Category, p.CurrentStock, p.MinStock, p.Unit).
		Scan(&p.ID, &p.UpdatedAt)
}

func (r *inventoryRepository) Update(ctx context.Context, p *domain.InventoryProduct) error {
	const query = `
        UPDATE inventory_products
        SET name=$1, category=$2, current_stock=$3, min_stock=$4, unit=$5, updated_at=NOW()
        WHERE id=$6
        RETURNING updated_at`
	return r.db.QueryRow(ctx, query, p.Name, p.Category, p.CurrentStock, p.MinStock, p.Unit, p.ID).
		Scan(&p.UpdatedAt)
}

func (r *inventoryRepository) UpdateStock(ctx context.Context, id int64, stock decimal.Decimal) error {
	cmd, err := r.db.Exec(ctx, `UPDATE inventory_products SET current_stock=$1, updated_at=NOW() WHERE id=$2`, stock, id)
	if err != nil {
		return err
	}
	return requireAffected(cmd)
}

func (r *inventoryRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM inventory_products WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireAffected(cmd)
}

func (r *inventoryRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_products`).Scan(&total)
	return total, err
}

func (r *inventoryRepository) CountLowStock(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM inventory_products WHERE current_stock <= min_stock`).Scan(&total)
	return total, err
}

func (r *inventoryRepository) SumStock(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.QueryRow(ctx, `SELECT COALESCE(SUM(current_stock), 0) FROM inventory_products`).Scan(&total)
	return total, err
}

func (r *inventoryRepository) query(ctx context.Context, query string, args ...any) ([]domain.InventoryProduct, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.InventoryProduct, 0)
	for rows.Next() {
		p, err := scanInventoryProduct(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *p)
	}
	return result, rows.Err()
}

func scanInventoryProduct(row scanner) (*domain.InventoryProduct, error) {
	var p domain.InventoryProduct
	if err := row.Scan(&p.ID, &p.Name, &p.Category, &p.CurrentStock, &p.MinStock, &p.Unit, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
