package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/snackparty/catering-api/internal/domain"
)

// InventoryProductRequest accepts both the Spanish column names and the
// English aliases sent by the admin panel. The Spanish name wins when both
// are present.
type InventoryProductRequest struct {
	Nombre       *string          `json:"nombre"`
	Name         *string          `json:"name"`
	Categoria    *string          `json:"categoria"`
	Category     *string          `json:"category"`
	StockActual  *decimal.Decimal `json:"stock_actual"`
	Stock        *decimal.Decimal `json:"stock"`
	StockMinimo  *decimal.Decimal `json:"stock_minimo"`
	MinStock     *decimal.Decimal `json:"minStock"`
	UnidadMedida *string          `json:"unidad_medida"`
	Unit         *string          `json:"unit"`
}

// ResolvedName returns nombre or name.
func (r InventoryProductRequest) ResolvedName() string {
	return firstString(r.Nombre, r.Name)
}

// ResolvedCategory returns categoria or category.
func (r InventoryProductRequest) ResolvedCategory() string {
	return firstString(r.Categoria, r.Category)
}

// ResolvedUnit returns unidad_medida or unit.
func (r InventoryProductRequest) ResolvedUnit() string {
	return firstString(r.UnidadMedida, r.Unit)
}

// ResolvedStock returns stock_actual or stock, defaulting to zero.
func (r InventoryProductRequest) ResolvedStock() decimal.Decimal {
	return firstDecimal(r.StockActual, r.Stock)
}

// ResolvedMinStock returns stock_minimo or minStock, defaulting to zero.
func (r InventoryProductRequest) ResolvedMinStock() decimal.Decimal {
	return firstDecimal(r.StockMinimo, r.MinStock)
}

// UpdateStockRequest payload for PUT /inventory/:id/stock.
type UpdateStockRequest struct {
	StockActual *decimal.Decimal `json:"stock_actual"`
	Stock       *decimal.Decimal `json:"stock"`
}

// Resolved returns the provided value, or nil when neither key was sent.
func (r UpdateStockRequest) Resolved() *decimal.Decimal {
	if r.StockActual != nil {
		return r.StockActual
	}
	return r.Stock
}

// InventoryProductResponse is a product with its derived stock band.
type InventoryProductResponse struct {
	ID           int64             `json:"id_producto"`
	Name         string            `json:"nombre"`
	Category     string            `json:"categoria"`
	CurrentStock float64           `json:"stock_actual"`
	MinStock     float64           `json:"stock_minimo"`
	Unit         string            `json:"unidad_medida"`
	StockLevel   domain.StockLevel `json:"nivel_stock"`
	UpdatedAt    time.Time         `json:"ultima_actualizacion"`
}

// InventoryStatsResponse summarizes the inventory.
type InventoryStatsResponse struct {
	TotalProducts int64   `json:"totalProductos"`
	LowStock      int64   `json:"productosStockBajo"`
	TotalUnits    float64 `json:"unidadesTotales"`
}

func firstString(values ...*string) string {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return ""
}

func firstDecimal(values ...*decimal.Decimal) decimal.Decimal {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return decimal.Zero
}
