package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultUnit is used when a product is saved without a unit of measure.
const DefaultUnit = "unidades"

// StockLevel is the derived stock band of a product.
type StockLevel string

const (
	StockLevelLow    StockLevel = "Bajo"
	StockLevelMedium StockLevel = "Medio"
	StockLevelNormal StockLevel = "Normal"
)

// InventoryProduct is a stock-tracked product.
type InventoryProduct struct {
	ID           int64
	Name         string
	Category     string
	CurrentStock decimal.Decimal
	MinStock     decimal.Decimal
	Unit         string
	UpdatedAt    time.Time
}

// IsLowStock reports whether current stock is at or below the minimum.
func (p InventoryProduct) IsLowStock() bool {
	return p.CurrentStock.LessThanOrEqual(p.MinStock)
}

// StockLevel classifies current stock against the minimum.
func (p InventoryProduct) StockLevel() StockLevel {
	switch {
	case p.IsLowStock():
		return StockLevelLow
	case p.CurrentStock.LessThanOrEqual(p.MinStock.Mul(decimal.NewFromInt(2))):
		return StockLevelMedium
	default:
		return StockLevelNormal
	}
}

// InventoryStats summarizes the inventory.
type InventoryStats struct {
	TotalProducts int64
	LowStock      int64
	TotalUnits    decimal.Decimal
}
