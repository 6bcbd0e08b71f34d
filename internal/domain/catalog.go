package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// CatalogType distinguishes snack bars from combos.
type CatalogType string

const (
	CatalogTypeBar   CatalogType = "Barra"
	CatalogTypeCombo CatalogType = "Combo"
)

// CatalogStatus is the publishing state of a catalog item.
type CatalogStatus string

const (
	CatalogStatusActive   CatalogStatus = "Activo"
	CatalogStatusInactive CatalogStatus = "Inactivo"
)

// ParseCatalogType validates a catalog type.
func ParseCatalogType(raw string) (CatalogType, bool) {
	switch t := CatalogType(raw); t {
	case CatalogTypeBar, CatalogTypeCombo:
		return t, true
	default:
		return "", false
	}
}

// ParseCatalogStatus validates a catalog status.
func ParseCatalogStatus(raw string) (CatalogStatus, bool) {
	switch s := CatalogStatus(raw); s {
	case CatalogStatusActive, CatalogStatusInactive:
		return s, true
	default:
		return "", false
	}
}

// CatalogItem is a sellable offering.
type CatalogItem struct {
	ID          int64
	Name        string
	Description *string
	Type        CatalogType
	IsPopular   bool
	Details     *string
	Status      CatalogStatus
	ImageURL    *string
	CreatedAt   time.Time
	Products    []CatalogProduct
}

// CatalogProduct is one inventory product in an item's recipe.
type CatalogProduct struct {
	CatalogItemID int64
	ProductID     int64
	Name          string
	Category      string
	Unit          string
	Quantity      decimal.Decimal
}
