package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/snackparty/catering-api/internal/domain"
)

// CreateCatalogItemRequest payload.
type CreateCatalogItemRequest struct {
	Name        string                      `json:"nombre"`
	Description *string                     `json:"descripcion"`
	Type        string                      `json:"tipo"`
	IsPopular   bool                        `json:"es_popular"`
	Details     *string                     `json:"detalles"`
	Products    []CatalogItemProductRequest `json:"productos"`
}

// UpdateCatalogItemRequest payload; omitted fields stay unchanged.
type UpdateCatalogItemRequest struct {
	Name        *string `json:"nombre"`
	Description *string `json:"descripcion"`
	Type        *string `json:"tipo"`
	IsPopular   *bool   `json:"es_popular"`
	Details     *string `json:"detalles"`
	Status      *string `json:"estado"`
}

// CatalogItemProductRequest links a product to an item.
type CatalogItemProductRequest struct {
	ProductID int64           `json:"id_producto" validate:"required,gt=0"`
	Quantity  decimal.Decimal `json:"cantidad"`
}

// CatalogImageRequest payload for PUT /catalog/:id/image.
type CatalogImageRequest struct {
	ImageURL string `json:"imagen_url"`
}

// CatalogItemResponse is an item with its recipe.
type CatalogItemResponse struct {
	ID          int64                    `json:"id_item"`
	Name        string                   `json:"nombre"`
	Description *string                  `json:"descripcion"`
	Type        domain.CatalogType       `json:"tipo"`
	IsPopular   bool                     `json:"es_popular"`
	Details     *string                  `json:"detalles"`
	Status      domain.CatalogStatus     `json:"estado"`
	ImageURL    *string                  `json:"imagen_url"`
	CreatedAt   time.Time                `json:"fecha_creacion"`
	Products    []CatalogProductResponse `json:"productos"`
}

// CatalogProductResponse is one recipe line.
type CatalogProductResponse struct {
	ProductID int64   `json:"id_producto"`
	Name      string  `json:"nombre"`
	Category  string  `json:"categoria"`
	Unit      string  `json:"unidad_medida"`
	Quantity  float64 `json:"cantidad"`
}
