package dto

import (
	"encoding/json"
	"time"

	"github.com/snackparty/catering-api/internal/domain"
)

// CreateQuotationRequest payload.
type CreateQuotationRequest struct {
	EventAddress    string                 `json:"direccion_evento"`
	EventDate       string                 `json:"fecha_evento"`
	EventTime       *string                `json:"hora_evento"`
	EventType       string                 `json:"tipo_evento"`
	GuestCount      int                    `json:"num_invitados"`
	SpecialRequests *string                `json:"solicitudes_especiales"`
	Items           []QuotationItemRequest `json:"items"`
	Personalization json.RawMessage        `json:"personalizacion_snacks"`
}

// HasPersonalization reports whether a non-null personalization object was sent.
func (r CreateQuotationRequest) HasPersonalization() bool {
	return len(r.Personalization) > 0 && string(r.Personalization) != "null"
}

// QuotationItemRequest is one requested catalog line.
type QuotationItemRequest struct {
	ItemID   int64 `json:"id_item"`
	Quantity int   `json:"cantidad"`
}

// UpdateStatusRequest payload for PUT /quotations/:id/status.
type UpdateStatusRequest struct {
	Status string `json:"estado"`
}

// PersonalizationRequest payload. Each field is a comma-joined list.
type PersonalizationRequest struct {
	Fruits   string `json:"frutas_seleccionadas"`
	Chips    string `json:"chips_seleccionados"`
	Toppings string `json:"toppings_seleccionados"`
}

// QuotationResponse is a quotation with its lines and personalization.
type QuotationResponse struct {
	ID              int64                    `json:"id_cotizacion"`
	UserID          int64                    `json:"id_usuario"`
	EventAddress    string                   `json:"direccion_evento"`
	EventDate       string                   `json:"fecha_evento"`
	EventTime       *string                  `json:"hora_evento"`
	EventType       string                   `json:"tipo_evento"`
	GuestCount      int                      `json:"num_invitados"`
	SpecialRequests *string                  `json:"solicitudes_especiales"`
	Status          domain.QuotationStatus   `json:"estado"`
	CreatedAt       time.Time                `json:"fecha_creacion"`
	ClientName      *string                  `json:"nombre_completo,omitempty"`
	ClientEmail     *string                  `json:"correo,omitempty"`
	ClientPhone     *string                  `json:"telefono,omitempty"`
	Items           []QuotationItemResponse  `json:"items"`
	Personalization *PersonalizationResponse `json:"personalizacion_snacks"`
}

// QuotationItemResponse is a line hydrated with its catalog item.
type QuotationItemResponse struct {
	ItemID      int64              `json:"id_item"`
	Name        string             `json:"nombre"`
	Description *string            `json:"descripcion"`
	Type        domain.CatalogType `json:"tipo"`
	ImageURL    *string            `json:"imagen_url"`
	Quantity    int                `json:"cantidad"`
}

// PersonalizationResponse renders selections in their stored comma-joined form.
type PersonalizationResponse struct {
	QuotationID int64      `json:"id_cotizacion"`
	Fruits      *string    `json:"frutas_seleccionadas"`
	Chips       *string    `json:"chips_seleccionados"`
	Toppings    *string    `json:"toppings_seleccionados"`
	UpdatedAt   *time.Time `json:"fecha_actualizacion,omitempty"`
}

// StatusCountResponse is one por_estado bucket.
type StatusCountResponse struct {
	Status domain.QuotationStatus `json:"estado"`
	Count  int64                  `json:"cantidad"`
}

// EventTypeCountResponse is one por_tipo_evento bucket.
type EventTypeCountResponse struct {
	EventType string `json:"tipo_evento"`
	Count     int64  `json:"cantidad"`
}

// QuotationStatsResponse aggregates quotation counts.
type QuotationStatsResponse struct {
	Total       int64                    `json:"total_cotizaciones"`
	ByStatus    []StatusCountResponse    `json:"por_estado"`
	ByEventType []EventTypeCountResponse `json:"por_tipo_evento"`
	LastMonth   int64                    `json:"cotizaciones_ultimo_mes"`
}
