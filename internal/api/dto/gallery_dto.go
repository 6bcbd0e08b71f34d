package dto

import "time"

// GalleryEventRequest payload for create and partial update.
type GalleryEventRequest struct {
	Title       *string `json:"titulo_evento"`
	EventType   *string `json:"tipo_evento"`
	EventDate   *string `json:"fecha_evento"`
	Description *string `json:"descripcion"`
	ClientName  *string `json:"nombre_cliente"`
	ImageURL    *string `json:"imagen_url"`
}

// GalleryEventResponse is a showcased event.
type GalleryEventResponse struct {
	ID          int64     `json:"id_evento"`
	Title       string    `json:"titulo_evento"`
	EventType   string    `json:"tipo_evento"`
	EventDate   *string   `json:"fecha_evento"`
	Description *string   `json:"descripcion"`
	ClientName  *string   `json:"nombre_cliente"`
	ImageURL    *string   `json:"imagen_url"`
	CreatedAt   time.Time `json:"fecha_creacion"`
}

// GalleryStatsResponse summarizes the gallery.
type GalleryStatsResponse struct {
	Total     int64                    `json:"total_eventos"`
	ByType    []EventTypeCountResponse `json:"por_tipo_evento"`
	LastMonth int64                    `json:"eventos_ultimo_mes"`
}

// DeleteImageRequest payload for DELETE /upload/image.
type DeleteImageRequest struct {
	PublicID string `json:"public_id"`
}

// ImageResponse is the handle of an uploaded image.
type ImageResponse struct {
	URL      string `json:"url"`
	PublicID string `json:"public_id"`
}

// ContactRequest payload for POST /contact.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email" validate:"omitempty,email"`
	Message string `json:"message"`
}
