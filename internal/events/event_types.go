package events

import (
	"time"

	"github.com/snackparty/catering-api/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventQuotationCreated       EventType = "quotation.created"
	EventQuotationStatusChanged EventType = "quotation.status_changed"
	EventPersonalizationSaved   EventType = "personalization.saved"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string       `json:"id"`
	Type        EventType    `json:"type"`
	QuotationID int64        `json:"quotation_id"`
	Actor       domain.Actor `json:"actor"`
	Timestamp   time.Time    `json:"timestamp"`
	Payload     any          `json:"payload"`
}

// QuotationCreatedPayload payload.
type QuotationCreatedPayload struct {
	Quotation          domain.Quotation `json:"quotation"`
	ItemCount          int              `json:"item_count"`
	HasPersonalization bool             `json:"has_personalization"`
}

// QuotationStatusChangedPayload payload.
type QuotationStatusChangedPayload struct {
	OldStatus domain.QuotationStatus `json:"old_status"`
	NewStatus domain.QuotationStatus `json:"new_status"`
}

// PersonalizationSavedPayload is built from a read after the upsert, so it
// reflects the stored values and the owner contact.
type PersonalizationSavedPayload struct {
	Quotation       domain.Quotation            `json:"quotation"`
	Personalization domain.SnackPersonalization `json:"personalization"`
}
