package domain

import (
	"errors"
	"strings"
	"time"
)

// QuotationStatus enumerates lifecycle states for quotations.
type QuotationStatus string

const (
	QuotationStatusPending  QuotationStatus = "Pendiente"
	QuotationStatusSent     QuotationStatus = "Enviada"
	QuotationStatusAccepted QuotationStatus = "Aceptada"
	QuotationStatusRejected QuotationStatus = "Rechazada"
)

// QuotationStatuses lists every valid status in display order.
var QuotationStatuses = []QuotationStatus{
	QuotationStatusPending,
	QuotationStatusSent,
	QuotationStatusAccepted,
	QuotationStatusRejected,
}

// ErrInvalidEventDate is returned when fecha_evento cannot be parsed.
var ErrInvalidEventDate = errors.New("invalid event date")

// ParseQuotationStatus validates a status value.
func ParseQuotationStatus(raw string) (QuotationStatus, bool) {
	for _, s := range QuotationStatuses {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}

// CanTransition is the single status transition policy. Any valid status is
// reachable from any other.
func CanTransition(from, to QuotationStatus) bool {
	_, ok := ParseQuotationStatus(string(to))
	return ok
}

// Quotation is the aggregate for catering requests.
type Quotation struct {
	ID              int64
	UserID          int64
	EventAddress    string
	EventDate       time.Time
	EventTime       *string
	EventType       string
	GuestCount      int
	SpecialRequests *string
	Status          QuotationStatus
	CreatedAt       time.Time

	Owner           *QuotationOwner
	Items           []QuotationItem
	Personalization *SnackPersonalization
}

// Deletable reports whether the quotation may still be withdrawn.
func (q *Quotation) Deletable() bool {
	return q.Status == QuotationStatusPending
}

// QuotationOwner carries the requester contact joined into reads.
type QuotationOwner struct {
	FullName string
	Email    string
	Phone    *string
}

// QuotationLine is a requested (catalog item, quantity) pair.
type QuotationLine struct {
	CatalogItemID int64
	Quantity      int
}

// QuotationItem is a stored line hydrated with its catalog item.
type QuotationItem struct {
	QuotationID   int64
	CatalogItemID int64
	Name          string
	Description   *string
	Type          CatalogType
	ImageURL      *string
	Quantity      int
}

// StatusCount is a status histogram bucket.
type StatusCount struct {
	Status QuotationStatus
	Count  int64
}

// EventTypeCount is an event type histogram bucket.
type EventTypeCount struct {
	EventType string
	Count     int64
}

// QuotationStats aggregates quotation counts for the back office.
type QuotationStats struct {
	Total       int64
	ByStatus    []StatusCount
	ByEventType []EventTypeCount
	LastMonth   int64
}

// ParseEventDate accepts YYYY-MM-DD or RFC3339 and keeps only the calendar date.
func ParseEventDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if t, err := time.Parse(time.DateOnly, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, ErrInvalidEventDate
	}
	return DateOnly(t), nil
}

// DateOnly drops the time of day, keeping the calendar date of t.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// IsPastDate reports whether date falls before the calendar day of now.
func IsPastDate(date, now time.Time) bool {
	return DateOnly(date).Before(DateOnly(now))
}
