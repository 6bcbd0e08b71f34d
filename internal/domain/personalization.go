package domain

import (
	"strings"
	"time"
)

// SnackPersonalization holds the snack bar selections of one quotation.
type SnackPersonalization struct {
	QuotationID int64
	Fruits      []string
	Chips       []string
	Toppings    []string
	UpdatedAt   time.Time
}

// NewSnackPersonalization parses the comma-joined selections.
func NewSnackPersonalization(quotationID int64, fruits, chips, toppings string) SnackPersonalization {
	return SnackPersonalization{
		QuotationID: quotationID,
		Fruits:      ParseSelection(fruits),
		Chips:       ParseSelection(chips),
		Toppings:    ParseSelection(toppings),
	}
}

// IsEmpty reports whether nothing was selected.
func (p SnackPersonalization) IsEmpty() bool {
	return len(p.Fruits) == 0 && len(p.Chips) == 0 && len(p.Toppings) == 0
}

// ParseSelection splits a comma-joined list, trimming entries and dropping blanks.
func ParseSelection(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// JoinSelection renders a selection list in its stored form.
func JoinSelection(values []string) string {
	return strings.Join(values, ", ")
}
