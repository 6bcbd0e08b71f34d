package domain

import "time"

// GalleryEvent is a showcased past event.
type GalleryEvent struct {
	ID          int64
	Title       string
	EventType   string
	EventDate   *time.Time
	Description *string
	ClientName  *string
	ImageURL    *string
	CreatedAt   time.Time
}

// GalleryStats summarizes the gallery for the back office.
type GalleryStats struct {
	Total     int64
	ByType    []EventTypeCount
	LastMonth int64
}
