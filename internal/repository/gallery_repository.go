package repository

import (
	"context"
	"time"

	"github.com/snackparty/catering-api/internal/domain"
)

// GalleryFilter narrows gallery listings.
type GalleryFilter struct {
	EventType *string
	Search    *string
	Limit     int
	Offset    int
}

// GalleryPatch holds the fields of a partial gallery update.
type GalleryPatch struct {
	Title       *string
	EventType   *string
	EventDate   *time.Time
	Description *string
	ClientName  *string
	ImageURL    *string
}

// IsEmpty reports whether the patch changes nothing.
func (p GalleryPatch) IsEmpty() bool {
	return p.Title == nil && p.EventType == nil && p.EventDate == nil &&
		p.Description == nil && p.ClientName == nil && p.ImageURL == nil
}

// GalleryRepository encapsulates gallery persistence.
type GalleryRepository interface {
	List(ctx context.Context, filter GalleryFilter) ([]domain.GalleryEvent, int64, error)
	Featured(ctx context.Context, limit int) ([]domain.GalleryEvent, error)
	EventTypes(ctx context.Context) ([]domain.EventTypeCount, error)
	GetByID(ctx context.Context, id int64) (*domain.GalleryEvent, error)
	Create(ctx context.Context, e *domain.GalleryEvent) error
	Update(ctx context.Context, id int64, patch GalleryPatch) error
	Delete(ctx context.Context, id int64) error

	CountAll(ctx context.Context) (int64, error)
	CountCreatedSince(ctx context.Context, since time.Time) (int64, error)
}

type galleryRepository struct {
	db Querier
}

// NewGalleryRepository instantiates repository.
func NewGalleryRepository(db Querier) GalleryRepository {
	return &galleryRepository{db: db}
}

const gallerySelect = `
        SELECT id, title, event_type, event_date, description, client_name, image_url, created_at
        FROM gallery_events`

const galleryOrder = " ORDER BY event_date DESC NULLS LAST, created_at DESC"

func galleryFilterClause(filter GalleryFilter) clauseBuilder {
	var b clauseBuilder
	if filter.EventType != nil {
		b.add("event_type = %s", *filter.EventType)
	}
	if filter.Search != nil {
		b.add("(title ILIKE %s OR description ILIKE %s OR client_name ILIKE %s)", "%"+*filter.Search+"%")
	}
	return b
}

func (r *galleryRepository) List(ctx context.Context, filter GalleryFilter) ([]domain.GalleryEvent, int64, error) {
	countClause := galleryFilterClause(filter)
	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM gallery_events`+countClause.where(), countClause.args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	b := galleryFilterClause(filter)
	events, err := r.query(ctx, gallerySelect+b.where()+galleryOrder+b.page(filter.Limit, filter.Offset), b.args...)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *galleryRepository) Featured(ctx context.Context, limit int) ([]domain.GalleryEvent, error) {
	return r.query(ctx, gallerySelect+galleryOrder+" LIMIT $1", limit)
}

func (r *galleryRepository) EventTypes(ctx context.Context) ([]domain.EventTypeCount, error) {
	rows, err := r.db.Query(ctx, `
        SELECT event_type, COUNT(*) AS total
        FROM gallery_events
        GROUP BY event_type
        ORDER BY total DESC, event_type`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanEventTypeCounts(rows)
}

func (r *galleryRepository) GetByID(ctx context.Context, id int64) (*domain.GalleryEvent, error) {
	return scanGalleryEvent(r.db.QueryRow(ctx, gallerySelect+" WHERE id=$1", id))
}

func (r *galleryRepository) Create(ctx context.Context, e *domain.GalleryEvent) error {
	const query = `
        INSERT INTO gallery_events (title, event_type, event_date, description, client_name, image_url)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.db.QueryRow(ctx, query, e.Title, e.EventType, e.EventDate, e.Description, e.ClientName, e.ImageURL).
		Scan(&e.ID, &e.CreatedAt)
}

func (r *galleryRepository) Update(ctx context.Context, id int64, patch GalleryPatch) error {
	var b clauseBuilder
	if patch.Title != nil {
		b.add("title = %s", *patch.Title)
	}
	if patch.EventType != nil {
		b.add("event_type = %s", *patch.EventType)
	}
	if patch.EventDate != nil {
		b.add("event_date = %s", *patch.EventDate)
	}
	if patch.Description != nil {
		b.add("description = %s", *patch.Description)
	}
	if patch.ClientName != nil {
		b.add("client_name = %s", *patch.ClientName)
	}
	if patch.ImageURL != nil {
		b.add("image_url = %s", *patch.ImageURL)
	}
	if b.empty() {
		return nil
	}
	query := "UPDATE gallery_events SET " + b.set() + " WHERE id = " + b.bind(id)
	cmd, err := r.db.Exec(ctx, query, b.args...)
	if err != nil {
		return err
	}
	return requireAffected(cmd)
}

func (r *galleryRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM gallery_events WHERE id=$1`, id)
	if err != nil {
		return err
	}
	return requireAffected(cmd)
}

func (r *galleryRepository) CountAll(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM gallery_events`).Scan(&total)
	return total, err
}

func (r *galleryRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM gallery_events WHERE created_at >= $1`, since).Scan(&total)
	return total, err
}

func (r *galleryRepository) query(ctx context.Context, query string, args ...any) ([]domain.GalleryEvent, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]domain.GalleryEvent, 0)
	for rows.Next() {
		e, err := scanGalleryEvent(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *e)
	}
	return result, rows.Err()
}

func scanGalleryEvent(row scanner) (*domain.GalleryEvent, error) {
	var e domain.GalleryEvent
	if err := row.Scan(
		&e.ID,
		&e.Title,
		&e.EventType,
		&e.EventDate,
		&e.Description,
		&e.ClientName,
		&e.ImageURL,
		&e.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &e, nil
}
