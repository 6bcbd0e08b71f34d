package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/snackparty/catering-api/internal/domain"
	"github.com/snackparty/catering-api/internal/repository"
	apperrors "github.com/snackparty/catering-api/pkg/util/errorutil"
	"github.com/snackparty/catering-api/pkg/util/pagination"
)

const (
	msgGalleryNotFound   = "Evento no encontrado"
	msgGalleryRequired   = "Título del evento y tipo de evento son campos obligatorios"
	msgSearchRequired    = `Parámetro de búsqueda "q" es obligatorio`
	galleryFeaturedLimit = 6
)

// GalleryService manages showcased events.
type GalleryService struct {
	events repository.GalleryRepository
	clock  func() time.Time
	logger *zap.Logger
}

// GalleryInput describes a new event. EventDate is optional.
type GalleryInput struct {
	Title       string
	EventType   string
	EventDate   *time.Time
	Description *string
	ClientName  *string
	ImageURL    *string
}

// NewGalleryService creates the service.
func NewGalleryService(events repository.GalleryRepository, logger *zap.Logger) *GalleryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GalleryService{events: events, clock: time.Now, logger: logger}
}

// List pages through events, newest first.
func (s *GalleryService) List(ctx context.Context, eventType string, page pagination.Params) ([]domain.GalleryEvent, pagination.Meta, error) {
	filter := repository.GalleryFilter{Limit: page.Limit, Offset: page.Offset()}
	if t := strings.TrimSpace(eventType); t != "" {
		filter.EventType = &t
	}
	return s.list(ctx, filter, page)
}

// Search matches q against title, description and client name.
func (s *GalleryService) Search(ctx context.Context, q, eventType string, page pagination.Params) ([]domain.GalleryEvent, pagination.Meta, error) {
	term := strings.TrimSpace(q)
	if term == "" {
		return nil, pagination.Meta{}, apperrors.NewValidationError(msgSearchRequired, nil)
	}
	filter := repository.GalleryFilter{Search: &term, Limit: page.Limit, Offset: page.Offset()}
	if t := strings.TrimSpace(eventType); t != "" {
		filter.EventType = &t
	}
	return s.list(ctx, filter, page)
}

func (s *GalleryService) list(ctx context.Context, filter repository.GalleryFilter, page pagination.Params) ([]domain.GalleryEvent, pagination.Meta, error) {
	items, total, err := s.events.List(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return items, page.MetaFor(total), nil
}

// Featured returns the latest events.
func (s *GalleryService) Featured(ctx context.Context) ([]domain.GalleryEvent, error) {
	return s.events.Featured(ctx, galleryFeaturedLimit)
}

// EventTypes returns each distinct event type with its count.
func (s *GalleryService) EventTypes(ctx context.Context) ([]domain.EventTypeCount, error) {
	return s.events.EventTypes(ctx)
}

// Get returns one event.
func (s *GalleryService) Get(ctx context.Context, id int64) (*domain.GalleryEvent, error) {
	e, err := s.events.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err, msgGalleryNotFound)
	}
	return e, nil
}

// Create inserts an event.
func (s *GalleryService) Create(ctx context.Context, in GalleryInput) (*domain.GalleryEvent, error) {
	title := strings.TrimSpace(in.Title)
	eventType := strings.TrimSpace(in.EventType)
	if title == "" || eventType == "" {
		return nil, apperrors.NewValidationError(msgGalleryRequired, nil)
	}
	e := &domain.GalleryEvent{
		Title:       title,
		EventType:   eventType,
		EventDate:   in.EventDate,
		Description: in.Description,
		ClientName:  in.ClientName,
		ImageURL:    in.ImageURL,
	}
	if err := s.events.Create(ctx, e); err != nil {
		return nil, err
	}
	s.logger.Info("gallery event created", zap.Int64("event_id", e.ID))
	return e, nil
}

// Update applies a partial update.
func (s *GalleryService) Update(ctx context.Context, id int64, patch repository.GalleryPatch) error {
	if patch.IsEmpty() {
		return apperrors.NewValidationError(msgNothingToUpdate, nil)
	}
	return apperrors.MapError(s.events.Update(ctx, id, patch), msgGalleryNotFound)
}

// Delete removes an event.
func (s *GalleryService) Delete(ctx context.Context, id int64) error {
	return apperrors.MapError(s.events.Delete(ctx, id), msgGalleryNotFound)
}

// Stats aggregates totals for the back office.
func (s *GalleryService) Stats(ctx context.Context) (*domain.GalleryStats, error) {
	var stats domain.GalleryStats
	since := s.clock().Add(-statsWindow)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := s.events.CountAll(gctx)
		stats.Total = n
		return err
	})
	g.Go(func() error {
		types, err := s.events.EventTypes(gctx)
		stats.ByType = types
		return err
	})
	g.Go(func() error {
		n, err := s.events.CountCreatedSince(gctx, since)
		stats.LastMonth = n
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}
