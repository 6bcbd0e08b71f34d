package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/snackparty/catering-api/internal/domain"
	"github.com/snackparty/catering-api/internal/events"
	"github.com/snackparty/catering-api/internal/report"
	"github.com/snackparty/catering-api/internal/repository"
	apperrors "github.com/snackparty/catering-api/pkg/util/errorutil"
	"github.com/snackparty/catering-api/pkg/util/pagination"
)

const (
	msgQuotationNotFound  = "Cotización no encontrada"
	msgMissingFields      = "Faltan campos obligatorios: direccion_evento, fecha_evento, tipo_evento, num_invitados"
	msgGuestCount         = "El número de invitados debe ser mayor a 0"
	msgGuestCountTooLarge = "El número de invitados excede el máximo permitido"
	msgPastDate           = "La fecha del evento no puede ser en el pasado"
	msgInvalidDate        = "fecha_evento debe tener formato YYYY-MM-DD"
	msgInvalidLine        = "Cada item debe tener id_item y cantidad válida"
	msgStatusRequired     = "Estado es obligatorio"
	msgStatusInvalid      = "Estado debe ser: Pendiente, Enviada, Aceptada o Rechazada"
	msgEmptySelection     = "Debes seleccionar al menos una fruta, chip o topping"
	msgOnlyPendingDelete  = `Solo se pueden eliminar cotizaciones con estado "Pendiente"`
	msgCannotDelete       = "No tienes permisos para eliminar esta cotización"
	msgCannotPersonalize  = "No tienes permisos para personalizar esta cotización"
	msgStaffOrAdminNeeded = "Se requieren permisos de staff o administrador"

	statsTopEventTypes = 5
	statsWindow        = 30 * 24 * time.Hour
)

// QuotationService coordinates quotation workflows.
type QuotationService struct {
	store      repository.TxRunner
	quotations repository.QuotationRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

// QuotationDependencies bundles collaborators for the quotation service.
type QuotationDependencies struct {
	Store      repository.TxRunner
	Quotations repository.QuotationRepository
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
	Clock      func() time.Time
}

// CreateQuotationInput describes a quotation request.
type CreateQuotationInput struct {
	EventAddress       string
	EventDate          string
	EventTime          *string
	EventType          string
	GuestCount         int
	SpecialRequests    *string
	Items              []domain.QuotationLine
	HasPersonalization bool
}

// QuotationListInput describes listing filters.
type QuotationListInput struct {
	Status string
	Page   pagination.Params
}

// PersonalizationInput carries the comma-joined snack selections.
type PersonalizationInput struct {
	Fruits   string
	Chips    string
	Toppings string
}

// NewQuotationService constructs the service.
func NewQuotationService(deps QuotationDependencies) *QuotationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &QuotationService{
		store:      deps.Store,
		quotations: deps.Quotations,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		now:        clock,
	}
}

// Create validates the request, then inserts the quotation and its line items
// in one transaction. The admin notification is published after commit.
func (s *QuotationService) Create(ctx context.Context, actor domain.Actor, in CreateQuotationInput) (*domain.Quotation, error) {
	q, err := s.newQuotation(actor, in)
	if err != nil {
		return nil, err
	}

	err = s.store.WithinTx(ctx, func(repos repository.TxRepositories) error {
		if err := repos.Quotations.Create(ctx, q); err != nil {
			return err
		}
		for _, line := range in.Items {
			if line.CatalogItemID <= 0 || line.Quantity <= 0 || line.Quantity > math.MaxInt32 {
				return apperrors.NewValidationError(msgInvalidLine, map[string]any{"id_item": line.CatalogItemID})
			}
			if line.CatalogItemID > math.MaxInt32 {
				return itemNotAvailable(line.CatalogItemID)
			}
			if _, err := repos.Catalog.GetActiveItem(ctx, line.CatalogItemID); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return itemNotAvailable(line.CatalogItemID)
				}
				return err
			}
			if err := repos.Quotations.AddItem(ctx, q.ID, line); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("quotation created",
		zap.Int64("quotation_id", q.ID),
		zap.Int64("user_id", actor.UserID),
		zap.Int("items", len(in.Items)))

	s.publishEvent(ctx, events.Event{
		Type:        events.EventQuotationCreated,
		QuotationID: q.ID,
		Actor:       actor,
		Payload: events.QuotationCreatedPayload{
			Quotation:          *q,
			ItemCount:          len(in.Items),
			HasPersonalization: in.HasPersonalization,
		},
	})
	return q, nil
}

func (s *QuotationService) newQuotation(actor domain.Actor, in CreateQuotationInput) (*domain.Quotation, error) {
	address := strings.TrimSpace(in.EventAddress)
	eventType := strings.TrimSpace(in.EventType)
	if address == "" || strings.TrimSpace(in.EventDate) == "" || eventType == "" || in.GuestCount == 0 {
		return nil, apperrors.NewValidationError(msgMissingFields, nil)
	}
	if in.GuestCount < 0 {
		return nil, apperrors.NewValidationError(msgGuestCount, nil)
	}
	if in.GuestCount > math.MaxInt32 {
		return nil, apperrors.NewValidationError(msgGuestCountTooLarge, nil)
	}
	date, err := domain.ParseEventDate(in.EventDate)
	if err != nil {
		return nil, apperrors.NewValidationError(msgInvalidDate, nil)
	}
	if domain.IsPastDate(date, s.now()) {
		return nil, apperrors.NewValidationError(msgPastDate, nil)
	}

	return &domain.Quotation{
		UserID:          actor.UserID,
		EventAddress:    address,
		EventDate:       date,
		EventTime:       trimmedOrNil(in.EventTime),
		EventType:       eventType,
		GuestCount:      in.GuestCount,
		SpecialRequests: trimmedOrNil(in.SpecialRequests),
		Status:          domain.QuotationStatusPending,
	}, nil
}

func itemNotAvailable(id int64) error {
	return apperrors.NewDomainError(
		"ITEM_NOT_AVAILABLE",
		fmt.Sprintf("Item con ID %d no encontrado o inactivo", id),
		http.StatusBadRequest,
		map[string]any{"id_item": id},
	)
}

// ListMine returns the caller's own quotations.
func (s *QuotationService) ListMine(ctx context.Context, actor domain.Actor, in QuotationListInput) ([]domain.Quotation, pagination.Meta, error) {
	ownerID := actor.UserID
	return s.list(ctx, &ownerID, in)
}

// ListAll returns every quotation with its owner. Staff and Admin only.
func (s *QuotationService) ListAll(ctx context.Context, actor domain.Actor, in QuotationListInput) ([]domain.Quotation, pagination.Meta, error) {
	if !actor.CanManage() {
		return nil, pagination.Meta{}, apperrors.NewForbidden(msgStaffOrAdminNeeded)
	}
	return s.list(ctx, nil, in)
}

func (s *QuotationService) list(ctx context.Context, ownerID *int64, in QuotationListInput) ([]domain.Quotation, pagination.Meta, error) {
	filter := repository.QuotationFilter{
		OwnerID: ownerID,
		Limit:   in.Page.Limit,
		Offset:  in.Page.Offset(),
	}
	if raw := strings.TrimSpace(in.Status); raw != "" {
		status, ok := domain.ParseQuotationStatus(raw)
		if !ok {
			return nil, pagination.Meta{}, apperrors.NewValidationError(msgStatusInvalid, nil)
		}
		filter.Status = &status
	}

	list, total, err := s.quotations.List(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return list, in.Page.MetaFor(total), nil
}

// Get fetches one quotation. Clients only see their own; other ids read as missing.
func (s *QuotationService) Get(ctx context.Context, actor domain.Actor, id int64) (*domain.Quotation, error) {
	var ownerID *int64
	if actor.IsClient() {
		ownerID = &actor.UserID
	}
	q, err := s.quotations.GetByID(ctx, id, ownerID)
	if err != nil {
		return nil, apperrors.MapError(err, msgQuotationNotFound)
	}
	return q, nil
}

// UpdateStatus moves a quotation to a new status. No notification is sent.
func (s *QuotationService) UpdateStatus(ctx context.Context, actor domain.Actor, id int64, raw string) (*domain.Quotation, error) {
	if !actor.CanManage() {
		return nil, apperrors.NewForbidden(msgStaffOrAdminNeeded)
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, apperrors.NewValidationError(msgStatusRequired, nil)
	}
	status, ok := domain.ParseQuotationStatus(raw)
	if !ok {
		return nil, apperrors.NewValidationError(msgStatusInvalid, nil)
	}

	q, err := s.quotations.GetByID(ctx, id, nil)
	if err != nil {
		return nil, apperrors.MapError(err, msgQuotationNotFound)
	}
	if !domain.CanTransition(q.Status, status) {
		return nil, apperrors.NewValidationError(msgStatusInvalid, map[string]any{"from": q.Status, "to": status})
	}
	if err := s.quotations.UpdateStatus(ctx, id, status); err != nil {
		return nil, apperrors.MapError(err, msgQuotationNotFound)
	}

	previous := q.Status
	q.Status = status
	s.publishEvent(ctx, events.Event{
		Type:        events.EventQuotationStatusChanged,
		QuotationID: id,
		Actor:       actor,
		Payload:     events.QuotationStatusChangedPayload{OldStatus: previous, NewStatus: status},
	})
	return q, nil
}

// Delete withdraws a pending quotation. Items and personalization cascade.
func (s *QuotationService) Delete(ctx context.Context, actor domain.Actor, id int64) error {
	q, err := s.quotations.GetByID(ctx, id, nil)
	if err != nil {
		return apperrors.MapError(err, msgQuotationNotFound)
	}
	if !actor.Owns(q.UserID) {
		return apperrors.NewForbidden(msgCannotDelete)
	}
	if !q.Deletable() {
		return apperrors.NewValidationError(msgOnlyPendingDelete, map[string]any{"estado": q.Status})
	}
	if err := s.quotations.Delete(ctx, id); err != nil {
		return apperrors.MapError(err, msgQuotationNotFound)
	}
	s.logger.Info("quotation deleted", zap.Int64("quotation_id", id), zap.Int64("user_id", actor.UserID))
	return nil
}

// SavePersonalization replaces the snack selections of a quotation. The
// notification is built from a fresh read so it carries the stored values.
func (s *QuotationService) SavePersonalization(ctx context.Context, actor domain.Actor, id int64, in PersonalizationInput) (*domain.SnackPersonalization, error) {
	q, err := s.quotations.GetByID(ctx, id, nil)
	if err != nil {
		return nil, apperrors.MapError(err, msgQuotationNotFound)
	}
	if !actor.Owns(q.UserID) {
		return nil, apperrors.NewForbidden(msgCannotPersonalize)
	}

	p := domain.NewSnackPersonalization(id, in.Fruits, in.Chips, in.Toppings)
	if p.IsEmpty() {
		return nil, apperrors.NewValidationError(msgEmptySelection, nil)
	}
	if err := s.quotations.UpsertPersonalization(ctx, p); err != nil {
		return nil, err
	}

	fresh, err := s.quotations.GetByID(ctx, id, nil)
	if err != nil {
		return nil, apperrors.MapError(err, msgQuotationNotFound)
	}
	saved, err := s.quotations.GetPersonalization(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err, msgQuotationNotFound)
	}
	stored := *saved
	fresh.Personalization = saved

	s.publishEvent(ctx, events.Event{
		Type:        events.EventPersonalizationSaved,
		QuotationID: id,
		Actor:       actor,
		Payload:     events.PersonalizationSavedPayload{Quotation: *fresh, Personalization: stored},
	})
	return &stored, nil
}

// GetPersonalization returns the stored selections, or nil when none exist.
func (s *QuotationService) GetPersonalization(ctx context.Context, actor domain.Actor, id int64) (*domain.SnackPersonalization, error) {
	q, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return q.Personalization, nil
}

// Stats aggregates quotation counts. The four reads run concurrently.
func (s *QuotationService) Stats(ctx context.Context, actor domain.Actor) (*domain.QuotationStats, error) {
	if !actor.CanManage() {
		return nil, apperrors.NewForbidden(msgStaffOrAdminNeeded)
	}

	var stats domain.QuotationStats
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		total, err := s.quotations.CountAll(gctx)
		stats.Total = total
		return err
	})
	g.Go(func() error {
		byStatus, err := s.quotations.CountByStatus(gctx)
		stats.ByStatus = byStatus
		return err
	})
	g.Go(func() error {
		byType, err := s.quotations.TopEventTypes(gctx, statsTopEventTypes)
		stats.ByEventType = byType
		return err
	})
	g.Go(func() error {
		recent, err := s.quotations.CountCreatedSince(gctx, s.now().Add(-statsWindow))
		stats.LastMonth = recent
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &stats, nil
}

// PDF renders a printable summary under the same visibility rule as Get.
func (s *QuotationService) PDF(ctx context.Context, actor domain.Actor, id int64) ([]byte, error) {
	q, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return report.QuotationPDF(q)
}

func (s *QuotationService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("publish event failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func trimmedOrNil(v *string) *string {
	if v == nil {
		return nil
	}
	t := strings.TrimSpace(*v)
	if t == "" {
		return nil
	}
	return &t
}
