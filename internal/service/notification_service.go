package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/snackparty/catering-api/internal/domain"
	"github.com/snackparty/catering-api/internal/events"
	"github.com/snackparty/catering-api/internal/mailer"
	"github.com/snackparty/catering-api/internal/observability"
	"github.com/snackparty/catering-api/internal/repository"
)

// NotificationService emails the admin when quotations change.
type NotificationService struct {
	dispatcher events.Dispatcher
	users      repository.UserRepository
	sender     mailer.Sender
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NotificationDependencies bundles collaborators for the notification service.
type NotificationDependencies struct {
	Dispatcher events.Dispatcher
	Users      repository.UserRepository
	Sender     mailer.Sender
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies) *NotificationService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: deps.Dispatcher,
		users:      deps.Users,
		sender:     deps.Sender,
		metrics:    deps.Metrics,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventQuotationCreated, n.handleQuotationCreated)
	n.dispatcher.Subscribe(events.EventQuotationStatusChanged, n.handleQuotationStatusChanged)
	n.dispatcher.Subscribe(events.EventPersonalizationSaved, n.handlePersonalizationSaved)
}

func (n *NotificationService) handleQuotationCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.QuotationCreatedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	q := payload.Quotation
	if q.Owner == nil {
		q.Owner = n.resolveOwner(ctx, q.UserID)
	}

	msg, err := mailer.QuotationCreatedEmail(q, payload.ItemCount, payload.HasPersonalization)
	if err != nil {
		return err
	}
	n.deliver(ctx, event, msg)
	return nil
}

// Status changes are logged only.
func (n *NotificationService) handleQuotationStatusChanged(_ context.Context, event events.Event) error {
	fields := []zap.Field{zap.Int64("quotation_id", event.QuotationID), zap.Int64("actor_id", event.Actor.UserID)}
	if payload, ok := event.Payload.(events.QuotationStatusChangedPayload); ok {
		fields = append(fields,
			zap.String("old_status", string(payload.OldStatus)),
			zap.String("new_status", string(payload.NewStatus)))
	}
	n.logger.Info("quotation status changed", fields...)
	return nil
}

func (n *NotificationService) handlePersonalizationSaved(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PersonalizationSavedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	msg, err := mailer.PersonalizationSavedEmail(payload.Quotation, payload.Personalization)
	if err != nil {
		return err
	}
	n.deliver(ctx, event, msg)
	return nil
}

// resolveOwner looks up the requester. A failed lookup still sends the email
// with placeholder contact fields.
func (n *NotificationService) resolveOwner(ctx context.Context, userID int64) *domain.QuotationOwner {
	if n.users == nil {
		return nil
	}
	user, err := n.users.GetByID(ctx, userID)
	if err != nil {
		n.logger.Warn("notification owner lookup failed", zap.Int64("user_id", userID), zap.Error(err))
		return nil
	}
	return &domain.QuotationOwner{FullName: user.FullName, Email: user.Email, Phone: user.Phone}
}

func (n *NotificationService) deliver(ctx context.Context, event events.Event, msg mailer.Message) {
	if n.sender == nil {
		n.logger.Debug("no mail sender configured", zap.Int64("quotation_id", event.QuotationID))
		return
	}
	res := n.sender.Send(ctx, msg)
	n.metrics.RecordEmail(string(event.Type), res.Success)

	fields := []zap.Field{
		zap.String("event_type", string(event.Type)),
		zap.Int64("quotation_id", event.QuotationID),
		zap.String("host", res.Transport.Host),
		zap.Int("port", res.Transport.Port),
		zap.Bool("retry_from_timeout", res.RetryFromTimeout),
	}
	if !res.Success {
		n.logger.Warn("admin notification failed", append(fields, zap.Error(res.Err))...)
		return
	}
	n.logger.Info("admin notification sent", append(fields, zap.String("message_id", res.MessageID))...)
}
