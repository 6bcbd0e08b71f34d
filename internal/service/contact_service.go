package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/snackparty/catering-api/internal/mailer"
	"github.com/snackparty/catering-api/internal/observability"
	apperrors "github.com/snackparty/catering-api/pkg/util/errorutil"
)

const (
	msgContactRequired = "Todos los campos son obligatorios"
	msgContactSent     = "Mensaje enviado correctamente"
	emailKindContact   = "contact"
)

// ContactService forwards contact-form messages to the admin.
type ContactService struct {
	sender  mailer.Sender
	metrics *observability.Metrics
	logger  *zap.Logger
}

// ContactResult reports whether the admin email went out.
type ContactResult struct {
	Message   string
	EmailSent bool
}

// EmailDiagnostics is the admin view of the mail transport.
type EmailDiagnostics struct {
	Debug  mailer.DebugInfo
	Verify mailer.VerifyResult
}

// NewContactService creates the service.
func NewContactService(sender mailer.Sender, metrics *observability.Metrics, logger *zap.Logger) *ContactService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContactService{sender: sender, metrics: metrics, logger: logger}
}

// Submit sends the message synchronously. Delivery failures are reported in
// the result and never returned as errors.
func (s *ContactService) Submit(ctx context.Context, form mailer.ContactForm) (*ContactResult, error) {
	form.Name = strings.TrimSpace(form.Name)
	form.Email = strings.TrimSpace(form.Email)
	if form.Name == "" || form.Email == "" || strings.TrimSpace(form.Message) == "" {
		return nil, apperrors.NewValidationError(msgContactRequired, nil)
	}

	result := &ContactResult{Message: msgContactSent}
	if s.sender == nil {
		s.logger.Warn("contact message dropped: no mail sender configured")
		return result, nil
	}

	msg, err := mailer.ContactEmail(form)
	if err != nil {
		s.logger.Error("render contact email", zap.Error(err))
		return result, nil
	}
	res := s.sender.Send(ctx, msg)
	s.metrics.RecordEmail(emailKindContact, res.Success)
	if !res.Success {
		s.logger.Warn("contact email failed", zap.Error(res.Err), zap.Bool("retry_from_timeout", res.RetryFromTimeout))
	}
	result.EmailSent = res.Success
	return result, nil
}

// Diagnostics returns the transport settings and a live connection check.
func (s *ContactService) Diagnostics(ctx context.Context) (*EmailDiagnostics, error) {
	if s.sender == nil {
		return nil, apperrors.NewUnavailable("Servicio de correo no configurado", nil)
	}
	return &EmailDiagnostics{Debug: s.sender.DebugInfo(), Verify: s.sender.Verify(ctx)}, nil
}
