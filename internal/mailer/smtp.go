package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	gomail "github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/snackparty/catering-api/internal/config"
)

// ErrNoRecipient is returned when neither the message nor the config name a recipient.
var ErrNoRecipient = errors.New("no recipient configured")

type deliverFunc func(ctx context.Context, transport TransportConfig, msg *gomail.Msg) error

type probeFunc func(ctx context.Context, transport TransportConfig) error

// SMTPSender delivers mail over SMTP. A timeout on the primary transport is
// retried once on the alternate port.
type SMTPSender struct {
	cfg     config.EmailConfig
	primary TransportConfig
	logger  *zap.Logger
	deliver deliverFunc
	probe   probeFunc
}

// NewSMTPSender creates a sender dialing the configured host.
func NewSMTPSender(cfg config.EmailConfig, logger *zap.Logger) *SMTPSender {
	s := &SMTPSender{
		cfg:     cfg,
		primary: PrimaryTransport(cfg),
		logger:  logger,
	}
	s.deliver = s.dialAndSend
	s.probe = s.dial
	return s
}

// Send builds the message and delivers it, flipping ports once on timeout.
func (s *SMTPSender) Send(ctx context.Context, m Message) Result {
	msg, err := s.buildMessage(m)
	if err != nil {
		return Result{Transport: s.primary, Err: err}
	}

	err = s.deliver(ctx, s.primary, msg)
	if err == nil {
		return Result{Success: true, MessageID: msg.GetMessageID(), Transport: s.primary}
	}
	if !isTimeout(err) {
		return Result{Transport: s.primary, Err: err}
	}

	alt := AlternateTransport(s.primary)
	s.logger.Warn("smtp timeout, retrying on alternate port",
		zap.Int("port", s.primary.Port),
		zap.Int("alternate_port", alt.Port),
		zap.Error(err))
	if altErr := s.deliver(ctx, alt, msg); altErr != nil {
		return Result{
			Transport:        alt,
			RetryFromTimeout: true,
			Err:              fmt.Errorf("primary: %v; alternate: %w", err, altErr),
		}
	}
	return Result{Success: true, MessageID: msg.GetMessageID(), Transport: alt, RetryFromTimeout: true}
}

// Verify dials the primary transport and then the alternate one.
func (s *SMTPSender) Verify(ctx context.Context) VerifyResult {
	primaryErr := s.probe(ctx, s.primary)
	if primaryErr == nil {
		t := s.primary
		return VerifyResult{OK: true, Transport: &t}
	}
	alt := AlternateTransport(s.primary)
	if err := s.probe(ctx, alt); err != nil {
		return VerifyResult{Error: fmt.Sprintf("primary: %v; alternate: %v", primaryErr, err)}
	}
	return VerifyResult{OK: true, Transport: &alt, Alternate: true}
}

// DebugInfo returns the non-secret configuration.
func (s *SMTPSender) DebugInfo() DebugInfo {
	return debugInfo(s.cfg)
}

func (s *SMTPSender) buildMessage(m Message) (*gomail.Msg, error) {
	to := m.To
	if to == "" {
		to = s.cfg.AdminEmail
	}
	if to == "" {
		return nil, ErrNoRecipient
	}

	msg := gomail.NewMsg()
	if err := msg.FromFormat(s.cfg.FromName, s.cfg.From); err != nil {
		return nil, fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return nil, fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(m.Subject)
	msg.SetMessageID()
	msg.SetBodyString(gomail.TypeTextHTML, m.HTML)
	if m.Text != "" {
		msg.AddAlternativeString(gomail.TypeTextPlain, m.Text)
	}
	return msg, nil
}

func (s *SMTPSender) newClient(t TransportConfig) (*gomail.Client, error) {
	opts := []gomail.Option{
		gomail.WithTimeout(t.Budget()),
		gomail.WithTLSConfig(&tls.Config{
			ServerName:         t.Host,
			InsecureSkipVerify: !s.cfg.TLSRejectUnauthorized, //nolint:gosec // opt-out via EMAIL_TLS_REJECT_UNAUTHORIZED
			MinVersion:         tls.VersionTLS12,
		}),
	}
	switch {
	case t.Secure:
		opts = append(opts, gomail.WithSSL())
	case t.RequireTLS:
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSMandatory))
	default:
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}
	if s.cfg.User != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(s.cfg.User),
			gomail.WithPassword(s.cfg.Password),
		)
	}
	opts = append(opts, gomail.WithPort(t.Port))

	client, err := gomail.NewClient(t.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}
	return client, nil
}

func (s *SMTPSender) dialAndSend(ctx context.Context, t TransportConfig, msg *gomail.Msg) error {
	client, err := s.newClient(t)
	if err != nil {
		return err
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

func (s *SMTPSender) dial(ctx context.Context, t TransportConfig) error {
	client, err := s.newClient(t)
	if err != nil {
		return err
	}
	if err := client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	return client.Close()
}

// isTimeout reports whether err looks like a connect or socket timeout.
func isTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "timeout") ||
		strings.Contains(msg, "timed out") ||
		strings.Contains(msg, "etimedout")
}
