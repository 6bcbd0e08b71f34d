package mailer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/mailersend/mailersend-go"
	"go.uber.org/zap"

	"github.com/snackparty/catering-api/internal/config"
)

var mailerSendTransport = TransportConfig{Host: "api.mailersend.com", Port: 443, Secure: true}

// MailerSendSender delivers mail through the MailerSend HTTP API.
type MailerSendSender struct {
	cfg    config.EmailConfig
	client *mailersend.Mailersend
	from   mailersend.From
	logger *zap.Logger
}

// NewMailerSendSender requires an API key and a from address.
func NewMailerSendSender(cfg config.EmailConfig, logger *zap.Logger) (*MailerSendSender, error) {
	if cfg.MailerSendAPIKey == "" || cfg.From == "" {
		return nil, errors.New("mailersend requires MAILERSEND_API_KEY and EMAIL_FROM")
	}
	return &MailerSendSender{
		cfg:    cfg,
		client: mailersend.NewMailersend(cfg.MailerSendAPIKey),
		from:   mailersend.From{Name: cfg.FromName, Email: cfg.From},
		logger: logger,
	}, nil
}

// Send posts the message to the API.
func (m *MailerSendSender) Send(ctx context.Context, msg Message) Result {
	to := msg.To
	if to == "" {
		to = m.cfg.AdminEmail
	}
	if to == "" {
		return Result{Transport: mailerSendTransport, Err: ErrNoRecipient}
	}

	out := m.client.Email.NewMessage()
	out.SetFrom(m.from)
	out.SetRecipients([]mailersend.Recipient{{Email: to}})
	out.SetSubject(msg.Subject)
	if strings.TrimSpace(msg.Text) != "" {
		out.SetText(msg.Text)
	}
	if strings.TrimSpace(msg.HTML) != "" {
		out.SetHTML(msg.HTML)
	}

	res, err := m.client.Email.Send(ctx, out)
	if err != nil {
		return Result{Transport: mailerSendTransport, Err: fmt.Errorf("mailersend send: %w", err)}
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		body, _ := io.ReadAll(res.Body)
		return Result{
			Transport: mailerSendTransport,
			Err:       fmt.Errorf("mailersend error: status=%d body=%s", res.StatusCode, strings.TrimSpace(string(body))),
		}
	}
	return Result{Success: true, MessageID: res.Header.Get("X-Message-Id"), Transport: mailerSendTransport}
}

// Verify reports the API as reachable when credentials are configured.
func (m *MailerSendSender) Verify(context.Context) VerifyResult {
	t := mailerSendTransport
	return VerifyResult{OK: m.client != nil, Transport: &t}
}

// DebugInfo returns the non-secret configuration.
func (m *MailerSendSender) DebugInfo() DebugInfo {
	info := debugInfo(m.cfg)
	info.Connection = mailerSendTransport
	return info
}
