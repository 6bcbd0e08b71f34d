// Package mailer delivers outbound notification emails.
package mailer

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/snackparty/catering-api/internal/config"
)

// Message is one outbound email. An empty To goes to the admin address.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// TransportConfig describes one way of reaching the mail server.
type TransportConfig struct {
	Host          string        `json:"host"`
	Port          int           `json:"port"`
	Secure        bool          `json:"secure"`
	RequireTLS    bool          `json:"requireTLS"`
	ConnTimeout     time.Duration `json:"connectionTimeout"`
	GreetingTimeout time.Duration `json:"greetingTimeout"`
	SocketTimeout   time.Duration `json:"socketTimeout"`
}

// Budget is the total time allowed for dialing, the server greeting and I/O.
func (t TransportConfig) Budget() time.Duration {
	return t.ConnTimeout + t.GreetingTimeout + t.SocketTimeout
}

// Result reports the outcome of a send. Err is set when Success is false.
type Result struct {
	Success          bool
	MessageID        string
	Transport        TransportConfig
	RetryFromTimeout bool
	Err              error
}

// VerifyResult reports which transports answered a connectivity probe.
type VerifyResult struct {
	OK        bool             `json:"ok"`
	Transport *TransportConfig `json:"transport,omitempty"`
	Alternate bool             `json:"alternate"`
	Error     string           `json:"error,omitempty"`
}

// DebugInfo is the non-secret view of the mail configuration.
type DebugInfo struct {
	Provider       string          `json:"provider"`
	User           string          `json:"user"`
	PassConfigured bool            `json:"passConfigured"`
	AdminEmail     string          `json:"adminEmail"`
	From           string          `json:"from"`
	Connection     TransportConfig `json:"connection"`
}

// Sender delivers messages. Send never returns a Go error; failures are
// carried in the Result.
type Sender interface {
	Send(ctx context.Context, msg Message) Result
	Verify(ctx context.Context) VerifyResult
	DebugInfo() DebugInfo
}

// NewSender picks the delivery implementation configured by EMAIL_PROVIDER.
func NewSender(cfg config.EmailConfig, logger *zap.Logger) (Sender, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Provider {
	case "", "smtp":
		return NewSMTPSender(cfg, logger), nil
	case "mailersend":
		return NewMailerSendSender(cfg, logger)
	default:
		return nil, fmt.Errorf("unsupported email provider %q", cfg.Provider)
	}
}

// PrimaryTransport derives the first transport tried from configuration.
func PrimaryTransport(cfg config.EmailConfig) TransportConfig {
	return TransportConfig{
		Host:          cfg.Host,
		Port:          cfg.Port,
		Secure:        cfg.Secure,
		RequireTLS:    cfg.RequireTLS,
		ConnTimeout:     cfg.ConnectionTimeout,
		GreetingTimeout: cfg.GreetingTimeout,
		SocketTimeout:   cfg.SocketTimeout,
	}
}

// AlternateTransport flips the port used after a timeout. Port 465 falls back
// to STARTTLS on 587; anything else moves to implicit TLS on 465.
func AlternateTransport(primary TransportConfig) TransportConfig {
	alt := primary
	if primary.Port != 465 {
		alt.Port = 465
		alt.Secure = true
		return alt
	}
	alt.Port = 587
	alt.Secure = false
	alt.RequireTLS = true
	return alt
}

func debugInfo(cfg config.EmailConfig) DebugInfo {
	provider := cfg.Provider
	if provider == "" {
		provider = "smtp"
	}
	return DebugInfo{
		Provider:       provider,
		User:           cfg.User,
		PassConfigured: cfg.Password != "" || cfg.MailerSendAPIKey != "",
		AdminEmail:     cfg.AdminEmail,
		From:           cfg.From,
		Connection:     PrimaryTransport(cfg),
	}
}
