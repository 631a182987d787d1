// Package mail delivers outbound HTML email through a configurable provider.
package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/duong1906ltv/website/internal/config"
)

// Gateway sends a single HTML email
type Gateway interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// NewGateway creates a mail gateway based on configuration
func NewGateway(cfg *config.Config) (Gateway, error) {
	provider := cfg.MailProvider

	slog.Info("initializing mail gateway", "provider", provider)

	switch provider {
	case config.MailProviderResend:
		if cfg.ResendAPIKey == "" {
			return nil, fmt.Errorf("RESEND_API_KEY is required when using Resend provider")
		}
		return NewResendGateway(cfg.ResendAPIKey, cfg.MailFrom), nil

	case config.MailProviderMailgun:
		if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" {
			return nil, fmt.Errorf("MAILGUN_DOMAIN and MAILGUN_API_KEY are required when using Mailgun provider")
		}
		return NewMailgunGateway(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailFrom), nil

	case config.MailProviderLog:
		return NewLogGateway(), nil

	default:
		return nil, fmt.Errorf("unknown mail provider: %s (supported: log, resend, mailgun)", provider)
	}
}
