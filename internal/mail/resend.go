package mail

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type ResendGateway struct {
	client    *resend.Client
	fromEmail string
}

func NewResendGateway(apiKey, fromEmail string) *ResendGateway {
	return &ResendGateway{
		client:    resend.NewClient(apiKey),
		fromEmail: fromEmail,
	}
}

func (g *ResendGateway) Send(ctx context.Context, to, subject, htmlBody string) error {
	params := &resend.SendEmailRequest{
		From:    g.fromEmail,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	}

	_, err := g.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend: %w", err)
	}

	slog.Info("email sent", "provider", "resend", "to", to, "subject", subject)
	return nil
}
