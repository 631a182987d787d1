package mail

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

type MailgunGateway struct {
	client    *mg.MailgunImpl
	fromEmail string
}

func NewMailgunGateway(domain, apiKey, fromEmail string) *MailgunGateway {
	return &MailgunGateway{
		client:    mg.NewMailgun(domain, apiKey),
		fromEmail: fromEmail,
	}
}

// SetAPIBase points the client at another endpoint (EU region, test servers)
func (g *MailgunGateway) SetAPIBase(url string) {
	g.client.SetAPIBase(url)
}

func (g *MailgunGateway) Send(ctx context.Context, to, subject, htmlBody string) error {
	msg := g.client.NewMessage(g.fromEmail, subject, "", to)
	msg.SetHtml(htmlBody)

	c, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, id, err := g.client.Send(c, msg)
	if err != nil {
		return fmt.Errorf("mailgun: %w", err)
	}

	slog.Info("email sent", "provider", "mailgun", "to", to, "subject", subject, "id", id)
	return nil
}
