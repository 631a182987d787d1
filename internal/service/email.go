package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/duong1906ltv/website/internal/mail"
	"github.com/duong1906ltv/website/internal/metrics"
	"github.com/duong1906ltv/website/internal/model"
)

type EmailService struct {
	gateway mail.Gateway
	appURL  string
	appName string
}

func NewEmailService(gateway mail.Gateway, appURL, appName string) *EmailService {
	return &EmailService{
		gateway: gateway,
		appURL:  strings.TrimSuffix(appURL, "/"),
		appName: appName,
	}
}

// ConfirmURL is the absolute link embedded in confirmation emails
func (s *EmailService) ConfirmURL(token string) string {
	return fmt.Sprintf("%s/confirm/%s", s.appURL, token)
}

// ResetURL is the absolute link embedded in password reset emails
func (s *EmailService) ResetURL(token string) string {
	return fmt.Sprintf("%s/reset/%s", s.appURL, token)
}

func (s *EmailService) SendConfirmationEmail(ctx context.Context, user *model.User, token string, expiry time.Duration) error {
	subject, body, err := confirmEmailContent(emailData{
		AppName:  s.appName,
		Username: user.Username,
		URL:      s.ConfirmURL(token),
		Expiry:   humanDuration(expiry),
	})
	if err != nil {
		return err
	}

	err = s.gateway.Send(ctx, user.Email, subject, body)
	metrics.EmailsSent.WithLabelValues("confirm_email", metrics.Outcome(err)).Inc()
	if err != nil {
		return transportError(ErrMailDelivery, err)
	}

	slog.Info("email sent", "type", "confirm_email", "user_id", user.ID)
	return nil
}

func (s *EmailService) SendPasswordResetEmail(ctx context.Context, user *model.User, token string, expiry time.Duration) error {
	subject, body, err := resetPasswordEmailContent(emailData{
		AppName:  s.appName,
		Username: user.Username,
		URL:      s.ResetURL(token),
		Expiry:   humanDuration(expiry),
	})
	if err != nil {
		return err
	}

	err = s.gateway.Send(ctx, user.Email, subject, body)
	metrics.EmailsSent.WithLabelValues("reset_password", metrics.Outcome(err)).Inc()
	if err != nil {
		return transportError(ErrMailDelivery, err)
	}

	slog.Info("email sent", "type", "reset_password", "user_id", user.ID)
	return nil
}

// humanDuration renders 1h as "1 hour", 90m as "90 minutes"
func humanDuration(d time.Duration) string {
	switch {
	case d >= time.Hour && d%time.Hour == 0:
		if h := int(d / time.Hour); h != 1 {
			return fmt.Sprintf("%d hours", h)
		}
		return "1 hour"
	case d >= time.Minute:
		if m := int(d / time.Minute); m != 1 {
			return fmt.Sprintf("%d minutes", m)
		}
		return "1 minute"
	default:
		return d.String()
	}
}
