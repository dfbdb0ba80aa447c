// Package mailer sends notification emails through the Resend API.
package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/resend/resend-go/v2"
	"go.uber.org/zap"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("mailer not configured")

// Sender delivers a single email.
type Sender interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Resend is a Sender backed by the Resend API.
type Resend struct {
	client *resend.Client
	from   string
	logger *zap.Logger
}

// NewResend creates a Resend sender. An empty apiKey yields a sender whose
// Send always fails with ErrNotConfigured; jobs then land in email_logs as
// failed instead of silently disappearing.
func NewResend(apiKey, fromName, fromAddress string, logger *zap.Logger) *Resend {
	if logger == nil {
		logger = zap.NewNop()
	}
	var client *resend.Client
	if apiKey != "" {
		client = resend.NewClient(apiKey)
	}
	return &Resend{
		client: client,
		from:   fmt.Sprintf("%s <%s>", fromName, fromAddress),
		logger: logger,
	}
}

// Send implements Sender.
func (r *Resend) Send(ctx context.Context, to, subject, htmlBody string) error {
	if r.client == nil {
		return ErrNotConfigured
	}
	params := &resend.SendEmailRequest{
		From:    r.from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
	}
	sent, err := r.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	r.logger.Debug("email sent", zap.String("email_id", sent.Id), zap.String("to", to))
	return nil
}
