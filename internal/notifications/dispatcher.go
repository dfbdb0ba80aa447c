// Package notifications is the boundary between lifecycle transitions and
// email delivery. A dispatch is attempted at most once per transition; its
// outcome is reported to the caller as data and never rolls back the
// already-committed status update.
package notifications

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/talentbridge/backend/internal/models"
	"github.com/talentbridge/backend/pkg/queue"
)

// Kind of lifecycle notification.
type Kind string

const (
	KindShortlisted Kind = "Shortlisted"
	KindRejected    Kind = "Rejected"
)

// Recipient is the applicant/registrant being notified.
type Recipient struct {
	Email    string
	FullName string
}

// Meta carries the transition context for the email body and audit log.
// Exactly one of OpportunityID/EventID is set.
type Meta struct {
	OpportunityID *uuid.UUID
	EventID       *uuid.UUID
	Title         string
}

// Dispatcher is the notification boundary exposed to lifecycle handlers.
type Dispatcher interface {
	// Notify reports whether the notification was accepted for delivery.
	Notify(ctx context.Context, kind Kind, recipient Recipient, meta Meta) bool
}

type enqueuer interface {
	EnqueueEmail(ctx context.Context, payload queue.EmailPayload) error
}

type logStore interface {
	Create(ctx context.Context, log *models.EmailLog) error
	MarkFailed(ctx context.Context, id uuid.UUID, errMsg string) error
}

// EmailDispatcher records an email log and hands the send to the worker
// queue. Failures are logged and surface only as a false return.
type EmailDispatcher struct {
	repo   logStore
	queue  enqueuer
	logger *zap.Logger
}

// NewEmailDispatcher creates the queue-backed dispatcher.
func NewEmailDispatcher(repo logStore, q enqueuer, logger *zap.Logger) *EmailDispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmailDispatcher{repo: repo, queue: q, logger: logger}
}

// Notify implements Dispatcher.
func (d *EmailDispatcher) Notify(ctx context.Context, kind Kind, recipient Recipient, meta Meta) bool {
	emailType, subject, body := compose(kind, recipient, meta)

	log := &models.EmailLog{
		EventID:        meta.EventID,
		OpportunityID:  meta.OpportunityID,
		EmailType:      emailType,
		RecipientEmail: recipient.Email,
		Subject:        subject,
	}
	if err := d.repo.Create(ctx, log); err != nil {
		d.logger.Error("email log insert failed", zap.Error(err), zap.String("recipient", recipient.Email))
		return false
	}

	err := d.queue.EnqueueEmail(ctx, queue.EmailPayload{
		EmailLogID:     log.ID,
		EmailType:      emailType,
		RecipientEmail: recipient.Email,
		RecipientName:  recipient.FullName,
		Subject:        subject,
		BodyHTML:       body,
	})
	if err != nil {
		d.logger.Error("email enqueue failed", zap.Error(err), zap.String("email_log_id", log.ID.String()))
		_ = d.repo.MarkFailed(ctx, log.ID, "enqueue failed")
		return false
	}
	return true
}

func compose(kind Kind, recipient Recipient, meta Meta) (emailType, subject, body string) {
	name := recipient.FullName
	if name == "" {
		name = "there"
	}
	switch kind {
	case KindShortlisted:
		emailType = models.EmailTypeShortlisted
		subject = fmt.Sprintf("You have been shortlisted for %s", meta.Title)
		body = fmt.Sprintf("<p>Hi %s,</p><p>Good news: you have been shortlisted for <b>%s</b>. The team will be in touch with next steps.</p>", name, meta.Title)
	default:
		emailType = models.EmailTypeRejected
		subject = fmt.Sprintf("Update on your application for %s", meta.Title)
		body = fmt.Sprintf("<p>Hi %s,</p><p>Thank you for applying to <b>%s</b>. Unfortunately your application was not selected this time.</p>", name, meta.Title)
	}
	return emailType, subject, body
}
