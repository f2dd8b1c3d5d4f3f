package delivery

import (
	"context"
	"errors"
	"fmt"
	"html"

	"github.com/dmitrymomot/notifier/pkg/email"
	"github.com/dmitrymomot/notifier/pkg/notification"
)

// ErrNoAddress indicates the recipient's email address could not be resolved.
var ErrNoAddress = errors.New("delivery.errors.no_address")

// AddressResolver maps a user ID to a deliverable email address.
// The notifier stores users by opaque ID; the owning application knows the
// addresses.
type AddressResolver func(ctx context.Context, userID string) (string, error)

// EmailSink delivers drafts through an EmailSender. Send returns nil only
// when the sender acknowledged the message, which is the signal the
// resolution engine requires before persisting an email notification.
type EmailSink struct {
	sender  email.EmailSender
	resolve AddressResolver
}

// NewEmailSink creates a sink sending through sender to addresses resolved
// by resolve.
func NewEmailSink(sender email.EmailSender, resolve AddressResolver) *EmailSink {
	return &EmailSink{sender: sender, resolve: resolve}
}

func (s *EmailSink) Send(ctx context.Context, draft notification.Draft) error {
	addr, err := s.resolve(ctx, draft.UserID)
	if err != nil {
		return errors.Join(ErrNoAddress, err)
	}
	if addr == "" {
		return ErrNoAddress
	}

	subject := draft.Title
	if subject == "" {
		subject = "Notification"
	}

	if err := s.sender.SendEmail(ctx, email.SendEmailParams{
		SendTo:   addr,
		Subject:  subject,
		BodyHTML: renderBody(draft),
		Tag:      string(draft.EventType),
	}); err != nil {
		return errors.Join(ErrSinkFailure, err)
	}
	return nil
}

func renderBody(draft notification.Draft) string {
	body := "<h2>" + html.EscapeString(draft.Title) + "</h2>"
	if draft.Description != "" {
		body += fmt.Sprintf("<p>%s</p>", html.EscapeString(draft.Description))
	}
	return body
}
