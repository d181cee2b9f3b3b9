// Package mailer sends transactional email via the Resend API.
package mailer

import (
	"context"
	"fmt"

	resend "github.com/resend/resend-go/v3"
)

type Email struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// Mailer is the outbound email port. Usecases depend on this, not on Resend.
type Mailer interface {
	Send(ctx context.Context, email *Email) error
}

// ResendMailer implements Mailer on top of resend-go.
type ResendMailer struct {
	from   string
	client *resend.Client
}

func NewResendMailer(apiKey, from string) *ResendMailer {
	return &ResendMailer{
		from:   from,
		client: resend.NewClient(apiKey),
	}
}

func (m *ResendMailer) Send(ctx context.Context, email *Email) error {
	if email == nil {
		return fmt.Errorf("email is required")
	}
	if m.client == nil {
		return fmt.Errorf("resend client not configured")
	}

	params := &resend.SendEmailRequest{
		From:    m.from,
		To:      []string{email.To},
		Subject: email.Subject,
	}
	if email.HTML != "" {
		params.Html = email.HTML
	}
	if email.Text != "" {
		params.Text = email.Text
	}
	if params.Html == "" && params.Text == "" {
		return fmt.Errorf("email body is empty")
	}

	if _, err := m.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email via resend: %w", err)
	}
	return nil
}
