package usecase

import (
	"context"
	"encoding/csv"
	"io"
	"net/mail"
	"strings"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/pkg/logger"
	"lushlocks-backend/pkg/mailer"
)

// NewsletterUsecase handles subscriptions and the admin CSV export.
type NewsletterUsecase struct {
	newsletterRepo domain.NewsletterRepository
	mail           mailer.Mailer
}

func NewNewsletterUsecase(newsletterRepo domain.NewsletterRepository, mail mailer.Mailer) *NewsletterUsecase {
	return &NewsletterUsecase{newsletterRepo: newsletterRepo, mail: mail}
}

// Subscribe is idempotent: an already-subscribed email succeeds quietly, and
// a previously unsubscribed one is reactivated. Only genuinely new
// subscribers get the welcome email.
func (uc *NewsletterUsecase) Subscribe(ctx context.Context, email string) (*domain.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.Validationf("enter a valid email address")
	}

	sub, isNew, err := uc.newsletterRepo.Subscribe(ctx, email)
	if err != nil {
		return nil, err
	}

	if isNew && uc.mail != nil {
		err := uc.mail.Send(ctx, &mailer.Email{
			To:      email,
			Subject: "Welcome to the LushLocks newsletter",
			Text:    "Thanks for subscribing! You'll be first to hear about new textures, lengths, and restocks.",
		})
		if err != nil {
			logger.Warn().Err(err).Msg("welcome email failed")
		}
	}
	return sub, nil
}

func (uc *NewsletterUsecase) Unsubscribe(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return domain.Validationf("email is required")
	}
	return uc.newsletterRepo.Unsubscribe(ctx, email)
}

// ExportCSV streams the active subscriber list as CSV.
func (uc *NewsletterUsecase) ExportCSV(ctx context.Context, w io.Writer) error {
	subs, err := uc.newsletterRepo.ListActive(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"email", "subscribed_at"}); err != nil {
		return domain.Internal("write csv", err)
	}
	for _, s := range subs {
		if err := cw.Write([]string{s.Email, s.SubscribedAt.Format("2006-01-02 15:04:05")}); err != nil {
			return domain.Internal("write csv", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return domain.Internal("flush csv", err)
	}
	return nil
}
