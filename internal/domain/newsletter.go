package domain

import (
	"context"
	"time"
)

type Subscriber struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	SubscribedAt   time.Time  `json:"subscribedAt"`
	UnsubscribedAt *time.Time `json:"unsubscribedAt,omitempty"`
}

func (s *Subscriber) Active() bool {
	return s.UnsubscribedAt == nil
}

type NewsletterRepository interface {
	// Subscribe upserts by email; re-subscribing clears unsubscribed_at.
	// Reports whether the email was newly subscribed.
	Subscribe(ctx context.Context, email string) (*Subscriber, bool, error)
	Unsubscribe(ctx context.Context, email string) error
	ListActive(ctx context.Context) ([]Subscriber, error)
}
