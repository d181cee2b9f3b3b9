package pgrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lushlocks-backend/internal/domain"
)

type newsletterRepository struct {
	db *pgxpool.Pool
}

func NewNewsletterRepository(db *pgxpool.Pool) domain.NewsletterRepository {
	return &newsletterRepository{db: db}
}

func (r *newsletterRepository) Subscribe(ctx context.Context, email string) (*domain.Subscriber, bool, error) {
	q := querierFrom(ctx, r.db)
	var s domain.Subscriber
	var updated bool
	// xmax <> 0 distinguishes the conflict-update path from a fresh insert.
	err := q.QueryRow(ctx, `
		INSERT INTO newsletter_subscribers (id, email)
		VALUES ($1, lower($2))
		ON CONFLICT (email)
		DO UPDATE SET unsubscribed_at = NULL
		RETURNING id, email, subscribed_at, unsubscribed_at, (xmax <> 0)`,
		uuid.New().String(), email,
	).Scan(&s.ID, &s.Email, &s.SubscribedAt, &s.UnsubscribedAt, &updated)
	if err != nil {
		return nil, false, storageErr("subscribe", err)
	}
	return &s, !updated, nil
}

func (r *newsletterRepository) Unsubscribe(ctx context.Context, email string) error {
	q := querierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE newsletter_subscribers
		SET unsubscribed_at = now()
		WHERE email = lower($1) AND unsubscribed_at IS NULL`,
		email)
	if err != nil {
		return storageErr("unsubscribe", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("email is not subscribed")
	}
	return nil
}

func (r *newsletterRepository) ListActive(ctx context.Context) ([]domain.Subscriber, error) {
	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT id, email, subscribed_at, unsubscribed_at
		FROM newsletter_subscribers
		WHERE unsubscribed_at IS NULL
		ORDER BY subscribed_at`)
	if err != nil {
		return nil, storageErr("list subscribers", err)
	}
	defer rows.Close()

	var subs []domain.Subscriber
	for rows.Next() {
		var s domain.Subscriber
		if err := rows.Scan(&s.ID, &s.Email, &s.SubscribedAt, &s.UnsubscribedAt); err != nil {
			return nil, storageErr("scan subscriber", err)
		}
		subs = append(subs, s)
	}
	return subs, rows.Err()
}
