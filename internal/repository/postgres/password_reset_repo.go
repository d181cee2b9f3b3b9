package pgrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lushlocks-backend/internal/domain"
)

type passwordResetRepository struct {
	db *pgxpool.Pool
}

func NewPasswordResetRepository(db *pgxpool.Pool) domain.PasswordResetRepository {
	return &passwordResetRepository{db: db}
}

func (r *passwordResetRepository) Save(ctx context.Context, token *domain.PasswordResetToken) error {
	q := querierFrom(ctx, r.db)
	if token.ID == "" {
		token.ID = uuid.New().String()
	}
	err := q.QueryRow(ctx, `
		INSERT INTO password_reset_tokens (id, user_id, token_hash, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`,
		token.ID, token.UserID, token.TokenHash, token.ExpiresAt,
	).Scan(&token.CreatedAt)
	if err != nil {
		return storageErr("save reset token", err)
	}
	return nil
}

func (r *passwordResetRepository) GetByHash(ctx context.Context, tokenHash string) (*domain.PasswordResetToken, error) {
	q := querierFrom(ctx, r.db)
	var t domain.PasswordResetToken
	err := q.QueryRow(ctx, `
		SELECT id, user_id, token_hash, expires_at, used_at, created_at
		FROM password_reset_tokens WHERE token_hash = $1`,
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &t.UsedAt, &t.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.Authf("invalid or expired reset token")
		}
		return nil, storageErr("get reset token", err)
	}
	return &t, nil
}

func (r *passwordResetRepository) MarkUsed(ctx context.Context, id string) error {
	q := querierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE password_reset_tokens
		SET used_at = now()
		WHERE id = $1 AND used_at IS NULL`,
		id)
	if err != nil {
		return storageErr("mark reset token used", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Authf("invalid or expired reset token")
	}
	return nil
}

func (r *passwordResetRepository) DeleteExpired(ctx context.Context) (int64, error) {
	q := querierFrom(ctx, r.db)
	tag, err := q.Exec(ctx,
		`DELETE FROM password_reset_tokens WHERE expires_at < now() OR used_at IS NOT NULL`)
	if err != nil {
		return 0, storageErr("delete expired reset tokens", err)
	}
	return tag.RowsAffected(), nil
}
