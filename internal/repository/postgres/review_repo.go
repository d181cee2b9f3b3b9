package pgrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lushlocks-backend/internal/domain"
)

type reviewRepository struct {
	db *pgxpool.Pool
}

func NewReviewRepository(db *pgxpool.Pool) domain.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rev *domain.Review) error {
	q := querierFrom(ctx, r.db)
	if rev.ID == "" {
		rev.ID = uuid.New().String()
	}
	err := q.QueryRow(ctx, `
		INSERT INTO reviews (id, product_id, user_id, rating, comment, verified_purchase)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`,
		rev.ID, rev.ProductID, rev.UserID, rev.Rating, rev.Comment, rev.VerifiedPurchase,
	).Scan(&rev.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("you have already reviewed this product")
		}
		return storageErr("create review", err)
	}
	return nil
}

func (r *reviewRepository) ExistsForUserAndProduct(ctx context.Context, userID, productID string) (bool, error) {
	q := querierFrom(ctx, r.db)
	var exists bool
	err := q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM reviews WHERE user_id = $1 AND product_id = $2)`,
		userID, productID).Scan(&exists)
	if err != nil {
		return false, storageErr("check review", err)
	}
	return exists, nil
}

const reviewListQuery = `
	SELECT r.id, r.product_id, r.user_id, u.first_name || ' ' || u.last_name,
	       r.rating, r.comment, r.verified_purchase, r.created_at
	FROM reviews r
	JOIN users u ON u.id = r.user_id`

func (r *reviewRepository) ListByProduct(ctx context.Context, productID string, limit, offset int) ([]domain.Review, int64, error) {
	q := querierFrom(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx,
		`SELECT count(*) FROM reviews WHERE product_id = $1`, productID).Scan(&total); err != nil {
		return nil, 0, storageErr("count reviews", err)
	}

	rows, err := q.Query(ctx,
		reviewListQuery+` WHERE r.product_id = $1 ORDER BY r.created_at DESC LIMIT $2 OFFSET $3`,
		productID, limit, offset)
	if err != nil {
		return nil, 0, storageErr("list reviews", err)
	}
	defer rows.Close()

	return collectReviews(rows, total)
}

func (r *reviewRepository) List(ctx context.Context, limit, offset int) ([]domain.Review, int64, error) {
	q := querierFrom(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT count(*) FROM reviews`).Scan(&total); err != nil {
		return nil, 0, storageErr("count reviews", err)
	}

	rows, err := q.Query(ctx,
		reviewListQuery+` ORDER BY r.created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, storageErr("list reviews", err)
	}
	defer rows.Close()

	return collectReviews(rows, total)
}

func collectReviews(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}, total int64) ([]domain.Review, int64, error) {
	var reviews []domain.Review
	for rows.Next() {
		var rev domain.Review
		if err := rows.Scan(&rev.ID, &rev.ProductID, &rev.UserID, &rev.UserName,
			&rev.Rating, &rev.Comment, &rev.VerifiedPurchase, &rev.CreatedAt); err != nil {
			return nil, 0, storageErr("scan review", err)
		}
		reviews = append(reviews, rev)
	}
	return reviews, total, rows.Err()
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	q := querierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete review", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("review not found")
	}
	return nil
}
