package domain

import (
	"context"
	"time"
)

type Review struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"productId"`
	UserID           string    `json:"userId"`
	UserName         string    `json:"userName,omitempty"`
	Rating           int       `json:"rating"` // 1..5
	Comment          string    `json:"comment"`
	VerifiedPurchase bool      `json:"verifiedPurchase"`
	CreatedAt        time.Time `json:"createdAt"`
}

type ReviewRepository interface {
	Create(ctx context.Context, r *Review) error
	ExistsForUserAndProduct(ctx context.Context, userID, productID string) (bool, error)
	ListByProduct(ctx context.Context, productID string, limit, offset int) ([]Review, int64, error)
	List(ctx context.Context, limit, offset int) ([]Review, int64, error)
	Delete(ctx context.Context, id string) error
}
