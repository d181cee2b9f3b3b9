package domain

import (
	"context"
	"time"
)

type Discount struct {
	ID          string     `json:"id"`
	Code        string     `json:"code"` // stored upper-cased
	Type        string     `json:"type"` // percentage, fixed
	Value       float64    `json:"value"`
	MinPurchase float64    `json:"minPurchase"`
	UsageLimit  *int       `json:"usageLimit,omitempty"`
	UsedCount   int        `json:"usedCount"`
	ExpiresAt   *time.Time `json:"expiresAt,omitempty"`
	IsActive    bool       `json:"isActive"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type DiscountRepository interface {
	Create(ctx context.Context, d *Discount) error
	Update(ctx context.Context, d *Discount) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Discount, error)
	GetByCode(ctx context.Context, code string) (*Discount, error)
	List(ctx context.Context, limit, offset int) ([]Discount, int64, error)

	// IncrementUsage bumps used_count only while it is still under the
	// limit; reports whether a row was updated. Called inside the checkout
	// transaction so the last remaining use cannot be double-spent.
	IncrementUsage(ctx context.Context, id string) (bool, error)
}
