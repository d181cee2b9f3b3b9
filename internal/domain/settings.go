package domain

import (
	"context"
	"time"
)

// ShippingRate is an admin-managed flat rate per delivery zone.
type ShippingRate struct {
	ID        int32     `json:"id"`
	Key       string    `json:"key"` // e.g. "local", "national"
	Label     string    `json:"label"`
	Cost      float64   `json:"cost"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type SettingsRepository interface {
	GetActiveShippingRates(ctx context.Context) ([]ShippingRate, error)
	GetAllShippingRates(ctx context.Context) ([]ShippingRate, error)
	GetShippingRateByKey(ctx context.Context, key string) (*ShippingRate, error)
	CreateShippingRate(ctx context.Context, rate *ShippingRate) (*ShippingRate, error)
	UpdateShippingRate(ctx context.Context, rate *ShippingRate) (*ShippingRate, error)
	DeleteShippingRate(ctx context.Context, id int32) error
}

// TransactionManager runs fn inside a single database transaction; any error
// rolls the whole unit back.
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}
