package domain

import (
	"context"
	"time"
)

// Payment is one row per attempted gateway payment for an order. At most one
// completed payment may exist per order; the notification handler enforces
// this with an idempotency check before applying side effects.
type Payment struct {
	ID               string    `json:"id"`
	OrderID          string    `json:"orderId"`
	Provider         string    `json:"provider"` // payfast
	Status           string    `json:"status"`   // pending, completed, failed, refunded
	Amount           float64   `json:"amount"`
	GatewayPaymentID *string   `json:"gatewayPaymentId,omitempty"` // pf_payment_id
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

type PaymentRepository interface {
	Create(ctx context.Context, p *Payment) error
	GetByID(ctx context.Context, id string) (*Payment, error)
	GetCompletedByOrder(ctx context.Context, orderID string) (*Payment, error)
	GetByOrderAndGatewayID(ctx context.Context, orderID, gatewayPaymentID string) (*Payment, error)
	GetLatestPendingByOrder(ctx context.Context, orderID string) (*Payment, error)
	UpdateStatus(ctx context.Context, id, status string, gatewayPaymentID *string) error
	ListByOrder(ctx context.Context, orderID string) ([]Payment, error)
}
