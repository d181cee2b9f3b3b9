package domain

import (
	"context"
	"time"
)

type Return struct {
	ID           string       `json:"id"`
	OrderID      string       `json:"orderId"`
	UserID       string       `json:"userId"`
	Reason       string       `json:"reason"`
	Status       string       `json:"status"` // requested, approved, rejected, refunded
	RefundAmount float64      `json:"refundAmount"`
	Items        []ReturnItem `json:"items"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

type ReturnItem struct {
	ID          string `json:"id"`
	ReturnID    string `json:"returnId"`
	OrderItemID string `json:"orderItemId"`
	Quantity    int    `json:"quantity"`
}

// Terminal reports whether the return can no longer change.
func (r *Return) Terminal() bool {
	return r.Status == ReturnStatusRejected || r.Status == ReturnStatusRefunded
}

type ReturnFilter struct {
	Page   int
	Limit  int
	Status string
}

type ReturnRepository interface {
	Create(ctx context.Context, ret *Return) error
	GetByID(ctx context.Context, id string) (*Return, error)
	// GetActiveByOrder returns nil, nil when the order has no open
	// (requested/approved) return.
	GetActiveByOrder(ctx context.Context, orderID string) (*Return, error)
	GetByUserID(ctx context.Context, userID string) ([]Return, error)
	List(ctx context.Context, filter ReturnFilter) ([]Return, int64, error)
	UpdateStatus(ctx context.Context, id, status string) error
	SetRefund(ctx context.Context, id string, amount float64) error
}
