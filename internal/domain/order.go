package domain

import (
	"context"
	"time"
)

type OrderFilter struct {
	Page          int
	Limit         int
	Status        string
	PaymentStatus string
	Search        string
}

type Order struct {
	ID          string `json:"id"`
	OrderNumber string `json:"orderNumber"` // ORD-YYYYMMDD-XXXX
	UserID      string `json:"userId"`
	User        User   `json:"user,omitempty"`

	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	Tax            float64 `json:"tax"`
	ShippingCost   float64 `json:"shippingCost"`
	Total          float64 `json:"total"`
	DiscountCode   *string `json:"discountCode,omitempty"`

	Status        string `json:"status"`        // pending, processing, shipped, delivered, cancelled
	PaymentStatus string `json:"paymentStatus"` // pending, paid, failed, refunded

	ShippingAddress JSONB  `json:"shippingAddress"` // snapshot at checkout
	CustomerNotes   string `json:"customerNotes,omitempty"`

	PaidAt      *time.Time `json:"paidAt,omitempty"`
	ShippedAt   *time.Time `json:"shippedAt,omitempty"`
	DeliveredAt *time.Time `json:"deliveredAt,omitempty"`
	CancelledAt *time.Time `json:"cancelledAt,omitempty"`

	Items     []OrderItem `json:"items"`
	CreatedAt time.Time   `json:"createdAt"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// OrderItem is an immutable snapshot taken at order creation; later price or
// attribute changes on the live variant never touch it.
type OrderItem struct {
	ID           string  `json:"id"`
	OrderID      string  `json:"orderId"`
	VariantID    string  `json:"variantId"`
	ProductName  string  `json:"productName"`
	Texture      string  `json:"texture"`
	Length       string  `json:"length"`
	Color        string  `json:"color"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	LineSubtotal float64 `json:"lineSubtotal"`
}

type OrderHistory struct {
	ID             string    `json:"id"`
	OrderID        string    `json:"orderId"`
	PreviousStatus *string   `json:"previousStatus"`
	NewStatus      string    `json:"newStatus"`
	Reason         *string   `json:"reason"`
	CreatedBy      *string   `json:"createdBy"`
	CreatedAt      time.Time `json:"createdAt"`
}

type OrderRepository interface {
	// Create inserts the order row and its item snapshots. Must run inside
	// the checkout transaction.
	Create(ctx context.Context, order *Order) error

	// NextOrderSequence atomically allocates the next per-day sequence via a
	// counter row (insert-or-increment, single statement). Safe under
	// concurrent checkouts when called inside the same transaction as Create.
	NextOrderSequence(ctx context.Context, day time.Time) (int, error)

	GetByID(ctx context.Context, id string) (*Order, error)
	GetByOrderNumber(ctx context.Context, number string) (*Order, error)
	GetByUserID(ctx context.Context, userID string) ([]Order, error)
	GetAll(ctx context.Context, filter OrderFilter) ([]Order, int64, error)

	UpdateStatus(ctx context.Context, id, status string, at time.Time) error
	UpdatePaymentStatus(ctx context.Context, id, paymentStatus string, paidAt *time.Time) error

	CreateHistory(ctx context.Context, h *OrderHistory) error
	GetHistory(ctx context.Context, orderID string) ([]OrderHistory, error)

	HasPurchasedProduct(ctx context.Context, userID, productID string) (bool, error)
}
