package domain

// Order lifecycle statuses
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
)

// Order payment statuses
const (
	OrderPaymentPending  = "pending"
	OrderPaymentPaid     = "paid"
	OrderPaymentFailed   = "failed"
	OrderPaymentRefunded = "refunded"
)

// Payment attempt statuses (one row per gateway attempt)
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// Return statuses
const (
	ReturnStatusRequested = "requested"
	ReturnStatusApproved  = "approved"
	ReturnStatusRejected  = "rejected"
	ReturnStatusRefunded  = "refunded"
)

// Discount types
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// List exports for the admin enums endpoint
var OrderStatuses = []string{
	OrderStatusPending,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

var OrderPaymentStatuses = []string{
	OrderPaymentPending,
	OrderPaymentPaid,
	OrderPaymentFailed,
	OrderPaymentRefunded,
}

var ReturnStatuses = []string{
	ReturnStatusRequested,
	ReturnStatusApproved,
	ReturnStatusRejected,
	ReturnStatusRefunded,
}
