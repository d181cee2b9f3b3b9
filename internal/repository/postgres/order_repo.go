package pgrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lushlocks-backend/internal/domain"
)

type orderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) domain.OrderRepository {
	return &orderRepository{db: db}
}

// NextOrderSequence allocates the next per-day sequence with one atomic
// insert-or-increment, so concurrent checkouts on the same day can never
// observe the same value.
func (r *orderRepository) NextOrderSequence(ctx context.Context, day time.Time) (int, error) {
	q := querierFrom(ctx, r.db)
	var seq int
	err := q.QueryRow(ctx, `
		INSERT INTO order_sequences (day, last_seq)
		VALUES ($1, 1)
		ON CONFLICT (day)
		DO UPDATE SET last_seq = order_sequences.last_seq + 1
		RETURNING last_seq`,
		day.Format("2006-01-02"),
	).Scan(&seq)
	if err != nil {
		return 0, storageErr("allocate order sequence", err)
	}
	return seq, nil
}

func (r *orderRepository) Create(ctx context.Context, order *domain.Order) error {
	q := querierFrom(ctx, r.db)
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	addr, _ := json.Marshal(order.ShippingAddress)

	err := q.QueryRow(ctx, `
		INSERT INTO orders (id, order_number, user_id, subtotal, discount_amount, tax,
		                    shipping_cost, total, discount_code, status, payment_status,
		                    shipping_address, customer_notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`,
		order.ID, order.OrderNumber, order.UserID,
		order.Subtotal, order.DiscountAmount, order.Tax,
		order.ShippingCost, order.Total, order.DiscountCode,
		order.Status, order.PaymentStatus, addr, order.CustomerNotes,
	).Scan(&order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("order number '%s' already exists", order.OrderNumber)
		}
		return storageErr("create order", err)
	}

	for i := range order.Items {
		item := &order.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.OrderID = order.ID
		_, err := q.Exec(ctx, `
			INSERT INTO order_items (id, order_id, variant_id, product_name, texture,
			                         length, color, quantity, unit_price, line_subtotal)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			item.ID, item.OrderID, item.VariantID, item.ProductName, item.Texture,
			item.Length, item.Color, item.Quantity, item.UnitPrice, item.LineSubtotal,
		)
		if err != nil {
			return storageErr("create order item", err)
		}
	}
	return nil
}

const orderCols = `id, order_number, user_id, subtotal, discount_amount, tax, shipping_cost,
	total, discount_code, status, payment_status, shipping_address, customer_notes,
	paid_at, shipped_at, delivered_at, cancelled_at, created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (*domain.Order, error) {
	var o domain.Order
	var addr []byte
	if err := row.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.Subtotal, &o.DiscountAmount,
		&o.Tax, &o.ShippingCost, &o.Total, &o.DiscountCode, &o.Status, &o.PaymentStatus,
		&addr, &o.CustomerNotes, &o.PaidAt, &o.ShippedAt, &o.DeliveredAt, &o.CancelledAt,
		&o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	if len(addr) > 0 {
		_ = json.Unmarshal(addr, &o.ShippingAddress)
	}
	return &o, nil
}

func (r *orderRepository) getItems(ctx context.Context, orderID string) ([]domain.OrderItem, error) {
	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT id, order_id, variant_id, product_name, texture, length, color,
		       quantity, unit_price, line_subtotal
		FROM order_items WHERE order_id = $1`,
		orderID)
	if err != nil {
		return nil, storageErr("get order items", err)
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.VariantID, &it.ProductName,
			&it.Texture, &it.Length, &it.Color, &it.Quantity, &it.UnitPrice, &it.LineSubtotal); err != nil {
			return nil, storageErr("scan order item", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *orderRepository) GetByOrderNumber(ctx context.Context, number string) (*domain.Order, error) {
	return r.getOne(ctx, "order_number = $1", number)
}

func (r *orderRepository) getOne(ctx context.Context, where string, arg any) (*domain.Order, error) {
	q := querierFrom(ctx, r.db)
	o, err := scanOrder(q.QueryRow(ctx, "SELECT "+orderCols+" FROM orders WHERE "+where, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NotFoundf("order not found")
		}
		return nil, storageErr("get order", err)
	}
	items, err := r.getItems(ctx, o.ID)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (r *orderRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Order, error) {
	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		"SELECT "+orderCols+" FROM orders WHERE user_id = $1 ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, storageErr("list orders", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, storageErr("scan order", err)
		}
		orders = append(orders, *o)
	}
	if rows.Err() != nil {
		return nil, storageErr("list orders", rows.Err())
	}

	for i := range orders {
		items, err := r.getItems(ctx, orders[i].ID)
		if err != nil {
			return nil, err
		}
		orders[i].Items = items
	}
	return orders, nil
}

func (r *orderRepository) GetAll(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int64, error) {
	q := querierFrom(ctx, r.db)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	var conds []string
	var args []any
	if filter.Status != "" {
		args = append(args, filter.Status)
		conds = append(conds, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if filter.PaymentStatus != "" {
		args = append(args, filter.PaymentStatus)
		conds = append(conds, fmt.Sprintf("o.payment_status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("(o.order_number ILIKE $%d OR u.email ILIKE $%d)", len(args), len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx,
		"SELECT count(*) FROM orders o JOIN users u ON u.id = o.user_id"+where,
		args...).Scan(&total); err != nil {
		return nil, 0, storageErr("count orders", err)
	}

	args = append(args, limit, offset)
	rows, err := q.Query(ctx, fmt.Sprintf(`
		SELECT o.id, o.order_number, o.user_id, o.subtotal, o.discount_amount, o.tax,
		       o.shipping_cost, o.total, o.discount_code, o.status, o.payment_status,
		       o.shipping_address, o.customer_notes, o.paid_at, o.shipped_at,
		       o.delivered_at, o.cancelled_at, o.created_at, o.updated_at,
		       u.email, u.first_name, u.last_name
		FROM orders o JOIN users u ON u.id = o.user_id%s
		ORDER BY o.created_at DESC LIMIT $%d OFFSET $%d`,
		where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, storageErr("list orders", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		var o domain.Order
		var addr []byte
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.UserID, &o.Subtotal, &o.DiscountAmount,
			&o.Tax, &o.ShippingCost, &o.Total, &o.DiscountCode, &o.Status, &o.PaymentStatus,
			&addr, &o.CustomerNotes, &o.PaidAt, &o.ShippedAt, &o.DeliveredAt, &o.CancelledAt,
			&o.CreatedAt, &o.UpdatedAt,
			&o.User.Email, &o.User.FirstName, &o.User.LastName); err != nil {
			return nil, 0, storageErr("scan order", err)
		}
		if len(addr) > 0 {
			_ = json.Unmarshal(addr, &o.ShippingAddress)
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

// UpdateStatus also stamps the per-status timestamp column.
func (r *orderRepository) UpdateStatus(ctx context.Context, id, status string, at time.Time) error {
	q := querierFrom(ctx, r.db)

	stampCol := ""
	switch status {
	case domain.OrderStatusShipped:
		stampCol = "shipped_at"
	case domain.OrderStatusDelivered:
		stampCol = "delivered_at"
	case domain.OrderStatusCancelled:
		stampCol = "cancelled_at"
	}

	var err error
	if stampCol != "" {
		_, err = q.Exec(ctx, fmt.Sprintf(
			`UPDATE orders SET status = $2, %s = $3, updated_at = now() WHERE id = $1`, stampCol),
			id, status, at)
	} else {
		_, err = q.Exec(ctx,
			`UPDATE orders SET status = $2, updated_at = now() WHERE id = $1`,
			id, status)
	}
	if err != nil {
		return storageErr("update order status", err)
	}
	return nil
}

func (r *orderRepository) UpdatePaymentStatus(ctx context.Context, id, paymentStatus string, paidAt *time.Time) error {
	q := querierFrom(ctx, r.db)
	_, err := q.Exec(ctx, `
		UPDATE orders
		SET payment_status = $2, paid_at = COALESCE($3, paid_at), updated_at = now()
		WHERE id = $1`,
		id, paymentStatus, paidAt)
	if err != nil {
		return storageErr("update payment status", err)
	}
	return nil
}

func (r *orderRepository) CreateHistory(ctx context.Context, h *domain.OrderHistory) error {
	q := querierFrom(ctx, r.db)
	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	_, err := q.Exec(ctx, `
		INSERT INTO order_status_history (id, order_id, previous_status, new_status, reason, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		h.ID, h.OrderID, h.PreviousStatus, h.NewStatus, h.Reason, h.CreatedBy,
	)
	if err != nil {
		return storageErr("create order history", err)
	}
	return nil
}

func (r *orderRepository) GetHistory(ctx context.Context, orderID string) ([]domain.OrderHistory, error) {
	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT id, order_id, previous_status, new_status, reason, created_by, created_at
		FROM order_status_history
		WHERE order_id = $1
		ORDER BY created_at`,
		orderID)
	if err != nil {
		return nil, storageErr("get order history", err)
	}
	defer rows.Close()

	var history []domain.OrderHistory
	for rows.Next() {
		var h domain.OrderHistory
		if err := rows.Scan(&h.ID, &h.OrderID, &h.PreviousStatus, &h.NewStatus,
			&h.Reason, &h.CreatedBy, &h.CreatedAt); err != nil {
			return nil, storageErr("scan order history", err)
		}
		history = append(history, h)
	}
	return history, rows.Err()
}

func (r *orderRepository) HasPurchasedProduct(ctx context.Context, userID, productID string) (bool, error) {
	q := querierFrom(ctx, r.db)
	var exists bool
	err := q.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM orders o
			JOIN order_items oi ON oi.order_id = o.id
			JOIN product_variants v ON v.id = oi.variant_id
			WHERE o.user_id = $1 AND v.product_id = $2 AND o.payment_status = $3
		)`,
		userID, productID, domain.OrderPaymentPaid,
	).Scan(&exists)
	if err != nil {
		return false, storageErr("check purchase", err)
	}
	return exists, nil
}
