package pgrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lushlocks-backend/internal/domain"
)

type paymentRepository struct {
	db *pgxpool.Pool
}

func NewPaymentRepository(db *pgxpool.Pool) domain.PaymentRepository {
	return &paymentRepository{db: db}
}

const paymentCols = `id, order_id, provider, status, amount, gateway_payment_id, created_at, updated_at`

func scanPayment(row interface{ Scan(dest ...any) error }) (*domain.Payment, error) {
	var p domain.Payment
	err := row.Scan(&p.ID, &p.OrderID, &p.Provider, &p.Status, &p.Amount,
		&p.GatewayPaymentID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	q := querierFrom(ctx, r.db)
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	err := q.QueryRow(ctx, `
		INSERT INTO payments (id, order_id, provider, status, amount, gateway_payment_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		p.ID, p.OrderID, p.Provider, p.Status, p.Amount, p.GatewayPaymentID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return storageErr("create payment", err)
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	q := querierFrom(ctx, r.db)
	p, err := scanPayment(q.QueryRow(ctx,
		"SELECT "+paymentCols+" FROM payments WHERE id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NotFoundf("payment not found")
		}
		return nil, storageErr("get payment", err)
	}
	return p, nil
}

// GetCompletedByOrder returns nil, nil when the order has no completed
// payment; the notification handler uses this as its idempotency check.
func (r *paymentRepository) GetCompletedByOrder(ctx context.Context, orderID string) (*domain.Payment, error) {
	q := querierFrom(ctx, r.db)
	p, err := scanPayment(q.QueryRow(ctx,
		"SELECT "+paymentCols+" FROM payments WHERE order_id = $1 AND status = $2",
		orderID, domain.PaymentStatusCompleted))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storageErr("get completed payment", err)
	}
	return p, nil
}

func (r *paymentRepository) GetByOrderAndGatewayID(ctx context.Context, orderID, gatewayPaymentID string) (*domain.Payment, error) {
	q := querierFrom(ctx, r.db)
	p, err := scanPayment(q.QueryRow(ctx,
		"SELECT "+paymentCols+" FROM payments WHERE order_id = $1 AND gateway_payment_id = $2",
		orderID, gatewayPaymentID))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storageErr("get payment by gateway id", err)
	}
	return p, nil
}

func (r *paymentRepository) GetLatestPendingByOrder(ctx context.Context, orderID string) (*domain.Payment, error) {
	q := querierFrom(ctx, r.db)
	p, err := scanPayment(q.QueryRow(ctx,
		"SELECT "+paymentCols+` FROM payments
		WHERE order_id = $1 AND status = $2
		ORDER BY created_at DESC LIMIT 1`,
		orderID, domain.PaymentStatusPending))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storageErr("get pending payment", err)
	}
	return p, nil
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id, status string, gatewayPaymentID *string) error {
	q := querierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE payments
		SET status = $2, gateway_payment_id = COALESCE($3, gateway_payment_id), updated_at = now()
		WHERE id = $1`,
		id, status, gatewayPaymentID)
	if err != nil {
		return storageErr("update payment status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("payment not found")
	}
	return nil
}

func (r *paymentRepository) ListByOrder(ctx context.Context, orderID string) ([]domain.Payment, error) {
	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		"SELECT "+paymentCols+" FROM payments WHERE order_id = $1 ORDER BY created_at",
		orderID)
	if err != nil {
		return nil, storageErr("list payments", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, storageErr("scan payment", err)
		}
		payments = append(payments, *p)
	}
	return payments, rows.Err()
}
