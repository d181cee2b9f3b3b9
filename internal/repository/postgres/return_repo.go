package pgrepo

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lushlocks-backend/internal/domain"
)

type returnRepository struct {
	db *pgxpool.Pool
}

func NewReturnRepository(db *pgxpool.Pool) domain.ReturnRepository {
	return &returnRepository{db: db}
}

const returnCols = `id, order_id, user_id, reason, status, refund_amount, created_at, updated_at`

func scanReturn(row interface{ Scan(dest ...any) error }) (*domain.Return, error) {
	var ret domain.Return
	err := row.Scan(&ret.ID, &ret.OrderID, &ret.UserID, &ret.Reason, &ret.Status,
		&ret.RefundAmount, &ret.CreatedAt, &ret.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &ret, nil
}

func (r *returnRepository) Create(ctx context.Context, ret *domain.Return) error {
	q := querierFrom(ctx, r.db)
	if ret.ID == "" {
		ret.ID = uuid.New().String()
	}
	err := q.QueryRow(ctx, `
		INSERT INTO returns (id, order_id, user_id, reason, status, refund_amount)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		ret.ID, ret.OrderID, ret.UserID, ret.Reason, ret.Status, ret.RefundAmount,
	).Scan(&ret.CreatedAt, &ret.UpdatedAt)
	if err != nil {
		return storageErr("create return", err)
	}

	for i := range ret.Items {
		item := &ret.Items[i]
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		item.ReturnID = ret.ID
		_, err := q.Exec(ctx, `
			INSERT INTO return_items (id, return_id, order_item_id, quantity)
			VALUES ($1, $2, $3, $4)`,
			item.ID, item.ReturnID, item.OrderItemID, item.Quantity)
		if err != nil {
			return storageErr("create return item", err)
		}
	}
	return nil
}

func (r *returnRepository) getItems(ctx context.Context, returnID string) ([]domain.ReturnItem, error) {
	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT id, return_id, order_item_id, quantity
		FROM return_items WHERE return_id = $1`,
		returnID)
	if err != nil {
		return nil, storageErr("get return items", err)
	}
	defer rows.Close()

	var items []domain.ReturnItem
	for rows.Next() {
		var it domain.ReturnItem
		if err := rows.Scan(&it.ID, &it.ReturnID, &it.OrderItemID, &it.Quantity); err != nil {
			return nil, storageErr("scan return item", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *returnRepository) GetByID(ctx context.Context, id string) (*domain.Return, error) {
	q := querierFrom(ctx, r.db)
	ret, err := scanReturn(q.QueryRow(ctx,
		"SELECT "+returnCols+" FROM returns WHERE id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NotFoundf("return not found")
		}
		return nil, storageErr("get return", err)
	}
	items, err := r.getItems(ctx, ret.ID)
	if err != nil {
		return nil, err
	}
	ret.Items = items
	return ret, nil
}

func (r *returnRepository) GetActiveByOrder(ctx context.Context, orderID string) (*domain.Return, error) {
	q := querierFrom(ctx, r.db)
	ret, err := scanReturn(q.QueryRow(ctx,
		"SELECT "+returnCols+` FROM returns
		WHERE order_id = $1 AND status IN ($2, $3)
		ORDER BY created_at DESC LIMIT 1`,
		orderID, domain.ReturnStatusRequested, domain.ReturnStatusApproved))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storageErr("get active return", err)
	}
	return ret, nil
}

func (r *returnRepository) GetByUserID(ctx context.Context, userID string) ([]domain.Return, error) {
	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		"SELECT "+returnCols+" FROM returns WHERE user_id = $1 ORDER BY created_at DESC",
		userID)
	if err != nil {
		return nil, storageErr("list returns", err)
	}
	defer rows.Close()

	var returns []domain.Return
	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			return nil, storageErr("scan return", err)
		}
		returns = append(returns, *ret)
	}
	if rows.Err() != nil {
		return nil, storageErr("list returns", rows.Err())
	}

	for i := range returns {
		items, err := r.getItems(ctx, returns[i].ID)
		if err != nil {
			return nil, err
		}
		returns[i].Items = items
	}
	return returns, nil
}

func (r *returnRepository) List(ctx context.Context, filter domain.ReturnFilter) ([]domain.Return, int64, error) {
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
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT count(*) FROM returns"+where, args...).Scan(&total); err != nil {
		return nil, 0, storageErr("count returns", err)
	}

	args = append(args, limit, offset)
	rows, err := q.Query(ctx, fmt.Sprintf(
		"SELECT %s FROM returns%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		returnCols, where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, storageErr("list returns", err)
	}
	defer rows.Close()

	var returns []domain.Return
	for rows.Next() {
		ret, err := scanReturn(rows)
		if err != nil {
			return nil, 0, storageErr("scan return", err)
		}
		returns = append(returns, *ret)
	}
	return returns, total, rows.Err()
}

func (r *returnRepository) UpdateStatus(ctx context.Context, id, status string) error {
	q := querierFrom(ctx, r.db)
	tag, err := q.Exec(ctx,
		`UPDATE returns SET status = $2, updated_at = now() WHERE id = $1`,
		id, status)
	if err != nil {
		return storageErr("update return status", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("return not found")
	}
	return nil
}

func (r *returnRepository) SetRefund(ctx context.Context, id string, amount float64) error {
	q := querierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE returns
		SET refund_amount = $2, status = $3, updated_at = now()
		WHERE id = $1`,
		id, amount, domain.ReturnStatusRefunded)
	if err != nil {
		return storageErr("set refund", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("return not found")
	}
	return nil
}
