package pgrepo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lushlocks-backend/internal/domain"
)

type discountRepository struct {
	db *pgxpool.Pool
}

func NewDiscountRepository(db *pgxpool.Pool) domain.DiscountRepository {
	return &discountRepository{db: db}
}

const discountCols = `id, code, type, value, min_purchase, usage_limit, used_count,
	expires_at, is_active, created_at, updated_at`

func scanDiscount(row interface{ Scan(dest ...any) error }) (*domain.Discount, error) {
	var d domain.Discount
	err := row.Scan(&d.ID, &d.Code, &d.Type, &d.Value, &d.MinPurchase, &d.UsageLimit,
		&d.UsedCount, &d.ExpiresAt, &d.IsActive, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *discountRepository) Create(ctx context.Context, d *domain.Discount) error {
	q := querierFrom(ctx, r.db)
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.Code = strings.ToUpper(d.Code)
	err := q.QueryRow(ctx, `
		INSERT INTO discounts (id, code, type, value, min_purchase, usage_limit, expires_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING used_count, created_at, updated_at`,
		d.ID, d.Code, d.Type, d.Value, d.MinPurchase, d.UsageLimit, d.ExpiresAt, d.IsActive,
	).Scan(&d.UsedCount, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("discount code '%s' already exists", d.Code)
		}
		return storageErr("create discount", err)
	}
	return nil
}

func (r *discountRepository) Update(ctx context.Context, d *domain.Discount) error {
	q := querierFrom(ctx, r.db)
	d.Code = strings.ToUpper(d.Code)
	tag, err := q.Exec(ctx, `
		UPDATE discounts
		SET code = $2, type = $3, value = $4, min_purchase = $5, usage_limit = $6,
		    expires_at = $7, is_active = $8, updated_at = now()
		WHERE id = $1`,
		d.ID, d.Code, d.Type, d.Value, d.MinPurchase, d.UsageLimit, d.ExpiresAt, d.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("discount code '%s' already exists", d.Code)
		}
		return storageErr("update discount", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("discount not found")
	}
	return nil
}

func (r *discountRepository) Delete(ctx context.Context, id string) error {
	q := querierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM discounts WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete discount", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("discount not found")
	}
	return nil
}

func (r *discountRepository) GetByID(ctx context.Context, id string) (*domain.Discount, error) {
	q := querierFrom(ctx, r.db)
	d, err := scanDiscount(q.QueryRow(ctx,
		"SELECT "+discountCols+" FROM discounts WHERE id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NotFoundf("discount not found")
		}
		return nil, storageErr("get discount", err)
	}
	return d, nil
}

func (r *discountRepository) GetByCode(ctx context.Context, code string) (*domain.Discount, error) {
	q := querierFrom(ctx, r.db)
	d, err := scanDiscount(q.QueryRow(ctx,
		"SELECT "+discountCols+" FROM discounts WHERE code = upper($1)", code))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NotFoundf("discount code not found")
		}
		return nil, storageErr("get discount", err)
	}
	return d, nil
}

func (r *discountRepository) List(ctx context.Context, limit, offset int) ([]domain.Discount, int64, error) {
	q := querierFrom(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT count(*) FROM discounts`).Scan(&total); err != nil {
		return nil, 0, storageErr("count discounts", err)
	}

	rows, err := q.Query(ctx,
		"SELECT "+discountCols+" FROM discounts ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, storageErr("list discounts", err)
	}
	defer rows.Close()

	var discounts []domain.Discount
	for rows.Next() {
		d, err := scanDiscount(rows)
		if err != nil {
			return nil, 0, storageErr("scan discount", err)
		}
		discounts = append(discounts, *d)
	}
	return discounts, total, rows.Err()
}

// IncrementUsage is the guarded counter bump behind usage limits. The WHERE
// clause re-checks the limit so two checkouts cannot both take the last use.
func (r *discountRepository) IncrementUsage(ctx context.Context, id string) (bool, error) {
	q := querierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE discounts
		SET used_count = used_count + 1, updated_at = now()
		WHERE id = $1 AND (usage_limit IS NULL OR used_count < usage_limit)`,
		id)
	if err != nil {
		return false, storageErr("increment discount usage", err)
	}
	return tag.RowsAffected() > 0, nil
}
