package pgrepo

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"lushlocks-backend/internal/domain"
)

type settingsRepository struct {
	db *pgxpool.Pool
}

func NewSettingsRepository(db *pgxpool.Pool) domain.SettingsRepository {
	return &settingsRepository{db: db}
}

const shippingRateCols = `id, key, label, cost, is_active, created_at, updated_at`

func scanShippingRate(row interface{ Scan(dest ...any) error }) (*domain.ShippingRate, error) {
	var sr domain.ShippingRate
	err := row.Scan(&sr.ID, &sr.Key, &sr.Label, &sr.Cost, &sr.IsActive, &sr.CreatedAt, &sr.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &sr, nil
}

func (r *settingsRepository) listRates(ctx context.Context, where string) ([]domain.ShippingRate, error) {
	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		"SELECT "+shippingRateCols+" FROM shipping_rates"+where+" ORDER BY cost")
	if err != nil {
		return nil, storageErr("list shipping rates", err)
	}
	defer rows.Close()

	var rates []domain.ShippingRate
	for rows.Next() {
		sr, err := scanShippingRate(rows)
		if err != nil {
			return nil, storageErr("scan shipping rate", err)
		}
		rates = append(rates, *sr)
	}
	return rates, rows.Err()
}

func (r *settingsRepository) GetActiveShippingRates(ctx context.Context) ([]domain.ShippingRate, error) {
	return r.listRates(ctx, " WHERE is_active")
}

func (r *settingsRepository) GetAllShippingRates(ctx context.Context) ([]domain.ShippingRate, error) {
	return r.listRates(ctx, "")
}

func (r *settingsRepository) GetShippingRateByKey(ctx context.Context, key string) (*domain.ShippingRate, error) {
	q := querierFrom(ctx, r.db)
	sr, err := scanShippingRate(q.QueryRow(ctx,
		"SELECT "+shippingRateCols+" FROM shipping_rates WHERE key = $1", key))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NotFoundf("shipping rate not found")
		}
		return nil, storageErr("get shipping rate", err)
	}
	return sr, nil
}

func (r *settingsRepository) CreateShippingRate(ctx context.Context, rate *domain.ShippingRate) (*domain.ShippingRate, error) {
	q := querierFrom(ctx, r.db)
	sr, err := scanShippingRate(q.QueryRow(ctx, `
		INSERT INTO shipping_rates (key, label, cost, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING `+shippingRateCols,
		rate.Key, rate.Label, rate.Cost, rate.IsActive))
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.Conflictf("shipping rate '%s' already exists", rate.Key)
		}
		return nil, storageErr("create shipping rate", err)
	}
	return sr, nil
}

func (r *settingsRepository) UpdateShippingRate(ctx context.Context, rate *domain.ShippingRate) (*domain.ShippingRate, error) {
	q := querierFrom(ctx, r.db)
	sr, err := scanShippingRate(q.QueryRow(ctx, `
		UPDATE shipping_rates
		SET key = $2, label = $3, cost = $4, is_active = $5, updated_at = now()
		WHERE id = $1
		RETURNING `+shippingRateCols,
		rate.ID, rate.Key, rate.Label, rate.Cost, rate.IsActive))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NotFoundf("shipping rate not found")
		}
		if isUniqueViolation(err) {
			return nil, domain.Conflictf("shipping rate '%s' already exists", rate.Key)
		}
		return nil, storageErr("update shipping rate", err)
	}
	return sr, nil
}

func (r *settingsRepository) DeleteShippingRate(ctx context.Context, id int32) error {
	q := querierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM shipping_rates WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete shipping rate", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("shipping rate not found")
	}
	return nil
}
