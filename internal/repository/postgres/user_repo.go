package pgrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lushlocks-backend/internal/domain"
)

type userRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) domain.UserRepository {
	return &userRepository{db: db}
}

const userCols = `id, email, password_hash, role, first_name, last_name, phone, created_at, updated_at`

func scanUser(row interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Role,
		&u.FirstName, &u.LastName, &u.Phone, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	q := querierFrom(ctx, r.db)
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	err := q.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, role, first_name, last_name, phone)
		VALUES ($1, lower($2), $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		user.ID, user.Email, user.PasswordHash, user.Role,
		user.FirstName, user.LastName, user.Phone,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("email already registered")
		}
		return storageErr("create user", err)
	}
	return nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	q := querierFrom(ctx, r.db)
	u, err := scanUser(q.QueryRow(ctx,
		"SELECT "+userCols+" FROM users WHERE email = lower($1)", email))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NotFoundf("user not found")
		}
		return nil, storageErr("get user", err)
	}
	return u, nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	q := querierFrom(ctx, r.db)
	u, err := scanUser(q.QueryRow(ctx,
		"SELECT "+userCols+" FROM users WHERE id = $1", id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NotFoundf("user not found")
		}
		return nil, storageErr("get user", err)
	}
	return u, nil
}

func (r *userRepository) GetAll(ctx context.Context, limit, offset int) ([]*domain.User, int64, error) {
	q := querierFrom(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, storageErr("count users", err)
	}

	rows, err := q.Query(ctx,
		"SELECT "+userCols+" FROM users ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, 0, storageErr("list users", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, storageErr("scan user", err)
		}
		users = append(users, u)
	}
	return users, total, rows.Err()
}

func (r *userRepository) UpdateProfile(ctx context.Context, id, firstName, lastName, phone string) (*domain.User, error) {
	q := querierFrom(ctx, r.db)
	u, err := scanUser(q.QueryRow(ctx, `
		UPDATE users
		SET first_name = $2, last_name = $3, phone = $4, updated_at = now()
		WHERE id = $1
		RETURNING `+userCols,
		id, firstName, lastName, phone))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NotFoundf("user not found")
		}
		return nil, storageErr("update profile", err)
	}
	return u, nil
}

func (r *userRepository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	q := querierFrom(ctx, r.db)
	tag, err := q.Exec(ctx,
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1`,
		id, passwordHash)
	if err != nil {
		return storageErr("update password", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("user not found")
	}
	return nil
}

const addressCols = `id, user_id, label, first_name, last_name, phone, street, suburb,
	city, province, postal_code, is_default, created_at`

func scanAddress(row interface{ Scan(dest ...any) error }) (*domain.Address, error) {
	var a domain.Address
	err := row.Scan(&a.ID, &a.UserID, &a.Label, &a.FirstName, &a.LastName, &a.Phone,
		&a.Street, &a.Suburb, &a.City, &a.Province, &a.PostalCode, &a.IsDefault, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *userRepository) AddAddress(ctx context.Context, addr *domain.Address) error {
	q := querierFrom(ctx, r.db)
	if addr.ID == "" {
		addr.ID = uuid.New().String()
	}
	if addr.IsDefault {
		if _, err := q.Exec(ctx,
			`UPDATE addresses SET is_default = false WHERE user_id = $1`, addr.UserID); err != nil {
			return storageErr("clear default address", err)
		}
	}
	err := q.QueryRow(ctx, `
		INSERT INTO addresses (id, user_id, label, first_name, last_name, phone,
		                       street, suburb, city, province, postal_code, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at`,
		addr.ID, addr.UserID, addr.Label, addr.FirstName, addr.LastName, addr.Phone,
		addr.Street, addr.Suburb, addr.City, addr.Province, addr.PostalCode, addr.IsDefault,
	).Scan(&addr.CreatedAt)
	if err != nil {
		return storageErr("add address", err)
	}
	return nil
}

func (r *userRepository) UpdateAddress(ctx context.Context, addr *domain.Address) error {
	q := querierFrom(ctx, r.db)
	if addr.IsDefault {
		if _, err := q.Exec(ctx,
			`UPDATE addresses SET is_default = false WHERE user_id = $1 AND id <> $2`,
			addr.UserID, addr.ID); err != nil {
			return storageErr("clear default address", err)
		}
	}
	tag, err := q.Exec(ctx, `
		UPDATE addresses
		SET label = $3, first_name = $4, last_name = $5, phone = $6, street = $7,
		    suburb = $8, city = $9, province = $10, postal_code = $11, is_default = $12
		WHERE id = $1 AND user_id = $2`,
		addr.ID, addr.UserID, addr.Label, addr.FirstName, addr.LastName, addr.Phone,
		addr.Street, addr.Suburb, addr.City, addr.Province, addr.PostalCode, addr.IsDefault)
	if err != nil {
		return storageErr("update address", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("address not found")
	}
	return nil
}

func (r *userRepository) GetAddresses(ctx context.Context, userID string) ([]domain.Address, error) {
	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		"SELECT "+addressCols+" FROM addresses WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC",
		userID)
	if err != nil {
		return nil, storageErr("list addresses", err)
	}
	defer rows.Close()

	var addrs []domain.Address
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, storageErr("scan address", err)
		}
		addrs = append(addrs, *a)
	}
	return addrs, rows.Err()
}

func (r *userRepository) GetAddress(ctx context.Context, id, userID string) (*domain.Address, error) {
	q := querierFrom(ctx, r.db)
	a, err := scanAddress(q.QueryRow(ctx,
		"SELECT "+addressCols+" FROM addresses WHERE id = $1 AND user_id = $2",
		id, userID))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NotFoundf("address not found")
		}
		return nil, storageErr("get address", err)
	}
	return a, nil
}

func (r *userRepository) DeleteAddress(ctx context.Context, id, userID string) error {
	q := querierFrom(ctx, r.db)
	tag, err := q.Exec(ctx,
		`DELETE FROM addresses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return storageErr("delete address", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("address not found")
	}
	return nil
}

func (r *userRepository) SaveRefreshToken(ctx context.Context, token *domain.RefreshToken) error {
	q := querierFrom(ctx, r.db)
	err := q.QueryRow(ctx, `
		INSERT INTO refresh_tokens (token, user_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING created_at`,
		token.Token, token.UserID, token.ExpiresAt,
	).Scan(&token.CreatedAt)
	if err != nil {
		return storageErr("save refresh token", err)
	}
	return nil
}

func (r *userRepository) GetRefreshToken(ctx context.Context, token string) (*domain.RefreshToken, error) {
	q := querierFrom(ctx, r.db)
	var t domain.RefreshToken
	err := q.QueryRow(ctx, `
		SELECT token, user_id, expires_at, created_at, revoked
		FROM refresh_tokens WHERE token = $1`,
		token).Scan(&t.Token, &t.UserID, &t.ExpiresAt, &t.CreatedAt, &t.Revoked)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.Authf("invalid refresh token")
		}
		return nil, storageErr("get refresh token", err)
	}
	return &t, nil
}

func (r *userRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	q := querierFrom(ctx, r.db)
	if _, err := q.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = true WHERE token = $1`, token); err != nil {
		return storageErr("revoke refresh token", err)
	}
	return nil
}
