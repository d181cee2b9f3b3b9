package domain

import (
	"context"
	"time"
)

type ContextKey string

// PrincipalContextKey holds the resolved Principal for the request.
const PrincipalContextKey ContextKey = "principal"

// Principal kinds
const (
	PrincipalGuest    = "guest"
	PrincipalCustomer = "customer"
	PrincipalAdmin    = "admin"
)

// Principal is the per-request identity, resolved once by middleware and
// passed explicitly. A guest carries only a cart session token.
type Principal struct {
	Kind         string
	UserID       string
	Email        string
	SessionToken string
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Kind == PrincipalAdmin
}

func (p *Principal) IsCustomer() bool {
	return p != nil && (p.Kind == PrincipalCustomer || p.Kind == PrincipalAdmin)
}

// PrincipalFrom extracts the request principal; returns a guest with no
// session when middleware did not run (should not happen on wired routes).
func PrincipalFrom(ctx context.Context) *Principal {
	if p, ok := ctx.Value(PrincipalContextKey).(*Principal); ok && p != nil {
		return p
	}
	return &Principal{Kind: PrincipalGuest}
}

type User struct {
	ID           string    `json:"id"` // UUID
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"` // customer, admin
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Phone        string    `json:"phone"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Address struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Label      string `json:"label"` // "Home", "Office"
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Phone      string `json:"phone"`
	Street     string `json:"street"`
	Suburb     string `json:"suburb"`
	City       string `json:"city"`
	Province   string `json:"province"`
	PostalCode string `json:"postalCode"`

	IsDefault bool      `json:"isDefault"`
	CreatedAt time.Time `json:"createdAt"`
}

type RefreshToken struct {
	Token     string    `json:"token"` // UUID
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
	Revoked   bool      `json:"revoked"`
}

// PasswordResetToken lives in its own table with an explicit TTL and a
// single-use flag; it is never mixed into a generic audit log.
type PasswordResetToken struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	TokenHash string     `json:"-"` // sha256 of the emailed token
	ExpiresAt time.Time  `json:"expiresAt"`
	UsedAt    *time.Time `json:"usedAt"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (t *PasswordResetToken) Usable(now time.Time) bool {
	return t.UsedAt == nil && now.Before(t.ExpiresAt)
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetAll(ctx context.Context, limit, offset int) ([]*User, int64, error)
	UpdateProfile(ctx context.Context, id, firstName, lastName, phone string) (*User, error)
	UpdatePassword(ctx context.Context, id, passwordHash string) error

	// Addresses
	AddAddress(ctx context.Context, addr *Address) error
	UpdateAddress(ctx context.Context, addr *Address) error
	GetAddresses(ctx context.Context, userID string) ([]Address, error)
	GetAddress(ctx context.Context, id, userID string) (*Address, error)
	DeleteAddress(ctx context.Context, id, userID string) error

	// Refresh Tokens
	SaveRefreshToken(ctx context.Context, token *RefreshToken) error
	GetRefreshToken(ctx context.Context, token string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, token string) error
}

type PasswordResetRepository interface {
	Save(ctx context.Context, token *PasswordResetToken) error
	GetByHash(ctx context.Context, tokenHash string) (*PasswordResetToken, error)
	MarkUsed(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context) (int64, error)
}
