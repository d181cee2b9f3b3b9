package domain

import (
	"context"
	"time"
)

// Cart is owned by exactly one of an authenticated user or an anonymous
// session token. Created lazily on first interaction, emptied on checkout.
type Cart struct {
	ID           string     `json:"id"`
	UserID       *string    `json:"userId,omitempty"`
	SessionToken *string    `json:"-"`
	Items        []CartItem `json:"items"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// CartItem is a (cart, variant, quantity) tuple. All price fields are
// enriched from the variant at read time; nothing monetary is stored.
type CartItem struct {
	ID        string `json:"id"`
	CartID    string `json:"cartId"`
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`

	// Enriched from the authoritative variant row
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Texture     string  `json:"texture"`
	Length      string  `json:"length"`
	Color       string  `json:"color"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	Active      bool    `json:"active"`
}

// CartOwner identifies the cart to operate on: user id for customers,
// session token for guests. Exactly one side is set.
type CartOwner struct {
	UserID       string
	SessionToken string
}

func OwnerFor(p *Principal) CartOwner {
	if p.IsCustomer() {
		return CartOwner{UserID: p.UserID}
	}
	return CartOwner{SessionToken: p.SessionToken}
}

type CartRepository interface {
	// GetByOwner returns nil, nil when the owner has no cart yet.
	GetByOwner(ctx context.Context, owner CartOwner) (*Cart, error)
	Create(ctx context.Context, cart *Cart) error
	GetItems(ctx context.Context, cartID string) ([]CartItem, error)

	// AddItem merges additively: concurrent adds of the same variant result
	// in summed quantity, never a duplicate row.
	AddItem(ctx context.Context, cartID, variantID string, quantity int) error
	SetItemQuantity(ctx context.Context, cartID, variantID string, quantity int) error
	RemoveItem(ctx context.Context, cartID, variantID string) error
	Clear(ctx context.Context, cartID string) error
}
