package pgrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lushlocks-backend/internal/domain"
)

type cartRepository struct {
	db *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) domain.CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) GetByOwner(ctx context.Context, owner domain.CartOwner) (*domain.Cart, error) {
	q := querierFrom(ctx, r.db)

	var row interface{ Scan(dest ...any) error }
	if owner.UserID != "" {
		row = q.QueryRow(ctx, `
			SELECT id, user_id, session_token, created_at, updated_at
			FROM carts WHERE user_id = $1`, owner.UserID)
	} else {
		row = q.QueryRow(ctx, `
			SELECT id, user_id, session_token, created_at, updated_at
			FROM carts WHERE session_token = $1`, owner.SessionToken)
	}

	var cart domain.Cart
	if err := row.Scan(&cart.ID, &cart.UserID, &cart.SessionToken, &cart.CreatedAt, &cart.UpdatedAt); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, storageErr("get cart", err)
	}

	items, err := r.GetItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return &cart, nil
}

func (r *cartRepository) Create(ctx context.Context, cart *domain.Cart) error {
	q := querierFrom(ctx, r.db)
	if cart.ID == "" {
		cart.ID = uuid.New().String()
	}
	err := q.QueryRow(ctx, `
		INSERT INTO carts (id, user_id, session_token)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		cart.ID, cart.UserID, cart.SessionToken,
	).Scan(&cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			// Lost a lazy-create race; the winner's cart is the cart.
			existing, getErr := r.GetByOwner(ctx, domain.CartOwner{
				UserID:       deref(cart.UserID),
				SessionToken: deref(cart.SessionToken),
			})
			if getErr == nil && existing != nil {
				*cart = *existing
				return nil
			}
			return domain.Conflictf("cart already exists")
		}
		return storageErr("create cart", err)
	}
	return nil
}

// GetItems returns cart lines joined with the live variant, so every read of
// the cart reflects current price, stock, and active flags.
func (r *cartRepository) GetItems(ctx context.Context, cartID string) ([]domain.CartItem, error) {
	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx, `
		SELECT ci.id, ci.cart_id, ci.variant_id, ci.quantity,
		       v.product_id, p.name, v.texture, v.length, v.color,
		       v.price, v.stock, (v.is_active AND p.is_active)
		FROM cart_items ci
		JOIN product_variants v ON v.id = ci.variant_id
		JOIN products p ON p.id = v.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at`,
		cartID)
	if err != nil {
		return nil, storageErr("get cart items", err)
	}
	defer rows.Close()

	var items []domain.CartItem
	for rows.Next() {
		var it domain.CartItem
		if err := rows.Scan(&it.ID, &it.CartID, &it.VariantID, &it.Quantity,
			&it.ProductID, &it.ProductName, &it.Texture, &it.Length, &it.Color,
			&it.Price, &it.Stock, &it.Active); err != nil {
			return nil, storageErr("scan cart item", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// AddItem is a single additive upsert: two concurrent adds of the same
// variant sum their quantities instead of producing duplicate rows.
func (r *cartRepository) AddItem(ctx context.Context, cartID, variantID string, quantity int) error {
	q := querierFrom(ctx, r.db)
	_, err := q.Exec(ctx, `
		INSERT INTO cart_items (id, cart_id, variant_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, variant_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = now()`,
		uuid.New().String(), cartID, variantID, quantity,
	)
	if err != nil {
		return storageErr("add cart item", err)
	}
	return nil
}

func (r *cartRepository) SetItemQuantity(ctx context.Context, cartID, variantID string, quantity int) error {
	q := querierFrom(ctx, r.db)
	_, err := q.Exec(ctx, `
		INSERT INTO cart_items (id, cart_id, variant_id, quantity)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (cart_id, variant_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = now()`,
		uuid.New().String(), cartID, variantID, quantity,
	)
	if err != nil {
		return storageErr("set cart item quantity", err)
	}
	return nil
}

func (r *cartRepository) RemoveItem(ctx context.Context, cartID, variantID string) error {
	q := querierFrom(ctx, r.db)
	tag, err := q.Exec(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND variant_id = $2`,
		cartID, variantID)
	if err != nil {
		return storageErr("remove cart item", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("item not in cart")
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, cartID string) error {
	q := querierFrom(ctx, r.db)
	if _, err := q.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return storageErr("clear cart", err)
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
