package domain

import (
	"context"
	"time"
)

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	IsActive    bool      `json:"isActive"`
	Media       RawJSON   `json:"media,omitempty"`
	Images      []string  `json:"images,omitempty"`
	Variants    []Variant `json:"variants,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Variant is the purchasable SKU. Price and stock here are the only
// authoritative values; client-submitted prices are never trusted.
type Variant struct {
	ID        string    `json:"id"`
	ProductID string    `json:"productId"`
	SKU       string    `json:"sku"`
	Texture   string    `json:"texture"`
	Length    string    `json:"length"` // e.g. "18 inch"
	Color     string    `json:"color"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// VariantDetail joins the variant with the parent product fields the pricing
// engine and order snapshotting need in a single read.
type VariantDetail struct {
	Variant
	ProductName   string `json:"productName"`
	ProductSlug   string `json:"productSlug"`
	ProductActive bool   `json:"productActive"`
}

// Purchasable reports whether the SKU may be priced at all (independent of
// quantity).
func (v *VariantDetail) Purchasable() bool {
	return v.IsActive && v.ProductActive
}

type ProductFilter struct {
	Page            int
	Limit           int
	Search          string
	IncludeInactive bool
}

type InventoryLog struct {
	ID        string    `json:"id"`
	VariantID string    `json:"variantId"`
	Delta     int       `json:"delta"`
	Reason    string    `json:"reason"` // order_paid, admin_adjustment, return_restock
	RefID     *string   `json:"refId"`  // order / return id
	CreatedAt time.Time `json:"createdAt"`
}

type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Product, error)
	GetBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, filter ProductFilter) ([]Product, int64, error)

	// Variants
	CreateVariant(ctx context.Context, v *Variant) error
	UpdateVariant(ctx context.Context, v *Variant) error
	DeleteVariant(ctx context.Context, id string) error
	GetVariantDetail(ctx context.Context, variantID string) (*VariantDetail, error)
	GetVariantDetails(ctx context.Context, variantIDs []string) ([]VariantDetail, error)

	// AdjustStock applies delta atomically; it must fail (no row updated)
	// when the result would be negative. Runs inside the ambient transaction
	// when one is present in ctx.
	AdjustStock(ctx context.Context, variantID string, delta int, reason string, refID string) error
	GetInventoryLogs(ctx context.Context, variantID string, limit, offset int) ([]InventoryLog, error)
}
