package usecase

import (
	"context"
	"fmt"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/pkg/utils"
)

// CartUsecase manages the mutable pre-order container. Every read re-prices
// against live variant rows; nothing monetary is stored on the cart itself.
type CartUsecase struct {
	cartRepo    domain.CartRepository
	productRepo domain.ProductRepository
	pricing     *PricingEngine
}

func NewCartUsecase(cartRepo domain.CartRepository, productRepo domain.ProductRepository, pricing *PricingEngine) *CartUsecase {
	return &CartUsecase{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		pricing:     pricing,
	}
}

// CartView is the cart plus its freshly computed money fields.
type CartView struct {
	Cart      *domain.Cart `json:"cart"`
	Subtotal  float64      `json:"subtotal"`
	ItemCount int          `json:"itemCount"`
}

// ensureCart fetches the owner's cart, lazily creating one on first use.
func (uc *CartUsecase) ensureCart(ctx context.Context, p *domain.Principal) (*domain.Cart, error) {
	owner := domain.OwnerFor(p)
	if owner.UserID == "" && owner.SessionToken == "" {
		return nil, domain.Validationf("no cart session")
	}

	cart, err := uc.cartRepo.GetByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if cart != nil {
		return cart, nil
	}

	cart = &domain.Cart{}
	if owner.UserID != "" {
		cart.UserID = &owner.UserID
	} else {
		cart.SessionToken = &owner.SessionToken
	}
	if err := uc.cartRepo.Create(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Get returns the cart with live prices. Items whose variant has gone
// inactive remain visible; validation and checkout reject them.
func (uc *CartUsecase) Get(ctx context.Context, p *domain.Principal) (*CartView, error) {
	cart, err := uc.ensureCart(ctx, p)
	if err != nil {
		return nil, err
	}
	return uc.view(cart), nil
}

func (uc *CartUsecase) view(cart *domain.Cart) *CartView {
	var subtotal float64
	var count int
	for _, it := range cart.Items {
		subtotal += it.Price * float64(it.Quantity)
		count += it.Quantity
	}
	return &CartView{
		Cart:      cart,
		Subtotal:  utils.Round2(subtotal),
		ItemCount: count,
	}
}

type AddItemRequest struct {
	VariantID string `json:"variantId" validate:"required"`
	Quantity  int    `json:"quantity" validate:"required,gt=0"`
}

// AddItem validates the variant through the pricing engine and merges the
// quantity additively into the cart.
func (uc *CartUsecase) AddItem(ctx context.Context, p *domain.Principal, req AddItemRequest) (*CartView, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	cart, err := uc.ensureCart(ctx, p)
	if err != nil {
		return nil, err
	}

	// Existing quantity counts toward the stock check so the merged line
	// cannot exceed what is on hand.
	existing := 0
	for _, it := range cart.Items {
		if it.VariantID == req.VariantID {
			existing = it.Quantity
			break
		}
	}
	if _, _, err := uc.pricing.PriceLines(ctx, []LineRequest{
		{VariantID: req.VariantID, Quantity: existing + req.Quantity},
	}); err != nil {
		return nil, err
	}

	if err := uc.cartRepo.AddItem(ctx, cart.ID, req.VariantID, req.Quantity); err != nil {
		return nil, err
	}
	return uc.reload(ctx, cart)
}

type UpdateItemRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

func (uc *CartUsecase) UpdateItem(ctx context.Context, p *domain.Principal, variantID string, req UpdateItemRequest) (*CartView, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	cart, err := uc.ensureCart(ctx, p)
	if err != nil {
		return nil, err
	}
	if _, _, err := uc.pricing.PriceLines(ctx, []LineRequest{
		{VariantID: variantID, Quantity: req.Quantity},
	}); err != nil {
		return nil, err
	}
	if err := uc.cartRepo.SetItemQuantity(ctx, cart.ID, variantID, req.Quantity); err != nil {
		return nil, err
	}
	return uc.reload(ctx, cart)
}

func (uc *CartUsecase) RemoveItem(ctx context.Context, p *domain.Principal, variantID string) (*CartView, error) {
	cart, err := uc.ensureCart(ctx, p)
	if err != nil {
		return nil, err
	}
	if err := uc.cartRepo.RemoveItem(ctx, cart.ID, variantID); err != nil {
		return nil, err
	}
	return uc.reload(ctx, cart)
}

func (uc *CartUsecase) Clear(ctx context.Context, p *domain.Principal) error {
	cart, err := uc.ensureCart(ctx, p)
	if err != nil {
		return err
	}
	return uc.cartRepo.Clear(ctx, cart.ID)
}

func (uc *CartUsecase) reload(ctx context.Context, cart *domain.Cart) (*CartView, error) {
	items, err := uc.cartRepo.GetItems(ctx, cart.ID)
	if err != nil {
		return nil, err
	}
	cart.Items = items
	return uc.view(cart), nil
}

// ValidationResult reports whether the cart can be checked out as-is.
// Errors block checkout; warnings inform the client of live-data drift.
type ValidationResult struct {
	Valid    bool      `json:"valid"`
	Errors   []string  `json:"errors"`
	Warnings []string  `json:"warnings"`
	Cart     *CartView `json:"cart"`
}

// Validate re-prices the whole cart against live variants and collects every
// problem instead of stopping at the first.
func (uc *CartUsecase) Validate(ctx context.Context, p *domain.Principal) (*ValidationResult, error) {
	cart, err := uc.ensureCart(ctx, p)
	if err != nil {
		return nil, err
	}

	result := &ValidationResult{Valid: true, Errors: []string{}, Warnings: []string{}}
	if len(cart.Items) == 0 {
		result.Valid = false
		result.Errors = append(result.Errors, "cart is empty")
	}

	for _, it := range cart.Items {
		switch {
		case !it.Active:
			result.Valid = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s is no longer available", it.ProductName))
		case it.Quantity > it.Stock:
			result.Valid = false
			result.Errors = append(result.Errors,
				fmt.Sprintf("only %d of %s in stock (you have %d)", it.Stock, it.ProductName, it.Quantity))
		case it.Stock <= 5:
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s is low on stock (%d left)", it.ProductName, it.Stock))
		}
	}

	result.Cart = uc.view(cart)
	return result, nil
}
