package usecase

import (
	"context"
	"testing"

	"lushlocks-backend/internal/domain"
)

func guest() *domain.Principal {
	return &domain.Principal{Kind: domain.PrincipalGuest, SessionToken: "sess-1"}
}

func newCartFixture(items ...domain.CartItem) (*CartUsecase, *fakeCartRepo) {
	productRepo := newFakeProductRepo(
		variantDetail("v1", 299.99, 10),
		variantDetail("v2", 149.50, 2),
	)
	cartRepo := &fakeCartRepo{cart: &domain.Cart{ID: "cart-1", Items: items}}
	uc := NewCartUsecase(cartRepo, productRepo, NewPricingEngine(productRepo, 100))
	return uc, cartRepo
}

func TestCartAddItemMergesQuantity(t *testing.T) {
	t.Parallel()

	uc, cartRepo := newCartFixture(domain.CartItem{VariantID: "v1", Quantity: 2, Price: 299.99})

	view, err := uc.AddItem(context.Background(), guest(), AddItemRequest{VariantID: "v1", Quantity: 3})
	if err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if len(cartRepo.cart.Items) != 1 {
		t.Fatalf("len(items) = %d, want merged single line", len(cartRepo.cart.Items))
	}
	if got := cartRepo.cart.Items[0].Quantity; got != 5 {
		t.Errorf("merged quantity = %d, want 5", got)
	}
	if view.ItemCount != 5 {
		t.Errorf("ItemCount = %d, want 5", view.ItemCount)
	}
}

func TestCartAddItemRespectsStockAcrossMerge(t *testing.T) {
	t.Parallel()

	// 8 in cart + 3 requested exceeds the 10 on hand even though each
	// request alone fits.
	uc, _ := newCartFixture(domain.CartItem{VariantID: "v1", Quantity: 8})

	_, err := uc.AddItem(context.Background(), guest(), AddItemRequest{VariantID: "v1", Quantity: 3})
	if err == nil {
		t.Fatal("AddItem() expected stock error")
	}
	if got := domain.KindOf(err); got != domain.ErrKindStock {
		t.Errorf("KindOf(err) = %v, want stock", got)
	}
}

func TestCartLazyCreation(t *testing.T) {
	t.Parallel()

	productRepo := newFakeProductRepo(variantDetail("v1", 299.99, 10))
	cartRepo := &fakeCartRepo{} // no cart yet
	uc := NewCartUsecase(cartRepo, productRepo, NewPricingEngine(productRepo, 100))

	view, err := uc.Get(context.Background(), guest())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if cartRepo.cart == nil {
		t.Fatal("cart was not lazily created")
	}
	if cartRepo.cart.SessionToken == nil || *cartRepo.cart.SessionToken != "sess-1" {
		t.Errorf("cart session token = %v, want sess-1", cartRepo.cart.SessionToken)
	}
	if view.Subtotal != 0 || view.ItemCount != 0 {
		t.Errorf("new cart view = %+v, want empty", view)
	}
}

func TestCartNoSession(t *testing.T) {
	t.Parallel()

	uc, _ := newCartFixture()
	_, err := uc.Get(context.Background(), &domain.Principal{Kind: domain.PrincipalGuest})
	if err == nil {
		t.Fatal("Get() expected error without a session")
	}
	if got := domain.KindOf(err); got != domain.ErrKindValidation {
		t.Errorf("KindOf(err) = %v, want validation", got)
	}
}

func TestCartValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		items        []domain.CartItem
		wantValid    bool
		wantErrors   int
		wantWarnings int
	}{
		{
			name:       "empty cart",
			items:      nil,
			wantValid:  false,
			wantErrors: 1,
		},
		{
			name: "healthy cart",
			items: []domain.CartItem{
				{VariantID: "v1", ProductName: "Wave", Quantity: 2, Stock: 10, Active: true, Price: 299.99},
			},
			wantValid: true,
		},
		{
			name: "inactive item blocks checkout",
			items: []domain.CartItem{
				{VariantID: "v1", ProductName: "Wave", Quantity: 1, Stock: 10, Active: false},
			},
			wantValid:  false,
			wantErrors: 1,
		},
		{
			name: "over stock blocks checkout",
			items: []domain.CartItem{
				{VariantID: "v1", ProductName: "Wave", Quantity: 12, Stock: 10, Active: true},
			},
			wantValid:  false,
			wantErrors: 1,
		},
		{
			name: "low stock warns but passes",
			items: []domain.CartItem{
				{VariantID: "v2", ProductName: "Straight", Quantity: 1, Stock: 2, Active: true},
			},
			wantValid:    true,
			wantWarnings: 1,
		},
		{
			name: "mixed problems are all reported",
			items: []domain.CartItem{
				{VariantID: "v1", ProductName: "Wave", Quantity: 12, Stock: 10, Active: true},
				{VariantID: "v2", ProductName: "Straight", Quantity: 1, Stock: 2, Active: true},
				{VariantID: "v3", ProductName: "Curly", Quantity: 1, Stock: 5, Active: false},
			},
			wantValid:    false,
			wantErrors:   2,
			wantWarnings: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			uc, _ := newCartFixture(tt.items...)

			result, err := uc.Validate(context.Background(), guest())
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
			if result.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (errors: %v)", result.Valid, tt.wantValid, result.Errors)
			}
			if len(result.Errors) != tt.wantErrors {
				t.Errorf("Errors = %v, want %d", result.Errors, tt.wantErrors)
			}
			if len(result.Warnings) != tt.wantWarnings {
				t.Errorf("Warnings = %v, want %d", result.Warnings, tt.wantWarnings)
			}
		})
	}
}
