package usecase

import (
	"context"
	"testing"

	"lushlocks-backend/internal/domain"
)

func TestPriceLines(t *testing.T) {
	t.Parallel()

	repo := newFakeProductRepo(
		variantDetail("v1", 299.99, 10),
		variantDetail("v2", 149.50, 2),
	)
	engine := NewPricingEngine(repo, 100)

	lines, subtotal, err := engine.PriceLines(context.Background(), []LineRequest{
		{VariantID: "v1", Quantity: 2},
		{VariantID: "v2", Quantity: 1},
	})
	if err != nil {
		t.Fatalf("PriceLines() error = %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("len(lines) = %d, want 2", len(lines))
	}
	if lines[0].UnitPrice != 299.99 || lines[0].LineSubtotal != 599.98 {
		t.Errorf("line[0] = %.2f / %.2f, want 299.99 / 599.98", lines[0].UnitPrice, lines[0].LineSubtotal)
	}
	if got, want := subtotal, 599.98+149.50; got != want {
		t.Errorf("subtotal = %v, want %v", got, want)
	}
}

func TestPriceLinesRejections(t *testing.T) {
	t.Parallel()

	inactive := variantDetail("v-off", 100, 5)
	inactive.IsActive = false

	parentInactive := variantDetail("v-parent-off", 100, 5)
	parentInactive.ProductActive = false

	repo := newFakeProductRepo(
		variantDetail("v1", 50, 3),
		inactive,
		parentInactive,
	)
	engine := NewPricingEngine(repo, 10)

	tests := []struct {
		name     string
		requests []LineRequest
		wantKind domain.ErrorKind
	}{
		{
			name:     "empty request",
			requests: nil,
			wantKind: domain.ErrKindValidation,
		},
		{
			name:     "zero quantity",
			requests: []LineRequest{{VariantID: "v1", Quantity: 0}},
			wantKind: domain.ErrKindValidation,
		},
		{
			name:     "negative quantity",
			requests: []LineRequest{{VariantID: "v1", Quantity: -2}},
			wantKind: domain.ErrKindValidation,
		},
		{
			name:     "over per-item maximum",
			requests: []LineRequest{{VariantID: "v1", Quantity: 11}},
			wantKind: domain.ErrKindValidation,
		},
		{
			name:     "unknown variant",
			requests: []LineRequest{{VariantID: "missing", Quantity: 1}},
			wantKind: domain.ErrKindNotFound,
		},
		{
			name:     "inactive variant",
			requests: []LineRequest{{VariantID: "v-off", Quantity: 1}},
			wantKind: domain.ErrKindNotFound,
		},
		{
			name:     "inactive parent product",
			requests: []LineRequest{{VariantID: "v-parent-off", Quantity: 1}},
			wantKind: domain.ErrKindNotFound,
		},
		{
			name:     "insufficient stock",
			requests: []LineRequest{{VariantID: "v1", Quantity: 4}},
			wantKind: domain.ErrKindStock,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := engine.PriceLines(context.Background(), tt.requests)
			if err == nil {
				t.Fatal("PriceLines() expected error")
			}
			if got := domain.KindOf(err); got != tt.wantKind {
				t.Errorf("KindOf(err) = %v, want %v", got, tt.wantKind)
			}
		})
	}
}

func TestPriceLinesQuantityEqualToStock(t *testing.T) {
	t.Parallel()

	repo := newFakeProductRepo(variantDetail("v1", 10, 3))
	engine := NewPricingEngine(repo, 100)

	_, subtotal, err := engine.PriceLines(context.Background(), []LineRequest{
		{VariantID: "v1", Quantity: 3},
	})
	if err != nil {
		t.Fatalf("PriceLines() error = %v", err)
	}
	if subtotal != 30 {
		t.Errorf("subtotal = %v, want 30", subtotal)
	}
}
