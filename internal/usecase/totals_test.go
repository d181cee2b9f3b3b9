package usecase

import (
	"testing"

	"lushlocks-backend/internal/domain"
)

func TestTotalCalculator(t *testing.T) {
	t.Parallel()

	calc := NewTotalCalculator(0.15)

	tests := []struct {
		name     string
		subtotal float64
		discount float64
		shipping float64
		want     Totals
	}{
		{
			// 2 x 299.99 with a 10% code: taxable 539.98, VAT 80.997 -> 81.00
			name:     "two units with percentage discount",
			subtotal: 599.98,
			discount: 60.00,
			shipping: 0,
			want: Totals{
				Subtotal:       599.98,
				DiscountAmount: 60.00,
				Tax:            81.00,
				ShippingCost:   0,
				Total:          620.98,
			},
		},
		{
			name:     "no discount with shipping",
			subtotal: 100.00,
			discount: 0,
			shipping: 50.00,
			want: Totals{
				Subtotal:       100.00,
				DiscountAmount: 0,
				Tax:            15.00,
				ShippingCost:   50.00,
				Total:          165.00,
			},
		},
		{
			name:     "discount larger than subtotal is clamped",
			subtotal: 80.00,
			discount: 100.00,
			shipping: 30.00,
			want: Totals{
				Subtotal:       80.00,
				DiscountAmount: 80.00,
				Tax:            0,
				ShippingCost:   30.00,
				Total:          30.00,
			},
		},
		{
			name:     "zero subtotal",
			subtotal: 0,
			discount: 0,
			shipping: 0,
			want:     Totals{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := calc.Calculate(tt.subtotal, tt.discount, tt.shipping)
			if err != nil {
				t.Fatalf("Calculate() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Calculate() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestTotalCalculatorNegativeShipping(t *testing.T) {
	t.Parallel()

	calc := NewTotalCalculator(0.15)
	_, err := calc.Calculate(100, 0, -1)
	if err == nil {
		t.Fatal("Calculate() expected error for negative shipping")
	}
	if domain.KindOf(err) != domain.ErrKindValidation {
		t.Errorf("KindOf(err) = %v, want validation", domain.KindOf(err))
	}
}

func TestTotalCalculatorRoundsOnceAtOutput(t *testing.T) {
	t.Parallel()

	// Three lines of 48.571 sum to an unrounded 145.713; tax is computed on
	// the unrounded value and every output lands on a whole cent.
	calc := NewTotalCalculator(0.15)
	got, err := calc.Calculate(145.713, 0, 0)
	if err != nil {
		t.Fatalf("Calculate() error = %v", err)
	}
	if got.Subtotal != 145.71 {
		t.Errorf("Subtotal = %v, want 145.71", got.Subtotal)
	}
	// tax on the unrounded 145.713 is 21.85695 -> 21.86
	if got.Tax != 21.86 {
		t.Errorf("Tax = %v, want 21.86", got.Tax)
	}
	if got.Total != 167.57 {
		t.Errorf("Total = %v, want 167.57", got.Total)
	}
}
