package usecase

import (
	"lushlocks-backend/internal/domain"
	"lushlocks-backend/pkg/utils"
)

// Totals is the finalized money breakdown of an order. Every field is rounded
// to 2dp; the formula runs on unrounded inputs so rounding error cannot
// compound across steps.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discountAmount"`
	Tax            float64 `json:"tax"`
	ShippingCost   float64 `json:"shippingCost"`
	Total          float64 `json:"total"`
}

// TotalCalculator combines subtotal, discount, tax rate, and shipping into a
// final total. The tax rate is a configured fraction (0.15 for ZA VAT).
type TotalCalculator struct {
	taxRate float64
}

func NewTotalCalculator(taxRate float64) *TotalCalculator {
	return &TotalCalculator{taxRate: taxRate}
}

func (c *TotalCalculator) Calculate(subtotal, discountAmount, shippingCost float64) (Totals, error) {
	if shippingCost < 0 {
		return Totals{}, domain.Validationf("shipping cost cannot be negative")
	}
	if discountAmount > subtotal {
		discountAmount = subtotal
	}

	taxable := subtotal - discountAmount
	tax := taxable * c.taxRate
	total := taxable + tax + shippingCost

	return Totals{
		Subtotal:       utils.Round2(subtotal),
		DiscountAmount: utils.Round2(discountAmount),
		Tax:            utils.Round2(tax),
		ShippingCost:   utils.Round2(shippingCost),
		Total:          utils.Round2(total),
	}, nil
}
