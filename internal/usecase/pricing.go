package usecase

import (
	"context"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/pkg/utils"
)

// LineRequest is one (variant, quantity) pair to be priced. Any price the
// client may have sent alongside it is ignored before it reaches here.
type LineRequest struct {
	VariantID string
	Quantity  int
}

// PricedLine is a validated cart line carrying the server-fetched price.
type PricedLine struct {
	Variant      domain.VariantDetail
	Quantity     int
	UnitPrice    float64
	LineSubtotal float64
}

// PricingEngine recomputes line totals from authoritative variant records.
// It is a read-only pass shared by cart reads, cart validation, and checkout.
type PricingEngine struct {
	productRepo domain.ProductRepository
	maxQuantity int
}

func NewPricingEngine(productRepo domain.ProductRepository, maxQuantity int) *PricingEngine {
	if maxQuantity <= 0 {
		maxQuantity = 1000
	}
	return &PricingEngine{productRepo: productRepo, maxQuantity: maxQuantity}
}

// PriceLines validates and prices every requested line or fails on the first
// problem. The subtotal is the exact sum; rounding happens at output time.
func (e *PricingEngine) PriceLines(ctx context.Context, requests []LineRequest) ([]PricedLine, float64, error) {
	if len(requests) == 0 {
		return nil, 0, domain.Validationf("no items to price")
	}

	ids := make([]string, 0, len(requests))
	for _, req := range requests {
		if req.Quantity <= 0 {
			return nil, 0, domain.Validationf("quantity must be a positive integer")
		}
		if req.Quantity > e.maxQuantity {
			return nil, 0, domain.Validationf("quantity exceeds the maximum of %d per item", e.maxQuantity)
		}
		ids = append(ids, req.VariantID)
	}

	details, err := e.productRepo.GetVariantDetails(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	byID := make(map[string]domain.VariantDetail, len(details))
	for _, d := range details {
		byID[d.ID] = d
	}

	var lines []PricedLine
	var subtotal float64
	for _, req := range requests {
		detail, ok := byID[req.VariantID]
		if !ok || !detail.Purchasable() {
			return nil, 0, domain.NotFoundf("product variant not found or unavailable")
		}
		if req.Quantity > detail.Stock {
			return nil, 0, domain.Stockf("insufficient stock for %s (%d available)", detail.ProductName, detail.Stock)
		}
		lineSubtotal := detail.Price * float64(req.Quantity)
		lines = append(lines, PricedLine{
			Variant:      detail,
			Quantity:     req.Quantity,
			UnitPrice:    detail.Price,
			LineSubtotal: utils.Round2(lineSubtotal),
		})
		subtotal += lineSubtotal
	}

	return lines, subtotal, nil
}
