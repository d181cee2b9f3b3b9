package usecase

import (
	"context"
	"strings"
	"time"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/pkg/utils"
)

// DiscountUsecase covers the public evaluator and the admin CRUD surface.
type DiscountUsecase struct {
	discountRepo domain.DiscountRepository
}

func NewDiscountUsecase(discountRepo domain.DiscountRepository) *DiscountUsecase {
	return &DiscountUsecase{discountRepo: discountRepo}
}

// Evaluate validates a code against a subtotal and returns the discount and
// the computed amount. Validation-only: no usage counter is touched here;
// that happens inside the checkout transaction.
func (uc *DiscountUsecase) Evaluate(ctx context.Context, code string, subtotal float64) (*domain.Discount, float64, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, 0, domain.Validationf("discount code is required")
	}

	d, err := uc.discountRepo.GetByCode(ctx, code)
	if err != nil {
		return nil, 0, err
	}
	if !d.IsActive {
		return nil, 0, domain.NotFoundf("discount code not found")
	}
	if d.ExpiresAt != nil && time.Now().After(*d.ExpiresAt) {
		return nil, 0, domain.Validationf("discount code has expired")
	}
	if subtotal < d.MinPurchase {
		return nil, 0, domain.Validationf("order total does not meet the minimum purchase of %.2f", d.MinPurchase)
	}
	if d.UsageLimit != nil && d.UsedCount >= *d.UsageLimit {
		return nil, 0, domain.Validationf("discount code usage limit reached")
	}

	var amount float64
	switch d.Type {
	case domain.DiscountTypePercentage:
		amount = subtotal * d.Value / 100
	case domain.DiscountTypeFixed:
		amount = d.Value
	default:
		return nil, 0, domain.Internal("unknown discount type "+d.Type, nil)
	}
	// A discount alone can zero the subtotal but never push the total negative.
	if amount > subtotal {
		amount = subtotal
	}
	return d, utils.Round2(amount), nil
}

type DiscountRequest struct {
	Code        string     `json:"code" validate:"required"`
	Type        string     `json:"type" validate:"required,oneof=percentage fixed"`
	Value       float64    `json:"value" validate:"required,gt=0"`
	MinPurchase float64    `json:"minPurchase" validate:"gte=0"`
	UsageLimit  *int       `json:"usageLimit" validate:"omitempty,gt=0"`
	ExpiresAt   *time.Time `json:"expiresAt"`
	IsActive    bool       `json:"isActive"`
}

func (uc *DiscountUsecase) validate(req DiscountRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	if req.Type == domain.DiscountTypePercentage && req.Value > 100 {
		return domain.Validationf("percentage discount cannot exceed 100")
	}
	return nil
}

func (uc *DiscountUsecase) Create(ctx context.Context, req DiscountRequest) (*domain.Discount, error) {
	if err := uc.validate(req); err != nil {
		return nil, err
	}
	d := &domain.Discount{
		Code:        strings.ToUpper(strings.TrimSpace(req.Code)),
		Type:        req.Type,
		Value:       req.Value,
		MinPurchase: req.MinPurchase,
		UsageLimit:  req.UsageLimit,
		ExpiresAt:   req.ExpiresAt,
		IsActive:    req.IsActive,
	}
	if err := uc.discountRepo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (uc *DiscountUsecase) Update(ctx context.Context, id string, req DiscountRequest) (*domain.Discount, error) {
	if err := uc.validate(req); err != nil {
		return nil, err
	}
	existing, err := uc.discountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	existing.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	existing.Type = req.Type
	existing.Value = req.Value
	existing.MinPurchase = req.MinPurchase
	existing.UsageLimit = req.UsageLimit
	existing.ExpiresAt = req.ExpiresAt
	existing.IsActive = req.IsActive
	if err := uc.discountRepo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (uc *DiscountUsecase) Delete(ctx context.Context, id string) error {
	return uc.discountRepo.Delete(ctx, id)
}

func (uc *DiscountUsecase) Get(ctx context.Context, id string) (*domain.Discount, error) {
	return uc.discountRepo.GetByID(ctx, id)
}

func (uc *DiscountUsecase) List(ctx context.Context, page, limit int) ([]domain.Discount, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.discountRepo.List(ctx, limit, (page-1)*limit)
}
