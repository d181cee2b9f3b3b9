package usecase

import (
	"context"
	"time"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/pkg/cache"
	"lushlocks-backend/pkg/utils"
)

const shippingRatesCacheKey = "settings:shipping_rates"

// SettingsUsecase manages shipping rates. The active-rate snapshot is the
// only cached read in the system; prices, stock, and discounts are always
// read from storage.
type SettingsUsecase struct {
	settingsRepo domain.SettingsRepository
	cache        cache.CacheService
	cacheTTL     time.Duration
}

func NewSettingsUsecase(settingsRepo domain.SettingsRepository, c cache.CacheService, ttl time.Duration) *SettingsUsecase {
	return &SettingsUsecase{settingsRepo: settingsRepo, cache: c, cacheTTL: ttl}
}

// ActiveShippingRates serves the storefront's delivery options.
func (uc *SettingsUsecase) ActiveShippingRates(ctx context.Context) ([]domain.ShippingRate, error) {
	if uc.cache != nil {
		if cached, ok := uc.cache.Get(shippingRatesCacheKey); ok {
			if rates, ok := cached.([]domain.ShippingRate); ok {
				return rates, nil
			}
		}
	}

	rates, err := uc.settingsRepo.GetActiveShippingRates(ctx)
	if err != nil {
		return nil, err
	}
	if uc.cache != nil {
		uc.cache.Set(shippingRatesCacheKey, rates, uc.cacheTTL)
	}
	return rates, nil
}

func (uc *SettingsUsecase) AllShippingRates(ctx context.Context) ([]domain.ShippingRate, error) {
	return uc.settingsRepo.GetAllShippingRates(ctx)
}

type ShippingRateRequest struct {
	Key      string  `json:"key" validate:"required,max=50"`
	Label    string  `json:"label" validate:"required,max=100"`
	Cost     float64 `json:"cost" validate:"gte=0"`
	IsActive bool    `json:"isActive"`
}

func (uc *SettingsUsecase) CreateShippingRate(ctx context.Context, req ShippingRateRequest) (*domain.ShippingRate, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	rate, err := uc.settingsRepo.CreateShippingRate(ctx, &domain.ShippingRate{
		Key:      req.Key,
		Label:    req.Label,
		Cost:     req.Cost,
		IsActive: req.IsActive,
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate()
	return rate, nil
}

func (uc *SettingsUsecase) UpdateShippingRate(ctx context.Context, id int32, req ShippingRateRequest) (*domain.ShippingRate, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	rate, err := uc.settingsRepo.UpdateShippingRate(ctx, &domain.ShippingRate{
		ID:       id,
		Key:      req.Key,
		Label:    req.Label,
		Cost:     req.Cost,
		IsActive: req.IsActive,
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate()
	return rate, nil
}

func (uc *SettingsUsecase) DeleteShippingRate(ctx context.Context, id int32) error {
	if err := uc.settingsRepo.DeleteShippingRate(ctx, id); err != nil {
		return err
	}
	uc.invalidate()
	return nil
}

func (uc *SettingsUsecase) invalidate() {
	if uc.cache != nil {
		uc.cache.Delete(shippingRatesCacheKey)
	}
}
