package usecase

import (
	"context"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/pkg/utils"
)

// ReviewUsecase enforces the purchase gate and the one-review-per-product rule.
type ReviewUsecase struct {
	reviewRepo  domain.ReviewRepository
	orderRepo   domain.OrderRepository
	productRepo domain.ProductRepository
}

func NewReviewUsecase(reviewRepo domain.ReviewRepository, orderRepo domain.OrderRepository, productRepo domain.ProductRepository) *ReviewUsecase {
	return &ReviewUsecase{
		reviewRepo:  reviewRepo,
		orderRepo:   orderRepo,
		productRepo: productRepo,
	}
}

type CreateReviewRequest struct {
	ProductID string `json:"productId" validate:"required"`
	Rating    int    `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=2000"`
}

func (uc *ReviewUsecase) Create(ctx context.Context, p *domain.Principal, req CreateReviewRequest) (*domain.Review, error) {
	if !p.IsCustomer() {
		return nil, domain.Authf("sign in to leave a review")
	}
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	if _, err := uc.productRepo.GetByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	purchased, err := uc.orderRepo.HasPurchasedProduct(ctx, p.UserID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !purchased {
		return nil, domain.Forbiddenf("only customers who purchased this product can review it")
	}

	exists, err := uc.reviewRepo.ExistsForUserAndProduct(ctx, p.UserID, req.ProductID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Conflictf("you have already reviewed this product")
	}

	review := &domain.Review{
		ProductID:        req.ProductID,
		UserID:           p.UserID,
		Rating:           req.Rating,
		Comment:          req.Comment,
		VerifiedPurchase: true,
	}
	if err := uc.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (uc *ReviewUsecase) ListByProduct(ctx context.Context, productID string, page, limit int) ([]domain.Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.reviewRepo.ListByProduct(ctx, productID, limit, (page-1)*limit)
}

func (uc *ReviewUsecase) List(ctx context.Context, page, limit int) ([]domain.Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return uc.reviewRepo.List(ctx, limit, (page-1)*limit)
}

func (uc *ReviewUsecase) Delete(ctx context.Context, id string) error {
	return uc.reviewRepo.Delete(ctx, id)
}
