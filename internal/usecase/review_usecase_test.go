package usecase

import (
	"context"
	"testing"

	"lushlocks-backend/internal/domain"
)

func newReviewFixture() (*ReviewUsecase, *fakeReviewRepo, *fakeOrderRepo) {
	reviewRepo := &fakeReviewRepo{}
	orderRepo := newFakeOrderRepo()
	orderRepo.purchases = map[string]bool{"user-1|p1": true}
	productRepo := newFakeProductRepo()
	productRepo.products = map[string]*domain.Product{
		"p1": {ID: "p1", Name: "Brazilian Body Wave", IsActive: true},
	}
	uc := NewReviewUsecase(reviewRepo, orderRepo, productRepo)
	return uc, reviewRepo, orderRepo
}

func TestReviewCreate(t *testing.T) {
	t.Parallel()

	uc, reviewRepo, _ := newReviewFixture()

	review, err := uc.Create(context.Background(), customer(), CreateReviewRequest{
		ProductID: "p1",
		Rating:    5,
		Comment:   "holds a curl beautifully",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if !review.VerifiedPurchase {
		t.Error("VerifiedPurchase = false, want true")
	}
	if review.UserID != "user-1" || review.Rating != 5 {
		t.Errorf("review = %+v", review)
	}
	if len(reviewRepo.reviews) != 1 {
		t.Fatalf("persisted reviews = %d, want 1", len(reviewRepo.reviews))
	}
}

func TestReviewCreateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		principal *domain.Principal
		req       CreateReviewRequest
		wantKind  domain.ErrorKind
	}{
		{
			name:      "guests cannot review",
			principal: guest(),
			req:       CreateReviewRequest{ProductID: "p1", Rating: 5},
			wantKind:  domain.ErrKindAuth,
		},
		{
			name:      "rating out of range",
			principal: customer(),
			req:       CreateReviewRequest{ProductID: "p1", Rating: 6},
			wantKind:  domain.ErrKindValidation,
		},
		{
			name:      "unknown product",
			principal: customer(),
			req:       CreateReviewRequest{ProductID: "p9", Rating: 4},
			wantKind:  domain.ErrKindNotFound,
		},
		{
			name:      "never purchased",
			principal: &domain.Principal{Kind: domain.PrincipalCustomer, UserID: "user-2"},
			req:       CreateReviewRequest{ProductID: "p1", Rating: 4},
			wantKind:  domain.ErrKindForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			uc, reviewRepo, _ := newReviewFixture()

			_, err := uc.Create(context.Background(), tt.principal, tt.req)
			if err == nil {
				t.Fatal("Create() expected error")
			}
			if got := domain.KindOf(err); got != tt.wantKind {
				t.Errorf("KindOf(err) = %v, want %v", got, tt.wantKind)
			}
			if len(reviewRepo.reviews) != 0 {
				t.Errorf("reviews = %d, want none persisted", len(reviewRepo.reviews))
			}
		})
	}
}

func TestReviewOnePerProduct(t *testing.T) {
	t.Parallel()

	uc, reviewRepo, _ := newReviewFixture()
	req := CreateReviewRequest{ProductID: "p1", Rating: 4, Comment: "good"}

	if _, err := uc.Create(context.Background(), customer(), req); err != nil {
		t.Fatalf("first Create() error = %v", err)
	}
	_, err := uc.Create(context.Background(), customer(), req)
	if err == nil {
		t.Fatal("second Create() expected error")
	}
	if got := domain.KindOf(err); got != domain.ErrKindConflict {
		t.Errorf("KindOf(err) = %v, want conflict", got)
	}
	if len(reviewRepo.reviews) != 1 {
		t.Errorf("reviews = %d, want 1", len(reviewRepo.reviews))
	}
}
