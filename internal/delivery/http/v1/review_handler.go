package v1

import (
	"net/http"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/internal/usecase"
	"lushlocks-backend/pkg/utils"
)

type ReviewHandler struct {
	reviewUC *usecase.ReviewUsecase
}

func NewReviewHandler(reviewUC *usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{reviewUC: reviewUC}
}

func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	review, err := h.reviewUC.Create(r.Context(), domain.PrincipalFrom(r.Context()), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, review)
}
