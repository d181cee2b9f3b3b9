package v1

import (
	"net/http"

	"lushlocks-backend/internal/usecase"
	"lushlocks-backend/pkg/utils"
)

type DiscountHandler struct {
	discountUC *usecase.DiscountUsecase
}

func NewDiscountHandler(discountUC *usecase.DiscountUsecase) *DiscountHandler {
	return &DiscountHandler{discountUC: discountUC}
}

type validateDiscountRequest struct {
	Code       string  `json:"code"`
	OrderTotal float64 `json:"orderTotal"`
}

type validateDiscountResponse struct {
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discountAmount"`
	FinalTotal     float64 `json:"finalTotal"`
}

// Validate is the public evaluator; it never touches usage counters.
func (h *DiscountHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req validateDiscountRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	discount, amount, err := h.discountUC.Evaluate(r.Context(), req.Code, req.OrderTotal)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, validateDiscountResponse{
		Code:           discount.Code,
		DiscountAmount: amount,
		FinalTotal:     utils.Round2(req.OrderTotal - amount),
	})
}
