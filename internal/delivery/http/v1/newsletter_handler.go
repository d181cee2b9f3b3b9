package v1

import (
	"net/http"

	"lushlocks-backend/internal/usecase"
	"lushlocks-backend/pkg/utils"
)

type NewsletterHandler struct {
	newsletterUC *usecase.NewsletterUsecase
}

func NewNewsletterHandler(newsletterUC *usecase.NewsletterUsecase) *NewsletterHandler {
	return &NewsletterHandler{newsletterUC: newsletterUC}
}

type subscribeRequest struct {
	Email string `json:"email"`
}

func (h *NewsletterHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	sub, err := h.newsletterUC.Subscribe(r.Context(), req.Email)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, sub)
}

func (h *NewsletterHandler) Unsubscribe(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.newsletterUC.Unsubscribe(r.Context(), req.Email); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}
