package v1

import (
	"net/http"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/internal/usecase"
	"lushlocks-backend/pkg/utils"
)

type CartHandler struct {
	cartUC *usecase.CartUsecase
}

func NewCartHandler(cartUC *usecase.CartUsecase) *CartHandler {
	return &CartHandler{cartUC: cartUC}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.cartUC.Get(r.Context(), domain.PrincipalFrom(r.Context()))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, view)
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req usecase.AddItemRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	view, err := h.cartUC.AddItem(r.Context(), domain.PrincipalFrom(r.Context()), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, view)
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	variantID := r.PathValue("variantId")
	var req usecase.UpdateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	view, err := h.cartUC.UpdateItem(r.Context(), domain.PrincipalFrom(r.Context()), variantID, req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, view)
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	variantID := r.PathValue("variantId")
	view, err := h.cartUC.RemoveItem(r.Context(), domain.PrincipalFrom(r.Context()), variantID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, view)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.cartUC.Clear(r.Context(), domain.PrincipalFrom(r.Context())); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}

func (h *CartHandler) Validate(w http.ResponseWriter, r *http.Request) {
	result, err := h.cartUC.Validate(r.Context(), domain.PrincipalFrom(r.Context()))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, result)
}
