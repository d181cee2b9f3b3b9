package v1

import (
	"net/http"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/internal/usecase"
	"lushlocks-backend/pkg/utils"
)

type ReturnHandler struct {
	returnUC *usecase.ReturnUsecase
}

func NewReturnHandler(returnUC *usecase.ReturnUsecase) *ReturnHandler {
	return &ReturnHandler{returnUC: returnUC}
}

func (h *ReturnHandler) Request(w http.ResponseWriter, r *http.Request) {
	var req usecase.CreateReturnRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	ret, err := h.returnUC.Request(r.Context(), domain.PrincipalFrom(r.Context()), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, ret)
}

func (h *ReturnHandler) MyReturns(w http.ResponseWriter, r *http.Request) {
	returns, err := h.returnUC.MyReturns(r.Context(), domain.PrincipalFrom(r.Context()))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, returns)
}
