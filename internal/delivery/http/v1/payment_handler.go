package v1

import (
	"io"
	"net/http"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/internal/usecase"
	"lushlocks-backend/pkg/logger"
	"lushlocks-backend/pkg/utils"
)

// itnBodyLimit bounds the webhook body; legitimate ITN posts are tiny.
const itnBodyLimit = 64 * 1024

type PaymentHandler struct {
	paymentUC *usecase.PaymentUsecase
}

func NewPaymentHandler(paymentUC *usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{paymentUC: paymentUC}
}

type createPaymentRequest struct {
	OrderID string `json:"orderId"`
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createPaymentRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	if req.OrderID == "" {
		utils.WriteError(w, domain.Validationf("orderId is required"))
		return
	}
	result, err := h.paymentUC.Initiate(r.Context(), domain.PrincipalFrom(r.Context()), req.OrderID)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, result)
}

// Notify receives PayFast's form-encoded ITN post. The gateway contract is
// an unconditional 200: any internal failure is logged as an alert event and
// acknowledged anyway so the gateway does not retry-storm a broken handler.
func (h *PaymentHandler) Notify(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, itnBodyLimit))
	if err != nil {
		logger.Alert().Err(err).Msg("payment notification body read failed")
		h.acknowledge(w)
		return
	}

	if err := h.paymentUC.HandleNotification(r.Context(), body, utils.ClientIP(r)); err != nil {
		logger.Alert().Err(err).Str("ip", utils.ClientIP(r)).Msg("payment notification processing failed")
	}
	h.acknowledge(w)
}

func (h *PaymentHandler) acknowledge(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (h *PaymentHandler) ListByOrder(w http.ResponseWriter, r *http.Request) {
	payments, err := h.paymentUC.ListByOrder(r.Context(), domain.PrincipalFrom(r.Context()), r.PathValue("orderId"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, payments)
}
