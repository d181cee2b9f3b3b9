package v1

import (
	"net/http"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/internal/usecase"
	"lushlocks-backend/pkg/utils"
)

// AdminOrderHandler serves the admin order, return, and payment endpoints.
type AdminOrderHandler struct {
	orderUC   *usecase.OrderUsecase
	returnUC  *usecase.ReturnUsecase
	paymentUC *usecase.PaymentUsecase
}

func NewAdminOrderHandler(orderUC *usecase.OrderUsecase, returnUC *usecase.ReturnUsecase, paymentUC *usecase.PaymentUsecase) *AdminOrderHandler {
	return &AdminOrderHandler{orderUC: orderUC, returnUC: returnUC, paymentUC: paymentUC}
}

func (h *AdminOrderHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.OrderFilter{
		Page:          utils.ParseInt(q.Get("page"), 1),
		Limit:         utils.ParseInt(q.Get("limit"), 20),
		Status:        q.Get("status"),
		PaymentStatus: q.Get("paymentStatus"),
		Search:        q.Get("search"),
	}
	orders, total, err := h.orderUC.ListOrders(r.Context(), filter)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessMeta(w, http.StatusOK, orders, domain.NewPagination(filter.Page, filter.Limit, total))
}

func (h *AdminOrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderUC.GetOrder(r.Context(), domain.PrincipalFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, order)
}

func (h *AdminOrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req usecase.UpdateOrderStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	p := domain.PrincipalFrom(r.Context())
	order, err := h.orderUC.UpdateStatus(r.Context(), p.UserID, r.PathValue("id"), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, order)
}

func (h *AdminOrderHandler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	history, err := h.orderUC.GetHistory(r.Context(), r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, history)
}

func (h *AdminOrderHandler) OrderPayments(w http.ResponseWriter, r *http.Request) {
	payments, err := h.paymentUC.ListByOrder(r.Context(), domain.PrincipalFrom(r.Context()), r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, payments)
}

func (h *AdminOrderHandler) ListReturns(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ReturnFilter{
		Page:   utils.ParseInt(q.Get("page"), 1),
		Limit:  utils.ParseInt(q.Get("limit"), 20),
		Status: q.Get("status"),
	}
	returns, total, err := h.returnUC.List(r.Context(), filter)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessMeta(w, http.StatusOK, returns, domain.NewPagination(filter.Page, filter.Limit, total))
}

func (h *AdminOrderHandler) GetReturn(w http.ResponseWriter, r *http.Request) {
	ret, err := h.returnUC.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, ret)
}

type reviewReturnRequest struct {
	Approve bool `json:"approve"`
}

func (h *AdminOrderHandler) ReviewReturn(w http.ResponseWriter, r *http.Request) {
	var req reviewReturnRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	ret, err := h.returnUC.Review(r.Context(), r.PathValue("id"), req.Approve)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, ret)
}

func (h *AdminOrderHandler) RefundReturn(w http.ResponseWriter, r *http.Request) {
	var req usecase.RefundRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	ret, err := h.returnUC.Refund(r.Context(), r.PathValue("id"), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, ret)
}
