package v1

import (
	"fmt"
	"net/http"
	"time"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/internal/usecase"
	"lushlocks-backend/pkg/logger"
	"lushlocks-backend/pkg/utils"
)

// AdminHandler covers the remaining back-office surface: discounts, shipping
// rates, review moderation, the newsletter export, and the customer list.
type AdminHandler struct {
	discountUC   *usecase.DiscountUsecase
	settingsUC   *usecase.SettingsUsecase
	reviewUC     *usecase.ReviewUsecase
	newsletterUC *usecase.NewsletterUsecase
	authUC       *usecase.AuthUsecase
}

func NewAdminHandler(
	discountUC *usecase.DiscountUsecase,
	settingsUC *usecase.SettingsUsecase,
	reviewUC *usecase.ReviewUsecase,
	newsletterUC *usecase.NewsletterUsecase,
	authUC *usecase.AuthUsecase,
) *AdminHandler {
	return &AdminHandler{
		discountUC:   discountUC,
		settingsUC:   settingsUC,
		reviewUC:     reviewUC,
		newsletterUC: newsletterUC,
		authUC:       authUC,
	}
}

func (h *AdminHandler) ListDiscounts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := utils.ParseInt(q.Get("page"), 1)
	limit := utils.ParseInt(q.Get("limit"), 20)
	discounts, total, err := h.discountUC.List(r.Context(), page, limit)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessMeta(w, http.StatusOK, discounts, domain.NewPagination(page, limit, total))
}

func (h *AdminHandler) GetDiscount(w http.ResponseWriter, r *http.Request) {
	discount, err := h.discountUC.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, discount)
}

func (h *AdminHandler) CreateDiscount(w http.ResponseWriter, r *http.Request) {
	var req usecase.DiscountRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	discount, err := h.discountUC.Create(r.Context(), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, discount)
}

func (h *AdminHandler) UpdateDiscount(w http.ResponseWriter, r *http.Request) {
	var req usecase.DiscountRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	discount, err := h.discountUC.Update(r.Context(), r.PathValue("id"), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, discount)
}

func (h *AdminHandler) DeleteDiscount(w http.ResponseWriter, r *http.Request) {
	if err := h.discountUC.Delete(r.Context(), r.PathValue("id")); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}

func (h *AdminHandler) ListShippingRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.settingsUC.AllShippingRates(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, rates)
}

func (h *AdminHandler) CreateShippingRate(w http.ResponseWriter, r *http.Request) {
	var req usecase.ShippingRateRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	rate, err := h.settingsUC.CreateShippingRate(r.Context(), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, rate)
}

func (h *AdminHandler) UpdateShippingRate(w http.ResponseWriter, r *http.Request) {
	id := utils.ParseInt(r.PathValue("id"), 0)
	if id <= 0 {
		utils.WriteError(w, domain.Validationf("invalid shipping rate id"))
		return
	}
	var req usecase.ShippingRateRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	rate, err := h.settingsUC.UpdateShippingRate(r.Context(), int32(id), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, rate)
}

func (h *AdminHandler) DeleteShippingRate(w http.ResponseWriter, r *http.Request) {
	id := utils.ParseInt(r.PathValue("id"), 0)
	if id <= 0 {
		utils.WriteError(w, domain.Validationf("invalid shipping rate id"))
		return
	}
	if err := h.settingsUC.DeleteShippingRate(r.Context(), int32(id)); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}

func (h *AdminHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := utils.ParseInt(q.Get("page"), 1)
	limit := utils.ParseInt(q.Get("limit"), 20)
	reviews, total, err := h.reviewUC.List(r.Context(), page, limit)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessMeta(w, http.StatusOK, reviews, domain.NewPagination(page, limit, total))
}

func (h *AdminHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.reviewUC.Delete(r.Context(), r.PathValue("id")); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}

func (h *AdminHandler) ExportSubscribers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="subscribers-%s.csv"`, time.Now().Format("2006-01-02")))
	if err := h.newsletterUC.ExportCSV(r.Context(), w); err != nil {
		// Headers are already out; all we can do is log.
		logger.Get().Error().Err(err).Msg("newsletter export failed")
	}
}

// Enums returns the status vocabularies the admin UI renders as dropdowns.
func (h *AdminHandler) Enums(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccess(w, http.StatusOK, map[string][]string{
		"orderStatuses":   domain.OrderStatuses,
		"paymentStatuses": domain.OrderPaymentStatuses,
		"returnStatuses":  domain.ReturnStatuses,
	})
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := utils.ParseInt(q.Get("page"), 1)
	limit := utils.ParseInt(q.Get("limit"), 20)
	users, total, err := h.authUC.ListUsers(r.Context(), page, limit)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessMeta(w, http.StatusOK, users, domain.NewPagination(page, limit, total))
}
