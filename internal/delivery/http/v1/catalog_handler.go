package v1

import (
	"net/http"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/internal/usecase"
	"lushlocks-backend/pkg/utils"
)

// CatalogHandler serves the public storefront reads: products, reviews, and
// shipping options.
type CatalogHandler struct {
	catalogUC  *usecase.CatalogUsecase
	reviewUC   *usecase.ReviewUsecase
	settingsUC *usecase.SettingsUsecase
}

func NewCatalogHandler(catalogUC *usecase.CatalogUsecase, reviewUC *usecase.ReviewUsecase, settingsUC *usecase.SettingsUsecase) *CatalogHandler {
	return &CatalogHandler{catalogUC: catalogUC, reviewUC: reviewUC, settingsUC: settingsUC}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		Page:   utils.ParseInt(q.Get("page"), 1),
		Limit:  utils.ParseInt(q.Get("limit"), 20),
		Search: q.Get("search"),
	}
	products, total, err := h.catalogUC.ListProducts(r.Context(), filter)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessMeta(w, http.StatusOK, products, domain.NewPagination(filter.Page, filter.Limit, total))
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogUC.GetProductBySlug(r.Context(), r.PathValue("slug"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, product)
}

func (h *CatalogHandler) ListProductReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := utils.ParseInt(q.Get("page"), 1)
	limit := utils.ParseInt(q.Get("limit"), 20)
	reviews, total, err := h.reviewUC.ListByProduct(r.Context(), r.PathValue("id"), page, limit)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessMeta(w, http.StatusOK, reviews, domain.NewPagination(page, limit, total))
}

func (h *CatalogHandler) ShippingRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.settingsUC.ActiveShippingRates(r.Context())
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, rates)
}
