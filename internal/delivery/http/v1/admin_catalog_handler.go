package v1

import (
	"net/http"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/internal/usecase"
	"lushlocks-backend/pkg/utils"
)

// AdminCatalogHandler serves the admin product, variant, inventory, and media
// endpoints.
type AdminCatalogHandler struct {
	catalogUC      *usecase.CatalogUsecase
	maxUploadBytes int64
}

func NewAdminCatalogHandler(catalogUC *usecase.CatalogUsecase, maxUploadBytes int64) *AdminCatalogHandler {
	return &AdminCatalogHandler{catalogUC: catalogUC, maxUploadBytes: maxUploadBytes}
}

func (h *AdminCatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		Page:   utils.ParseInt(q.Get("page"), 1),
		Limit:  utils.ParseInt(q.Get("limit"), 20),
		Search: q.Get("search"),
	}
	products, total, err := h.catalogUC.ListAllProducts(r.Context(), filter)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccessMeta(w, http.StatusOK, products, domain.NewPagination(filter.Page, filter.Limit, total))
}

func (h *AdminCatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalogUC.GetProduct(r.Context(), r.PathValue("id"))
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, product)
}

func (h *AdminCatalogHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req usecase.ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	product, err := h.catalogUC.CreateProduct(r.Context(), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, product)
}

func (h *AdminCatalogHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req usecase.ProductRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	product, err := h.catalogUC.UpdateProduct(r.Context(), r.PathValue("id"), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, product)
}

func (h *AdminCatalogHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogUC.DeleteProduct(r.Context(), r.PathValue("id")); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}

func (h *AdminCatalogHandler) CreateVariant(w http.ResponseWriter, r *http.Request) {
	var req usecase.VariantRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	variant, err := h.catalogUC.CreateVariant(r.Context(), r.PathValue("id"), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, variant)
}

func (h *AdminCatalogHandler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	var req usecase.VariantRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	variant, err := h.catalogUC.UpdateVariant(r.Context(), r.PathValue("variantId"), req)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, variant)
}

func (h *AdminCatalogHandler) DeleteVariant(w http.ResponseWriter, r *http.Request) {
	if err := h.catalogUC.DeleteVariant(r.Context(), r.PathValue("variantId")); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}

func (h *AdminCatalogHandler) AdjustStock(w http.ResponseWriter, r *http.Request) {
	var req usecase.AdjustStockRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.catalogUC.AdjustStock(r.Context(), r.PathValue("variantId"), req); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}

func (h *AdminCatalogHandler) InventoryLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := utils.ParseInt(q.Get("page"), 1)
	limit := utils.ParseInt(q.Get("limit"), 50)
	logs, err := h.catalogUC.GetInventoryLogs(r.Context(), r.PathValue("variantId"), page, limit)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, logs)
}

func (h *AdminCatalogHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		utils.WriteError(w, domain.Validationf("upload exceeds the size limit"))
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		utils.WriteError(w, domain.Validationf("image file is required"))
		return
	}
	defer file.Close()

	url, err := h.catalogUC.UploadProductImage(r.Context(), r.PathValue("id"), file, header)
	if err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusCreated, map[string]string{"url": url})
}

type deleteImageRequest struct {
	URL string `json:"url"`
}

func (h *AdminCatalogHandler) DeleteImage(w http.ResponseWriter, r *http.Request) {
	var req deleteImageRequest
	if err := decodeJSON(r, &req); err != nil {
		utils.WriteError(w, err)
		return
	}
	if err := h.catalogUC.DeleteProductImage(r.Context(), r.PathValue("id"), req.URL); err != nil {
		utils.WriteError(w, err)
		return
	}
	utils.WriteSuccess(w, http.StatusOK, nil)
}
