package usecase

import (
	"context"
	"mime/multipart"

	"lushlocks-backend/internal/domain"
	"lushlocks-backend/pkg/logger"
	"lushlocks-backend/pkg/storage"
	"lushlocks-backend/pkg/utils"
)

// CatalogUsecase serves the public product surface and the admin product,
// variant, media, and inventory management behind it.
type CatalogUsecase struct {
	productRepo domain.ProductRepository
	media       *storage.R2Storage
}

func NewCatalogUsecase(productRepo domain.ProductRepository, media *storage.R2Storage) *CatalogUsecase {
	return &CatalogUsecase{productRepo: productRepo, media: media}
}

// ListProducts is the public listing: active products only.
func (uc *CatalogUsecase) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	filter.IncludeInactive = false
	return uc.productRepo.List(ctx, filter)
}

// ListAllProducts is the admin listing, inactive included.
func (uc *CatalogUsecase) ListAllProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	filter.IncludeInactive = true
	return uc.productRepo.List(ctx, filter)
}

func (uc *CatalogUsecase) GetProductBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	p, err := uc.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if !p.IsActive {
		return nil, domain.NotFoundf("product not found")
	}
	return p, nil
}

func (uc *CatalogUsecase) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return uc.productRepo.GetByID(ctx, id)
}

type ProductRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=5000"`
	IsActive    bool   `json:"isActive"`
}

func (uc *CatalogUsecase) CreateProduct(ctx context.Context, req ProductRequest) (*domain.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	p := &domain.Product{
		Name:        req.Name,
		Slug:        utils.GenerateSlug(req.Name),
		Description: req.Description,
		IsActive:    req.IsActive,
	}
	if err := uc.productRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *CatalogUsecase) UpdateProduct(ctx context.Context, id string, req ProductRequest) (*domain.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	p, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = req.Name
	p.Slug = utils.GenerateSlug(req.Name)
	p.Description = req.Description
	p.IsActive = req.IsActive
	if err := uc.productRepo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (uc *CatalogUsecase) DeleteProduct(ctx context.Context, id string) error {
	p, err := uc.productRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	// Media cleanup is best-effort; an orphaned object is not worth failing
	// the delete over.
	if uc.media != nil {
		for _, img := range p.Images {
			if err := uc.media.DeleteFile(ctx, img); err != nil {
				logger.Warn().Err(err).Str("url", img).Msg("media delete failed")
			}
		}
	}
	return nil
}

type VariantRequest struct {
	SKU      string  `json:"sku" validate:"required,max=64"`
	Texture  string  `json:"texture" validate:"required,max=50"`
	Length   string  `json:"length" validate:"required,max=50"`
	Color    string  `json:"color" validate:"required,max=50"`
	Price    float64 `json:"price" validate:"required,gt=0"`
	Stock    int     `json:"stock" validate:"gte=0"`
	IsActive bool    `json:"isActive"`
}

func (uc *CatalogUsecase) CreateVariant(ctx context.Context, productID string, req VariantRequest) (*domain.Variant, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if _, err := uc.productRepo.GetByID(ctx, productID); err != nil {
		return nil, err
	}
	v := &domain.Variant{
		ProductID: productID,
		SKU:       req.SKU,
		Texture:   req.Texture,
		Length:    req.Length,
		Color:     req.Color,
		Price:     req.Price,
		Stock:     req.Stock,
		IsActive:  req.IsActive,
	}
	if err := uc.productRepo.CreateVariant(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (uc *CatalogUsecase) UpdateVariant(ctx context.Context, variantID string, req VariantRequest) (*domain.Variant, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	detail, err := uc.productRepo.GetVariantDetail(ctx, variantID)
	if err != nil {
		return nil, err
	}
	v := detail.Variant
	v.SKU = req.SKU
	v.Texture = req.Texture
	v.Length = req.Length
	v.Color = req.Color
	v.Price = req.Price
	v.IsActive = req.IsActive
	// Stock changes go through AdjustStock so the movement is logged; the
	// absolute value in the request is translated into a delta.
	if err := uc.productRepo.UpdateVariant(ctx, &v); err != nil {
		return nil, err
	}
	if req.Stock != detail.Stock {
		delta := req.Stock - detail.Stock
		if err := uc.productRepo.AdjustStock(ctx, variantID, delta, "admin_adjustment", ""); err != nil {
			return nil, err
		}
		v.Stock = req.Stock
	}
	return &v, nil
}

func (uc *CatalogUsecase) DeleteVariant(ctx context.Context, variantID string) error {
	return uc.productRepo.DeleteVariant(ctx, variantID)
}

type AdjustStockRequest struct {
	Delta  int    `json:"delta" validate:"required"`
	Reason string `json:"reason" validate:"required,max=100"`
}

func (uc *CatalogUsecase) AdjustStock(ctx context.Context, variantID string, req AdjustStockRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return err
	}
	return uc.productRepo.AdjustStock(ctx, variantID, req.Delta, req.Reason, "")
}

func (uc *CatalogUsecase) GetInventoryLogs(ctx context.Context, variantID string, page, limit int) ([]domain.InventoryLog, error) {
	if page < 1 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return uc.productRepo.GetInventoryLogs(ctx, variantID, limit, (page-1)*limit)
}

// UploadProductImage processes the upload (resize, WebP) and attaches the
// resulting public URL to the product.
func (uc *CatalogUsecase) UploadProductImage(ctx context.Context, productID string, file multipart.File, header *multipart.FileHeader) (string, error) {
	if uc.media == nil {
		return "", domain.Internal("media storage is not configured", nil)
	}
	if !utils.IsImage(header.Header.Get("Content-Type")) {
		return "", domain.Validationf("file must be a JPEG, PNG, or WebP image")
	}

	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return "", err
	}

	data, contentType, err := utils.ProcessImage(file, header.Filename)
	if err != nil {
		return "", domain.Validationf("could not process image: %v", err)
	}
	url, err := uc.media.UploadBuffer(ctx, data, contentType)
	if err != nil {
		return "", domain.Internal("media upload failed", err)
	}

	p.Images = append(p.Images, url)
	if err := uc.productRepo.Update(ctx, p); err != nil {
		return "", err
	}
	return url, nil
}

// DeleteProductImage detaches the URL from the product and removes the object.
func (uc *CatalogUsecase) DeleteProductImage(ctx context.Context, productID, url string) error {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}

	found := false
	kept := p.Images[:0]
	for _, img := range p.Images {
		if img == url {
			found = true
			continue
		}
		kept = append(kept, img)
	}
	if !found {
		return domain.NotFoundf("image not found on product")
	}
	p.Images = kept
	if err := uc.productRepo.Update(ctx, p); err != nil {
		return err
	}

	if uc.media != nil {
		if err := uc.media.DeleteFile(ctx, url); err != nil {
			logger.Warn().Err(err).Str("url", url).Msg("media delete failed")
		}
	}
	return nil
}
