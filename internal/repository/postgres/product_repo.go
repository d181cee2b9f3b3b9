package pgrepo

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lushlocks-backend/internal/domain"
)

type productRepository struct {
	db *pgxpool.Pool
}

func NewProductRepository(db *pgxpool.Pool) domain.ProductRepository {
	return &productRepository{db: db}
}

const productCols = "id, name, slug, description, is_active, media, created_at, updated_at"

func scanProduct(row interface{ Scan(dest ...any) error }) (*domain.Product, error) {
	var p domain.Product
	var media []byte
	if err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.IsActive, &media, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if len(media) > 0 {
		p.Media = domain.RawJSON(media)
		_ = json.Unmarshal(media, &p.Images)
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, p *domain.Product) error {
	q := querierFrom(ctx, r.db)
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	media, _ := json.Marshal(p.Images)
	err := q.QueryRow(ctx, `
		INSERT INTO products (id, name, slug, description, is_active, media)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Slug, p.Description, p.IsActive, media,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("product slug '%s' already exists", p.Slug)
		}
		return storageErr("create product", err)
	}
	return nil
}

func (r *productRepository) Update(ctx context.Context, p *domain.Product) error {
	q := querierFrom(ctx, r.db)
	media, _ := json.Marshal(p.Images)
	tag, err := q.Exec(ctx, `
		UPDATE products
		SET name = $2, slug = $3, description = $4, is_active = $5, media = $6, updated_at = now()
		WHERE id = $1`,
		p.ID, p.Name, p.Slug, p.Description, p.IsActive, media,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("product slug '%s' already exists", p.Slug)
		}
		return storageErr("update product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("product not found")
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	q := querierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete product", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("product not found")
	}
	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	return r.getOne(ctx, "id = $1", id)
}

func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	return r.getOne(ctx, "slug = $1", slug)
}

func (r *productRepository) getOne(ctx context.Context, where string, arg any) (*domain.Product, error) {
	q := querierFrom(ctx, r.db)
	p, err := scanProduct(q.QueryRow(ctx, "SELECT "+productCols+" FROM products WHERE "+where, arg))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NotFoundf("product not found")
		}
		return nil, storageErr("get product", err)
	}

	variants, err := r.listVariants(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	p.Variants = variants
	return p, nil
}

func (r *productRepository) List(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, int64, error) {
	q := querierFrom(ctx, r.db)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 20
	}
	offset := (page - 1) * limit

	var conds []string
	var args []any
	if !filter.IncludeInactive {
		conds = append(conds, "is_active = true")
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		conds = append(conds, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT count(*) FROM products"+where, args...).Scan(&total); err != nil {
		return nil, 0, storageErr("count products", err)
	}

	args = append(args, limit, offset)
	rows, err := q.Query(ctx,
		fmt.Sprintf("SELECT %s FROM products%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
			productCols, where, len(args)-1, len(args)),
		args...)
	if err != nil {
		return nil, 0, storageErr("list products", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, storageErr("scan product", err)
		}
		products = append(products, *p)
	}
	if rows.Err() != nil {
		return nil, 0, storageErr("list products", rows.Err())
	}

	// Attach variants per product; the list sizes here stay small enough
	// that N+1 is acceptable over assembling a join by hand.
	for i := range products {
		variants, err := r.listVariants(ctx, products[i].ID)
		if err != nil {
			return nil, 0, err
		}
		products[i].Variants = variants
	}

	return products, total, nil
}

// --- Variants ---

const variantCols = "id, product_id, sku, texture, length, color, price, stock, is_active, created_at, updated_at"

func scanVariant(row interface{ Scan(dest ...any) error }) (*domain.Variant, error) {
	var v domain.Variant
	if err := row.Scan(&v.ID, &v.ProductID, &v.SKU, &v.Texture, &v.Length, &v.Color,
		&v.Price, &v.Stock, &v.IsActive, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *productRepository) listVariants(ctx context.Context, productID string) ([]domain.Variant, error) {
	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx,
		"SELECT "+variantCols+" FROM product_variants WHERE product_id = $1 ORDER BY created_at",
		productID)
	if err != nil {
		return nil, storageErr("list variants", err)
	}
	defer rows.Close()

	var variants []domain.Variant
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, storageErr("scan variant", err)
		}
		variants = append(variants, *v)
	}
	return variants, rows.Err()
}

func (r *productRepository) CreateVariant(ctx context.Context, v *domain.Variant) error {
	q := querierFrom(ctx, r.db)
	if v.ID == "" {
		v.ID = uuid.New().String()
	}
	err := q.QueryRow(ctx, `
		INSERT INTO product_variants (id, product_id, sku, texture, length, color, price, stock, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		v.ID, v.ProductID, v.SKU, v.Texture, v.Length, v.Color, v.Price, v.Stock, v.IsActive,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("SKU '%s' already exists", v.SKU)
		}
		return storageErr("create variant", err)
	}
	return nil
}

func (r *productRepository) UpdateVariant(ctx context.Context, v *domain.Variant) error {
	q := querierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE product_variants
		SET sku = $2, texture = $3, length = $4, color = $5, price = $6, stock = $7,
		    is_active = $8, updated_at = now()
		WHERE id = $1`,
		v.ID, v.SKU, v.Texture, v.Length, v.Color, v.Price, v.Stock, v.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Conflictf("SKU '%s' already exists", v.SKU)
		}
		return storageErr("update variant", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("variant not found")
	}
	return nil
}

func (r *productRepository) DeleteVariant(ctx context.Context, id string) error {
	q := querierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, `DELETE FROM product_variants WHERE id = $1`, id)
	if err != nil {
		return storageErr("delete variant", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFoundf("variant not found")
	}
	return nil
}

const variantDetailQuery = `
	SELECT v.id, v.product_id, v.sku, v.texture, v.length, v.color, v.price, v.stock,
	       v.is_active, v.created_at, v.updated_at,
	       p.name, p.slug, p.is_active
	FROM product_variants v
	JOIN products p ON p.id = v.product_id`

func scanVariantDetail(row interface{ Scan(dest ...any) error }) (*domain.VariantDetail, error) {
	var d domain.VariantDetail
	if err := row.Scan(&d.ID, &d.ProductID, &d.SKU, &d.Texture, &d.Length, &d.Color,
		&d.Price, &d.Stock, &d.IsActive, &d.CreatedAt, &d.UpdatedAt,
		&d.ProductName, &d.ProductSlug, &d.ProductActive); err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *productRepository) GetVariantDetail(ctx context.Context, variantID string) (*domain.VariantDetail, error) {
	q := querierFrom(ctx, r.db)
	d, err := scanVariantDetail(q.QueryRow(ctx, variantDetailQuery+" WHERE v.id = $1", variantID))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.NotFoundf("variant not found")
		}
		return nil, storageErr("get variant", err)
	}
	return d, nil
}

func (r *productRepository) GetVariantDetails(ctx context.Context, variantIDs []string) ([]domain.VariantDetail, error) {
	if len(variantIDs) == 0 {
		return nil, nil
	}
	q := querierFrom(ctx, r.db)
	rows, err := q.Query(ctx, variantDetailQuery+" WHERE v.id = ANY($1)", variantIDs)
	if err != nil {
		return nil, storageErr("get variants", err)
	}
	defer rows.Close()

	var details []domain.VariantDetail
	for rows.Next() {
		d, err := scanVariantDetail(rows)
		if err != nil {
			return nil, storageErr("scan variant", err)
		}
		details = append(details, *d)
	}
	return details, rows.Err()
}

// AdjustStock applies delta with the non-negative precondition folded into
// the same statement, so concurrent decrements can never drive stock below
// zero (a losing decrement simply updates no row).
func (r *productRepository) AdjustStock(ctx context.Context, variantID string, delta int, reason string, refID string) error {
	q := querierFrom(ctx, r.db)
	tag, err := q.Exec(ctx, `
		UPDATE product_variants
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1 AND stock + $2 >= 0`,
		variantID, delta,
	)
	if err != nil {
		return storageErr("adjust stock", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.Stockf("insufficient stock for variant %s", variantID)
	}

	var ref *string
	if refID != "" {
		ref = &refID
	}
	_, err = q.Exec(ctx, `
		INSERT INTO inventory_logs (id, variant_id, delta, reason, ref_id)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.New().String(), variantID, delta, reason, ref,
	)
	if err != nil {
		return storageErr("log stock adjustment", err)
	}
	return nil
}

func (r *productRepository) GetInventoryLogs(ctx context.Context, variantID string, limit, offset int) ([]domain.InventoryLog, error) {
	q := querierFrom(ctx, r.db)
	if limit < 1 {
		limit = 50
	}
	rows, err := q.Query(ctx, `
		SELECT id, variant_id, delta, reason, ref_id, created_at
		FROM inventory_logs
		WHERE ($1 = '' OR variant_id = $1::uuid)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		variantID, limit, offset)
	if err != nil {
		return nil, storageErr("list inventory logs", err)
	}
	defer rows.Close()

	var logs []domain.InventoryLog
	for rows.Next() {
		var l domain.InventoryLog
		if err := rows.Scan(&l.ID, &l.VariantID, &l.Delta, &l.Reason, &l.RefID, &l.CreatedAt); err != nil {
			return nil, storageErr("scan inventory log", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
