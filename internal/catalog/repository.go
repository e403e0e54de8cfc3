package catalog

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spoxpro/spoxpro-backend/pkg/db/models"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
	"github.com/spoxpro/spoxpro-backend/pkg/pagination"
)

// Repository wires together all catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads the product without associations.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductDetail fetches a product with its taxonomy lookups and size rows.
func (r *Repository) GetProductDetail(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("ProductType").
		Preload("SportType").
		Preload("Material").
		Preload("Sizes", func(db *gorm.DB) *gorm.DB {
			return db.Order("size ASC")
		}).
		First(&product, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetProductByArticleNumber fetches a product detail by its article number.
func (r *Repository) GetProductByArticleNumber(ctx context.Context, articleNumber string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("ProductType").
		Preload("SportType").
		Preload("Material").
		Preload("Sizes").
		First(&product, "article_number = ?", strings.TrimSpace(articleNumber)).
		Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Omit("Category", "ProductType", "SportType", "Material").Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("Category", "ProductType", "SportType", "Material", "Sizes").Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product by ID. Size rows cascade.
func (r *Repository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// ReplaceSizes replaces all size rows for the product.
func (r *Repository) ReplaceSizes(ctx context.Context, productID uuid.UUID, sizes []models.ProductSize) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductSize{}).Error; err != nil {
		return err
	}
	if len(sizes) == 0 {
		return nil
	}
	return tx.Create(&sizes).Error
}

// IncrementViewCount bumps the popularity counter without racing other readers.
func (r *Repository) IncrementViewCount(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// AvailableQuantity returns the remaining stock for a product size, zero when
// no row exists.
func (r *Repository) AvailableQuantity(ctx context.Context, productID uuid.UUID, size enums.Size) (int, error) {
	var row models.ProductSize
	err := r.db.WithContext(ctx).
		First(&row, "product_id = ? AND size = ?", productID, size).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return 0, nil
		}
		return 0, err
	}
	return row.Quantity, nil
}

// DecrementStock atomically subtracts qty from the size row, refusing to go
// below zero. Returns false when the remaining stock was insufficient.
func (r *Repository) DecrementStock(ctx context.Context, productID uuid.UUID, size enums.Size, qty int) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.ProductSize{}).
		Where("product_id = ? AND size = ? AND quantity >= ?", productID, size, qty).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity - ?", qty),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// RestoreStock adds qty back to the size row, creating it if the row was
// removed since the order was placed.
func (r *Repository) RestoreStock(ctx context.Context, productID uuid.UUID, size enums.Size, qty int) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductSize{}).
		Where("product_id = ? AND size = ?", productID, size).
		Updates(map[string]any{
			"quantity":   gorm.Expr("quantity + ?", qty),
			"updated_at": time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&models.ProductSize{
		ProductID: productID,
		Size:      size,
		Quantity:  qty,
	}).Error
}

type productListQuery struct {
	Pagination pagination.Params
	Filters    ProductListFilters
}

// summaryQuery builds the joined select that backs every summary listing.
func (r *Repository) summaryQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Table("products p").
		Select(strings.Join([]string{
			"p.id",
			"p.name",
			"p.article_number",
			"p.brand",
			"p.color",
			"p.gender",
			"p.price_cents",
			"p.discount_percent",
			"p.created_at",
			"p.updated_at",
			"c.name AS category",
			"pt.name AS product_type",
			"st.name AS sport_type",
			"m.name AS material",
		}, ", ")).
		Joins("LEFT JOIN categories c ON c.id = p.category_id").
		Joins("LEFT JOIN product_types pt ON pt.id = p.product_type_id").
		Joins("LEFT JOIN sport_types st ON st.id = p.sport_type_id").
		Joins("LEFT JOIN materials m ON m.id = p.material_id")
}

// CountProducts returns the total number of catalog listings.
func (r *Repository) CountProducts(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error
	return total, err
}

// ListMostViewed returns the products with the highest view counters.
func (r *Repository) ListMostViewed(ctx context.Context, limit int) ([]ProductSummary, error) {
	var records []productSummaryRecord
	err := r.summaryQuery(ctx).
		Order("p.view_count DESC").
		Order("p.id DESC").
		Limit(limit).
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return summariesFromRecords(records), nil
}

// ListLowStock returns products whose summed stock across sizes is below
// maxUnits but not sold out, scarcest first.
func (r *Repository) ListLowStock(ctx context.Context, maxUnits, limit int) ([]ProductSummary, error) {
	var records []productSummaryRecord
	err := r.summaryQuery(ctx).
		Joins("JOIN (SELECT product_id, SUM(quantity) AS total_units FROM product_sizes GROUP BY product_id) stock ON stock.product_id = p.id").
		Where("stock.total_units > 0 AND stock.total_units < ?", maxUnits).
		Order("stock.total_units ASC").
		Order("p.id DESC").
		Limit(limit).
		Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return summariesFromRecords(records), nil
}

func summariesFromRecords(records []productSummaryRecord) []ProductSummary {
	summaries := make([]ProductSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, record.toSummary())
	}
	return summaries
}

// ListProductSummaries runs the filtered, cursor-paginated browse query.
func (r *Repository) ListProductSummaries(ctx context.Context, query productListQuery) (*ProductListResult, error) {
	pageSize := pagination.NormalizeLimit(query.Pagination.Limit)
	limitWithBuffer := pagination.LimitWithBuffer(query.Pagination.Limit)
	if limitWithBuffer <= pageSize {
		limitWithBuffer = pageSize + 1
	}

	cursor, err := pagination.ParseCursor(query.Pagination.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.summaryQuery(ctx)

	filter := query.Filters
	if name := strings.TrimSpace(filter.Category); name != "" {
		qb = qb.Where("LOWER(c.name) = ?", strings.ToLower(name))
	}
	if name := strings.TrimSpace(filter.ProductType); name != "" {
		qb = qb.Where("LOWER(pt.name) = ?", strings.ToLower(name))
	}
	if name := strings.TrimSpace(filter.SportType); name != "" {
		qb = qb.Where("LOWER(st.name) = ?", strings.ToLower(name))
	}
	if name := strings.TrimSpace(filter.Material); name != "" {
		qb = qb.Where("LOWER(m.name) = ?", strings.ToLower(name))
	}
	if color := strings.TrimSpace(filter.Color); color != "" {
		qb = qb.Where("LOWER(p.color) = ?", strings.ToLower(color))
	}
	if brand := strings.TrimSpace(filter.Brand); brand != "" {
		qb = qb.Where("LOWER(p.brand) = ?", strings.ToLower(brand))
	}
	if filter.Gender != nil {
		qb = qb.Where("p.gender = ?", *filter.Gender)
	}
	if filter.Size != nil {
		qb = qb.Where("EXISTS (SELECT 1 FROM product_sizes ps WHERE ps.product_id = p.id AND ps.size = ? AND ps.quantity > 0)", *filter.Size)
	}
	if filter.PriceMinCents != nil {
		qb = qb.Where("p.price_cents >= ?", *filter.PriceMinCents)
	}
	if filter.PriceMaxCents != nil {
		qb = qb.Where("p.price_cents <= ?", *filter.PriceMaxCents)
	}
	if search := strings.TrimSpace(filter.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("(LOWER(p.name) LIKE ? OR LOWER(p.description) LIKE ? OR LOWER(p.article_number) LIKE ?)", pattern, pattern, pattern)
	}

	if cursor != nil {
		qb = qb.Where("(p.created_at < ?) OR (p.created_at = ? AND p.id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	qb = qb.Order("p.created_at DESC").Order("p.id DESC").Limit(limitWithBuffer)

	var records []productSummaryRecord
	if err := qb.Scan(&records).Error; err != nil {
		return nil, err
	}

	resultRows := records
	nextCursor := ""
	if len(records) > pageSize {
		resultRows = records[:pageSize]
		last := resultRows[len(resultRows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}

	return &ProductListResult{
		Products:   summariesFromRecords(resultRows),
		NextCursor: nextCursor,
	}, nil
}

type productSummaryRecord struct {
	ID              uuid.UUID
	Name            string
	ArticleNumber   string
	Brand           string
	Color           string
	Gender          enums.Gender
	PriceCents      int
	DiscountPercent int
	Category        string
	ProductType     string
	SportType       string
	Material        string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (r productSummaryRecord) toSummary() ProductSummary {
	return ProductSummary{
		ID:                  r.ID,
		Name:                r.Name,
		ArticleNumber:       r.ArticleNumber,
		Brand:               r.Brand,
		Color:               r.Color,
		Gender:              r.Gender,
		PriceCents:          r.PriceCents,
		DiscountPercent:     r.DiscountPercent,
		EffectivePriceCents: EffectivePriceCents(r.PriceCents, r.DiscountPercent),
		Category:            r.Category,
		ProductType:         r.ProductType,
		SportType:           r.SportType,
		Material:            r.Material,
		CreatedAt:           r.CreatedAt,
		UpdatedAt:           r.UpdatedAt,
	}
}
