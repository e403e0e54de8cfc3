package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/spoxpro/spoxpro-backend/pkg/db"
	"github.com/spoxpro/spoxpro-backend/pkg/db/models"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
	pkgerrors "github.com/spoxpro/spoxpro-backend/pkg/errors"
	"github.com/spoxpro/spoxpro-backend/pkg/logger"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes catalog browsing and admin product management.
type Service interface {
	ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error)
	GetProductByArticleNumber(ctx context.Context, articleNumber string) (*ProductDTO, error)
	ListTaxonomies(ctx context.Context) (*TaxonomiesDTO, error)
	StoreStatistics(ctx context.Context) (*StoreStatisticsDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}

type service struct {
	repo *Repository
	tx   txRunner
	logg *logger.Logger
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

// ListProducts runs the filtered browse query.
func (s *service) ListProducts(ctx context.Context, input ListProductsInput) (*ProductListResult, error) {
	if input.Filters.Gender != nil && !input.Filters.Gender.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender filter")
	}
	if input.Filters.Size != nil && !input.Filters.Size.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid size filter")
	}
	if input.Filters.PriceMinCents != nil && input.Filters.PriceMaxCents != nil &&
		*input.Filters.PriceMinCents > *input.Filters.PriceMaxCents {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min price exceeds max price")
	}

	result, err := s.repo.ListProductSummaries(ctx, productListQuery{
		Pagination: input.Pagination,
		Filters:    input.Filters,
	})
	if err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return result, nil
}

// GetProduct loads the product detail and bumps its view counter. A failed
// counter update is logged but never fails the read.
func (s *service) GetProduct(ctx context.Context, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.repo.GetProductDetail(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}

	if err := s.repo.IncrementViewCount(ctx, productID); err != nil {
		s.logg.Error(ctx, "incrementing product view count", err)
	} else {
		product.ViewCount++
	}

	return NewProductDTO(product), nil
}

// GetProductByArticleNumber loads the product detail by article number.
func (s *service) GetProductByArticleNumber(ctx context.Context, articleNumber string) (*ProductDTO, error) {
	if strings.TrimSpace(articleNumber) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "article number is required")
	}
	product, err := s.repo.GetProductByArticleNumber(ctx, articleNumber)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product by article number")
	}
	return NewProductDTO(product), nil
}

// ListTaxonomies returns every lookup table for storefront filter menus.
func (s *service) ListTaxonomies(ctx context.Context) (*TaxonomiesDTO, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	productTypes, err := s.repo.ListProductTypes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list product types")
	}
	sportTypes, err := s.repo.ListSportTypes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list sport types")
	}
	materials, err := s.repo.ListMaterials(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list materials")
	}

	out := &TaxonomiesDTO{}
	for _, row := range categories {
		out.Categories = append(out.Categories, TaxonomyDTO{ID: row.ID, Name: row.Name})
	}
	for _, row := range productTypes {
		out.ProductTypes = append(out.ProductTypes, TaxonomyDTO{ID: row.ID, Name: row.Name})
	}
	for _, row := range sportTypes {
		out.SportTypes = append(out.SportTypes, TaxonomyDTO{ID: row.ID, Name: row.Name})
	}
	for _, row := range materials {
		out.Materials = append(out.Materials, TaxonomyDTO{ID: row.ID, Name: row.Name})
	}
	return out, nil
}

const (
	statisticsListLimit = 10
	lowStockUnitCap     = 10
)

// StoreStatistics assembles the storefront overview: catalog totals, the
// most viewed products, and products running low on stock.
func (s *service) StoreStatistics(ctx context.Context) (*StoreStatisticsDTO, error) {
	totalProducts, err := s.repo.CountProducts(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count products")
	}
	taxonomies, err := s.ListTaxonomies(ctx)
	if err != nil {
		return nil, err
	}
	mostViewed, err := s.repo.ListMostViewed(ctx, statisticsListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list most viewed")
	}
	lowStock, err := s.repo.ListLowStock(ctx, lowStockUnitCap, statisticsListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock")
	}

	return &StoreStatisticsDTO{
		TotalProducts:     totalProducts,
		TotalCategories:   len(taxonomies.Categories),
		TotalProductTypes: len(taxonomies.ProductTypes),
		TotalSportTypes:   len(taxonomies.SportTypes),
		TotalMaterials:    len(taxonomies.Materials),
		MostViewed:        mostViewed,
		LowStock:          lowStock,
	}, nil
}

// CreateProduct creates the product with its taxonomy lookups and size rows.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	if err := validateProductBasics(input.Name, input.ArticleNumber, input.PriceCents, input.DiscountPercent, input.Gender); err != nil {
		return nil, err
	}
	if err := validateSizeInputs(input.Sizes); err != nil {
		return nil, err
	}

	brand := strings.TrimSpace(input.Brand)
	if brand == "" {
		brand = "spoXpro"
	}

	var createdID uuid.UUID
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		category, err := txRepo.EnsureCategory(ctx, input.Category)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure category")
		}
		productType, err := txRepo.EnsureProductType(ctx, input.ProductType)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure product type")
		}
		sportType, err := txRepo.EnsureSportType(ctx, input.SportType)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure sport type")
		}
		material, err := txRepo.EnsureMaterial(ctx, input.Material)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure material")
		}

		product := &models.Product{
			Name:            strings.TrimSpace(input.Name),
			Description:     input.Description,
			ArticleNumber:   strings.TrimSpace(input.ArticleNumber),
			Brand:           brand,
			Color:           strings.TrimSpace(input.Color),
			Gender:          input.Gender,
			PriceCents:      input.PriceCents,
			DiscountPercent: input.DiscountPercent,
			CategoryID:      category.ID,
			ProductTypeID:   productType.ID,
			SportTypeID:     sportType.ID,
			MaterialID:      material.ID,
		}

		created, err := txRepo.CreateProduct(ctx, product)
		if err != nil {
			if db.IsUniqueViolation(err, "") {
				return pkgerrors.New(pkgerrors.CodeConflict, "article number already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
		}
		createdID = created.ID

		sizes := make([]models.ProductSize, 0, len(input.Sizes))
		for _, row := range input.Sizes {
			sizes = append(sizes, models.ProductSize{
				ProductID: created.ID,
				Size:      row.Size,
				Quantity:  row.Quantity,
			})
		}
		if err := txRepo.ReplaceSizes(ctx, created.ID, sizes); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace sizes")
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	product, err := s.repo.GetProductDetail(ctx, createdID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(product), nil
}

// UpdateProduct updates an existing product and related rows.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if input.PriceCents != nil && *input.PriceCents < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price_cents must be non-negative")
	}
	if input.DiscountPercent != nil {
		if err := validateDiscountPercent(*input.DiscountPercent); err != nil {
			return nil, err
		}
	}
	if input.Gender != nil && !input.Gender.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
	}
	if input.Sizes != nil {
		if err := validateSizeInputs(*input.Sizes); err != nil {
			return nil, err
		}
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := s.applyTaxonomyUpdates(ctx, txRepo, product, input); err != nil {
			return err
		}
		applyUpdateToProduct(product, input)

		if _, err := txRepo.UpdateProduct(ctx, product); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
		}

		if input.Sizes != nil {
			sizes := make([]models.ProductSize, 0, len(*input.Sizes))
			for _, row := range *input.Sizes {
				sizes = append(sizes, models.ProductSize{
					ProductID: product.ID,
					Size:      row.Size,
					Quantity:  row.Quantity,
				})
			}
			if err := txRepo.ReplaceSizes(ctx, product.ID, sizes); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: replace sizes")
			}
		}
		return nil
	}); err != nil {
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}

	updated, err := s.repo.GetProductDetail(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product detail")
	}
	return NewProductDTO(updated), nil
}

// DeleteProduct removes a product and relies on FK cascades for size rows.
func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if _, err := s.repo.FindByID(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}
	if err := s.repo.DeleteProduct(ctx, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) applyTaxonomyUpdates(ctx context.Context, txRepo *Repository, product *models.Product, input UpdateProductInput) error {
	if input.Category != nil {
		row, err := txRepo.EnsureCategory(ctx, *input.Category)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure category")
		}
		product.CategoryID = row.ID
	}
	if input.ProductType != nil {
		row, err := txRepo.EnsureProductType(ctx, *input.ProductType)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure product type")
		}
		product.ProductTypeID = row.ID
	}
	if input.SportType != nil {
		row, err := txRepo.EnsureSportType(ctx, *input.SportType)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure sport type")
		}
		product.SportTypeID = row.ID
	}
	if input.Material != nil {
		row, err := txRepo.EnsureMaterial(ctx, *input.Material)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "ensure material")
		}
		product.MaterialID = row.ID
	}
	return nil
}

func validateProductBasics(name, articleNumber string, priceCents, discountPercent int, gender enums.Gender) error {
	if strings.TrimSpace(name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if strings.TrimSpace(articleNumber) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "article_number is required")
	}
	if priceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price_cents must be non-negative")
	}
	if err := validateDiscountPercent(discountPercent); err != nil {
		return err
	}
	if !gender.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
	}
	return nil
}

func validateDiscountPercent(value int) error {
	if value < 0 || value > 100 {
		return pkgerrors.New(pkgerrors.CodeValidation, "discount_percent must be between 0 and 100")
	}
	return nil
}

func validateSizeInputs(sizes []SizeInput) error {
	seen := make(map[string]struct{}, len(sizes))
	for _, row := range sizes {
		if !row.Size.IsValid() {
			return pkgerrors.New(pkgerrors.CodeValidation, "invalid size")
		}
		if row.Quantity < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "size quantity must be non-negative")
		}
		key := string(row.Size)
		if _, ok := seen[key]; ok {
			return pkgerrors.New(pkgerrors.CodeValidation, "duplicate size")
		}
		seen[key] = struct{}{}
	}
	return nil
}

func applyUpdateToProduct(product *models.Product, input UpdateProductInput) {
	if input.Name != nil {
		product.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if input.Brand != nil {
		product.Brand = strings.TrimSpace(*input.Brand)
	}
	if input.Color != nil {
		product.Color = strings.TrimSpace(*input.Color)
	}
	if input.Gender != nil {
		product.Gender = *input.Gender
	}
	if input.PriceCents != nil {
		product.PriceCents = *input.PriceCents
	}
	if input.DiscountPercent != nil {
		product.DiscountPercent = *input.DiscountPercent
	}
}
