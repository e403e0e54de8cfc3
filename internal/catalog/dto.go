package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/spoxpro/spoxpro-backend/pkg/db/models"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
	"github.com/spoxpro/spoxpro-backend/pkg/pagination"
)

// SizeDTO is one size row with its remaining stock.
type SizeDTO struct {
	Size     enums.Size `json:"size"`
	Quantity int        `json:"quantity"`
}

// ProductDTO is the full product detail shape.
type ProductDTO struct {
	ID                  uuid.UUID    `json:"id"`
	Name                string       `json:"name"`
	Description         string       `json:"description"`
	ArticleNumber       string       `json:"article_number"`
	Brand               string       `json:"brand"`
	Color               string       `json:"color"`
	Gender              enums.Gender `json:"gender"`
	PriceCents          int          `json:"price_cents"`
	DiscountPercent     int          `json:"discount_percent"`
	EffectivePriceCents int          `json:"effective_price_cents"`
	ViewCount           int          `json:"view_count"`
	Category            string       `json:"category"`
	ProductType         string       `json:"product_type"`
	SportType           string       `json:"sport_type"`
	Material            string       `json:"material"`
	Sizes               []SizeDTO    `json:"sizes"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// ProductSummary is the compact listing row for browse pages.
type ProductSummary struct {
	ID                  uuid.UUID    `json:"id"`
	Name                string       `json:"name"`
	ArticleNumber       string       `json:"article_number"`
	Brand               string       `json:"brand"`
	Color               string       `json:"color"`
	Gender              enums.Gender `json:"gender"`
	PriceCents          int          `json:"price_cents"`
	DiscountPercent     int          `json:"discount_percent"`
	EffectivePriceCents int          `json:"effective_price_cents"`
	Category            string       `json:"category"`
	ProductType         string       `json:"product_type"`
	SportType           string       `json:"sport_type"`
	Material            string       `json:"material"`
	CreatedAt           time.Time    `json:"created_at"`
	UpdatedAt           time.Time    `json:"updated_at"`
}

// ProductListResult pairs a page of summaries with the next cursor.
type ProductListResult struct {
	Products   []ProductSummary `json:"products"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// ProductListFilters captures every browse filter the storefront offers.
type ProductListFilters struct {
	Category      string
	ProductType   string
	SportType     string
	Material      string
	Color         string
	Brand         string
	Gender        *enums.Gender
	Size          *enums.Size
	PriceMinCents *int
	PriceMaxCents *int
	Query         string
}

// ListProductsInput bundles filters with pagination.
type ListProductsInput struct {
	Pagination pagination.Params
	Filters    ProductListFilters
}

// SizeInput sets the starting stock for one size.
type SizeInput struct {
	Size     enums.Size
	Quantity int
}

// CreateProductInput holds the validated payload to create a product.
// Taxonomy values are names; missing lookup rows are created on demand.
type CreateProductInput struct {
	Name            string
	Description     string
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
	Sizes           []SizeInput
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name            *string
	Description     *string
	Brand           *string
	Color           *string
	Gender          *enums.Gender
	PriceCents      *int
	DiscountPercent *int
	Category        *string
	ProductType     *string
	SportType       *string
	Material        *string
	Sizes           *[]SizeInput
}

// StoreStatisticsDTO is the storefront overview: catalog totals plus the
// most viewed and lowest-stocked products.
type StoreStatisticsDTO struct {
	TotalProducts     int64            `json:"total_products"`
	TotalCategories   int              `json:"total_categories"`
	TotalProductTypes int              `json:"total_product_types"`
	TotalSportTypes   int              `json:"total_sport_types"`
	TotalMaterials    int              `json:"total_materials"`
	MostViewed        []ProductSummary `json:"most_viewed_products"`
	LowStock          []ProductSummary `json:"low_stock_products"`
}

// TaxonomyDTO is a single lookup row.
type TaxonomyDTO struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// TaxonomiesDTO lists every filterable lookup table for storefront menus.
type TaxonomiesDTO struct {
	Categories   []TaxonomyDTO `json:"categories"`
	ProductTypes []TaxonomyDTO `json:"product_types"`
	SportTypes   []TaxonomyDTO `json:"sport_types"`
	Materials    []TaxonomyDTO `json:"materials"`
}

// NewProductDTO assembles the detail DTO from a preloaded model.
func NewProductDTO(p *models.Product) *ProductDTO {
	if p == nil {
		return nil
	}

	sizes := make([]SizeDTO, 0, len(p.Sizes))
	for _, row := range p.Sizes {
		sizes = append(sizes, SizeDTO{Size: row.Size, Quantity: row.Quantity})
	}

	dto := &ProductDTO{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         p.Description,
		ArticleNumber:       p.ArticleNumber,
		Brand:               p.Brand,
		Color:               p.Color,
		Gender:              p.Gender,
		PriceCents:          p.PriceCents,
		DiscountPercent:     p.DiscountPercent,
		EffectivePriceCents: EffectivePriceCents(p.PriceCents, p.DiscountPercent),
		ViewCount:           p.ViewCount,
		Sizes:               sizes,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
	if p.Category != nil {
		dto.Category = p.Category.Name
	}
	if p.ProductType != nil {
		dto.ProductType = p.ProductType.Name
	}
	if p.SportType != nil {
		dto.SportType = p.SportType.Name
	}
	if p.Material != nil {
		dto.Material = p.Material.Name
	}
	return dto
}
