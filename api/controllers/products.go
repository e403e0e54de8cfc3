package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/spoxpro/spoxpro-backend/api/responses"
	"github.com/spoxpro/spoxpro-backend/api/validators"
	catalogsvc "github.com/spoxpro/spoxpro-backend/internal/catalog"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
	pkgerrors "github.com/spoxpro/spoxpro-backend/pkg/errors"
	"github.com/spoxpro/spoxpro-backend/pkg/logger"
	"github.com/spoxpro/spoxpro-backend/pkg/pagination"
)

const maxPriceCents = 100_000_000

// ListProducts serves the filtered browse page.
func ListProducts(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		input, err := parseListProductsQuery(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// GetProduct serves the product detail page.
func GetProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// GetProductByArticleNumber resolves a product by its printed article number.
func GetProductByArticleNumber(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		articleNumber := chi.URLParam(r, "articleNumber")
		product, err := svc.GetProductByArticleNumber(r.Context(), articleNumber)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// ListTaxonomies serves the lookup values the storefront filter menus need.
func ListTaxonomies(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		taxonomies, err := svc.ListTaxonomies(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, taxonomies)
	}
}

// GetStoreStatistics serves catalog totals plus the most viewed and
// lowest-stocked products.
func GetStoreStatistics(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		stats, err := svc.StoreStatistics(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, stats)
	}
}

// AdminCreateProduct handles product creation by staff.
func AdminCreateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct applies a partial product update.
func AdminUpdateProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), productID, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AdminDeleteProduct removes a product from the catalog.
func AdminDeleteProduct(svc catalogsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		productID, err := pathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func parseListProductsQuery(r *http.Request) (catalogsvc.ListProductsInput, error) {
	query := r.URL.Query()

	limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
	if err != nil {
		return catalogsvc.ListProductsInput{}, err
	}

	filters := catalogsvc.ProductListFilters{
		Category:    strings.TrimSpace(query.Get("category")),
		ProductType: strings.TrimSpace(query.Get("product_type")),
		SportType:   strings.TrimSpace(query.Get("sport_type")),
		Material:    strings.TrimSpace(query.Get("material")),
		Color:       strings.TrimSpace(query.Get("color")),
		Brand:       strings.TrimSpace(query.Get("brand")),
		Query:       strings.TrimSpace(query.Get("q")),
	}

	if raw := strings.TrimSpace(query.Get("gender")); raw != "" {
		gender := enums.Gender(strings.ToLower(raw))
		if !gender.IsValid() {
			return catalogsvc.ListProductsInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender filter").
				WithDetails(map[string]any{"field": "gender"})
		}
		filters.Gender = &gender
	}

	if raw := strings.TrimSpace(query.Get("size")); raw != "" {
		size, ok := enums.ParseSize(raw)
		if !ok {
			return catalogsvc.ListProductsInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid size filter").
				WithDetails(map[string]any{"field": "size"})
		}
		filters.Size = &size
	}

	if query.Has("price_min_cents") {
		value, err := validators.ParseQueryInt(r, "price_min_cents", 0, 0, maxPriceCents)
		if err != nil {
			return catalogsvc.ListProductsInput{}, err
		}
		filters.PriceMinCents = &value
	}
	if query.Has("price_max_cents") {
		value, err := validators.ParseQueryInt(r, "price_max_cents", 0, 0, maxPriceCents)
		if err != nil {
			return catalogsvc.ListProductsInput{}, err
		}
		filters.PriceMaxCents = &value
	}

	return catalogsvc.ListProductsInput{
		Pagination: pagination.Params{
			Limit:  limit,
			Cursor: strings.TrimSpace(query.Get("cursor")),
		},
		Filters: filters,
	}, nil
}

type createProductRequest struct {
	Name            string             `json:"name" validate:"required"`
	Description     string             `json:"description"`
	ArticleNumber   string             `json:"article_number" validate:"required"`
	Brand           string             `json:"brand"`
	Color           string             `json:"color"`
	Gender          string             `json:"gender" validate:"required"`
	PriceCents      int                `json:"price_cents" validate:"min=0"`
	DiscountPercent int                `json:"discount_percent" validate:"min=0,max=100"`
	Category        string             `json:"category" validate:"required"`
	ProductType     string             `json:"product_type" validate:"required"`
	SportType       string             `json:"sport_type" validate:"required"`
	Material        string             `json:"material" validate:"required"`
	Sizes           []sizeInputRequest `json:"sizes" validate:"dive"`
}

type sizeInputRequest struct {
	Size     string `json:"size" validate:"required"`
	Quantity int    `json:"quantity" validate:"min=0"`
}

func (r createProductRequest) toInput() (catalogsvc.CreateProductInput, error) {
	gender := enums.Gender(strings.ToLower(strings.TrimSpace(r.Gender)))
	if !gender.IsValid() {
		return catalogsvc.CreateProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
	}

	sizes, err := parseSizeInputs(r.Sizes)
	if err != nil {
		return catalogsvc.CreateProductInput{}, err
	}

	return catalogsvc.CreateProductInput{
		Name:            r.Name,
		Description:     r.Description,
		ArticleNumber:   r.ArticleNumber,
		Brand:           r.Brand,
		Color:           r.Color,
		Gender:          gender,
		PriceCents:      r.PriceCents,
		DiscountPercent: r.DiscountPercent,
		Category:        r.Category,
		ProductType:     r.ProductType,
		SportType:       r.SportType,
		Material:        r.Material,
		Sizes:           sizes,
	}, nil
}

type updateProductRequest struct {
	Name            *string             `json:"name,omitempty"`
	Description     *string             `json:"description,omitempty"`
	Brand           *string             `json:"brand,omitempty"`
	Color           *string             `json:"color,omitempty"`
	Gender          *string             `json:"gender,omitempty"`
	PriceCents      *int                `json:"price_cents,omitempty" validate:"omitempty,min=0"`
	DiscountPercent *int                `json:"discount_percent,omitempty" validate:"omitempty,min=0,max=100"`
	Category        *string             `json:"category,omitempty"`
	ProductType     *string             `json:"product_type,omitempty"`
	SportType       *string             `json:"sport_type,omitempty"`
	Material        *string             `json:"material,omitempty"`
	Sizes           *[]sizeInputRequest `json:"sizes,omitempty" validate:"omitempty,dive"`
}

func (r updateProductRequest) toInput() (catalogsvc.UpdateProductInput, error) {
	input := catalogsvc.UpdateProductInput{
		Name:            r.Name,
		Description:     r.Description,
		Brand:           r.Brand,
		Color:           r.Color,
		PriceCents:      r.PriceCents,
		DiscountPercent: r.DiscountPercent,
		Category:        r.Category,
		ProductType:     r.ProductType,
		SportType:       r.SportType,
		Material:        r.Material,
	}

	if r.Gender != nil {
		gender := enums.Gender(strings.ToLower(strings.TrimSpace(*r.Gender)))
		if !gender.IsValid() {
			return catalogsvc.UpdateProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid gender")
		}
		input.Gender = &gender
	}

	if r.Sizes != nil {
		sizes, err := parseSizeInputs(*r.Sizes)
		if err != nil {
			return catalogsvc.UpdateProductInput{}, err
		}
		input.Sizes = &sizes
	}

	return input, nil
}

func parseSizeInputs(rows []sizeInputRequest) ([]catalogsvc.SizeInput, error) {
	sizes := make([]catalogsvc.SizeInput, 0, len(rows))
	for _, row := range rows {
		size, ok := enums.ParseSize(row.Size)
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid size").
				WithDetails(map[string]any{"size": row.Size})
		}
		sizes = append(sizes, catalogsvc.SizeInput{Size: size, Quantity: row.Quantity})
	}
	return sizes, nil
}

func pathUUID(r *http.Request, param string) (uuid.UUID, error) {
	raw := chi.URLParam(r, param)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid id").
			WithDetails(map[string]any{"field": param})
	}
	return id, nil
}
