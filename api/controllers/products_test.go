package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	catalogsvc "github.com/spoxpro/spoxpro-backend/internal/catalog"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
	pkgerrors "github.com/spoxpro/spoxpro-backend/pkg/errors"
)

type stubCatalogService struct {
	listInput   catalogsvc.ListProductsInput
	listResult  *catalogsvc.ProductListResult
	product     *catalogsvc.ProductDTO
	taxonomies  *catalogsvc.TaxonomiesDTO
	statistics  *catalogsvc.StoreStatisticsDTO
	createInput catalogsvc.CreateProductInput
	updateInput catalogsvc.UpdateProductInput
	deletedID   uuid.UUID
	err         error
}

func (s *stubCatalogService) ListProducts(_ context.Context, input catalogsvc.ListProductsInput) (*catalogsvc.ProductListResult, error) {
	s.listInput = input
	return s.listResult, s.err
}

func (s *stubCatalogService) GetProduct(context.Context, uuid.UUID) (*catalogsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubCatalogService) GetProductByArticleNumber(context.Context, string) (*catalogsvc.ProductDTO, error) {
	return s.product, s.err
}

func (s *stubCatalogService) ListTaxonomies(context.Context) (*catalogsvc.TaxonomiesDTO, error) {
	return s.taxonomies, s.err
}

func (s *stubCatalogService) StoreStatistics(context.Context) (*catalogsvc.StoreStatisticsDTO, error) {
	return s.statistics, s.err
}

func (s *stubCatalogService) CreateProduct(_ context.Context, input catalogsvc.CreateProductInput) (*catalogsvc.ProductDTO, error) {
	s.createInput = input
	return s.product, s.err
}

func (s *stubCatalogService) UpdateProduct(_ context.Context, _ uuid.UUID, input catalogsvc.UpdateProductInput) (*catalogsvc.ProductDTO, error) {
	s.updateInput = input
	return s.product, s.err
}

func (s *stubCatalogService) DeleteProduct(_ context.Context, id uuid.UUID) error {
	s.deletedID = id
	return s.err
}

func TestListProductsParsesFilters(t *testing.T) {
	stub := &stubCatalogService{listResult: &catalogsvc.ProductListResult{}}
	handler := ListProducts(stub, nil)

	target := "/api/v1/products?category=Running&gender=MALE&size=xl&price_min_cents=1000&price_max_cents=9000&limit=10&q=jersey"
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	input := stub.listInput
	if input.Filters.Category != "Running" {
		t.Fatalf("expected category filter, got %q", input.Filters.Category)
	}
	if input.Filters.Gender == nil || *input.Filters.Gender != enums.GenderMale {
		t.Fatalf("expected male gender filter, got %v", input.Filters.Gender)
	}
	if input.Filters.Size == nil || *input.Filters.Size != enums.SizeXL {
		t.Fatalf("expected XL size filter, got %v", input.Filters.Size)
	}
	if input.Filters.PriceMinCents == nil || *input.Filters.PriceMinCents != 1000 {
		t.Fatalf("expected min price 1000, got %v", input.Filters.PriceMinCents)
	}
	if input.Filters.PriceMaxCents == nil || *input.Filters.PriceMaxCents != 9000 {
		t.Fatalf("expected max price 9000, got %v", input.Filters.PriceMaxCents)
	}
	if input.Filters.Query != "jersey" {
		t.Fatalf("expected search query, got %q", input.Filters.Query)
	}
	if input.Pagination.Limit != 10 {
		t.Fatalf("expected limit 10, got %d", input.Pagination.Limit)
	}
}

func TestListProductsRejectsBadFilters(t *testing.T) {
	stub := &stubCatalogService{listResult: &catalogsvc.ProductListResult{}}
	handler := ListProducts(stub, nil)

	for _, target := range []string{
		"/api/v1/products?gender=robot",
		"/api/v1/products?size=GIANT",
		"/api/v1/products?limit=0",
		"/api/v1/products?limit=9999",
		"/api/v1/products?price_min_cents=abc",
	} {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", target, rec.Code)
		}
	}
}

func TestGetProductNotFound(t *testing.T) {
	stub := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "product not found")}

	router := chi.NewRouter()
	router.Get("/products/{productId}", GetProduct(stub, nil))

	req := httptest.NewRequest(http.MethodGet, "/products/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestGetStoreStatistics(t *testing.T) {
	stub := &stubCatalogService{statistics: &catalogsvc.StoreStatisticsDTO{
		TotalProducts:   12,
		TotalCategories: 3,
	}}
	handler := GetStoreStatistics(stub, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/products/statistics", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data catalogsvc.StoreStatisticsDTO `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.TotalProducts != 12 || envelope.Data.TotalCategories != 3 {
		t.Fatalf("unexpected statistics payload: %+v", envelope.Data)
	}
}

func TestAdminCreateProduct(t *testing.T) {
	stub := &stubCatalogService{product: &catalogsvc.ProductDTO{ID: uuid.New(), Name: "Pro Jersey"}}
	handler := AdminCreateProduct(stub, nil)

	payload := map[string]any{
		"name":           "Pro Jersey",
		"article_number": "SPX-1001",
		"gender":         "unisex",
		"price_cents":    4500,
		"category":       "Tops",
		"product_type":   "Jersey",
		"sport_type":     "Running",
		"material":       "Polyester",
		"sizes": []map[string]any{
			{"size": "M", "quantity": 10},
			{"size": "L", "quantity": 5},
		},
	}
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.createInput.Gender != enums.GenderUnisex {
		t.Fatalf("expected unisex got %v", stub.createInput.Gender)
	}
	if len(stub.createInput.Sizes) != 2 || stub.createInput.Sizes[0].Size != enums.SizeM {
		t.Fatalf("unexpected sizes %v", stub.createInput.Sizes)
	}
}

func TestAdminCreateProductValidation(t *testing.T) {
	stub := &stubCatalogService{}
	handler := AdminCreateProduct(stub, nil)

	// Missing required fields.
	req := httptest.NewRequest(http.MethodPost, "/api/admin/v1/products", bytes.NewBufferString(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAdminUpdateProductPartial(t *testing.T) {
	stub := &stubCatalogService{product: &catalogsvc.ProductDTO{}}

	router := chi.NewRouter()
	router.Patch("/products/{productId}", AdminUpdateProduct(stub, nil))

	body := `{"price_cents":9900,"sizes":[{"size":"S","quantity":3}]}`
	req := httptest.NewRequest(http.MethodPatch, "/products/"+uuid.NewString(), bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.updateInput.PriceCents == nil || *stub.updateInput.PriceCents != 9900 {
		t.Fatalf("expected price update, got %v", stub.updateInput.PriceCents)
	}
	if stub.updateInput.Name != nil {
		t.Fatalf("name should be untouched")
	}
	if stub.updateInput.Sizes == nil || len(*stub.updateInput.Sizes) != 1 {
		t.Fatalf("expected one size row, got %v", stub.updateInput.Sizes)
	}
}

func TestAdminDeleteProduct(t *testing.T) {
	stub := &stubCatalogService{}
	productID := uuid.New()

	router := chi.NewRouter()
	router.Delete("/products/{productId}", AdminDeleteProduct(stub, nil))

	req := httptest.NewRequest(http.MethodDelete, "/products/"+productID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if stub.deletedID != productID {
		t.Fatalf("expected delete of %s got %s", productID, stub.deletedID)
	}
}
