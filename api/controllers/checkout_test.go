package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	checkoutsvc "github.com/spoxpro/spoxpro-backend/internal/checkout"
	"github.com/spoxpro/spoxpro-backend/internal/identity"
	orderssvc "github.com/spoxpro/spoxpro-backend/internal/orders"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
	pkgerrors "github.com/spoxpro/spoxpro-backend/pkg/errors"
)

type stubCheckoutService struct {
	input     checkoutsvc.Input
	principal identity.Principal
	order     *orderssvc.OrderDTO
	err       error
}

func (s *stubCheckoutService) Execute(_ context.Context, principal identity.Principal, input checkoutsvc.Input) (*orderssvc.OrderDTO, error) {
	s.principal = principal
	s.input = input
	return s.order, s.err
}

func TestCheckoutCreatesOrder(t *testing.T) {
	orderID := uuid.New()
	stub := &stubCheckoutService{order: &orderssvc.OrderDTO{ID: orderID, Status: enums.OrderStatusProcessing}}
	handler := Checkout(stub, nil)

	body := `{"shipping_address":"1 Main St, Springfield"}`
	req := userRequest(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewBufferString(body)), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.input.ShippingAddress != "1 Main St, Springfield" {
		t.Fatalf("address not forwarded: %q", stub.input.ShippingAddress)
	}
	if !stub.principal.IsAuthenticated() {
		t.Fatalf("expected authenticated principal forwarded")
	}
}

func TestCheckoutRequiresAddress(t *testing.T) {
	stub := &stubCheckoutService{}
	handler := Checkout(stub, nil)

	req := userRequest(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewBufferString(`{}`)), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCheckoutSurfacesStockConflict(t *testing.T) {
	stub := &stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock")}
	handler := Checkout(stub, nil)

	body := `{"shipping_address":"1 Main St"}`
	req := userRequest(httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewBufferString(body)), uuid.New())
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
}
