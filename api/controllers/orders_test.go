package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/spoxpro/spoxpro-backend/api/middleware"
	"github.com/spoxpro/spoxpro-backend/internal/identity"
	orderssvc "github.com/spoxpro/spoxpro-backend/internal/orders"
	"github.com/spoxpro/spoxpro-backend/pkg/enums"
	"github.com/spoxpro/spoxpro-backend/pkg/pagination"
)

type stubOrdersService struct {
	listUser      uuid.UUID
	listParams    pagination.Params
	listAllParams pagination.Params
	listAllStatus *enums.OrderStatus
	getOrderID    uuid.UUID
	cancelID      uuid.UUID
	statusID      uuid.UUID
	nextStatus    enums.OrderStatus
	order         *orderssvc.OrderDTO
	list          *orderssvc.ListResult
	adminList     *orderssvc.AdminListResult
	err           error
}

func (s *stubOrdersService) List(_ context.Context, userID uuid.UUID, params pagination.Params) (*orderssvc.ListResult, error) {
	s.listUser = userID
	s.listParams = params
	return s.list, s.err
}

func (s *stubOrdersService) ListAll(_ context.Context, params pagination.Params, status *enums.OrderStatus) (*orderssvc.AdminListResult, error) {
	s.listAllParams = params
	s.listAllStatus = status
	return s.adminList, s.err
}

func (s *stubOrdersService) Get(_ context.Context, _ identity.Principal, orderID uuid.UUID) (*orderssvc.OrderDTO, error) {
	s.getOrderID = orderID
	return s.order, s.err
}

func (s *stubOrdersService) Cancel(_ context.Context, _ uuid.UUID, orderID uuid.UUID) (*orderssvc.OrderDTO, error) {
	s.cancelID = orderID
	return s.order, s.err
}

func (s *stubOrdersService) UpdateStatus(_ context.Context, orderID uuid.UUID, next enums.OrderStatus) (*orderssvc.OrderDTO, error) {
	s.statusID = orderID
	s.nextStatus = next
	return s.order, s.err
}

func userRequest(req *http.Request, userID uuid.UUID) *http.Request {
	ctx := middleware.WithPrincipal(req.Context(), identity.Principal{
		Kind:   enums.PrincipalAuthenticated,
		UserID: userID,
	})
	return req.WithContext(ctx)
}

func TestListOrdersForwardsPagination(t *testing.T) {
	userID := uuid.New()
	stub := &stubOrdersService{list: &orderssvc.ListResult{}}
	handler := ListOrders(stub, nil)

	req := userRequest(httptest.NewRequest(http.MethodGet, "/api/v1/orders?limit=5&cursor=abc", nil), userID)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if stub.listUser != userID {
		t.Fatalf("expected list for %s got %s", userID, stub.listUser)
	}
	if stub.listParams.Limit != 5 || stub.listParams.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", stub.listParams)
	}
}

func TestGetOrderRoutesID(t *testing.T) {
	orderID := uuid.New()
	stub := &stubOrdersService{order: &orderssvc.OrderDTO{ID: orderID}}

	router := chi.NewRouter()
	router.Get("/orders/{orderId}", GetOrder(stub, nil))

	req := userRequest(httptest.NewRequest(http.MethodGet, "/orders/"+orderID.String(), nil), uuid.New())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if stub.getOrderID != orderID {
		t.Fatalf("expected get of %s got %s", orderID, stub.getOrderID)
	}
}

func TestCancelOrder(t *testing.T) {
	orderID := uuid.New()
	stub := &stubOrdersService{order: &orderssvc.OrderDTO{ID: orderID, Status: enums.OrderStatusCancelled}}

	router := chi.NewRouter()
	router.Post("/orders/{orderId}/cancel", CancelOrder(stub, nil))

	req := userRequest(httptest.NewRequest(http.MethodPost, "/orders/"+orderID.String()+"/cancel", nil), uuid.New())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if stub.cancelID != orderID {
		t.Fatalf("expected cancel of %s got %s", orderID, stub.cancelID)
	}
}

func TestAdminListOrdersForwardsStatusFilter(t *testing.T) {
	stub := &stubOrdersService{adminList: &orderssvc.AdminListResult{}}
	handler := AdminListOrders(stub, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders?limit=5&status=Shipped", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.listAllParams.Limit != 5 {
		t.Fatalf("unexpected params %+v", stub.listAllParams)
	}
	if stub.listAllStatus == nil || *stub.listAllStatus != enums.OrderStatusShipped {
		t.Fatalf("expected shipped filter, got %v", stub.listAllStatus)
	}
}

func TestAdminListOrdersRejectsUnknownStatus(t *testing.T) {
	stub := &stubOrdersService{adminList: &orderssvc.AdminListResult{}}
	handler := AdminListOrders(stub, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/orders?status=teleported", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAdminUpdateOrderStatus(t *testing.T) {
	orderID := uuid.New()
	stub := &stubOrdersService{order: &orderssvc.OrderDTO{ID: orderID, Status: enums.OrderStatusShipped}}

	router := chi.NewRouter()
	router.Patch("/orders/{orderId}/status", AdminUpdateOrderStatus(stub, nil))

	body := `{"status":"Shipped"}`
	req := httptest.NewRequest(http.MethodPatch, "/orders/"+orderID.String()+"/status", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.statusID != orderID || stub.nextStatus != enums.OrderStatusShipped {
		t.Fatalf("unexpected status call %s %s", stub.statusID, stub.nextStatus)
	}
}
