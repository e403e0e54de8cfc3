package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	userssvc "github.com/spoxpro/spoxpro-backend/internal/users"
	pkgerrors "github.com/spoxpro/spoxpro-backend/pkg/errors"
	"github.com/spoxpro/spoxpro-backend/pkg/pagination"
)

type stubUsersService struct {
	listParams pagination.Params
	getID      uuid.UUID
	list       *userssvc.ListResult
	user       *userssvc.UserDTO
	err        error
}

func (s *stubUsersService) List(_ context.Context, params pagination.Params) (*userssvc.ListResult, error) {
	s.listParams = params
	return s.list, s.err
}

func (s *stubUsersService) Get(_ context.Context, id uuid.UUID) (*userssvc.UserDTO, error) {
	s.getID = id
	return s.user, s.err
}

func TestAdminListUsersForwardsPagination(t *testing.T) {
	stub := &stubUsersService{list: &userssvc.ListResult{
		Users: []userssvc.UserDTO{{ID: uuid.New(), Email: "first@example.com"}},
	}}
	handler := AdminListUsers(stub, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/v1/users?limit=25&cursor=abc", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}
	if stub.listParams.Limit != 25 || stub.listParams.Cursor != "abc" {
		t.Fatalf("unexpected params %+v", stub.listParams)
	}

	var envelope struct {
		Data userssvc.ListResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Users) != 1 || envelope.Data.Users[0].Email != "first@example.com" {
		t.Fatalf("unexpected users payload: %+v", envelope.Data)
	}
}

func TestAdminGetUserRoutesID(t *testing.T) {
	userID := uuid.New()
	stub := &stubUsersService{user: &userssvc.UserDTO{ID: userID}}

	router := chi.NewRouter()
	router.Get("/users/{userId}", AdminGetUser(stub, nil))

	req := httptest.NewRequest(http.MethodGet, "/users/"+userID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if stub.getID != userID {
		t.Fatalf("expected lookup of %s got %s", userID, stub.getID)
	}
}

func TestAdminGetUserNotFound(t *testing.T) {
	stub := &stubUsersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "user not found")}

	router := chi.NewRouter()
	router.Get("/users/{userId}", AdminGetUser(stub, nil))

	req := httptest.NewRequest(http.MethodGet, "/users/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}
