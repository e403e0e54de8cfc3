package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		code   Code
		status int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeNotFound, http.StatusNotFound},
		{CodeInsufficientStock, http.StatusConflict},
		{CodeEmptyCart, http.StatusUnprocessableEntity},
		{CodeStateConflict, http.StatusUnprocessableEntity},
		{CodeRateLimit, http.StatusTooManyRequests},
	}
	for _, tc := range cases {
		if got := MetadataFor(tc.code).HTTPStatus; got != tc.status {
			t.Fatalf("%s: expected status %d, got %d", tc.code, tc.status, got)
		}
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	t.Parallel()

	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown code should map to 500, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := fmt.Errorf("row missing")
	err := Wrap(CodeNotFound, cause, "order not found")

	typed := As(fmt.Errorf("outer: %w", err))
	if typed == nil {
		t.Fatal("As should find the typed error through wrapping")
	}
	if typed.Code() != CodeNotFound {
		t.Fatalf("unexpected code: %s", typed.Code())
	}
	if typed.Unwrap() != cause {
		t.Fatal("cause lost in wrap")
	}
}

func TestDetailsSuppressedWhenNotAllowed(t *testing.T) {
	t.Parallel()

	err := New(CodeInsufficientStock, "not enough stock").
		WithDetails(map[string]any{"product_id": "p1", "size": "M"})
	if err.Details() == nil {
		t.Fatal("details should round-trip on the error value")
	}
	if !MetadataFor(CodeInsufficientStock).DetailsAllowed {
		t.Fatal("insufficient stock details should be exposable")
	}
	if MetadataFor(CodeUnauthorized).DetailsAllowed {
		t.Fatal("unauthorized details must stay private")
	}
}

func TestDumpCollectsChain(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeDependency, fmt.Errorf("dial refused"), "redis down")
	dump := Dump(err)
	if dump.Code != CodeDependency {
		t.Fatalf("unexpected code: %s", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected full chain, got %v", dump.Chain)
	}
}
