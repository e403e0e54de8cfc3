package controllers

import (
	"net/http"

	"github.com/spoxpro/spoxpro-backend/api/middleware"
	"github.com/spoxpro/spoxpro-backend/api/responses"
	"github.com/spoxpro/spoxpro-backend/api/validators"
	checkoutsvc "github.com/spoxpro/spoxpro-backend/internal/checkout"
	pkgerrors "github.com/spoxpro/spoxpro-backend/pkg/errors"
	"github.com/spoxpro/spoxpro-backend/pkg/logger"
)

type checkoutRequest struct {
	ShippingAddress string `json:"shipping_address" validate:"required"`
}

// Checkout converts the caller's cart into an order.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		principal := middleware.PrincipalFromContext(r.Context())
		order, err := svc.Execute(r.Context(), principal, checkoutsvc.Input{
			ShippingAddress: validators.SanitizeString(payload.ShippingAddress, 512),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
