package controllers

import (
	"net/http"
	"strings"

	"github.com/foodheaven/storefront-backend/api/middleware"
	"github.com/foodheaven/storefront-backend/api/responses"
	"github.com/foodheaven/storefront-backend/api/validators"
	checkoutsvc "github.com/foodheaven/storefront-backend/internal/checkout"
	"github.com/foodheaven/storefront-backend/pkg/enums"
	pkgerrors "github.com/foodheaven/storefront-backend/pkg/errors"
	"github.com/foodheaven/storefront-backend/pkg/logger"
	"github.com/foodheaven/storefront-backend/pkg/types"
)

type checkoutRequest struct {
	CustomerName  string                 `json:"customer_name" validate:"required"`
	CustomerEmail string                 `json:"customer_email" validate:"required,email"`
	CustomerPhone string                 `json:"customer_phone" validate:"required"`
	ServiceType   string                 `json:"service_type" validate:"required"`
	PaymentMethod string                 `json:"payment_method" validate:"required"`
	Address       *types.DeliveryAddress `json:"address,omitempty"`
}

const guestOwnerPrefix = "guest:"

// CheckoutQuote prices the owner's current cart without placing an order.
func CheckoutQuote(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		ownerID := middleware.OwnerIDFromContext(r.Context())
		if ownerID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart owner missing"))
			return
		}

		serviceType, err := enums.ParseServiceType(r.URL.Query().Get("service_type"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid service type"))
			return
		}

		quote, err := svc.Quote(r.Context(), ownerID, serviceType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

// Checkout places a cash-on-delivery order from the owner's cart.
func Checkout(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		ownerID := middleware.OwnerIDFromContext(r.Context())
		if ownerID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart owner missing"))
			return
		}

		var payload checkoutRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		serviceType, err := enums.ParseServiceType(payload.ServiceType)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid service type"))
			return
		}
		paymentMethod, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid payment method"))
			return
		}

		input := checkoutsvc.PlaceOrderInput{
			OwnerID:       ownerID,
			UserID:        optionalUserID(r),
			CustomerName:  payload.CustomerName,
			CustomerEmail: payload.CustomerEmail,
			CustomerPhone: payload.CustomerPhone,
			Address:       payload.Address,
			ServiceType:   serviceType,
			PaymentMethod: paymentMethod,
		}
		if guestID, ok := strings.CutPrefix(ownerID, guestOwnerPrefix); ok {
			input.GuestID = &guestID
		}

		order, err := svc.PlaceOrder(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
