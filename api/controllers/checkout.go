package controllers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/delispi/delispi-backend/api/responses"
	"github.com/delispi/delispi-backend/api/validators"
	"github.com/delispi/delispi-backend/internal/checkout"
	"github.com/delispi/delispi-backend/pkg/enums"
	pkgerrors "github.com/delispi/delispi-backend/pkg/errors"
	"github.com/delispi/delispi-backend/pkg/logger"
)

type checkoutPayload struct {
	ShippingAddressID string  `json:"shipping_address_id" validate:"required,uuid"`
	BillingAddressID  *string `json:"billing_address_id,omitempty" validate:"omitempty,uuid"`
	PaymentMethod     string  `json:"payment_method" validate:"required"`
}

// Checkout turns the caller's session cart into a persisted order.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := currentUserID(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var payload checkoutPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		shippingID, err := parseUUIDField(payload.ShippingAddressID, "shipping_address_id")
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		var billingID *uuid.UUID
		if payload.BillingAddressID != nil {
			parsed, err := parseUUIDField(*payload.BillingAddressID, "billing_address_id")
			if err != nil {
				responses.WriteError(ctx, logg, w, err)
				return
			}
			billingID = &parsed
		}

		method, err := enums.ParsePaymentMethod(payload.PaymentMethod)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "unsupported payment method"))
			return
		}

		order, err := svc.PlaceOrder(ctx, userID, checkout.PlaceOrderInput{
			ShippingAddressID: shippingID,
			BillingAddressID:  billingID,
			PaymentMethod:     method,
		})
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, order)
	}
}
