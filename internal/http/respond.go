package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Anand-247/FE-VF/internal/api"
	"github.com/Anand-247/FE-VF/internal/cart"
	"github.com/Anand-247/FE-VF/internal/checkout"
	"github.com/Anand-247/FE-VF/internal/form"
	"github.com/Anand-247/FE-VF/internal/storefront"
	"github.com/Anand-247/FE-VF/internal/whatsapp"
)

type ErrorResponse struct {
	Error   string            `json:"error"`
	Code    string            `json:"code,omitempty"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// decodeBody reads a JSON body into v. An empty body leaves v untouched when
// optional is set.
func decodeBody(r *http.Request, v interface{}, optional bool) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if optional && errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

// handleError maps service errors to HTTP status codes. Messages are the
// ones the storefront shows to customers.
func handleError(w http.ResponseWriter, err error) {
	var verr *form.ValidationError
	if errors.As(err, &verr) {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:  "please correct the highlighted fields",
			Code:   "validation_failed",
			Fields: verr.Fields,
		})
		return
	}

	var httpStatus int
	var code, message string

	switch {
	case errors.Is(err, cart.ErrInvalidQuantity), errors.Is(err, checkout.ErrInvalidQuantity):
		httpStatus, code, message = http.StatusBadRequest, "invalid_quantity", "quantity must be a positive integer"
	case errors.Is(err, storefront.ErrUnknownVariant):
		httpStatus, code, message = http.StatusBadRequest, "unknown_variant", "product has no such variant"
	case errors.Is(err, storefront.ErrOutOfStock):
		httpStatus, code, message = http.StatusConflict, "out_of_stock", "Product is out of stock"
	case errors.Is(err, storefront.ErrStockLimit):
		httpStatus, code, message = http.StatusConflict, "stock_limit", "Cannot add more than stock"
	case errors.Is(err, storefront.ErrEmptyCart):
		httpStatus, code, message = http.StatusConflict, "empty_cart", "Your cart is empty"
	case errors.Is(err, storefront.ErrItemNotInCart):
		httpStatus, code, message = http.StatusNotFound, "not_in_cart", "item is not in the cart"
	case errors.Is(err, storefront.ErrWhatsAppNotConfigured), errors.Is(err, whatsapp.ErrNoPhoneNumber):
		httpStatus, code, message = http.StatusServiceUnavailable, "whatsapp_not_configured", "WhatsApp number not configured"
	case errors.Is(err, api.ErrNotFound):
		httpStatus, code, message = http.StatusNotFound, "not_found", "not found"
	case errors.Is(err, api.ErrUnauthorized):
		httpStatus, code, message = http.StatusUnauthorized, "unauthenticated", "unauthorized"
	case errors.Is(err, api.ErrUnavailable):
		httpStatus, code, message = http.StatusBadGateway, "upstream_unavailable", "shop service is unavailable, please try again"
	case errors.Is(err, context.DeadlineExceeded):
		httpStatus, code, message = http.StatusGatewayTimeout, "timeout", "request timed out"
	default:
		zap.L().Error("unhandled error", zap.Error(err))
		httpStatus, code, message = http.StatusInternalServerError, "internal_error", "internal server error"
	}

	respondError(w, httpStatus, code, message)
}
