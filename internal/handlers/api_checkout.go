package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/sessions"
	"github.com/zeyadattiaa/TradeEngine/internal/checkout"
	"github.com/zeyadattiaa/TradeEngine/internal/models"
	"github.com/zeyadattiaa/TradeEngine/internal/payment"
	"github.com/zeyadattiaa/TradeEngine/internal/store"
)

// APIHandler serves the JSON checkout endpoints under /api/checkout/.
type APIHandler struct {
	Store        *store.Store
	Checkout     *checkout.Service
	SessionStore *sessions.CookieStore
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode JSON response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"success": false, "error": msg})
}

// ValidateAddress checks a shipping address without placing an order.
func (h *APIHandler) ValidateAddress(w http.ResponseWriter, r *http.Request) {
	var addr models.ShippingAddress
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if err := checkout.ValidateShippingAddress(addr); err != nil {
		var valErr *checkout.ValidationError
		if errors.As(err, &valErr) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"valid": false,
				"field": valErr.Field,
				"error": valErr.Message,
			})
			return
		}
		writeJSONError(w, http.StatusInternalServerError, "Validation failed")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"valid": true})
}

// PaymentMethods lists the methods shown at checkout, including ones that are
// advertised but not yet accepted.
func (h *APIHandler) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"payment_methods": payment.ListMethods()})
}

type processPaymentRequest struct {
	ShippingAddress models.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                 `json:"payment_method"`
	PaymentDetails  payment.Details        `json:"payment_details"`
}

// ProcessPayment runs the full checkout for the session's cart.
func (h *APIHandler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.SessionStore, r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req processPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	order, result, err := h.Checkout.PlaceOrder(user.ID, req.ShippingAddress, req.PaymentMethod, req.PaymentDetails)
	if err != nil {
		status := http.StatusInternalServerError
		var valErr *checkout.ValidationError
		var payErr *checkout.PaymentError
		var stockErr *store.InsufficientStockError
		switch {
		case errors.As(err, &valErr):
			status = http.StatusUnprocessableEntity
		case errors.As(err, &payErr):
			status = http.StatusPaymentRequired
		case errors.As(err, &stockErr):
			status = http.StatusConflict
		case errors.Is(err, checkout.ErrEmptyCart):
			status = http.StatusBadRequest
		case errors.Is(err, payment.ErrUnknownMethod):
			status = http.StatusBadRequest
		}
		body := map[string]any{"success": false, "error": checkoutErrorMessage(err)}
		if result != nil {
			body["payment"] = result
		}
		writeJSON(w, status, body)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"success": true,
		"order":   order,
		"payment": result,
	})
}

// Order returns one order as JSON. Customers can only read their own orders;
// admins can read any.
func (h *APIHandler) Order(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.SessionStore, r)
	if !ok {
		writeJSONError(w, http.StatusUnauthorized, "Authentication required")
		return
	}

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	order, err := h.Store.GetOrderByID(id)
	if errors.Is(err, store.ErrNotFound) {
		writeJSONError(w, http.StatusNotFound, "Order not found")
		return
	}
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "Error fetching order")
		return
	}

	if order.UserID != user.ID && user.Role != models.RoleAdmin {
		writeJSONError(w, http.StatusForbidden, "Access denied")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"order": order})
}
