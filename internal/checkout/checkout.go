// Package checkout implements order placement: address validation, totals,
// payment dispatch and transactional persistence.
package checkout

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zeyadattiaa/TradeEngine/internal/models"
	"github.com/zeyadattiaa/TradeEngine/internal/payment"
	"github.com/zeyadattiaa/TradeEngine/internal/store"
)

const (
	// Orders below the threshold pay a flat shipping fee; above it shipping
	// is free.
	ShippingFee           = 70.0
	FreeShippingThreshold = 300.0
)

var ErrEmptyCart = errors.New("cart is empty")

// ValidationError reports which address field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// PaymentError wraps a declined or invalid payment so handlers can tell it
// apart from persistence failures.
type PaymentError struct {
	Message string
}

func (e *PaymentError) Error() string { return e.Message }

var phoneSeparators = strings.NewReplacer("-", "", " ", "", "(", "", ")", "")

// ValidateShippingAddress checks the required address fields and returns a
// field-specific error for the first failure.
func ValidateShippingAddress(addr models.ShippingAddress) error {
	required := []struct {
		field, value string
	}{
		{"full_name", addr.FullName},
		{"address_line1", addr.AddressLine1},
		{"city", addr.City},
		{"state", addr.State},
		{"postal_code", addr.PostalCode},
		{"country", addr.Country},
		{"phone", addr.Phone},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &ValidationError{Field: f.field, Message: "Missing required field: " + f.field}
		}
	}

	phone := phoneSeparators.Replace(addr.Phone)
	if len(phone) < 10 || !isDigits(phone) {
		return &ValidationError{Field: "phone", Message: "Invalid phone number"}
	}

	if len(addr.PostalCode) < 3 {
		return &ValidationError{Field: "postal_code", Message: "Invalid postal code"}
	}

	return nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

// Totals is the priced summary of a cart.
type Totals struct {
	Subtotal     float64 `json:"subtotal"`
	ShippingCost float64 `json:"shipping_cost"`
	Total        float64 `json:"total"`
}

// ComputeTotals sums the cart lines and applies the shipping surcharge. The
// surcharge is zero exactly when the subtotal reaches the free-shipping
// threshold.
func ComputeTotals(items []models.CartItem) Totals {
	var subtotal float64
	for i := range items {
		subtotal += items[i].LineTotal()
	}
	shipping := 0.0
	if subtotal < FreeShippingThreshold {
		shipping = ShippingFee
	}
	return Totals{
		Subtotal:     models.RoundCents(subtotal),
		ShippingCost: shipping,
		Total:        models.RoundCents(subtotal + shipping),
	}
}

type Service struct {
	Store *store.Store
}

// PlaceOrder runs the whole checkout for a user's durable cart:
//
//  1. validate the shipping address (no side effects on failure)
//  2. reject an empty cart
//  3. snapshot cart lines into order items at the current product price
//  4. process payment via the selected strategy (reject before persistence)
//  5. persist header + items + stock decrements in one transaction
//  6. clear the cart only after the transaction commits
func (s *Service) PlaceOrder(userID int, addr models.ShippingAddress, method string, details payment.Details) (*models.Order, *payment.Result, error) {
	if err := ValidateShippingAddress(addr); err != nil {
		return nil, nil, err
	}

	items, err := s.Store.GetCart(userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load cart: %w", err)
	}
	if len(items) == 0 {
		return nil, nil, ErrEmptyCart
	}

	orderItems := make([]models.OrderItem, 0, len(items))
	for _, ci := range items {
		orderItems = append(orderItems, models.OrderItem{
			ProductID:       ci.ProductID,
			ProductName:     ci.ProductName,
			Quantity:        ci.Quantity,
			PriceAtPurchase: ci.UnitPrice,
		})
	}
	totals := ComputeTotals(items)

	processor, err := payment.ForMethod(method)
	if err != nil {
		return nil, nil, err
	}
	result := processor.Process(totals.Total, details)
	if !result.Success {
		return nil, &result, &PaymentError{Message: result.Message}
	}

	status := models.StatusPaid
	if method == payment.MethodCashOnDelivery {
		status = models.StatusProcessing
	}

	order := &models.Order{
		UserID:          userID,
		Items:           orderItems,
		ShippingAddress: addr,
		PaymentMethod:   method,
		TransactionID:   result.TransactionID,
		Status:          status,
		Subtotal:        totals.Subtotal,
		ShippingCost:    totals.ShippingCost,
		TotalAmount:     totals.Total,
	}

	if err := s.Store.CreateOrder(order); err != nil {
		return nil, &result, fmt.Errorf("persist order: %w", err)
	}

	// The order is committed; a failed cart clear is an annoyance, not a
	// correctness problem.
	if err := s.Store.ClearCart(userID); err != nil {
		slog.Error("Failed to clear cart after checkout", "user_id", userID, "error", err)
	}

	return order, &result, nil
}
