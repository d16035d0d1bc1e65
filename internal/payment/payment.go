// Package payment implements the method-specific payment strategies used at
// checkout. A strategy validates its own details, then either rejects the
// payment or mints a transaction id.
package payment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	MethodCreditCard     = "credit_card"
	MethodCashOnDelivery = "cod"
)

var ErrUnknownMethod = errors.New("unknown payment method")

// Details carries the method-specific payment fields from the request. Cash
// on delivery ignores all of them.
type Details struct {
	CardNumber     string `json:"card_number"`
	CardholderName string `json:"cardholder_name"`
	CVV            string `json:"cvv"`
	ExpiryMonth    int    `json:"expiry_month"`
	ExpiryYear     int    `json:"expiry_year"`
}

type Result struct {
	Success       bool           `json:"success"`
	TransactionID string         `json:"transaction_id"`
	Message       string         `json:"message"`
	Data          map[string]any `json:"data,omitempty"`
}

// Processor is the strategy interface: validate the details, then process
// the amount.
type Processor interface {
	Method() string
	Validate(details Details) error
	Process(amount float64, details Details) Result
}

var strategies = map[string]func() Processor{
	MethodCreditCard:     func() Processor { return &creditCard{now: time.Now} },
	MethodCashOnDelivery: func() Processor { return cashOnDelivery{} },
}

// ForMethod returns the strategy registered for the given method tag.
func ForMethod(method string) (Processor, error) {
	factory, ok := strategies[method]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
	return factory(), nil
}

type MethodInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Available   bool   `json:"available"`
}

// ListMethods describes the payment methods shown at checkout. PayPal is
// advertised but has no registered strategy, so selecting it is rejected.
func ListMethods() []MethodInfo {
	return []MethodInfo{
		{
			ID:          MethodCreditCard,
			Name:        "Credit Card",
			Description: "Pay securely with Visa, Mastercard, or American Express",
			Icon:        "credit-card",
			Available:   true,
		},
		{
			ID:          "paypal",
			Name:        "PayPal",
			Description: "Pay with your PayPal account",
			Icon:        "paypal",
			Available:   false,
		},
		{
			ID:          MethodCashOnDelivery,
			Name:        "Cash on Delivery",
			Description: "Pay when your order arrives",
			Icon:        "banknote",
			Available:   true,
		},
	}
}

func newTransactionID(prefix string) string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return prefix + "-" + strings.ToUpper(hex[:12])
}

func digitsOnly(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
