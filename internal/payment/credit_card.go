package payment

import (
	"errors"
	"strings"
	"time"
)

type creditCard struct {
	now func() time.Time // injected for expiry tests
}

func (creditCard) Method() string { return MethodCreditCard }

func (c *creditCard) Validate(details Details) error {
	if details.CardholderName == "" {
		return errors.New("missing required field: cardholder_name")
	}

	number := strings.ReplaceAll(details.CardNumber, " ", "")
	if !digitsOnly(number) || len(number) < 13 || len(number) > 19 {
		return errors.New("invalid card number")
	}

	if !digitsOnly(details.CVV) || len(details.CVV) < 3 || len(details.CVV) > 4 {
		return errors.New("invalid CVV")
	}

	if details.ExpiryMonth < 1 || details.ExpiryMonth > 12 {
		return errors.New("invalid expiry month")
	}
	now := c.now()
	if details.ExpiryYear < now.Year() ||
		(details.ExpiryYear == now.Year() && time.Month(details.ExpiryMonth) < now.Month()) {
		return errors.New("card has expired")
	}

	return nil
}

func (c *creditCard) Process(amount float64, details Details) Result {
	if err := c.Validate(details); err != nil {
		return Result{Success: false, Message: err.Error()}
	}

	// A real gateway call would go here.
	number := strings.ReplaceAll(details.CardNumber, " ", "")
	return Result{
		Success:       true,
		TransactionID: newTransactionID("CC"),
		Message:       "Payment processed successfully",
		Data: map[string]any{
			"card_last_four": number[len(number)-4:],
			"amount_charged": amount,
		},
	}
}
