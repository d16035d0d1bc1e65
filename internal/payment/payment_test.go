package payment

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
}

func testCard() *creditCard {
	return &creditCard{now: fixedClock}
}

func validDetails() Details {
	return Details{
		CardNumber:     "4111 1111 1111 1111",
		CardholderName: "Jane Doe",
		CVV:            "123",
		ExpiryMonth:    12,
		ExpiryYear:     2027,
	}
}

func TestCreditCardValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Details)
		wantErr string
	}{
		{"valid", func(d *Details) {}, ""},
		{"valid with spaces stripped", func(d *Details) { d.CardNumber = "4111 1111 1111 1111" }, ""},
		{"missing cardholder", func(d *Details) { d.CardholderName = "" }, "cardholder_name"},
		{"card number too short", func(d *Details) { d.CardNumber = "411111111111" }, "invalid card number"},
		{"card number too long", func(d *Details) { d.CardNumber = strings.Repeat("4", 20) }, "invalid card number"},
		{"card number non-digits", func(d *Details) { d.CardNumber = "4111-1111-1111-1111" }, "invalid card number"},
		{"cvv too short", func(d *Details) { d.CVV = "12" }, "invalid CVV"},
		{"cvv too long", func(d *Details) { d.CVV = "12345" }, "invalid CVV"},
		{"cvv non-digits", func(d *Details) { d.CVV = "12a" }, "invalid CVV"},
		{"month zero", func(d *Details) { d.ExpiryMonth = 0 }, "invalid expiry month"},
		{"month thirteen", func(d *Details) { d.ExpiryMonth = 13 }, "invalid expiry month"},
		{"expired last year", func(d *Details) { d.ExpiryYear = 2024 }, "expired"},
		{"expired earlier this year", func(d *Details) { d.ExpiryMonth = 5; d.ExpiryYear = 2025 }, "expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDetails()
			tt.mutate(&d)
			err := testCard().Validate(d)
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestCreditCardCurrentMonthNotExpired(t *testing.T) {
	d := validDetails()
	d.ExpiryMonth = 6
	d.ExpiryYear = 2025
	assert.NoError(t, testCard().Validate(d))
}

func TestCreditCardProcess(t *testing.T) {
	result := testCard().Process(370.0, validDetails())

	require.True(t, result.Success)
	assert.True(t, strings.HasPrefix(result.TransactionID, "CC-"))
	assert.Len(t, result.TransactionID, len("CC-")+12)
	assert.Equal(t, "1111", result.Data["card_last_four"])
	assert.Equal(t, 370.0, result.Data["amount_charged"])
}

func TestCreditCardProcessRejectsInvalid(t *testing.T) {
	d := validDetails()
	d.CVV = "9"
	result := testCard().Process(100.0, d)

	assert.False(t, result.Success)
	assert.Empty(t, result.TransactionID)
	assert.Contains(t, result.Message, "invalid CVV")
}

func TestCashOnDeliveryAlwaysSucceeds(t *testing.T) {
	result := cashOnDelivery{}.Process(99.5, Details{})

	require.True(t, result.Success)
	assert.True(t, strings.HasPrefix(result.TransactionID, "COD-"))
	assert.Equal(t, 99.5, result.Data["amount_due"])
	assert.Equal(t, "on_delivery", result.Data["payment_collection"])
}

func TestForMethod(t *testing.T) {
	cc, err := ForMethod(MethodCreditCard)
	require.NoError(t, err)
	assert.Equal(t, MethodCreditCard, cc.Method())

	cod, err := ForMethod(MethodCashOnDelivery)
	require.NoError(t, err)
	assert.Equal(t, MethodCashOnDelivery, cod.Method())

	_, err = ForMethod("paypal")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}

func TestListMethods(t *testing.T) {
	methods := ListMethods()
	require.Len(t, methods, 3)

	byID := make(map[string]MethodInfo)
	for _, m := range methods {
		byID[m.ID] = m
	}
	assert.True(t, byID[MethodCreditCard].Available)
	assert.True(t, byID[MethodCashOnDelivery].Available)
	assert.False(t, byID["paypal"].Available)
}

func TestTransactionIDFormat(t *testing.T) {
	id := newTransactionID("CC")
	require.True(t, strings.HasPrefix(id, "CC-"))
	suffix := strings.TrimPrefix(id, "CC-")
	assert.Len(t, suffix, 12)
	assert.Equal(t, strings.ToUpper(suffix), suffix)
}
