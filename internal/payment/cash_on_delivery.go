package payment

type cashOnDelivery struct{}

func (cashOnDelivery) Method() string { return MethodCashOnDelivery }

// Validate always passes: cash on delivery needs no payment details, only
// confirmation.
func (cashOnDelivery) Validate(Details) error { return nil }

func (cashOnDelivery) Process(amount float64, _ Details) Result {
	return Result{
		Success:       true,
		TransactionID: newTransactionID("COD"),
		Message:       "Cash on Delivery order confirmed. Payment will be collected upon delivery.",
		Data: map[string]any{
			"amount_due":         amount,
			"payment_collection": "on_delivery",
		},
	}
}
