package checkout

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeyadattiaa/TradeEngine/internal/models"
	"github.com/zeyadattiaa/TradeEngine/internal/payment"
	"github.com/zeyadattiaa/TradeEngine/internal/store"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate("../../migrations"))
	return &Service{Store: s}
}

func seedCustomer(t *testing.T, s *store.Store) *models.User {
	t.Helper()
	u := &models.User{Username: "shopper", Email: "shopper@example.com", PasswordHash: "x", Role: models.RoleCustomer}
	require.NoError(t, s.CreateUser(u))
	return u
}

func seedProduct(t *testing.T, s *store.Store, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{Name: name, Price: price, Category: string(models.CategoryFood), StockQuantity: stock}
	require.NoError(t, s.CreateProduct(p))
	return p
}

func validAddress() models.ShippingAddress {
	return models.ShippingAddress{
		FullName:     "Jane Doe",
		AddressLine1: "1 Main St",
		City:         "Springfield",
		State:        "IL",
		PostalCode:   "62704",
		Country:      "USA",
		Phone:        "(555) 010-2030",
	}
}

func validCard() payment.Details {
	return payment.Details{
		CardNumber:     "4111 1111 1111 1111",
		CardholderName: "Jane Doe",
		CVV:            "123",
		ExpiryMonth:    12,
		ExpiryYear:     2039,
	}
}

func TestValidateShippingAddressRequiredFields(t *testing.T) {
	fields := []struct {
		name   string
		mutate func(*models.ShippingAddress)
	}{
		{"full_name", func(a *models.ShippingAddress) { a.FullName = "" }},
		{"address_line1", func(a *models.ShippingAddress) { a.AddressLine1 = " " }},
		{"city", func(a *models.ShippingAddress) { a.City = "" }},
		{"state", func(a *models.ShippingAddress) { a.State = "" }},
		{"postal_code", func(a *models.ShippingAddress) { a.PostalCode = "" }},
		{"country", func(a *models.ShippingAddress) { a.Country = "" }},
		{"phone", func(a *models.ShippingAddress) { a.Phone = "" }},
	}

	for _, f := range fields {
		t.Run(f.name, func(t *testing.T) {
			addr := validAddress()
			f.mutate(&addr)
			err := ValidateShippingAddress(addr)
			var valErr *ValidationError
			require.ErrorAs(t, err, &valErr)
			assert.Equal(t, f.name, valErr.Field)
			assert.Equal(t, "Missing required field: "+f.name, valErr.Message)
		})
	}
}

func TestValidateShippingAddressPhone(t *testing.T) {
	addr := validAddress()
	addr.Phone = "555-0102" // too few digits
	err := ValidateShippingAddress(addr)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "phone", valErr.Field)

	addr.Phone = "(555) 010-2030" // separators stripped before counting
	assert.NoError(t, ValidateShippingAddress(addr))

	addr.Phone = "555010203x"
	assert.Error(t, ValidateShippingAddress(addr))
}

func TestValidateShippingAddressPostalCode(t *testing.T) {
	addr := validAddress()
	addr.PostalCode = "62"
	err := ValidateShippingAddress(addr)
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "postal_code", valErr.Field)
}

func TestComputeTotals(t *testing.T) {
	items := []models.CartItem{
		{Quantity: 2, UnitPrice: 50},
		{Quantity: 1, UnitPrice: 100},
	}
	totals := ComputeTotals(items)
	assert.Equal(t, 200.0, totals.Subtotal)
	assert.Equal(t, 70.0, totals.ShippingCost)
	assert.Equal(t, 270.0, totals.Total)
}

func TestComputeTotalsFreeShippingAtThreshold(t *testing.T) {
	totals := ComputeTotals([]models.CartItem{{Quantity: 1, UnitPrice: 300}})
	assert.Equal(t, 0.0, totals.ShippingCost)
	assert.Equal(t, 300.0, totals.Total)

	below := ComputeTotals([]models.CartItem{{Quantity: 1, UnitPrice: 299.99}})
	assert.Equal(t, 70.0, below.ShippingCost)
	assert.Equal(t, 369.99, below.Total)
}

func TestPlaceOrderCreditCard(t *testing.T) {
	svc := newTestService(t)
	u := seedCustomer(t, svc.Store)
	p := seedProduct(t, svc.Store, "Honey", 15.75, 10)
	require.NoError(t, svc.Store.AddCartItem(u.ID, p.ID, 2))

	order, result, err := svc.PlaceOrder(u.ID, validAddress(), payment.MethodCreditCard, validCard())
	require.NoError(t, err)
	require.NotNil(t, order)
	require.NotNil(t, result)

	assert.Equal(t, models.StatusPaid, order.Status)
	assert.True(t, strings.HasPrefix(order.TransactionID, "CC-"))
	assert.Equal(t, 31.5, order.Subtotal)
	assert.Equal(t, 70.0, order.ShippingCost)
	assert.Equal(t, 101.5, order.TotalAmount)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 15.75, order.Items[0].PriceAtPurchase)

	// Stock decremented and cart cleared.
	after, err := svc.Store.GetProductByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, after.StockQuantity)

	cart, err := svc.Store.GetCart(u.ID)
	require.NoError(t, err)
	assert.Empty(t, cart)
}

func TestPlaceOrderCashOnDelivery(t *testing.T) {
	svc := newTestService(t)
	u := seedCustomer(t, svc.Store)
	p := seedProduct(t, svc.Store, "Honey", 15.75, 10)
	require.NoError(t, svc.Store.AddCartItem(u.ID, p.ID, 1))

	order, result, err := svc.PlaceOrder(u.ID, validAddress(), payment.MethodCashOnDelivery, payment.Details{})
	require.NoError(t, err)

	assert.Equal(t, models.StatusProcessing, order.Status)
	assert.True(t, strings.HasPrefix(result.TransactionID, "COD-"))
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	svc := newTestService(t)
	u := seedCustomer(t, svc.Store)

	_, _, err := svc.PlaceOrder(u.ID, validAddress(), payment.MethodCashOnDelivery, payment.Details{})
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPlaceOrderInvalidAddressHasNoSideEffects(t *testing.T) {
	svc := newTestService(t)
	u := seedCustomer(t, svc.Store)
	p := seedProduct(t, svc.Store, "Honey", 15.75, 10)
	require.NoError(t, svc.Store.AddCartItem(u.ID, p.ID, 1))

	addr := validAddress()
	addr.City = ""
	_, _, err := svc.PlaceOrder(u.ID, addr, payment.MethodCreditCard, validCard())
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	cart, _ := svc.Store.GetCart(u.ID)
	assert.Len(t, cart, 1)
	after, _ := svc.Store.GetProductByID(p.ID)
	assert.Equal(t, 10, after.StockQuantity)
}

func TestPlaceOrderDeclinedPaymentPersistsNothing(t *testing.T) {
	svc := newTestService(t)
	u := seedCustomer(t, svc.Store)
	p := seedProduct(t, svc.Store, "Honey", 15.75, 10)
	require.NoError(t, svc.Store.AddCartItem(u.ID, p.ID, 1))

	card := validCard()
	card.CVV = "1"
	_, result, err := svc.PlaceOrder(u.ID, validAddress(), payment.MethodCreditCard, card)
	var payErr *PaymentError
	require.ErrorAs(t, err, &payErr)
	require.NotNil(t, result)
	assert.False(t, result.Success)

	count, err := svc.Store.CountOrders()
	require.NoError(t, err)
	assert.Zero(t, count)

	cart, _ := svc.Store.GetCart(u.ID)
	assert.Len(t, cart, 1)
	after, _ := svc.Store.GetProductByID(p.ID)
	assert.Equal(t, 10, after.StockQuantity)
}

func TestPlaceOrderUnregisteredMethod(t *testing.T) {
	svc := newTestService(t)
	u := seedCustomer(t, svc.Store)
	p := seedProduct(t, svc.Store, "Honey", 15.75, 10)
	require.NoError(t, svc.Store.AddCartItem(u.ID, p.ID, 1))

	// PayPal is advertised at checkout but has no registered strategy.
	_, _, err := svc.PlaceOrder(u.ID, validAddress(), "paypal", payment.Details{})
	assert.ErrorIs(t, err, payment.ErrUnknownMethod)

	count, _ := svc.Store.CountOrders()
	assert.Zero(t, count)
}

func TestPlaceOrderInsufficientStockAtPersistRollsBack(t *testing.T) {
	svc := newTestService(t)
	u := seedCustomer(t, svc.Store)
	p := seedProduct(t, svc.Store, "Scarce", 40, 5)
	require.NoError(t, svc.Store.AddCartItem(u.ID, p.ID, 5))

	// Stock shrinks between the cart check and the transactional decrement.
	p.StockQuantity = 3
	require.NoError(t, svc.Store.UpdateProduct(p))

	_, _, err := svc.PlaceOrder(u.ID, validAddress(), payment.MethodCashOnDelivery, payment.Details{})
	var stockErr *store.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 3, stockErr.Available)

	// Order rolled back; stock and cart untouched.
	count, _ := svc.Store.CountOrders()
	assert.Zero(t, count)
	after, _ := svc.Store.GetProductByID(p.ID)
	assert.Equal(t, 3, after.StockQuantity)
	cart, _ := svc.Store.GetCart(u.ID)
	assert.Len(t, cart, 1)
}
