package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddCartItemIncrementsExistingRow(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)
	p := seedProduct(t, s, "Yoga Mat", 34, 10)

	require.NoError(t, s.AddCartItem(u.ID, p.ID, 2))
	require.NoError(t, s.AddCartItem(u.ID, p.ID, 3))

	items, err := s.GetCart(u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 5, items[0].Quantity)
	assert.Equal(t, "Yoga Mat", items[0].ProductName)
	assert.Equal(t, 170.0, items[0].LineTotal())
}

func TestAddCartItemCumulativeStockCheck(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)
	p := seedProduct(t, s, "Denim Jacket", 79.50, 4)

	require.NoError(t, s.AddCartItem(u.ID, p.ID, 3))

	err := s.AddCartItem(u.ID, p.ID, 2)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Denim Jacket", stockErr.ProductName)
	assert.Equal(t, 4, stockErr.Available)
	assert.Equal(t, "Only 4 units of Denim Jacket available.", stockErr.Error())

	// Failed add leaves the cart untouched.
	items, err := s.GetCart(u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
}

func TestAddCartItemOutOfStock(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)
	p := seedProduct(t, s, "Sold Out Thing", 10, 0)

	err := s.AddCartItem(u.ID, p.ID, 1)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Sorry, Sold Out Thing is out of stock.", stockErr.Error())
}

func TestAddCartItemUnknownProduct(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)

	assert.ErrorIs(t, s.AddCartItem(u.ID, 999, 1), ErrNotFound)
}

func TestUpdateCartQuantity(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)
	p := seedProduct(t, s, "T-Shirt", 18.99, 10)
	require.NoError(t, s.AddCartItem(u.ID, p.ID, 1))

	require.NoError(t, s.UpdateCartQuantity(u.ID, p.ID, 7))
	items, _ := s.GetCart(u.ID)
	require.Len(t, items, 1)
	assert.Equal(t, 7, items[0].Quantity)

	err := s.UpdateCartQuantity(u.ID, p.ID, 11)
	var stockErr *InsufficientStockError
	assert.ErrorAs(t, err, &stockErr)
}

func TestUpdateCartQuantityBelowOneRemoves(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)
	p := seedProduct(t, s, "T-Shirt", 18.99, 10)
	require.NoError(t, s.AddCartItem(u.ID, p.ID, 2))

	require.NoError(t, s.UpdateCartQuantity(u.ID, p.ID, 0))

	items, err := s.GetCart(u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestUpdateCartQuantityMissingRow(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)
	p := seedProduct(t, s, "T-Shirt", 18.99, 10)

	assert.ErrorIs(t, s.UpdateCartQuantity(u.ID, p.ID, 2), ErrNotFound)
}

func TestClearCart(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)
	p1 := seedProduct(t, s, "A", 1, 5)
	p2 := seedProduct(t, s, "B", 2, 5)
	require.NoError(t, s.AddCartItem(u.ID, p1.ID, 1))
	require.NoError(t, s.AddCartItem(u.ID, p2.ID, 1))

	require.NoError(t, s.ClearCart(u.ID))
	items, err := s.GetCart(u.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}
