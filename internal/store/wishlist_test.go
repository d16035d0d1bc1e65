package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWishlistAddAndDuplicate(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)
	p := seedProduct(t, s, "Headphones", 60, 5)

	require.NoError(t, s.AddWishlistItem(u.ID, p.ID))
	// Adding twice is a no-op, not an error.
	require.NoError(t, s.AddWishlistItem(u.ID, p.ID))

	items, err := s.GetWishlist(u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Headphones", items[0].ProductName)
}

func TestWishlistAddUnknownProduct(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)

	assert.ErrorIs(t, s.AddWishlistItem(u.ID, 999), ErrNotFound)
}

func TestWishlistRemove(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)
	p := seedProduct(t, s, "Headphones", 60, 5)
	require.NoError(t, s.AddWishlistItem(u.ID, p.ID))

	require.NoError(t, s.RemoveWishlistItem(u.ID, p.ID))
	assert.ErrorIs(t, s.RemoveWishlistItem(u.ID, p.ID), ErrNotFound)
}

func TestMoveWishlistItemToCart(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)
	p := seedProduct(t, s, "Headphones", 60, 5)
	require.NoError(t, s.AddWishlistItem(u.ID, p.ID))

	require.NoError(t, s.MoveWishlistItemToCart(u.ID, p.ID))

	wishlist, err := s.GetWishlist(u.ID)
	require.NoError(t, err)
	assert.Empty(t, wishlist)

	cart, err := s.GetCart(u.ID)
	require.NoError(t, err)
	require.Len(t, cart, 1)
	assert.Equal(t, 1, cart[0].Quantity)
}

func TestMoveWishlistItemOutOfStockStaysWishlisted(t *testing.T) {
	s := newTestStore(t)
	u := seedUser(t, s)
	p := seedProduct(t, s, "Rare Item", 200, 0)
	require.NoError(t, s.AddWishlistItem(u.ID, p.ID))

	err := s.MoveWishlistItemToCart(u.ID, p.ID)
	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)

	wishlist, err := s.GetWishlist(u.ID)
	require.NoError(t, err)
	assert.Len(t, wishlist, 1)
}
