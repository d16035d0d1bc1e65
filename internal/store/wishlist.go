package store

import (
	"strings"

	"github.com/zeyadattiaa/TradeEngine/internal/models"
)

func (s *Store) GetWishlist(userID int) ([]models.WishlistItem, error) {
	rows, err := s.DB.Query(`
		SELECT wi.id, wi.user_id, wi.product_id, p.name, p.price, p.image_url, p.stock_quantity
		FROM wishlist_items wi
		JOIN products p ON p.id = wi.product_id
		WHERE wi.user_id = ?
		ORDER BY wi.id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.WishlistItem
	for rows.Next() {
		var wi models.WishlistItem
		if err := rows.Scan(&wi.ID, &wi.UserID, &wi.ProductID, &wi.ProductName, &wi.UnitPrice, &wi.ImageURL, &wi.Stock); err != nil {
			return nil, err
		}
		items = append(items, wi)
	}
	return items, rows.Err()
}

// AddWishlistItem inserts the (user, product) pair. Adding a product that is
// already wishlisted is a no-op.
func (s *Store) AddWishlistItem(userID, productID int) error {
	if _, err := s.GetProductByID(productID); err != nil {
		return err
	}
	_, err := s.DB.Exec(`INSERT INTO wishlist_items (user_id, product_id) VALUES (?, ?)`, userID, productID)
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return nil
	}
	return err
}

func (s *Store) RemoveWishlistItem(userID, productID int) error {
	res, err := s.DB.Exec(`DELETE FROM wishlist_items WHERE user_id = ? AND product_id = ?`, userID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// MoveWishlistItemToCart adds the product to the cart (add-or-increment,
// stock-checked) and removes it from the wishlist only if that succeeds.
func (s *Store) MoveWishlistItemToCart(userID, productID int) error {
	if err := s.AddCartItem(userID, productID, 1); err != nil {
		return err
	}
	return s.RemoveWishlistItem(userID, productID)
}

func (s *Store) ClearWishlist(userID int) error {
	_, err := s.DB.Exec(`DELETE FROM wishlist_items WHERE user_id = ?`, userID)
	return err
}
