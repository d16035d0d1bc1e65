package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/zeyadattiaa/TradeEngine/internal/models"
)

// InsufficientStockError is returned when a cart mutation asks for more
// units than the product has left.
type InsufficientStockError struct {
	ProductName string
	Available   int
}

func (e *InsufficientStockError) Error() string {
	if e.Available == 0 {
		return fmt.Sprintf("Sorry, %s is out of stock.", e.ProductName)
	}
	return fmt.Sprintf("Only %d units of %s available.", e.Available, e.ProductName)
}

const cartColumns = `ci.id, ci.user_id, ci.product_id, p.name, p.price, p.image_url, p.stock_quantity, ci.quantity`

func scanCartItem(row rowScanner) (*models.CartItem, error) {
	var ci models.CartItem
	if err := row.Scan(&ci.ID, &ci.UserID, &ci.ProductID, &ci.ProductName, &ci.UnitPrice, &ci.ImageURL, &ci.Stock, &ci.Quantity); err != nil {
		return nil, err
	}
	return &ci, nil
}

// GetCart returns the user's cart items joined with product data.
func (s *Store) GetCart(userID int) ([]models.CartItem, error) {
	rows, err := s.DB.Query(`
		SELECT `+cartColumns+`
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.user_id = ?
		ORDER BY ci.id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.CartItem
	for rows.Next() {
		ci, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *ci)
	}
	return items, rows.Err()
}

// AddCartItem adds a product to the cart, or increments the quantity if a
// row already exists. The cumulative requested quantity is checked against
// the product's stock first.
func (s *Store) AddCartItem(userID, productID, quantity int) error {
	if quantity < 1 {
		return errors.New("quantity must be at least 1")
	}

	product, err := s.GetProductByID(productID)
	if err != nil {
		return err
	}

	var existing int
	err = s.DB.QueryRow(`SELECT quantity FROM cart_items WHERE user_id = ? AND product_id = ?`,
		userID, productID).Scan(&existing)
	if err != nil && err != sql.ErrNoRows {
		return err
	}

	requested := existing + quantity
	if requested > product.StockQuantity {
		return &InsufficientStockError{ProductName: product.Name, Available: product.StockQuantity}
	}

	if existing > 0 {
		_, err = s.DB.Exec(`UPDATE cart_items SET quantity = ? WHERE user_id = ? AND product_id = ?`,
			requested, userID, productID)
		return err
	}
	_, err = s.DB.Exec(`INSERT INTO cart_items (user_id, product_id, quantity) VALUES (?, ?, ?)`,
		userID, productID, quantity)
	return err
}

// UpdateCartQuantity sets the quantity for a cart row. Anything below 1
// removes the row instead.
func (s *Store) UpdateCartQuantity(userID, productID, quantity int) error {
	if quantity < 1 {
		return s.RemoveCartItem(userID, productID)
	}

	product, err := s.GetProductByID(productID)
	if err != nil {
		return err
	}
	if quantity > product.StockQuantity {
		return &InsufficientStockError{ProductName: product.Name, Available: product.StockQuantity}
	}

	res, err := s.DB.Exec(`UPDATE cart_items SET quantity = ? WHERE user_id = ? AND product_id = ?`,
		quantity, userID, productID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) RemoveCartItem(userID, productID int) error {
	_, err := s.DB.Exec(`DELETE FROM cart_items WHERE user_id = ? AND product_id = ?`, userID, productID)
	return err
}

func (s *Store) ClearCart(userID int) error {
	_, err := s.DB.Exec(`DELETE FROM cart_items WHERE user_id = ?`, userID)
	return err
}
