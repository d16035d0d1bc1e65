package store

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/zeyadattiaa/TradeEngine/internal/models"
)

// CreateOrder persists the order header, its line items and the per-product
// stock decrements in a single transaction. If any statement fails the whole
// order is rolled back: no header, no items, no stock changes.
//
// Note there is no cross-request serialization here: two checkouts racing on
// the same product can both pass the earlier cart-level stock check. The
// conditional decrement below makes the loser roll back rather than drive
// stock negative.
func (s *Store) CreateOrder(order *models.Order) error {
	tx, err := s.DB.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		INSERT INTO orders (user_id, subtotal, shipping_cost, total_amount, shipping_address, payment_method, transaction_id, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
	`, order.UserID, order.Subtotal, order.ShippingCost, order.TotalAmount,
		order.ShippingAddress.ToJSON(), order.PaymentMethod, order.TransactionID, order.Status)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return err
	}

	for i := range order.Items {
		item := &order.Items[i]
		if _, err := tx.Exec(`
			INSERT INTO order_items (order_id, product_id, product_name, quantity, price_at_purchase)
			VALUES (?, ?, ?, ?, ?)
		`, orderID, item.ProductID, item.ProductName, item.Quantity, item.PriceAtPurchase); err != nil {
			return fmt.Errorf("insert order item: %w", err)
		}

		ct, err := tx.Exec(`
			UPDATE products SET stock_quantity = stock_quantity - ?
			WHERE id = ? AND stock_quantity >= ?
		`, item.Quantity, item.ProductID, item.Quantity)
		if err != nil {
			return fmt.Errorf("decrement stock: %w", err)
		}
		if n, _ := ct.RowsAffected(); n != 1 {
			var available int
			err := tx.QueryRow(`SELECT stock_quantity FROM products WHERE id = ?`, item.ProductID).Scan(&available)
			if err != nil && err != sql.ErrNoRows {
				return fmt.Errorf("check stock for product %d: %w", item.ProductID, err)
			}
			return &InsufficientStockError{ProductName: item.ProductName, Available: available}
		}
		item.OrderID = int(orderID)
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	order.ID = int(orderID)
	slog.Info("Order created", "order_id", order.ID, "user_id", order.UserID, "total", order.TotalAmount)
	return nil
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	var address string
	if err := row.Scan(&o.ID, &o.UserID, &o.Subtotal, &o.ShippingCost, &o.TotalAmount,
		&address, &o.PaymentMethod, &o.TransactionID, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	addr, err := models.AddressFromJSON(address)
	if err != nil {
		slog.Warn("Ignoring malformed shipping address", "order_id", o.ID, "error", err)
	}
	o.ShippingAddress = addr
	return &o, nil
}

const orderColumns = `id, user_id, subtotal, shipping_cost, total_amount, shipping_address, payment_method, COALESCE(transaction_id, ''), status, created_at, updated_at`

// GetOrderByID returns the order header with its line items attached.
func (s *Store) GetOrderByID(id int) (*models.Order, error) {
	row := s.DB.QueryRow(`SELECT `+orderColumns+` FROM orders WHERE id = ?`, id)
	order, err := scanOrder(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	items, err := s.getOrderItems(id)
	if err != nil {
		return nil, err
	}
	order.Items = items
	return order, nil
}

func (s *Store) getOrderItems(orderID int) ([]models.OrderItem, error) {
	rows, err := s.DB.Query(`
		SELECT id, order_id, product_id, product_name, quantity, price_at_purchase
		FROM order_items WHERE order_id = ? ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.OrderItem
	for rows.Next() {
		var it models.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.PriceAtPurchase); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (s *Store) ListOrdersByUser(userID int) ([]models.Order, error) {
	rows, err := s.DB.Query(`SELECT `+orderColumns+` FROM orders WHERE user_id = ? ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func (s *Store) ListAllOrders(limit, offset int) ([]models.Order, error) {
	rows, err := s.DB.Query(`SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows *sql.Rows) ([]models.Order, error) {
	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (s *Store) CountOrders() (int, error) {
	var count int
	err := s.DB.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&count)
	return count, err
}

// UpdateOrderStatus moves an order to a new status, enforcing the lifecycle
// transition map.
func (s *Store) UpdateOrderStatus(id int, status models.OrderStatus) error {
	var current models.OrderStatus
	err := s.DB.QueryRow(`SELECT status FROM orders WHERE id = ?`, id).Scan(&current)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if !models.CanTransition(current, status) {
		return fmt.Errorf("cannot move order from %s to %s", current, status)
	}
	// The write only lands if the order still has the status the check saw,
	// so two racing updates cannot both apply.
	res, err := s.DB.Exec(`
		UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?
	`, status, id, current)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("order %d was updated concurrently, retry", id)
	}
	return nil
}
