package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zeyadattiaa/TradeEngine/internal/models"
)

var sortColumns = map[string]bool{
	"price":          true,
	"name":           true,
	"created_at":     true,
	"stock_quantity": true,
}

var sortDirections = map[string]bool{
	"ASC":  true,
	"DESC": true,
}

// orderByClause builds the ORDER BY for product listings. Anything outside
// the allow-list silently falls back to newest-first so user input can never
// reach the SQL text.
func orderByClause(orderBy, dir string) string {
	dir = strings.ToUpper(dir)
	if sortColumns[orderBy] && sortDirections[dir] {
		return fmt.Sprintf("ORDER BY %s %s", orderBy, dir)
	}
	return "ORDER BY created_at DESC"
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanProduct is the single row-to-struct mapping for products.
func scanProduct(row rowScanner) (*models.Product, error) {
	var p models.Product
	var details string
	if err := row.Scan(&p.ID, &p.Name, &p.Price, &p.ImageURL, &p.Category, &p.StockQuantity, &details, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Details = map[string]string{}
	if strings.TrimSpace(details) != "" {
		if err := json.Unmarshal([]byte(details), &p.Details); err != nil {
			// A malformed blob should not take the whole listing down.
			slog.Warn("Ignoring malformed product details", "product_id", p.ID, "error", err)
			p.Details = map[string]string{}
		}
	}
	return &p, nil
}

const productColumns = `id, name, price, image_url, category, stock_quantity, COALESCE(details, '{}'), created_at`

func (s *Store) CreateProduct(p *models.Product) error {
	details, err := json.Marshal(p.Details)
	if err != nil {
		return err
	}
	res, err := s.DB.Exec(`
		INSERT INTO products (name, price, image_url, category, stock_quantity, details, created_at)
		VALUES (?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, p.Name, p.Price, p.ImageURL, p.Category, p.StockQuantity, string(details))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = int(id)
	return nil
}

func (s *Store) GetProductByID(id int) (*models.Product, error) {
	row := s.DB.QueryRow(`SELECT `+productColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return p, err
}

// UpdateProduct writes the editable product fields. The image column is
// deliberately left alone; UpdateProductImage owns it, so an edit without a
// new upload keeps the existing image.
func (s *Store) UpdateProduct(p *models.Product) error {
	details, err := json.Marshal(p.Details)
	if err != nil {
		return err
	}
	res, err := s.DB.Exec(`
		UPDATE products
		SET name = ?, price = ?, category = ?, stock_quantity = ?, details = ?
		WHERE id = ?
	`, p.Name, p.Price, p.Category, p.StockQuantity, string(details), p.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateProductImage(id int, imageURL string) error {
	_, err := s.DB.Exec(`UPDATE products SET image_url = ? WHERE id = ?`, imageURL, id)
	return err
}

func (s *Store) DeleteProduct(id int) error {
	_, err := s.DB.Exec(`DELETE FROM products WHERE id = ?`, id)
	return err
}

// ListProducts returns all products ordered by an allow-listed column.
func (s *Store) ListProducts(orderBy, dir string) ([]models.Product, error) {
	rows, err := s.DB.Query(`SELECT ` + productColumns + ` FROM products ` + orderByClause(orderBy, dir))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func (s *Store) ListProductsByCategory(category, orderBy, dir string) ([]models.Product, error) {
	rows, err := s.DB.Query(`SELECT `+productColumns+` FROM products WHERE category = ? `+orderByClause(orderBy, dir), category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

// SearchProducts does a case-insensitive substring match on the product
// name, cheapest first.
func (s *Store) SearchProducts(query string) ([]models.Product, error) {
	rows, err := s.DB.Query(`
		SELECT `+productColumns+` FROM products
		WHERE name LIKE ? COLLATE NOCASE
		ORDER BY price ASC
	`, "%"+query+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectProducts(rows)
}

func collectProducts(rows *sql.Rows) ([]models.Product, error) {
	var products []models.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}
