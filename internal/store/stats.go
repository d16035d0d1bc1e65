package store

import "database/sql"

type DashboardStats struct {
	TotalProducts  int
	TotalUsers     int
	TotalOrders    int
	Revenue        float64
	OrdersByStatus map[string]int
	TopProducts    []ProductSales
}

type ProductSales struct {
	ProductID int
	Name      string
	UnitsSold int
}

func (s *Store) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{
		OrdersByStatus: make(map[string]int),
	}

	err := s.DB.QueryRow(`SELECT COUNT(*) FROM products`).Scan(&stats.TotalProducts)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	err = s.DB.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&stats.TotalUsers)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	err = s.DB.QueryRow(`SELECT COUNT(*) FROM orders`).Scan(&stats.TotalOrders)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	// Cancelled orders don't count toward revenue.
	err = s.DB.QueryRow(`SELECT COALESCE(SUM(total_amount), 0) FROM orders WHERE status != 'cancelled'`).Scan(&stats.Revenue)
	if err != nil && err != sql.ErrNoRows {
		return nil, err
	}

	rows, err := s.DB.Query(`SELECT status, COUNT(*) FROM orders GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.OrdersByStatus[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	productRows, err := s.DB.Query(`
		SELECT p.id, p.name, COALESCE(SUM(oi.quantity), 0) AS units_sold
		FROM products p
		LEFT JOIN order_items oi ON oi.product_id = p.id
		GROUP BY p.id
		ORDER BY units_sold DESC
		LIMIT 5
	`)
	if err != nil {
		return nil, err
	}
	defer productRows.Close()
	for productRows.Next() {
		var ps ProductSales
		if err := productRows.Scan(&ps.ProductID, &ps.Name, &ps.UnitsSold); err != nil {
			return nil, err
		}
		stats.TopProducts = append(stats.TopProducts, ps)
	}
	return stats, productRows.Err()
}
