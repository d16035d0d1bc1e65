package store

import (
	"database/sql"
	"fmt"

	"github.com/zeyadattiaa/TradeEngine/internal/models"
)

// AddReview inserts a review row. Ratings outside 1..5 are rejected before
// any SQL runs.
func (s *Store) AddReview(r *models.Review) error {
	if r.Rating < 1 || r.Rating > 5 {
		return fmt.Errorf("rating must be between 1 and 5, got %d", r.Rating)
	}
	res, err := s.DB.Exec(`
		INSERT INTO reviews (user_id, product_id, rating, comment, created_at)
		VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP)
	`, r.UserID, r.ProductID, r.Rating, r.Comment)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.ID = int(id)
	return nil
}

// ListProductReviews returns a product's reviews joined with the reviewer's
// username, newest first.
func (s *Store) ListProductReviews(productID int) ([]models.Review, error) {
	rows, err := s.DB.Query(`
		SELECT r.id, r.user_id, r.product_id, r.rating, r.comment, r.created_at, u.username
		FROM reviews r
		JOIN users u ON u.id = r.user_id
		WHERE r.product_id = ?
		ORDER BY r.created_at DESC, r.id DESC
	`, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.UserID, &r.ProductID, &r.Rating, &r.Comment, &r.CreatedAt, &r.Username); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// AverageRating returns the mean rating for a product, 0 if unreviewed.
func (s *Store) AverageRating(productID int) (float64, error) {
	var avg sql.NullFloat64
	err := s.DB.QueryRow(`SELECT AVG(rating) FROM reviews WHERE product_id = ?`, productID).Scan(&avg)
	if err != nil {
		return 0, err
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}
