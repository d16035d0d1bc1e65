package store

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/zeyadattiaa/TradeEngine/internal/models"
)

// scanUser is the single row-to-struct mapping for users.
func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	var info string
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &u.Role, &u.Mobile, &info, &u.CreatedAt); err != nil {
		return nil, err
	}
	if strings.TrimSpace(info) != "" {
		if err := json.Unmarshal([]byte(info), &u.Profile); err != nil {
			slog.Warn("Ignoring malformed user profile", "user_id", u.ID, "error", err)
		}
	}
	return &u, nil
}

const userColumns = `id, username, email, password_hash, role, COALESCE(mobile, ''), COALESCE(specific_info, '{}'), created_at`

func (s *Store) CreateUser(u *models.User) error {
	info, err := json.Marshal(u.Profile)
	if err != nil {
		return err
	}
	res, err := s.DB.Exec(`
		INSERT INTO users (username, email, password_hash, role, mobile, specific_info)
		VALUES (?, ?, ?, ?, ?, ?)
	`, u.Username, u.Email, u.PasswordHash, u.Role, u.Mobile, string(info))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = int(id)
	return nil
}

func (s *Store) GetUserByID(id int) (*models.User, error) {
	row := s.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return u, err
}

func (s *Store) GetUserByEmail(email string) (*models.User, error) {
	row := s.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return u, err
}

func (s *Store) GetUserByUsername(username string) (*models.User, error) {
	row := s.DB.QueryRow(`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return u, err
}

func (s *Store) UpdateUser(u *models.User) error {
	info, err := json.Marshal(u.Profile)
	if err != nil {
		return err
	}
	res, err := s.DB.Exec(`
		UPDATE users SET username = ?, email = ?, mobile = ?, specific_info = ?
		WHERE id = ?
	`, u.Username, u.Email, u.Mobile, string(info), u.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) UpdateUserPassword(id int, passwordHash string) error {
	_, err := s.DB.Exec(`UPDATE users SET password_hash = ? WHERE id = ?`, passwordHash, id)
	return err
}

func (s *Store) DeleteUser(id int) error {
	_, err := s.DB.Exec(`DELETE FROM users WHERE id = ?`, id)
	return err
}

func (s *Store) ListUsers() ([]models.User, error) {
	rows, err := s.DB.Query(`SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
