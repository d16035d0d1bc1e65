package store

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zeyadattiaa/TradeEngine/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewStore(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate("../../migrations"))
	return s
}

var userSeq int

func seedUser(t *testing.T, s *Store) *models.User {
	t.Helper()
	userSeq++
	u := &models.User{
		Username:     fmt.Sprintf("user%d", userSeq),
		Email:        fmt.Sprintf("user%d@example.com", userSeq),
		PasswordHash: "x",
		Role:         models.RoleCustomer,
	}
	require.NoError(t, s.CreateUser(u))
	return u
}

func seedProduct(t *testing.T, s *Store, name string, price float64, stock int) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:          name,
		Price:         price,
		Category:      string(models.CategoryElectronics),
		StockQuantity: stock,
	}
	require.NoError(t, s.CreateProduct(p))
	return p
}
