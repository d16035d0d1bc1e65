package handlers

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeyadattiaa/TradeEngine/internal/models"
	"github.com/zeyadattiaa/TradeEngine/internal/store"
)

func newTestAdminHandler(t *testing.T) *AdminHandler {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate("../../migrations"))
	return &AdminHandler{
		Store:        s,
		Templates:    NewTemplateCache(),
		SessionStore: sessions.NewCookieStore([]byte("0123456789abcdef0123456789abcdef")),
	}
}

func productEditRequest(t *testing.T, target string, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for key, value := range fields {
		require.NoError(t, w.WriteField(key, value))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUpdateProductWithoutUploadKeepsImage(t *testing.T) {
	h := newTestAdminHandler(t)

	p := &models.Product{
		Name:          "Desk Lamp",
		Price:         30,
		ImageURL:      "/static/uploads/lamp.jpg",
		Category:      string(models.CategoryElectronics),
		StockQuantity: 10,
	}
	require.NoError(t, h.Store.CreateProduct(p))

	req := productEditRequest(t, "/admin/products/1", map[string]string{
		"name":           "Desk Lamp Pro",
		"price":          "35.50",
		"category":       string(models.CategoryElectronics),
		"stock_quantity": "8",
	})
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()

	h.UpdateProduct(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/products", rec.Header().Get("Location"))

	got, err := h.Store.GetProductByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp Pro", got.Name)
	assert.Equal(t, 35.50, got.Price)
	assert.Equal(t, 8, got.StockQuantity)
	// No new file was posted, so the stored image stays.
	assert.Equal(t, "/static/uploads/lamp.jpg", got.ImageURL)
}

func TestUpdateProductRejectsBadFields(t *testing.T) {
	h := newTestAdminHandler(t)

	p := &models.Product{
		Name:          "Desk Lamp",
		Price:         30,
		Category:      string(models.CategoryElectronics),
		StockQuantity: 10,
	}
	require.NoError(t, h.Store.CreateProduct(p))

	req := productEditRequest(t, "/admin/products/1", map[string]string{
		"name":           "",
		"price":          "-5",
		"category":       "Toys",
		"stock_quantity": "8",
	})
	req.SetPathValue("id", "1")
	rec := httptest.NewRecorder()

	h.UpdateProduct(rec, req)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	// Nothing written.
	got, err := h.Store.GetProductByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", got.Name)
	assert.Equal(t, 30.0, got.Price)
}
