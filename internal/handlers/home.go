package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/zeyadattiaa/TradeEngine/internal/models"
	"github.com/zeyadattiaa/TradeEngine/internal/store"
)

type ShopHandler struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

// Index renders the catalog. Sort column/direction and category come from
// query params; anything outside the allow-list falls back to newest-first
// inside the store.
func (h *ShopHandler) Index(w http.ResponseWriter, r *http.Request) {
	orderBy := r.URL.Query().Get("sort")
	dir := r.URL.Query().Get("dir")
	category := r.URL.Query().Get("category")

	var products []models.Product
	var err error
	if category != "" && models.ValidCategory(category) {
		products, err = h.Store.ListProductsByCategory(category, orderBy, dir)
	} else {
		category = ""
		products, err = h.Store.ListProducts(orderBy, dir)
	}
	if err != nil {
		http.Error(w, "Error fetching products", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("home.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, sessionName)
	user, loggedIn := currentUser(h.SessionStore, r)
	data := map[string]interface{}{
		"Products":   products,
		"Categories": models.Categories,
		"Category":   category,
		"Sort":       orderBy,
		"Dir":        dir,
		"Flashes":    GetFlash(session),
		"User":       user,
		"LoggedIn":   loggedIn,
		"IsAdmin":    user.Role == models.RoleAdmin,
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// ProductDetail renders one product with its reviews.
func (h *ShopHandler) ProductDetail(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid product ID", http.StatusBadRequest)
		return
	}

	product, err := h.Store.GetProductByID(id)
	if err == store.ErrNotFound {
		http.Error(w, "Product not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Error fetching product", http.StatusInternalServerError)
		return
	}

	reviews, err := h.Store.ListProductReviews(id)
	if err != nil {
		http.Error(w, "Error fetching reviews", http.StatusInternalServerError)
		return
	}
	avg, err := h.Store.AverageRating(id)
	if err != nil {
		http.Error(w, "Error fetching rating", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("product.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, sessionName)
	user, loggedIn := currentUser(h.SessionStore, r)
	data := map[string]interface{}{
		"Product":       product,
		"Reviews":       reviews,
		"AverageRating": avg,
		"CsrfField":     csrf.TemplateField(r),
		"Flashes":       GetFlash(session),
		"User":          user,
		"LoggedIn":      loggedIn,
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// Search lists products whose name contains the query, cheapest first.
func (h *ShopHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	var products []models.Product
	var err error
	if query != "" {
		products, err = h.Store.SearchProducts(query)
		if err != nil {
			http.Error(w, "Error searching products", http.StatusInternalServerError)
			return
		}
	}

	tmpl := h.Templates.Get("search.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, sessionName)
	user, loggedIn := currentUser(h.SessionStore, r)
	data := map[string]interface{}{
		"Products": products,
		"Query":    query,
		"Flashes":  GetFlash(session),
		"User":     user,
		"LoggedIn": loggedIn,
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}
