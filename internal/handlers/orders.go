package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/sessions"
	"github.com/zeyadattiaa/TradeEngine/internal/models"
	"github.com/zeyadattiaa/TradeEngine/internal/store"
)

type OrderHandler struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

// List shows the logged-in user's order history, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(h.SessionStore, r)

	orders, err := h.Store.ListOrdersByUser(user.ID)
	if err != nil {
		http.Error(w, "Error fetching orders", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("orders.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, sessionName)
	data := map[string]interface{}{
		"Orders":   orders,
		"Flashes":  GetFlash(session),
		"User":     user,
		"LoggedIn": true,
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// Detail shows one order. Customers can only see their own orders; admins
// can see any.
func (h *OrderHandler) Detail(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(h.SessionStore, r)

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	order, err := h.Store.GetOrderByID(id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, "Error fetching order", http.StatusInternalServerError)
		return
	}

	if order.UserID != user.ID && user.Role != models.RoleAdmin {
		http.Error(w, "Access denied", http.StatusForbidden)
		return
	}

	tmpl := h.Templates.Get("order_detail.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, sessionName)
	data := map[string]interface{}{
		"Order":    order,
		"Flashes":  GetFlash(session),
		"User":     user,
		"LoggedIn": true,
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}
