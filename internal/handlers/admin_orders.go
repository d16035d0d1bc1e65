package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/zeyadattiaa/TradeEngine/internal/models"
)

const ordersPerPage = 20

func (h *AdminHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	offset := (page - 1) * ordersPerPage

	orders, err := h.Store.ListAllOrders(ordersPerPage, offset)
	if err != nil {
		http.Error(w, "Error fetching orders", http.StatusInternalServerError)
		return
	}
	total, err := h.Store.CountOrders()
	if err != nil {
		http.Error(w, "Error counting orders", http.StatusInternalServerError)
		return
	}
	totalPages := (total + ordersPerPage - 1) / ordersPerPage

	tmpl := h.Templates.Get("admin_orders.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, sessionName)
	data := map[string]interface{}{
		"Orders":     orders,
		"Statuses":   models.OrderStatuses,
		"Page":       page,
		"TotalPages": totalPages,
		"CsrfField":  csrf.TemplateField(r),
		"Flashes":    GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// UpdateOrderStatus moves an order along the fulfillment lifecycle. Invalid
// transitions are rejected by the store and surfaced as a flash.
func (h *AdminHandler) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	session, _ := h.SessionStore.Get(r, sessionName)
	defer session.Save(r, w)

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid order ID."})
		http.Redirect(w, r, "/admin/orders", http.StatusSeeOther)
		return
	}

	status := r.FormValue("status")
	if !models.ValidStatus(status) {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid status selected."})
		http.Redirect(w, r, "/admin/orders", http.StatusSeeOther)
		return
	}

	if err := h.Store.UpdateOrderStatus(id, models.OrderStatus(status)); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: err.Error()})
		http.Redirect(w, r, "/admin/orders", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Order status updated."})
	http.Redirect(w, r, "/admin/orders", http.StatusSeeOther)
}
