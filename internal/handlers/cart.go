package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/zeyadattiaa/TradeEngine/internal/checkout"
	"github.com/zeyadattiaa/TradeEngine/internal/store"
)

type CartHandler struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(h.SessionStore, r)

	items, err := h.Store.GetCart(user.ID)
	if err != nil {
		http.Error(w, "Error fetching cart", http.StatusInternalServerError)
		return
	}
	totals := checkout.ComputeTotals(items)

	tmpl := h.Templates.Get("cart.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, sessionName)
	data := map[string]interface{}{
		"Items":     items,
		"Totals":    totals,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
		"User":      user,
		"LoggedIn":  true,
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// Add puts a product in the cart, incrementing the quantity if it is
// already there. The store rejects requests beyond the available stock.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(h.SessionStore, r)
	session, _ := h.SessionStore.Get(r, sessionName)
	defer session.Save(r, w)

	productID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid product."})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	quantity := 1
	if q, err := strconv.Atoi(r.FormValue("quantity")); err == nil && q > 0 {
		quantity = q
	}

	if err := h.Store.AddCartItem(user.ID, productID, quantity); err != nil {
		h.flashCartError(session, err)
		http.Redirect(w, r, refererOr(r, "/cart"), http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Product added to cart!"})
	http.Redirect(w, r, refererOr(r, "/cart"), http.StatusSeeOther)
}

// UpdateQuantity sets a cart line's quantity; anything below 1 removes it.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(h.SessionStore, r)
	session, _ := h.SessionStore.Get(r, sessionName)
	defer session.Save(r, w)

	productID, err := strconv.Atoi(r.FormValue("product_id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid product."})
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	quantity, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid quantity."})
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	if err := h.Store.UpdateCartQuantity(user.ID, productID, quantity); err != nil {
		h.flashCartError(session, err)
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Cart updated."})
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(h.SessionStore, r)
	session, _ := h.SessionStore.Get(r, sessionName)
	defer session.Save(r, w)

	productID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid product."})
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	if err := h.Store.RemoveCartItem(user.ID, productID); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Failed to remove item."})
	} else {
		session.AddFlash(FlashMessage{Type: "success", Message: "Item removed from cart."})
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(h.SessionStore, r)
	session, _ := h.SessionStore.Get(r, sessionName)
	defer session.Save(r, w)

	if err := h.Store.ClearCart(user.ID); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Failed to clear cart."})
	} else {
		session.AddFlash(FlashMessage{Type: "success", Message: "Cart cleared."})
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *CartHandler) flashCartError(session *sessions.Session, err error) {
	var stockErr *store.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		session.AddFlash(FlashMessage{Type: "error", Message: stockErr.Error()})
	case errors.Is(err, store.ErrNotFound):
		session.AddFlash(FlashMessage{Type: "error", Message: "Product not found."})
	default:
		session.AddFlash(FlashMessage{Type: "error", Message: "Could not update cart. Please try again."})
	}
}

func refererOr(r *http.Request, fallback string) string {
	if ref := r.Referer(); ref != "" {
		return ref
	}
	return fallback
}
