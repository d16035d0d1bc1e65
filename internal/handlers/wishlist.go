package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
	"github.com/gorilla/sessions"
	"github.com/zeyadattiaa/TradeEngine/internal/store"
)

type WishlistHandler struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

func (h *WishlistHandler) View(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(h.SessionStore, r)

	items, err := h.Store.GetWishlist(user.ID)
	if err != nil {
		http.Error(w, "Error fetching wishlist", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("wishlist.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, sessionName)
	data := map[string]interface{}{
		"Items":     items,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
		"User":      user,
		"LoggedIn":  true,
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

func (h *WishlistHandler) Add(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(h.SessionStore, r)
	session, _ := h.SessionStore.Get(r, sessionName)
	defer session.Save(r, w)

	productID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid product."})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	if err := h.Store.AddWishlistItem(user.ID, productID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			session.AddFlash(FlashMessage{Type: "error", Message: "Product not found."})
		} else {
			session.AddFlash(FlashMessage{Type: "error", Message: "Could not add to wishlist."})
		}
		http.Redirect(w, r, refererOr(r, "/wishlist"), http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Product added to wishlist."})
	http.Redirect(w, r, refererOr(r, "/wishlist"), http.StatusSeeOther)
}

func (h *WishlistHandler) Remove(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(h.SessionStore, r)
	session, _ := h.SessionStore.Get(r, sessionName)
	defer session.Save(r, w)

	productID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid product."})
		http.Redirect(w, r, "/wishlist", http.StatusSeeOther)
		return
	}

	if err := h.Store.RemoveWishlistItem(user.ID, productID); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Item not found in wishlist."})
	} else {
		session.AddFlash(FlashMessage{Type: "success", Message: "Item removed from wishlist."})
	}
	http.Redirect(w, r, "/wishlist", http.StatusSeeOther)
}

// MoveToCart adds the wishlisted product to the cart and, if that succeeds,
// removes it from the wishlist.
func (h *WishlistHandler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(h.SessionStore, r)
	session, _ := h.SessionStore.Get(r, sessionName)
	defer session.Save(r, w)

	productID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid product."})
		http.Redirect(w, r, "/wishlist", http.StatusSeeOther)
		return
	}

	if err := h.Store.MoveWishlistItemToCart(user.ID, productID); err != nil {
		var stockErr *store.InsufficientStockError
		if errors.As(err, &stockErr) {
			session.AddFlash(FlashMessage{Type: "error", Message: stockErr.Error()})
		} else {
			session.AddFlash(FlashMessage{Type: "error", Message: "Could not move item to cart."})
		}
		http.Redirect(w, r, "/wishlist", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Product moved to cart."})
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

func (h *WishlistHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(h.SessionStore, r)
	session, _ := h.SessionStore.Get(r, sessionName)
	defer session.Save(r, w)

	if err := h.Store.ClearWishlist(user.ID); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Failed to clear wishlist."})
	} else {
		session.AddFlash(FlashMessage{Type: "success", Message: "Wishlist cleared."})
	}
	http.Redirect(w, r, "/wishlist", http.StatusSeeOther)
}
