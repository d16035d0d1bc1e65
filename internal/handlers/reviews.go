package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/zeyadattiaa/TradeEngine/internal/models"
	"github.com/zeyadattiaa/TradeEngine/internal/store"
)

type ReviewHandler struct {
	Store        *store.Store
	SessionStore *sessions.CookieStore
}

// Create posts a review for a product. Ratings outside 1..5 are rejected
// before anything is written.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, _ := currentUser(h.SessionStore, r)
	session, _ := h.SessionStore.Get(r, sessionName)
	defer session.Save(r, w)

	productID, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid product."})
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	productURL := "/products/" + strconv.Itoa(productID)

	rating, err := strconv.Atoi(r.FormValue("rating"))
	if err != nil || rating < 1 || rating > 5 {
		session.AddFlash(FlashMessage{Type: "error", Message: "Rating must be between 1 and 5."})
		http.Redirect(w, r, productURL, http.StatusSeeOther)
		return
	}
	comment := strings.TrimSpace(r.FormValue("comment"))

	review := &models.Review{
		UserID:    user.ID,
		ProductID: productID,
		Rating:    rating,
		Comment:   comment,
	}
	if err := h.Store.AddReview(review); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Could not save your review."})
		http.Redirect(w, r, productURL, http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "Thanks for your review!"})
	http.Redirect(w, r, productURL, http.StatusSeeOther)
}
