package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/zeyadattiaa/TradeEngine/internal/models"
)

const sessionName = "shop-session"

// SessionUser is the logged-in identity carried in the session cookie.
type SessionUser struct {
	ID       int
	Username string
	Role     models.Role
}

func currentUser(store *sessions.CookieStore, r *http.Request) (SessionUser, bool) {
	session, _ := store.Get(r, sessionName)
	id, ok := session.Values["user_id"].(int)
	if !ok || id == 0 {
		return SessionUser{}, false
	}
	username, _ := session.Values["username"].(string)
	role, _ := session.Values["role"].(string)
	return SessionUser{ID: id, Username: username, Role: models.Role(role)}, true
}

// RequireAuth redirects anonymous visitors to the login page.
func RequireAuth(store *sessions.CookieStore, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := currentUser(store, r); !ok {
			session, _ := store.Get(r, sessionName)
			session.AddFlash(FlashMessage{Type: "error", Message: "Please login first."})
			session.Save(r, w)
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}

// RequireAdmin allows only admin-role sessions through.
func RequireAdmin(store *sessions.CookieStore, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := currentUser(store, r)
		if !ok {
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		if user.Role != models.RoleAdmin {
			session, _ := store.Get(r, sessionName)
			session.AddFlash(FlashMessage{Type: "error", Message: "Access denied. Admins only."})
			session.Save(r, w)
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next(w, r)
	}
}
