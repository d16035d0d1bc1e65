package handlers

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/zeyadattiaa/TradeEngine/internal/store"
)

type AdminHandler struct {
	Store        *store.Store
	Templates    *TemplateCache
	SessionStore *sessions.CookieStore
}

func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Store.GetDashboardStats()
	if err != nil {
		http.Error(w, "Error fetching stats", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("admin.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, sessionName)
	user, _ := currentUser(h.SessionStore, r)
	data := map[string]interface{}{
		"Stats":    stats,
		"Flashes":  GetFlash(session),
		"User":     user,
		"LoggedIn": true,
		"IsAdmin":  true,
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}
