package handlers

import (
	"net/http"
	"strconv"

	"github.com/gorilla/csrf"
)

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Store.ListUsers()
	if err != nil {
		http.Error(w, "Error fetching users", http.StatusInternalServerError)
		return
	}

	tmpl := h.Templates.Get("admin_users.html")
	if tmpl == nil {
		http.Error(w, "Template not found", http.StatusInternalServerError)
		return
	}

	session, _ := h.SessionStore.Get(r, sessionName)
	data := map[string]interface{}{
		"Users":     users,
		"CsrfField": csrf.TemplateField(r),
		"Flashes":   GetFlash(session),
	}
	session.Save(r, w)
	tmpl.Execute(w, data)
}

// DeleteUser removes a user account. Admins cannot delete themselves.
func (h *AdminHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	admin, _ := currentUser(h.SessionStore, r)
	session, _ := h.SessionStore.Get(r, sessionName)
	defer session.Save(r, w)

	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Invalid user ID."})
		http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
		return
	}

	if id == admin.ID {
		session.AddFlash(FlashMessage{Type: "error", Message: "You cannot delete your own account."})
		http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
		return
	}

	if err := h.Store.DeleteUser(id); err != nil {
		session.AddFlash(FlashMessage{Type: "error", Message: "Error deleting user."})
		http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
		return
	}

	session.AddFlash(FlashMessage{Type: "success", Message: "User deleted successfully!"})
	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}
