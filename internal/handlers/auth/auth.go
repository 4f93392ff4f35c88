package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/addalive/admin_console/internal/apiclient"
	"github.com/addalive/admin_console/internal/session"
	"github.com/addalive/admin_console/internal/web"
)

const msgFillAllFields = "Please fill in all fields"

type AuthHandler struct {
	sessions *session.Manager
	cookie   *session.Cookie
	view     *web.Renderer
}

func NewAuthHandler(sessions *session.Manager, cookie *session.Cookie, view *web.Renderer) *AuthHandler {
	return &AuthHandler{sessions: sessions, cookie: cookie, view: view}
}

type loginView struct {
	Username string
}

func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.view.Render(w, r, http.StatusOK, "login.html", &web.Page{Data: loginView{}})
}

// Login validates the form locally, then signs in against the backend.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.loginFailed(w, r, http.StatusBadRequest, "", "Invalid form")
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		h.loginFailed(w, r, http.StatusUnprocessableEntity, username, msgFillAllFields)
		return
	}

	st, err := h.sessions.Login(r.Context(), username, password)
	if err != nil {
		log.Printf("login %s failed: %v", username, err)
		h.loginFailed(w, r, http.StatusUnauthorized, username, apiclient.Message(err))
		return
	}
	if err := h.cookie.Issue(w, st.SID, st.ExpiresAt); err != nil {
		log.Printf("issue session cookie: %v", err)
		_ = h.sessions.Logout(r.Context(), st.SID)
		h.loginFailed(w, r, http.StatusInternalServerError, username, "Could not start session")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout clears the session and cookie, then navigates to /login.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	st := session.FromContext(r.Context())
	if err := h.sessions.Logout(r.Context(), st.SID); err != nil {
		log.Printf("logout: %v", err)
	}
	h.cookie.Clear(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *AuthHandler) loginFailed(w http.ResponseWriter, r *http.Request, status int, username, msg string) {
	h.view.Render(w, r, status, "login.html", &web.Page{Error: msg, Data: loginView{Username: username}})
}
