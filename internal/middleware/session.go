package middleware

import (
	"net/http"

	"github.com/addalive/admin_console/internal/session"
	"github.com/addalive/admin_console/internal/web"
)

// LoadSession restores the session named by the verified cookie and puts
// it into the request context. A cookie pointing at a cleared session is
// dropped.
func LoadSession(mgr *session.Manager, cookie *session.Cookie) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sid := session.SessionID(r)
			st := mgr.Restore(r.Context(), sid)
			if sid != "" && !st.Authenticated() {
				cookie.Clear(w)
			}
			next.ServeHTTP(w, r.WithContext(session.WithState(r.Context(), st)))
		})
	}
}

// RequireSession пропускает только аутентифицированные запросы.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !session.FromContext(r.Context()).Authenticated() {
			web.RedirectToLogin(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RedirectIfAuthenticated keeps signed-in admins off the login page.
func RedirectIfAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if session.FromContext(r.Context()).Authenticated() {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
