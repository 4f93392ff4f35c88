package web

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addalive/admin_console/config"
	"github.com/addalive/admin_console/internal/models"
	"github.com/addalive/admin_console/internal/session"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	cat, err := config.LoadCatalog()
	require.NoError(t, err)
	r, err := NewRenderer(cat)
	require.NoError(t, err)
	return r
}

func requestAs(user *models.SessionUser, path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	st := &session.State{}
	if user != nil {
		st = &session.State{SID: "s", User: user, Token: "t"}
	}
	return req.WithContext(session.WithState(req.Context(), st))
}

func TestRender_LayoutAndHeader(t *testing.T) {
	r := newRenderer(t)
	r.Enable("/", "/gifts")

	rec := httptest.NewRecorder()
	req := requestAs(&models.SessionUser{Username: "root", Role: "admin"}, "/")
	r.Render(rec, req, http.StatusOK, "dashboard.html", &Page{Title: "Dashboard", Data: struct {
		Cards []struct{ Label, Value, Note, Href, Color string }
	}{}})

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Welcome back, root!")
	assert.Contains(t, body, `href="/gifts"`)
	assert.Contains(t, body, "Coming soon")
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestRender_LoginWithoutShell(t *testing.T) {
	r := newRenderer(t)
	rec := httptest.NewRecorder()
	r.Render(rec, requestAs(nil, "/login"), http.StatusUnprocessableEntity, "login.html",
		&Page{Error: "Please fill in all fields", Data: struct{ Username string }{"bob"}})

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Please fill in all fields")
	assert.Contains(t, body, `value="bob"`)
	assert.NotContains(t, body, "Welcome back")
}

func TestRender_UnknownPage(t *testing.T) {
	r := newRenderer(t)
	rec := httptest.NewRecorder()
	r.Render(rec, requestAs(nil, "/"), http.StatusOK, "missing.html", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRender_PanicsWithoutSessionMiddleware(t *testing.T) {
	r := newRenderer(t)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Panics(t, func() {
		r.Render(httptest.NewRecorder(), req, http.StatusOK, "login.html", &Page{Data: struct{ Username string }{}})
	})
}

func TestNav_ActiveAndDisabled(t *testing.T) {
	r := newRenderer(t)
	r.Enable("/users", "/roles")

	links := r.nav(r.catalog.Navigation, "/users")
	var users NavLink
	for _, l := range links {
		if l.Label == "Users" {
			users = l
		}
	}
	require.NotEmpty(t, users.Children)
	assert.True(t, users.Active)
	assert.True(t, users.Children[0].Active)
	assert.False(t, users.Children[0].Disabled)
	assert.True(t, users.Children[2].Disabled)
}

func TestRedirectToLogin(t *testing.T) {
	rec := httptest.NewRecorder()
	RedirectToLogin(rec, httptest.NewRequest(http.MethodGet, "/gifts", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/gifts", nil)
	req.Header.Set("Accept", "application/json")
	RedirectToLogin(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestFormState(t *testing.T) {
	f := FormState{Values: url.Values{"name": {"Rose"}, "empty": {""}}}
	assert.Equal(t, "Rose", f.FormValue("name", "x"))
	assert.Equal(t, "", f.FormValue("empty", "x"))
	assert.Equal(t, "x", f.FormValue("missing", "x"))
	assert.Equal(t, "", FormState{}.FormValue("missing"))
}

func TestSafeReturn(t *testing.T) {
	assert.Equal(t, "/users?role=host", SafeReturn("/users?role=host", "/users"))
	assert.Equal(t, "/users", SafeReturn("https://evil.example", "/users"))
	assert.Equal(t, "/users", SafeReturn("//evil.example", "/users"))
	assert.Equal(t, "/users", SafeReturn("", "/users"))
}

func TestFuncs(t *testing.T) {
	n := int64(1500)
	assert.Equal(t, "1,500", number(n))
	assert.Equal(t, "1,500", number(&n))
	assert.Equal(t, "0", number((*int64)(nil)))
	assert.Equal(t, "N/A", date(nil))

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-2 * time.Hour)
	assert.Equal(t, "2 hours ago", ago(&past, now))
	assert.Equal(t, "Welcome back, amy!", welcome(&models.SessionUser{Username: "amy"}))

	_, err := dict("a")
	assert.Error(t, err)
	m, err := dict("a", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, m["a"])
}
