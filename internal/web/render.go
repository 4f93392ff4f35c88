// Package web renders the console pages from embedded templates.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/addalive/admin_console/config"
	"github.com/addalive/admin_console/internal/apiclient"
	"github.com/addalive/admin_console/internal/models"
	"github.com/addalive/admin_console/internal/pkg/response"
	"github.com/addalive/admin_console/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Page is the data every template receives.
type Page struct {
	Title    string
	Subtitle string
	Path     string
	User     *models.SessionUser
	Nav      []NavLink
	Catalog  *config.Catalog
	// Error is shown inline; when Modal is set it renders inside that modal.
	Error string
	Modal string
	Data  any
}

type NavLink struct {
	Label    string
	Href     string
	Icon     string
	Active   bool
	Disabled bool
	Children []NavLink
}

type Renderer struct {
	pages   map[string]*template.Template
	catalog *config.Catalog

	mu          sync.RWMutex
	implemented map[string]bool
}

var pageNames = []string{
	"login.html",
	"dashboard.html",
	"users.html",
	"gifts.html",
	"gift_categories.html",
	"media.html",
	"profile.html",
	"confirm.html",
	"export.html",
}

func NewRenderer(cat *config.Catalog) (*Renderer, error) {
	r := &Renderer{
		pages:       make(map[string]*template.Template, len(pageNames)),
		catalog:     cat,
		implemented: make(map[string]bool),
	}
	funcs := r.funcs()
	for _, page := range pageNames {
		t, err := template.New(page).Funcs(funcs).ParseFS(templateFS,
			"templates/layout.html", "templates/partials.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		r.pages[page] = t
	}
	return r, nil
}

// Enable marks routes that have a screen; other sidebar entries render disabled.
func (r *Renderer) Enable(paths ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range paths {
		r.implemented[p] = true
	}
}

// Render executes page into a buffer first so a template error never
// leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, status int, page string, p *Page) {
	t, ok := r.pages[page]
	if !ok {
		log.Printf("web: unknown page %q", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if p == nil {
		p = &Page{}
	}
	p.Path = req.URL.Path
	p.Catalog = r.catalog
	if st := session.FromContext(req.Context()); st.Authenticated() {
		p.User = st.User
	}
	p.Nav = r.nav(r.catalog.Navigation, p.Path)

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", p); err != nil {
		log.Printf("web: render %s: %v", page, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (r *Renderer) nav(items []config.NavItem, path string) []NavLink {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.navLocked(items, path)
}

func (r *Renderer) navLocked(items []config.NavItem, path string) []NavLink {
	links := make([]NavLink, 0, len(items))
	for _, it := range items {
		l := NavLink{Label: it.Label, Href: it.Href, Icon: it.Icon}
		if len(it.Children) > 0 {
			l.Children = r.navLocked(it.Children, path)
			for _, c := range l.Children {
				if c.Active {
					l.Active = true
				}
			}
		} else {
			l.Disabled = !r.implemented[it.Href]
			l.Active = it.Href == path || (it.Href != "/" && strings.HasPrefix(path, it.Href+"/"))
		}
		links = append(links, l)
	}
	return links
}

// Static serves the embedded assets under /static/.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}

// RedirectToLogin sends page requests to /login and JSON clients a 401.
func RedirectToLogin(w http.ResponseWriter, r *http.Request) {
	if response.WantsJSON(r) {
		response.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// SessionEnded handles a backend 401: the session was already expired by
// the client callback, so the browser is sent to /login. It reports
// whether err was such an error.
func SessionEnded(w http.ResponseWriter, r *http.Request, err error) bool {
	if !apiclient.IsUnauthorized(err) {
		return false
	}
	RedirectToLogin(w, r)
	return true
}
