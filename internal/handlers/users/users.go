package handlers

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/addalive/admin_console/config"
	"github.com/addalive/admin_console/internal/api"
	"github.com/addalive/admin_console/internal/apiclient"
	"github.com/addalive/admin_console/internal/models"
	"github.com/addalive/admin_console/internal/resource"
	"github.com/addalive/admin_console/internal/web"
)

const (
	msgInvalidRole     = "Invalid role"
	msgInvalidZone     = "Invalid activity zone"
	msgInvalidStars    = "Valid stars value is required"
	msgInvalidDiamonds = "Valid diamonds value is required"
	msgInvalidCoins    = "Valid coins value is required"
)

const (
	defaultRole   = "user"
	zoneTempBlock = "temp_block"

	// Pseudo-roles backed by their own list endpoints.
	roleModerators = "moderators"
	roleBanned     = "banned"

	// dateTill arrives from a datetime-local input.
	dateTillLayout = "2006-01-02T15:04"
)

// UsersHandler serves /users and /roles: the same user list with role,
// activity zone, credits and coin actions.
type UsersHandler struct {
	users   *api.Users
	catalog *config.Catalog
	view    *web.Renderer
}

func NewUsersHandler(users *api.Users, catalog *config.Catalog, view *web.Renderer) *UsersHandler {
	return &UsersHandler{users: users, catalog: catalog, view: view}
}

type Tab struct {
	Label  string
	Href   string
	Active bool
}

type usersView struct {
	web.FormState
	Screen   string
	Role     string
	Email    string
	Query    string
	Tabs     []Tab
	Users    []models.User
	Selected *models.User
	Return   string
}

// ModalHref links to the current list with a modal opened for user id.
func (v usersView) ModalHref(kind, id string) string {
	q := v.listQuery()
	q.Set("modal", kind)
	q.Set("id", id)
	return v.Screen + "?" + q.Encode()
}

func (v usersView) listQuery() url.Values {
	q := url.Values{"role": {v.Role}}
	if v.Email != "" {
		q.Set("email", v.Email)
	}
	if v.Query != "" {
		q.Set("q", v.Query)
	}
	return q
}

type screen struct {
	path, title, subtitle string
	query                 url.Values
}

var (
	usersScreen = screen{
		path:     "/users",
		title:    "User Management",
		subtitle: "Manage users, roles, activity zones, and credits",
		query:    url.Values{"page": {"1"}, "limit": {"50"}},
	}
	rolesScreen = screen{
		path:     "/roles",
		title:    "Role Management",
		subtitle: "Manage user roles, permissions, and access levels",
	}
)

func (h *UsersHandler) Users(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, usersScreen, http.StatusOK, "", nil)
}

func (h *UsersHandler) Roles(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, rolesScreen, http.StatusOK, "", nil)
}

// list picks the endpoint: an email search wins over the role tab.
func (h *UsersHandler) list(sc screen, role, email string) resource.List[models.User] {
	return resource.List[models.User]{
		Fetch: func(ctx context.Context) ([]models.User, error) {
			var (
				page *models.UserPage
				err  error
			)
			switch {
			case email != "":
				page, err = h.users.Search(ctx, email, sc.query)
			case role == roleModerators:
				return h.users.Moderators(ctx)
			case role == roleBanned:
				return h.users.Banned(ctx, sc.query)
			default:
				page, err = h.users.ByRole(ctx, role, sc.query)
			}
			if err != nil {
				return nil, err
			}
			return page.Users, nil
		},
		Match: func(u models.User) []string { return []string{u.Username, u.Email} },
	}
}

// render fetches the list for the role in the query string. A non-empty
// formErr re-opens the modal from the query with the submitted values.
func (h *UsersHandler) render(w http.ResponseWriter, r *http.Request, sc screen, status int, formErr string, submitted url.Values) {
	role := r.URL.Query().Get("role")
	if role == "" {
		role = defaultRole
	}
	if !h.listable(role) {
		role = defaultRole
	}
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	q := r.URL.Query().Get("q")

	l := h.list(sc, role, email)
	snap := l.Load(r.Context())
	if snap.Failed() && web.SessionEnded(w, r, snap.Err) {
		return
	}

	v := usersView{
		FormState: web.FormState{Values: submitted},
		Screen:    sc.path,
		Role:      role,
		Email:     email,
		Query:     q,
		Tabs:      h.tabs(sc.path, role),
		Users:     l.Filter(snap, q),
	}
	v.Return = sc.path + "?" + v.listQuery().Encode()

	page := &web.Page{Title: sc.title, Subtitle: sc.subtitle, Data: &v}
	if snap.Failed() {
		page.Error = apiclient.Message(snap.Err)
	}
	if modal := r.URL.Query().Get("modal"); modal != "" {
		id := r.URL.Query().Get("id")
		for i := range snap.Items {
			if snap.Items[i].ID == id {
				v.Selected = &snap.Items[i]
				break
			}
		}
		if v.Selected != nil {
			page.Modal = modal
			page.Error = formErr
		} else if formErr != "" {
			page.Error = formErr
		}
	}
	h.view.Render(w, r, status, "users.html", page)
}

func (h *UsersHandler) listable(role string) bool {
	switch role {
	case api.RoleAll, roleModerators, roleBanned:
		return true
	}
	return h.catalog.IsRole(role)
}

func (h *UsersHandler) tabs(path, active string) []Tab {
	tabs := []Tab{{Label: "All", Href: path + "?role=" + api.RoleAll, Active: active == api.RoleAll}}
	for _, o := range h.catalog.Roles {
		tabs = append(tabs, Tab{
			Label:  o.Label,
			Href:   path + "?role=" + url.QueryEscape(o.Value),
			Active: active == o.Value,
		})
	}
	return append(tabs,
		Tab{Label: "Moderators", Href: path + "?role=" + roleModerators, Active: active == roleModerators},
		Tab{Label: "Banned", Href: path + "?role=" + roleBanned, Active: active == roleBanned},
	)
}

func (h *UsersHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "role", func(ctx context.Context, id string, form url.Values) (string, error) {
		role := form.Get("role")
		if !h.catalog.IsRole(role) {
			return msgInvalidRole, nil
		}
		_, err := h.users.AssignRole(ctx, role, id)
		return "", err
	})
}

func (h *UsersHandler) UpdateZone(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "zone", func(ctx context.Context, id string, form url.Values) (string, error) {
		upd, msg := parseZone(h.catalog, id, form)
		if msg != "" {
			return msg, nil
		}
		_, err := h.users.UpdateActivityZone(ctx, upd)
		return "", err
	})
}

func (h *UsersHandler) UpdateStats(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "stats", func(ctx context.Context, id string, form url.Values) (string, error) {
		upd, msg := parseStats(form)
		if msg != "" {
			return msg, nil
		}
		_, err := h.users.UpdateStats(ctx, id, upd)
		return "", err
	})
}

func (h *UsersHandler) AssignCoins(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, "coins", func(ctx context.Context, id string, form url.Values) (string, error) {
		coins, ok := parsePositive(form.Get("coins"))
		if !ok {
			return msgInvalidCoins, nil
		}
		role := form.Get("userRole")
		if role == "" {
			role = defaultRole
		}
		_, err := h.users.AssignCoins(ctx, api.CoinAssignment{UserID: id, Coins: coins, UserRole: role})
		return "", err
	})
}

// mutate runs one modal action. fn returns a validation message, in which
// case no request is made, or the API error. Success redirects back to the
// list so it is fetched again.
func (h *UsersHandler) mutate(w http.ResponseWriter, r *http.Request, modal string,
	fn func(ctx context.Context, id string, form url.Values) (string, error)) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	id := chi.URLParam(r, "id")
	ret := web.SafeReturn(r.PostFormValue("return"), usersScreen.path)

	msg, err := fn(r.Context(), id, r.PostForm)
	if err != nil {
		if web.SessionEnded(w, r, err) {
			return
		}
		log.Printf("users: %s for %s failed: %v", modal, id, err)
		msg = apiclient.Message(err)
	}
	if msg == "" {
		http.Redirect(w, r, ret, http.StatusSeeOther)
		return
	}

	// Re-render the originating list with the modal open.
	u, perr := url.Parse(ret)
	if perr != nil {
		u = &url.URL{Path: usersScreen.path}
	}
	q := u.Query()
	q.Set("modal", modal)
	q.Set("id", id)
	r.URL.RawQuery = q.Encode()
	sc := usersScreen
	if u.Path == rolesScreen.path {
		sc = rolesScreen
	}
	status := http.StatusUnprocessableEntity
	if err != nil {
		status = http.StatusBadGateway
	}
	h.render(w, r, sc, status, msg, r.PostForm)
}

func parseZone(cat *config.Catalog, id string, form url.Values) (api.ZoneUpdate, string) {
	zone := form.Get("zone")
	if !cat.IsZone(zone) {
		return api.ZoneUpdate{}, msgInvalidZone
	}
	upd := api.ZoneUpdate{ID: id, Zone: zone}
	if zone == zoneTempBlock {
		if s := strings.TrimSpace(form.Get("dateTill")); s != "" {
			t, err := time.ParseInLocation(dateTillLayout, s, time.Local)
			if err != nil {
				if t, err = time.Parse(time.RFC3339, s); err != nil {
					return api.ZoneUpdate{}, "Invalid block date"
				}
			}
			upd.DateTill = &t
		}
	}
	return upd, ""
}

// parseStats requires both counters as non-negative integers.
func parseStats(form url.Values) (api.StatsUpdate, string) {
	stars, err := strconv.ParseInt(strings.TrimSpace(form.Get("stars")), 10, 64)
	if err != nil || stars < 0 {
		return api.StatsUpdate{}, msgInvalidStars
	}
	diamonds, err := strconv.ParseInt(strings.TrimSpace(form.Get("diamonds")), 10, 64)
	if err != nil || diamonds < 0 {
		return api.StatsUpdate{}, msgInvalidDiamonds
	}
	return api.StatsUpdate{Stars: &stars, Diamonds: &diamonds}, ""
}

func parsePositive(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
