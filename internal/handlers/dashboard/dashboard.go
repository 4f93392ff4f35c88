package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/addalive/admin_console/internal/api"
	"github.com/addalive/admin_console/internal/apiclient"
	"github.com/addalive/admin_console/internal/pkg/response"
	"github.com/addalive/admin_console/internal/web"
)

const unavailable = "—"

type DashboardHandler struct {
	users   *api.Users
	gifts   *api.Gifts
	banners *api.Media
	posters *api.Media
	admin   *api.Admin
	view    *web.Renderer
}

func NewDashboardHandler(users *api.Users, gifts *api.Gifts, banners, posters *api.Media, admin *api.Admin, view *web.Renderer) *DashboardHandler {
	return &DashboardHandler{users: users, gifts: gifts, banners: banners, posters: posters, admin: admin, view: view}
}

type StatCard struct {
	Label string
	Value string
	Note  string
	Href  string
	Color string
}

type dashboardView struct {
	Cards []StatCard
}

// Home renders the stat cards. Each card is fetched concurrently; a failed
// card shows a dash, a 401 on any of them ends the session.
func (h *DashboardHandler) Home(w http.ResponseWriter, r *http.Request) {
	cards := []StatCard{
		{Label: "Total Users", Href: "/users?role=all", Color: "from-blue-500 to-cyan-500"},
		{Label: "Total Gifts", Href: "/gifts", Color: "from-orange-500 to-red-500"},
		{Label: "Gift Categories", Href: "/gift-categories", Color: "from-purple-500 to-pink-500"},
		{Label: "Coin Balance", Href: "/profile", Color: "from-green-500 to-emerald-500"},
		{Label: "Banners", Href: "/banners", Color: "from-indigo-500 to-purple-500"},
		{Label: "Posters", Href: "/posters", Color: "from-amber-500 to-yellow-500"},
	}
	fetchers := []func(ctx context.Context) (int64, string, error){
		h.countUsers,
		func(ctx context.Context) (int64, string, error) {
			gifts, err := h.gifts.List(ctx, nil)
			return int64(len(gifts)), "", err
		},
		func(ctx context.Context) (int64, string, error) {
			cats, err := h.gifts.Categories(ctx)
			return int64(len(cats)), "", err
		},
		func(ctx context.Context) (int64, string, error) {
			p, err := h.admin.Profile(ctx)
			if err != nil || p == nil {
				return 0, "", err
			}
			return p.Coins, "", nil
		},
		func(ctx context.Context) (int64, string, error) {
			urls, err := h.banners.List(ctx)
			return int64(len(urls)), "", err
		},
		func(ctx context.Context) (int64, string, error) {
			urls, err := h.posters.List(ctx)
			return int64(len(urls)), "", err
		},
	}

	errs := make([]error, len(fetchers))
	var g errgroup.Group
	for i, fetch := range fetchers {
		g.Go(func() error {
			n, note, err := fetch(r.Context())
			errs[i] = err
			if err != nil {
				cards[i].Value = unavailable
				return nil
			}
			cards[i].Value = response.FormatNumber(n)
			cards[i].Note = note
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range errs {
		if err == nil {
			continue
		}
		if web.SessionEnded(w, r, err) {
			return
		}
		log.Printf("dashboard: %s: %v", cards[i].Label, err)
	}

	page := &web.Page{
		Title:    "Dashboard",
		Subtitle: "Overview of your AddaLive platform performance",
		Data:     dashboardView{Cards: cards},
	}
	if err := firstErr(errs); err != nil {
		page.Error = "Some figures could not be loaded: " + apiclient.Message(err)
	}
	h.view.Render(w, r, http.StatusOK, "dashboard.html", page)
}

// countUsers prefers the total reported in pagination over the page size.
func (h *DashboardHandler) countUsers(ctx context.Context) (int64, string, error) {
	page, err := h.users.ByRole(ctx, api.RoleAll, url.Values{"page": {"1"}, "limit": {"1"}})
	if err != nil {
		return 0, "", err
	}
	if total, ok := paginationTotal(page.Pagination); ok {
		return total, "", nil
	}
	return int64(len(page.Users)), "on first page", nil
}

func paginationTotal(raw json.RawMessage) (int64, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	var p map[string]any
	if err := json.Unmarshal(raw, &p); err != nil {
		return 0, false
	}
	for _, key := range []string{"total", "totalUsers", "totalDocs", "totalItems", "count"} {
		if v, ok := p[key].(float64); ok {
			return int64(v), true
		}
	}
	return 0, false
}

func firstErr(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
