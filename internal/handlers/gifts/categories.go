package handlers

import (
	"context"
	"net/http"

	"github.com/addalive/admin_console/internal/apiclient"
	"github.com/addalive/admin_console/internal/resource"
	"github.com/addalive/admin_console/internal/web"
)

type categoriesView struct {
	Categories []string
	Query      string
}

// Categories renders the read-only list of gift categories.
func (h *GiftsHandler) Categories(w http.ResponseWriter, r *http.Request) {
	l := resource.List[string]{
		Fetch: func(ctx context.Context) ([]string, error) { return h.gifts.Categories(ctx) },
		Match: func(c string) []string { return []string{c} },
	}
	snap := l.Load(r.Context())
	if snap.Failed() && web.SessionEnded(w, r, snap.Err) {
		return
	}
	q := r.URL.Query().Get("q")
	page := &web.Page{
		Title:    "Gift Categories",
		Subtitle: "View all available gift categories",
		Data:     categoriesView{Categories: l.Filter(snap, q), Query: q},
	}
	if snap.Failed() {
		page.Error = apiclient.Message(snap.Err)
	}
	h.view.Render(w, r, http.StatusOK, "gift_categories.html", page)
}
