package handlers

import (
	"context"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/addalive/admin_console/internal/api"
	"github.com/addalive/admin_console/internal/apiclient"
	"github.com/addalive/admin_console/internal/models"
	"github.com/addalive/admin_console/internal/resource"
	"github.com/addalive/admin_console/internal/web"
)

const (
	msgNameRequired     = "Gift name is required"
	msgCategoryRequired = "Category is required"
	msgInvalidDiamonds  = "Valid diamonds value is required"
	msgInvalidCoinPrice = "Valid coin price is required"
	msgPreviewRequired  = "Preview image is required"
	msgSvgaRequired     = "SVGA animation file is required"

	giftsPath = "/gifts"
)

type GiftsHandler struct {
	gifts *api.Gifts
	view  *web.Renderer
}

func NewGiftsHandler(gifts *api.Gifts, view *web.Renderer) *GiftsHandler {
	return &GiftsHandler{gifts: gifts, view: view}
}

type giftsView struct {
	web.FormState
	Gifts      []models.Gift
	Categories []string
	Category   string
	Query      string
	Editing    *models.Gift
	Return     string
}

func (v giftsView) listQuery() url.Values {
	q := url.Values{}
	if v.Category != "" {
		q.Set("category", v.Category)
	}
	if v.Query != "" {
		q.Set("q", v.Query)
	}
	return q
}

func (v giftsView) href(q url.Values) string {
	if len(q) == 0 {
		return giftsPath
	}
	return giftsPath + "?" + q.Encode()
}

func (v giftsView) CategoryHref(category string) string {
	q := v.listQuery()
	q.Del("category")
	if category != "" {
		q.Set("category", category)
	}
	return v.href(q)
}

func (v giftsView) ModalHref(kind, id string) string {
	q := v.listQuery()
	q.Set("modal", kind)
	if id != "" {
		q.Set("id", id)
	}
	return v.href(q)
}

func (h *GiftsHandler) list() resource.List[models.Gift] {
	return resource.List[models.Gift]{
		Fetch: func(ctx context.Context) ([]models.Gift, error) { return h.gifts.List(ctx, nil) },
		Match: func(g models.Gift) []string { return []string{g.Name, g.Category} },
	}
}

// load fetches gifts and categories concurrently. A failed category fetch
// only costs the filter chips.
func (h *GiftsHandler) load(ctx context.Context) (resource.Snapshot[models.Gift], []string) {
	var (
		snap resource.Snapshot[models.Gift]
		cats []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap = h.list().Load(gctx)
		return nil
	})
	g.Go(func() error {
		var err error
		if cats, err = h.gifts.Categories(gctx); err != nil {
			log.Printf("gifts: categories: %v", err)
			cats = []string{}
		}
		return nil
	})
	_ = g.Wait()
	return snap, cats
}

func (h *GiftsHandler) Gifts(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "", nil)
}

func (h *GiftsHandler) render(w http.ResponseWriter, r *http.Request, status int, formErr string, submitted url.Values) {
	snap, cats := h.load(r.Context())
	if snap.Failed() && web.SessionEnded(w, r, snap.Err) {
		return
	}

	query := r.URL.Query()
	v := &giftsView{
		Categories: cats,
		Category:   query.Get("category"),
		Query:      query.Get("q"),
	}
	v.Gifts = filterCategory(h.list().Filter(snap, v.Query), v.Category)
	v.Return = v.href(v.listQuery())

	page := &web.Page{
		Title:    "Gift Management",
		Subtitle: "Create, edit, and manage virtual gifts",
		Data:     v,
	}
	if snap.Failed() {
		page.Error = apiclient.Message(snap.Err)
	}

	switch modal := query.Get("modal"); modal {
	case "create":
		page.Modal = modal
	case "edit":
		id := query.Get("id")
		for i := range snap.Items {
			if snap.Items[i].ID == id {
				v.Editing = &snap.Items[i]
				break
			}
		}
		if v.Editing != nil {
			page.Modal = modal
			if submitted == nil {
				submitted = giftValues(v.Editing)
			}
		}
	}
	if formErr != "" {
		page.Error = formErr
	}
	v.FormState = web.FormState{Values: submitted}
	h.view.Render(w, r, status, "gifts.html", page)
}

func (h *GiftsHandler) Create(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, "")
}

func (h *GiftsHandler) Update(w http.ResponseWriter, r *http.Request) {
	h.save(w, r, chi.URLParam(r, "id"))
}

// save validates before any network call; id == "" creates.
func (h *GiftsHandler) save(w http.ResponseWriter, r *http.Request, id string) {
	if err := web.ParseForm(r); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	ret := web.SafeReturn(r.PostFormValue("return"), giftsPath)

	in, msg, err := parseGiftForm(r, id == "")
	if err != nil {
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}
	status := http.StatusUnprocessableEntity
	if msg == "" {
		if id == "" {
			_, err = h.gifts.Create(r.Context(), in)
		} else {
			_, err = h.gifts.Update(r.Context(), id, in)
		}
		if err == nil {
			http.Redirect(w, r, ret, http.StatusSeeOther)
			return
		}
		if web.SessionEnded(w, r, err) {
			return
		}
		log.Printf("gifts: save %q failed: %v", id, err)
		msg = apiclient.Message(err)
		status = http.StatusBadGateway
	}

	r.URL.RawQuery = modalQuery(ret, id)
	h.render(w, r, status, msg, r.PostForm)
}

// ConfirmDelete shows the confirmation step; nothing is deleted on GET.
func (h *GiftsHandler) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	snap := h.list().Load(r.Context())
	if snap.Failed() && web.SessionEnded(w, r, snap.Err) {
		return
	}
	name := id
	for _, g := range snap.Items {
		if g.ID == id {
			name = g.Name
			break
		}
	}
	h.view.Render(w, r, http.StatusOK, "confirm.html", &web.Page{
		Title: "Gift Management",
		Data: web.Confirm{
			Title:   "Delete Gift",
			Message: `Are you sure you want to delete "` + name + `"?`,
			Action:  giftsPath + "/" + url.PathEscape(id) + "/delete",
			Cancel:  giftsPath,
		},
	})
}

// Delete calls the backend only when the confirmation was accepted.
func (h *GiftsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if r.PostFormValue("confirm") != "yes" {
		http.Redirect(w, r, giftsPath, http.StatusSeeOther)
		return
	}
	if err := h.gifts.Delete(r.Context(), id); err != nil {
		if web.SessionEnded(w, r, err) {
			return
		}
		log.Printf("gifts: delete %s failed: %v", id, err)
		h.render(w, r, http.StatusBadGateway, apiclient.Message(err), nil)
		return
	}
	http.Redirect(w, r, giftsPath, http.StatusSeeOther)
}

func modalQuery(ret, id string) string {
	q := url.Values{}
	if u, err := url.Parse(ret); err == nil {
		q = u.Query()
	}
	if id == "" {
		q.Set("modal", "create")
	} else {
		q.Set("modal", "edit")
		q.Set("id", id)
	}
	return q.Encode()
}

func filterCategory(gifts []models.Gift, category string) []models.Gift {
	if category == "" {
		return gifts
	}
	out := make([]models.Gift, 0, len(gifts))
	for _, g := range gifts {
		if g.Category == category {
			out = append(out, g)
		}
	}
	return out
}

func giftValues(g *models.Gift) url.Values {
	return url.Values{
		"name":      {g.Name},
		"category":  {g.Category},
		"diamonds":  {strconv.FormatInt(g.Diamonds, 10)},
		"coinPrice": {strconv.FormatInt(g.CoinPrice, 10)},
	}
}

// parseGiftForm returns a validation message for the first invalid field.
// Files are required only when creating.
func parseGiftForm(r *http.Request, create bool) (models.GiftInput, string, error) {
	in := models.GiftInput{
		Name:     strings.TrimSpace(r.PostFormValue("name")),
		Category: strings.TrimSpace(r.PostFormValue("category")),
	}
	if in.Name == "" {
		return in, msgNameRequired, nil
	}
	if in.Category == "" {
		return in, msgCategoryRequired, nil
	}
	diamonds, ok := parseAmount(r.PostFormValue("diamonds"))
	if !ok {
		return in, msgInvalidDiamonds, nil
	}
	coinPrice, ok := parseAmount(r.PostFormValue("coinPrice"))
	if !ok {
		return in, msgInvalidCoinPrice, nil
	}
	in.Diamonds, in.CoinPrice = &diamonds, &coinPrice

	var err error
	if in.PreviewImage, err = web.FormFile(r, "previewImage"); err != nil {
		return in, "", err
	}
	if in.SvgaImage, err = web.FormFile(r, "svgaImage"); err != nil {
		return in, "", err
	}
	if create && in.PreviewImage == nil {
		return in, msgPreviewRequired, nil
	}
	if create && in.SvgaImage == nil {
		return in, msgSvgaRequired, nil
	}
	return in, "", nil
}

func parseAmount(s string) (int64, bool) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
