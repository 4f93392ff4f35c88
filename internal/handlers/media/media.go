package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/addalive/admin_console/internal/api"
	"github.com/addalive/admin_console/internal/apiclient"
	"github.com/addalive/admin_console/internal/models"
	"github.com/addalive/admin_console/internal/resource"
	"github.com/addalive/admin_console/internal/web"
)

const msgSelectImage = "Please select an image"

// MediaHandler serves one of /banners or /posters. The list endpoint
// returns bare URLs, so the screen offers list and create only.
type MediaHandler struct {
	media    *api.Media
	view     *web.Renderer
	base     string
	singular string
	title    string
	subtitle string
}

func NewBannersHandler(media *api.Media, view *web.Renderer) *MediaHandler {
	return &MediaHandler{
		media: media, view: view, base: "/banners", singular: "Banner",
		title: "Banners", subtitle: "Manage promotional banners for the app",
	}
}

func NewPostersHandler(media *api.Media, view *web.Renderer) *MediaHandler {
	return &MediaHandler{
		media: media, view: view, base: "/posters", singular: "Poster",
		title: "Posters", subtitle: "Manage promotional posters for the app",
	}
}

type mediaView struct {
	Kind     string
	Singular string
	Base     string
	URLs     []string
	Query    string
	Alt      string
}

func (h *MediaHandler) List(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "", "")
}

func (h *MediaHandler) render(w http.ResponseWriter, r *http.Request, status int, formErr, alt string) {
	l := resource.List[string]{
		Fetch: func(ctx context.Context) ([]string, error) { return h.media.List(ctx) },
		Match: func(u string) []string { return []string{u} },
	}
	snap := l.Load(r.Context())
	if snap.Failed() && web.SessionEnded(w, r, snap.Err) {
		return
	}
	q := r.URL.Query().Get("q")
	page := &web.Page{
		Title:    h.title,
		Subtitle: h.subtitle,
		Modal:    r.URL.Query().Get("modal"),
		Data: mediaView{
			Kind:     h.media.Kind,
			Singular: h.singular,
			Base:     h.base,
			URLs:     l.Filter(snap, q),
			Query:    q,
			Alt:      alt,
		},
	}
	if snap.Failed() {
		page.Error = apiclient.Message(snap.Err)
	}
	if formErr != "" {
		page.Error = formErr
	}
	h.view.Render(w, r, status, "media.html", page)
}

// Create uploads a new image; the image is checked before any request.
func (h *MediaHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := web.ParseForm(r); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	alt := strings.TrimSpace(r.PostFormValue("alt"))
	img, err := web.FormFile(r, "image")
	if err != nil {
		http.Error(w, "Invalid upload", http.StatusBadRequest)
		return
	}
	r.URL.RawQuery = "modal=create"
	if img == nil {
		h.render(w, r, http.StatusUnprocessableEntity, msgSelectImage, alt)
		return
	}

	if err := h.media.Create(r.Context(), models.MediaInput{Alt: alt, Image: img}); err != nil {
		if web.SessionEnded(w, r, err) {
			return
		}
		log.Printf("%s: create failed: %v", h.media.Kind, err)
		h.render(w, r, http.StatusBadGateway, apiclient.Message(err), alt)
		return
	}
	http.Redirect(w, r, h.base, http.StatusSeeOther)
}
