package handlers

import (
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/addalive/admin_console/internal/api"
	"github.com/addalive/admin_console/internal/apiclient"
	"github.com/addalive/admin_console/internal/models"
	"github.com/addalive/admin_console/internal/web"
)

const (
	msgFillAllFields = "Please fill in all fields"
	msgInvalidCoins  = "Valid coins value is required"

	profilePath = "/profile"
)

// ProfileHandler — профиль администратора и пополнение его баланса монет.
type ProfileHandler struct {
	admin *api.Admin
	view  *web.Renderer
}

func NewProfileHandler(admin *api.Admin, view *web.Renderer) *ProfileHandler {
	return &ProfileHandler{admin: admin, view: view}
}

type profileView struct {
	web.FormState
	Profile *models.AdminProfile
}

func (v profileView) Initial() string {
	if v.Profile == nil || v.Profile.Username == "" {
		return "A"
	}
	return (&models.SessionUser{Username: v.Profile.Username}).Initial()
}

func (h *ProfileHandler) Show(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, r.URL.Query().Get("modal"), "", nil)
}

func (h *ProfileHandler) render(w http.ResponseWriter, r *http.Request, status int, modal, formErr string, submitted url.Values) {
	p, err := h.admin.Profile(r.Context())
	if err != nil && web.SessionEnded(w, r, err) {
		return
	}
	page := &web.Page{
		Title:    "Profile",
		Subtitle: "Manage your admin account",
		Modal:    modal,
		Data:     profileView{FormState: web.FormState{Values: submitted}, Profile: p},
	}
	if err != nil {
		log.Printf("profile: load failed: %v", err)
		page.Error = apiclient.Message(err)
	}
	if formErr != "" {
		page.Error = formErr
	}
	h.view.Render(w, r, status, "profile.html", page)
}

// Update saves username and email; the password is sent only when given.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	upd := models.ProfileUpdate{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Email:    strings.TrimSpace(r.PostFormValue("email")),
		Password: r.PostFormValue("password"),
	}
	if upd.Username == "" || upd.Email == "" {
		h.render(w, r, http.StatusUnprocessableEntity, "edit", msgFillAllFields, withoutPassword(r.PostForm))
		return
	}
	if _, err := h.admin.UpdateProfile(r.Context(), upd); err != nil {
		if web.SessionEnded(w, r, err) {
			return
		}
		log.Printf("profile: update failed: %v", err)
		h.render(w, r, http.StatusBadGateway, "edit", apiclient.Message(err), withoutPassword(r.PostForm))
		return
	}
	http.Redirect(w, r, profilePath, http.StatusSeeOther)
}

// AssignCoins tops up the signed-in admin's own balance.
func (h *ProfileHandler) AssignCoins(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Invalid form", http.StatusBadRequest)
		return
	}
	coins, err := strconv.ParseInt(strings.TrimSpace(r.PostFormValue("coins")), 10, 64)
	if err != nil || coins <= 0 {
		h.render(w, r, http.StatusUnprocessableEntity, "coins", msgInvalidCoins, r.PostForm)
		return
	}
	if _, err := h.admin.AssignCoins(r.Context(), coins); err != nil {
		if web.SessionEnded(w, r, err) {
			return
		}
		log.Printf("profile: assign coins failed: %v", err)
		h.render(w, r, http.StatusBadGateway, "coins", apiclient.Message(err), r.PostForm)
		return
	}
	http.Redirect(w, r, profilePath, http.StatusSeeOther)
}

func withoutPassword(form url.Values) url.Values {
	out := url.Values{}
	for k, v := range form {
		if k != "password" {
			out[k] = v
		}
	}
	return out
}
