package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/addalive/admin_console/internal/api"
	"github.com/addalive/admin_console/internal/apiclient"
	"github.com/addalive/admin_console/internal/export"
	"github.com/addalive/admin_console/internal/models"
	"github.com/addalive/admin_console/internal/web"
)

const (
	pageSize = 500
	maxPages = 40
)

// SheetsWriter is implemented by export.Sheets.
type SheetsWriter interface {
	WriteUsers(ctx context.Context, spreadsheetID string, users []models.User) (int, error)
}

type ExportHandler struct {
	users  *api.Users
	sheets SheetsWriter // nil when Google credentials are not configured
	roles  func(string) bool
	view   *web.Renderer
}

func NewExportHandler(users *api.Users, sheets SheetsWriter, isRole func(string) bool, view *web.Renderer) *ExportHandler {
	return &ExportHandler{users: users, sheets: sheets, roles: isRole, view: view}
}

type exportView struct {
	web.FormState
	Configured bool
	Notice     string
}

func (h *ExportHandler) role(v string) (string, bool) {
	if v == "" || v == api.RoleAll {
		return api.RoleAll, true
	}
	return v, h.roles(v)
}

// XLSX streams the users of ?role= as a workbook download.
func (h *ExportHandler) XLSX(w http.ResponseWriter, r *http.Request) {
	role, ok := h.role(r.URL.Query().Get("role"))
	if !ok {
		http.Error(w, "Invalid role", http.StatusBadRequest)
		return
	}
	users, err := h.collect(r.Context(), role)
	if err != nil {
		if web.SessionEnded(w, r, err) {
			return
		}
		log.Printf("export xlsx: %v", err)
		http.Error(w, apiclient.Message(err), http.StatusBadGateway)
		return
	}

	name := fmt.Sprintf("users-%s-%s.xlsx", role, time.Now().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	if err := export.WriteXLSX(w, users); err != nil {
		log.Printf("export xlsx: %v", err)
	}
}

func (h *ExportHandler) SheetsForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, exportView{
		FormState:  web.FormState{Values: url.Values{"role": {api.RoleAll}}},
		Configured: h.sheets != nil,
	}, "")
}

// Sheets writes the selected users into the spreadsheet given by URL or id.
func (h *ExportHandler) Sheets(w http.ResponseWriter, r *http.Request) {
	if err := web.ParseForm(r); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	v := exportView{FormState: web.FormState{Values: r.PostForm}, Configured: h.sheets != nil}
	if h.sheets == nil {
		h.render(w, r, http.StatusServiceUnavailable, v, "Google Sheets export is not configured")
		return
	}
	id, err := export.SpreadsheetID(strings.TrimSpace(r.PostForm.Get("spreadsheet")))
	if err != nil {
		h.render(w, r, http.StatusUnprocessableEntity, v, "Please enter a valid Google Sheets URL")
		return
	}
	role, ok := h.role(r.PostForm.Get("role"))
	if !ok {
		h.render(w, r, http.StatusUnprocessableEntity, v, "Invalid role")
		return
	}

	users, err := h.collect(r.Context(), role)
	if err != nil {
		if web.SessionEnded(w, r, err) {
			return
		}
		h.render(w, r, http.StatusBadGateway, v, apiclient.Message(err))
		return
	}
	n, err := h.sheets.WriteUsers(r.Context(), id, users)
	if err != nil {
		log.Printf("export sheets: %v", err)
		h.render(w, r, http.StatusBadGateway, v, "Could not write to the spreadsheet")
		return
	}
	v.Notice = "Exported " + strconv.Itoa(len(users)) + " users (" + strconv.Itoa(n) + " rows written)"
	h.render(w, r, http.StatusOK, v, "")
}

func (h *ExportHandler) render(w http.ResponseWriter, r *http.Request, status int, v exportView, msg string) {
	h.view.Render(w, r, status, "export.html", &web.Page{
		Title:    "Export Users",
		Subtitle: "Download or publish the user table",
		Error:    msg,
		Data:     v,
	})
}

var errTooManyPages = errors.New("export: too many pages")

// collect walks the paginated user list. Backends that ignore paging return
// the same array every time; a repeated first id ends the walk.
func (h *ExportHandler) collect(ctx context.Context, role string) ([]models.User, error) {
	var (
		all   []models.User
		first string
	)
	for page := 1; page <= maxPages; page++ {
		q := url.Values{"page": {strconv.Itoa(page)}, "limit": {strconv.Itoa(pageSize)}}
		p, err := h.users.ByRole(ctx, role, q)
		if err != nil {
			return nil, err
		}
		if len(p.Users) == 0 || (page > 1 && p.Users[0].ID == first) {
			return all, nil
		}
		first = p.Users[0].ID
		all = append(all, p.Users...)
		if len(p.Users) < pageSize {
			return all, nil
		}
	}
	return nil, errTooManyPages
}
