package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/addalive/admin_console/internal/models"
)

// FormState carries submitted values back into a re-rendered form.
type FormState struct {
	Values url.Values
}

// FormValue returns the submitted value for name when present,
// otherwise the first fallback.
func (f FormState) FormValue(name string, fallback ...string) string {
	if vs, ok := f.Values[name]; ok && len(vs) > 0 {
		return vs[0]
	}
	if len(fallback) > 0 {
		return fallback[0]
	}
	return ""
}

// SafeReturn accepts only local absolute paths, falling back to def.
func SafeReturn(path, def string) string {
	if !strings.HasPrefix(path, "/") || strings.HasPrefix(path, "//") || strings.HasPrefix(path, "/\\") {
		return def
	}
	return path
}

// MaxUploadBytes bounds multipart forms held in memory.
const MaxUploadBytes = 32 << 20

// ParseForm accepts both multipart and urlencoded bodies.
func ParseForm(r *http.Request) error {
	err := r.ParseMultipartForm(MaxUploadBytes)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// FormFile reads an uploaded file; it returns nil when none was chosen.
func FormFile(r *http.Request, name string) (*models.Upload, error) {
	f, hdr, err := r.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	defer f.Close()
	if hdr.Filename == "" || hdr.Size == 0 {
		return nil, nil
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return &models.Upload{
		Filename:    hdr.Filename,
		ContentType: hdr.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

// Confirm is the data of the delete confirmation page.
type Confirm struct {
	Title   string
	Message string
	Action  string
	Cancel  string
}
