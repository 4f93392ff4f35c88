package web

import (
	"errors"
	"html/template"
	"time"

	"github.com/addalive/admin_console/internal/models"
	"github.com/addalive/admin_console/internal/pkg/response"
)

func (r *Renderer) funcs() template.FuncMap {
	return template.FuncMap{
		"number":    number,
		"date":      date,
		"ago":       func(t *time.Time) string { return ago(t, time.Now()) },
		"roleColor": r.catalog.RoleColor,
		"roleLabel": r.catalog.RoleLabel,
		"zoneColor": r.catalog.ZoneColor,
		"zoneLabel": r.catalog.ZoneLabel,
		"dict":      dict,
		"derefInt":  derefInt,
		"welcome":   welcome,
	}
}

func number(v any) string {
	switch n := v.(type) {
	case int:
		return response.FormatNumber(int64(n))
	case int64:
		return response.FormatNumber(n)
	case *int64:
		if n == nil {
			return "0"
		}
		return response.FormatNumber(*n)
	default:
		return "0"
	}
}

func date(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "N/A"
	}
	return response.FormatDate(*t)
}

func ago(t *time.Time, now time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return response.RelativeTime(*t, now)
}

func derefInt(p *int64) int64 {
	if p == nil {
		return 0
	}
	return *p
}

func welcome(u *models.SessionUser) string {
	if u == nil {
		return "Welcome back!"
	}
	return "Welcome back, " + u.Username + "!"
}

// dict builds a map for passing several values into a partial.
func dict(kv ...any) (map[string]any, error) {
	if len(kv)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, errors.New("dict: keys must be strings")
		}
		m[k] = kv[i+1]
	}
	return m, nil
}
