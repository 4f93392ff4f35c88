// Package api maps console actions to backend REST calls, one file per
// resource family. Every function unwraps the envelope "result" field.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/addalive/admin_console/internal/apiclient"
	"github.com/addalive/admin_console/internal/models"
)

// Backend is the subset of *apiclient.Client used by resource modules.
type Backend interface {
	Get(ctx context.Context, path string, query url.Values) (*models.Envelope, error)
	Post(ctx context.Context, path string, body any) (*models.Envelope, error)
	Put(ctx context.Context, path string, body any) (*models.Envelope, error)
	Delete(ctx context.Context, path string) (*models.Envelope, error)
	SendForm(ctx context.Context, method, path string, form *apiclient.Form) (*models.Envelope, error)
}

// decodeResult leaves out untouched when the envelope has no result.
func decodeResult(env *models.Envelope, out any) error {
	if env == nil || !env.HasResult() {
		return nil
	}
	if err := json.Unmarshal(env.Result, out); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

func cloneQuery(q url.Values) url.Values {
	out := url.Values{}
	for k, v := range q {
		out[k] = append([]string(nil), v...)
	}
	return out
}
