// Package apiclient is the single configured HTTP client for the AddaLive backend.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/addalive/admin_console/internal/models"
)

const DefaultTimeout = 30 * time.Second

// TokenSource is the read-only session view used to sign requests.
type TokenSource interface {
	Token(ctx context.Context) string
}

type Options struct {
	BaseURL string
	Timeout time.Duration
	Tokens  TokenSource
	// OnUnauthorized runs on every 401 before the error is returned.
	// It must be safe to call several times for the same request.
	OnUnauthorized func(ctx context.Context)
	HTTPClient     *http.Client
}

type Client struct {
	baseURL        string
	http           *http.Client
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
}

func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL:        strings.TrimRight(opts.BaseURL, "/"),
		http:           hc,
		tokens:         opts.Tokens,
		onUnauthorized: opts.OnUnauthorized,
	}
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (*models.Envelope, error) {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.Do(ctx, http.MethodGet, path, nil)
}

func (c *Client) Post(ctx context.Context, path string, body any) (*models.Envelope, error) {
	return c.Do(ctx, http.MethodPost, path, body)
}

func (c *Client) Put(ctx context.Context, path string, body any) (*models.Envelope, error) {
	return c.Do(ctx, http.MethodPut, path, body)
}

func (c *Client) Delete(ctx context.Context, path string) (*models.Envelope, error) {
	return c.Do(ctx, http.MethodDelete, path, nil)
}

// Do sends a JSON request. A nil body sends no payload.
func (c *Client) Do(ctx context.Context, method, path string, body any) (*models.Envelope, error) {
	var (
		reader      io.Reader
		contentType string
	)
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, normalize(0, "", fmt.Errorf("encode request: %w", err))
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}
	return c.send(ctx, method, path, reader, contentType)
}

// SendForm sends a multipart body (file-carrying endpoints).
func (c *Client) SendForm(ctx context.Context, method, path string, form *Form) (*models.Envelope, error) {
	reader, contentType, err := form.encode()
	if err != nil {
		return nil, normalize(0, "", fmt.Errorf("encode form: %w", err))
	}
	return c.send(ctx, method, path, reader, contentType)
}

func (c *Client) send(ctx context.Context, method, path string, body io.Reader, contentType string) (*models.Envelope, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, normalize(0, "", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.tokens != nil {
		if token := c.tokens.Token(ctx); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.Printf("apiclient: %s %s failed: %v", method, path, err)
		return nil, normalize(0, "", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, normalize(resp.StatusCode, "", fmt.Errorf("read response: %w", err))
	}

	var env models.Envelope
	decodeErr := json.Unmarshal(raw, &env)

	if resp.StatusCode == http.StatusUnauthorized {
		log.Printf("apiclient: %s %s -> 401, ending session", method, path)
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return nil, normalize(resp.StatusCode, env.Message, statusError(resp.StatusCode))
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("apiclient: %s %s -> %d: %s", method, path, resp.StatusCode, env.Message)
		return nil, normalize(resp.StatusCode, env.Message, statusError(resp.StatusCode))
	}

	if decodeErr != nil && len(bytes.TrimSpace(raw)) > 0 {
		return nil, normalize(resp.StatusCode, "", fmt.Errorf("decode response: %w", decodeErr))
	}
	return &env, nil
}
