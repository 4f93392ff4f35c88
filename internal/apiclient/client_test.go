package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addalive/admin_console/internal/models"
)

type staticToken string

func (s staticToken) Token(context.Context) string { return string(s) }

func newTestClient(t *testing.T, h http.HandlerFunc, opts Options) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	opts.BaseURL = srv.URL + "/"
	return New(opts)
}

func TestDo_AttachesBearerAndJSON(t *testing.T) {
	var gotAuth, gotCT string
	var gotBody map[string]string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotCT = r.Header.Get("Content-Type")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.Write([]byte(`{"success":true,"message":"ok","result":{"coins":5}}`))
	}, Options{Tokens: staticToken("tok-1")})

	env, err := c.Put(context.Background(), "/api/admin/auth/assign-coin", map[string]string{"a": "b"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-1", gotAuth)
	assert.Equal(t, "application/json", gotCT)
	assert.Equal(t, "b", gotBody["a"])
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"coins":5}`, string(env.Result))
}

func TestDo_NoTokenSendsUnauthenticated(t *testing.T) {
	var called bool
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true,"result":[]}`))
	}, Options{Tokens: staticToken("")})

	_, err := c.Get(context.Background(), "/api/admin/gift", nil)
	require.NoError(t, err)
	assert.True(t, called, "request must reach the network without a token")
	assert.Empty(t, gotAuth)
}

func TestDo_NilTokenSource(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`{"success":true}`))
	}, Options{})

	_, err := c.Get(context.Background(), "/x", nil)
	require.NoError(t, err)
}

func TestDo_QueryEncoding(t *testing.T) {
	var gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{"success":true}`))
	}, Options{})

	_, err := c.Get(context.Background(), "/api/power-shared/users", map[string][]string{"userRole": {"host"}, "page": {"1"}})
	require.NoError(t, err)
	assert.Equal(t, "page=1&userRole=host", gotQuery)
}

func TestDo_Unauthorized(t *testing.T) {
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"jwt expired"}`))
	}, Options{
		Tokens:         staticToken("old"),
		OnUnauthorized: func(context.Context) { atomic.AddInt32(&hits, 1) },
	})

	_, err := c.Get(context.Background(), "/api/admin/auth", nil)
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))
	assert.Equal(t, "jwt expired", Message(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestDo_ConcurrentUnauthorized(t *testing.T) {
	var hits int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, Options{OnUnauthorized: func(context.Context) { atomic.AddInt32(&hits, 1) }})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Get(context.Background(), "/x", nil)
			assert.True(t, IsUnauthorized(err))
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(5), atomic.LoadInt32(&hits), "handler is invoked per response; idempotency is the handler's job")
}

func TestDo_ErrorNormalization(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"server message", http.StatusBadRequest, `{"success":false,"message":"Gift already exists"}`, "Gift already exists"},
		{"no message", http.StatusInternalServerError, `{"success":false}`, "Request failed with status code 500"},
		{"html body", http.StatusBadGateway, `<html>bad gateway</html>`, "Request failed with status code 502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}, Options{})

			_, err := c.Get(context.Background(), "/x", nil)
			require.Error(t, err)
			assert.Equal(t, tt.wantMsg, Message(err))
			assert.False(t, IsUnauthorized(err))
		})
	}
}

func TestDo_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	c := New(Options{BaseURL: srv.URL, Timeout: 20 * time.Millisecond})
	_, err := c.Get(context.Background(), "/slow", nil)
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 0, apiErr.Status)
	assert.NotEmpty(t, Message(err))
}

func TestSendForm_Multipart(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		assert.Equal(t, "Rose", r.FormValue("name"))

		f, hdr, err := r.FormFile("previewImage")
		if !assert.NoError(t, err) {
			return
		}
		defer f.Close()
		data, _ := io.ReadAll(f)
		assert.Equal(t, "rose.png", hdr.Filename)
		assert.Equal(t, "PNG", string(data))

		_, _, err = r.FormFile("svgaImage")
		assert.Error(t, err, "nil uploads are skipped")
		w.Write([]byte(`{"success":true,"result":{"_id":"g1"}}`))
	}, Options{})

	form := NewForm().
		Field("name", "Rose").
		File("previewImage", &models.Upload{Filename: "rose.png", ContentType: "image/png", Data: []byte("PNG")}).
		File("svgaImage", nil)

	env, err := c.SendForm(context.Background(), http.MethodPost, "/api/admin/gift", form)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(env.Result), "g1"))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "", Message(nil))
	assert.Equal(t, "boom", Message(&Error{Message: "boom"}))
	assert.Equal(t, fallbackMessage, normalize(0, "", nil).Message)
}
