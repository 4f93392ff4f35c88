package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sidThrough runs req through the verifier and returns the resolved sid.
func sidThrough(c *Cookie, req *http.Request) string {
	var sid string
	h := c.Verifier()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sid = SessionID(r)
	}))
	h.ServeHTTP(httptest.NewRecorder(), req)
	return sid
}

func issued(t *testing.T, c *Cookie, sid string, exp time.Time) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, c.Issue(rec, sid, exp))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestCookie_IssueAndVerify(t *testing.T) {
	c := NewCookie("secret", true)
	ck := issued(t, c, "sid-1", time.Now().Add(time.Hour))

	assert.Equal(t, CookieName, ck.Name)
	assert.True(t, ck.HttpOnly)
	assert.True(t, ck.Secure)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(ck)
	assert.Equal(t, "sid-1", sidThrough(c, req))
}

func TestCookie_RejectsForgedAndExpired(t *testing.T) {
	c := NewCookie("secret", false)

	forged := issued(t, NewCookie("other", false), "sid-1", time.Now().Add(time.Hour))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(forged)
	assert.Empty(t, sidThrough(c, req))

	expired := issued(t, c, "sid-2", time.Now().Add(-time.Hour))
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(expired)
	assert.Empty(t, sidThrough(c, req))

	assert.Empty(t, sidThrough(c, httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestCookie_Clear(t *testing.T) {
	rec := httptest.NewRecorder()
	NewCookie("secret", false).Clear(rec)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, CookieName, cookies[0].Name)
	assert.Negative(t, cookies[0].MaxAge)
}
