package session

import (
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
)

// CookieName matches the cookie jwtauth.TokenFromCookie reads.
const CookieName = "jwt"

// Cookie signs the session id into the browser cookie. The cookie carries
// only sid and exp; everything else stays in the Store.
type Cookie struct {
	ja     *jwtauth.JWTAuth
	secure bool
}

func NewCookie(secret string, secure bool) *Cookie {
	return &Cookie{ja: jwtauth.New("HS256", []byte(secret), nil), secure: secure}
}

// Verifier parses and validates the cookie token into the request context.
func (c *Cookie) Verifier() func(http.Handler) http.Handler {
	return jwtauth.Verify(c.ja, jwtauth.TokenFromCookie)
}

func (c *Cookie) Issue(w http.ResponseWriter, sid string, expiresAt time.Time) error {
	claims := map[string]interface{}{"sid": sid}
	jwtauth.SetExpiry(claims, expiresAt)
	_, signed, err := c.ja.Encode(claims)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    signed,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (c *Cookie) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SessionID returns the verified sid, or "" when the cookie is absent,
// expired or forged.
func SessionID(r *http.Request) string {
	token, claims, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil {
		return ""
	}
	sid, _ := claims["sid"].(string)
	return sid
}
