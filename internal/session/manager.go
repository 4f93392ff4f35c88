package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/addalive/admin_console/internal/models"
)

// DefaultTTL is used when the access token carries no usable exp claim.
const DefaultTTL = 7 * 24 * time.Hour

// Authenticator exchanges credentials for the user and access token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (*models.SessionUser, string, error)
}

// State — состояние сессии одного запроса.
type State struct {
	SID       string
	User      *models.SessionUser
	Token     string
	ExpiresAt time.Time

	expireOnce sync.Once
	expired    atomic.Bool
}

// Authenticated is false for anonymous requests and after Expire.
func (s *State) Authenticated() bool {
	return s != nil && s.User != nil && !s.expired.Load()
}

// Expired reports whether a backend 401 ended this session during the request.
func (s *State) Expired() bool {
	return s != nil && s.expired.Load()
}

type Manager struct {
	store Store
	auth  Authenticator
	ttl   time.Duration
	now   func() time.Time
}

func NewManager(store Store, auth Authenticator, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, auth: auth, ttl: ttl, now: time.Now}
}

// Restore loads the session for sid. Partial or malformed data is cleared
// and yields an anonymous state; store errors are logged, never surfaced.
func (m *Manager) Restore(ctx context.Context, sid string) *State {
	if sid == "" {
		return &State{}
	}
	rec, ok, err := m.store.Load(ctx, sid)
	if err != nil {
		log.Printf("session: restore %s: %v", sid, err)
		return &State{}
	}
	if !ok {
		m.clear(ctx, sid)
		return &State{}
	}
	if rec.Token == "" {
		log.Printf("session: empty token for %s, clearing", sid)
		m.clear(ctx, sid)
		return &State{}
	}
	var user *models.SessionUser
	if err := json.Unmarshal([]byte(rec.User), &user); err != nil || user == nil {
		log.Printf("session: corrupted user entry for %s, clearing: %v", sid, err)
		m.clear(ctx, sid)
		return &State{}
	}
	return &State{SID: sid, User: user, Token: rec.Token}
}

// ErrIncompleteLogin is returned when the backend accepts the credentials
// but sends no user or no access token.
var ErrIncompleteLogin = errors.New("Login failed: no access token received")

// Login authenticates against the backend and persists a fresh session.
// On failure nothing is stored.
func (m *Manager) Login(ctx context.Context, username, password string) (*State, error) {
	user, token, err := m.auth.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	if user == nil || token == "" {
		return nil, ErrIncompleteLogin
	}
	data, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("encode session user: %w", err)
	}

	sid := uuid.NewString()
	ttl := m.tokenTTL(token)
	if err := m.store.Save(ctx, sid, Record{User: string(data), Token: token}, ttl); err != nil {
		return nil, err
	}
	log.Printf("session: %s signed in", user.Username)
	return &State{SID: sid, User: user, Token: token, ExpiresAt: m.now().Add(ttl)}, nil
}

func (m *Manager) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return m.store.Clear(ctx, sid)
}

// Token implements apiclient.TokenSource for the request's session.
func (m *Manager) Token(ctx context.Context) string {
	st := lookup(ctx)
	if !st.Authenticated() {
		return ""
	}
	return st.Token
}

// Expire ends the request's session after a backend 401. Repeated calls,
// including concurrent ones within the same request, clear it once.
func (m *Manager) Expire(ctx context.Context) {
	st := lookup(ctx)
	if st == nil || st.SID == "" {
		return
	}
	st.expireOnce.Do(func() {
		st.expired.Store(true)
		log.Printf("session: %s expired by backend", st.SID)
		m.clear(context.WithoutCancel(ctx), st.SID)
	})
}

func (m *Manager) clear(ctx context.Context, sid string) {
	if err := m.store.Clear(ctx, sid); err != nil {
		log.Printf("session: clear %s: %v", sid, err)
	}
}

// tokenTTL follows the exp claim of the backend token. The token is only
// read here; its signature is the backend's concern.
func (m *Manager) tokenTTL(token string) time.Duration {
	if token == "" {
		return m.ttl
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return m.ttl
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return m.ttl
	}
	if ttl := exp.Sub(m.now()); ttl > 0 {
		return ttl
	}
	return m.ttl
}
