package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/addalive/admin_console/internal/models"
)

type fakeAuth struct {
	user  *models.SessionUser
	token string
	err   error
}

func (f fakeAuth) Login(context.Context, string, string) (*models.SessionUser, string, error) {
	return f.user, f.token, f.err
}

// countingStore counts Clear calls on top of a MemoryStore.
type countingStore struct {
	*MemoryStore
	mu     sync.Mutex
	clears int
}

func (c *countingStore) Clear(ctx context.Context, sid string) error {
	c.mu.Lock()
	c.clears++
	c.mu.Unlock()
	return c.MemoryStore.Clear(ctx, sid)
}

func (s *MemoryStore) putPartial(sid, user string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sid] = memoryEntry{user: &user}
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "1", "exp": exp.Unix()})
	s, err := tok.SignedString([]byte("backend-secret"))
	require.NoError(t, err)
	return s
}

func TestLogin_PersistsBothEntries(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, fakeAuth{user: &models.SessionUser{Username: "root"}, token: "tok"}, time.Hour)

	st, err := m.Login(context.Background(), "root", "pw")
	require.NoError(t, err)
	assert.NotEmpty(t, st.SID)
	assert.True(t, st.Authenticated())

	rec, ok, err := store.Load(context.Background(), st.SID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok", rec.Token)
	assert.JSONEq(t, `{"username":"root"}`, rec.User)
}

func TestLogin_FailureStoresNothing(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, fakeAuth{err: errors.New("Invalid credentials")}, time.Hour)

	st, err := m.Login(context.Background(), "root", "bad")
	assert.EqualError(t, err, "Invalid credentials")
	assert.Nil(t, st)
	assert.Empty(t, store.entries)
}

func TestLogin_WithoutTokenStoresNothing(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(store, fakeAuth{user: &models.SessionUser{Username: "root"}, token: ""}, time.Hour)

	st, err := m.Login(context.Background(), "root", "pw")
	assert.ErrorIs(t, err, ErrIncompleteLogin)
	assert.Nil(t, st)
	assert.Empty(t, store.entries)
}

func TestRestore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := NewManager(store, nil, time.Hour)

	require.NoError(t, store.Save(ctx, "good", Record{User: `{"username":"amy"}`, Token: "t"}, time.Hour))
	require.NoError(t, store.Save(ctx, "bad", Record{User: `{not json`, Token: "t"}, time.Hour))
	store.putPartial("half", `{"username":"x"}`)
	require.NoError(t, store.Save(ctx, "nulluser", Record{User: "null", Token: "t"}, time.Hour))
	require.NoError(t, store.Save(ctx, "notoken", Record{User: `{"username":"amy"}`, Token: ""}, time.Hour))

	st := m.Restore(ctx, "good")
	assert.True(t, st.Authenticated())
	assert.Equal(t, "amy", st.User.Username)
	assert.Equal(t, "t", st.Token)

	for _, sid := range []string{"", "missing", "bad", "half", "nulluser", "notoken"} {
		st := m.Restore(ctx, sid)
		assert.False(t, st.Authenticated(), sid)
		assert.Empty(t, st.Token, sid)
	}
	for _, sid := range []string{"bad", "half", "nulluser", "notoken"} {
		assert.NotContains(t, store.entries, sid)
	}
}

func TestLogout(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	m := NewManager(store, fakeAuth{user: &models.SessionUser{Username: "a"}, token: "t"}, time.Hour)

	st, err := m.Login(ctx, "a", "b")
	require.NoError(t, err)
	require.NoError(t, m.Logout(ctx, st.SID))
	assert.False(t, m.Restore(ctx, st.SID).Authenticated())
	assert.NoError(t, m.Logout(ctx, ""))
}

func TestToken_FollowsContext(t *testing.T) {
	m := NewManager(NewMemoryStore(), nil, time.Hour)

	assert.Empty(t, m.Token(context.Background()))

	st := &State{SID: "s", User: &models.SessionUser{Username: "a"}, Token: "tok"}
	ctx := WithState(context.Background(), st)
	assert.Equal(t, "tok", m.Token(ctx))

	m.Expire(ctx)
	assert.Empty(t, m.Token(ctx))
}

func TestExpire_ClearsOnceUnderConcurrency(t *testing.T) {
	store := &countingStore{MemoryStore: NewMemoryStore()}
	m := NewManager(store, nil, time.Hour)
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "s", Record{User: "{}", Token: "t"}, time.Hour))

	st := m.Restore(ctx, "s")
	require.True(t, st.Authenticated())
	reqCtx := WithState(ctx, st)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Expire(reqCtx)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.clears)
	assert.True(t, st.Expired())
	assert.False(t, st.Authenticated())
	_, ok, _ := store.Load(ctx, "s")
	assert.False(t, ok)
}

func TestExpire_AnonymousIsNoop(t *testing.T) {
	store := &countingStore{MemoryStore: NewMemoryStore()}
	m := NewManager(store, nil, time.Hour)

	m.Expire(context.Background())
	m.Expire(WithState(context.Background(), &State{}))
	assert.Zero(t, store.clears)
}

func TestTokenTTL(t *testing.T) {
	now := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(NewMemoryStore(), nil, 0)
	m.now = func() time.Time { return now }

	assert.Equal(t, DefaultTTL, m.tokenTTL(""))
	assert.Equal(t, DefaultTTL, m.tokenTTL("not-a-jwt"))
	assert.Equal(t, 2*time.Hour, m.tokenTTL(signedToken(t, now.Add(2*time.Hour))))
	assert.Equal(t, DefaultTTL, m.tokenTTL(signedToken(t, now.Add(-time.Hour))))
}

func TestFromContext_PanicsWithoutMiddleware(t *testing.T) {
	assert.Panics(t, func() { FromContext(context.Background()) })

	st := &State{}
	assert.Same(t, st, FromContext(WithState(context.Background(), st)))
}
