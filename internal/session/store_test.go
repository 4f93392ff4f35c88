package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisStore(rdb), mr
}

func TestStores_RoundTrip(t *testing.T) {
	redisStore, _ := newRedisStore(t)
	stores := map[string]Store{
		"redis":  redisStore,
		"memory": NewMemoryStore(),
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, ok, err := s.Load(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, ok)

			rec := Record{User: `{"username":"root"}`, Token: "tok"}
			require.NoError(t, s.Save(ctx, "s1", rec, time.Hour))

			got, ok, err := s.Load(ctx, "s1")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, rec, got)

			require.NoError(t, s.Clear(ctx, "s1"))
			_, ok, err = s.Load(ctx, "s1")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStores_EmptyTokenIsStillPresent(t *testing.T) {
	redisStore, _ := newRedisStore(t)
	for name, s := range map[string]Store{"redis": redisStore, "memory": NewMemoryStore()} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Save(ctx, "s1", Record{User: "{}"}, time.Hour))
			_, ok, err := s.Load(ctx, "s1")
			require.NoError(t, err)
			assert.True(t, ok)
		})
	}
}

func TestRedisStore_KeysAndTTL(t *testing.T) {
	s, mr := newRedisStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "abc", Record{User: "{}", Token: "t"}, 90*time.Minute))

	assert.True(t, mr.Exists("addalive:session:abc:user"))
	assert.True(t, mr.Exists("addalive:session:abc:auth_token"))
	assert.Equal(t, 90*time.Minute, mr.TTL("addalive:session:abc:user"))
	assert.Equal(t, 90*time.Minute, mr.TTL("addalive:session:abc:auth_token"))

	mr.FastForward(91 * time.Minute)
	_, ok, err := s.Load(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisStore_PartialIsNotOK(t *testing.T) {
	s, mr := newRedisStore(t)
	require.NoError(t, mr.Set("addalive:session:p:user", `{"username":"x"}`))

	rec, ok, err := s.Load(context.Background(), "p")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, `{"username":"x"}`, rec.User)
}

func TestRedisStore_LoadError(t *testing.T) {
	s, mr := newRedisStore(t)
	mr.Close()

	_, _, err := s.Load(context.Background(), "x")
	assert.Error(t, err)
}

func TestMemoryStore_Expiry(t *testing.T) {
	s := NewMemoryStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "s", Record{User: "{}", Token: "t"}, time.Minute))
	now = now.Add(59 * time.Second)
	_, ok, _ := s.Load(ctx, "s")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, _ = s.Load(ctx, "s")
	assert.False(t, ok)
}
