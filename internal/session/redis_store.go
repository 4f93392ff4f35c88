package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "addalive:session:"

type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func userKey(sid string) string  { return keyPrefix + sid + ":user" }
func tokenKey(sid string) string { return keyPrefix + sid + ":auth_token" }

func (s *RedisStore) Load(ctx context.Context, sid string) (Record, bool, error) {
	vals, err := s.rdb.MGet(ctx, userKey(sid), tokenKey(sid)).Result()
	if err != nil {
		return Record{}, false, fmt.Errorf("load session %s: %w", sid, err)
	}
	user, userOK := vals[0].(string)
	token, tokenOK := vals[1].(string)
	if !userOK || !tokenOK {
		// partial or missing
		return Record{User: user, Token: token}, false, nil
	}
	return Record{User: user, Token: token}, true, nil
}

func (s *RedisStore) Save(ctx context.Context, sid string, rec Record, ttl time.Duration) error {
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, userKey(sid), rec.User, ttl)
		pipe.Set(ctx, tokenKey(sid), rec.Token, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session %s: %w", sid, err)
	}
	return nil
}

func (s *RedisStore) Clear(ctx context.Context, sid string) error {
	if err := s.rdb.Del(ctx, userKey(sid), tokenKey(sid)).Err(); err != nil {
		return fmt.Errorf("clear session %s: %w", sid, err)
	}
	return nil
}
