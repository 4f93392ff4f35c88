// Package session keeps the signed-in admin per browser: the logged-in user
// and the backend access token, stored and cleared together.
package session

import (
	"context"
	"time"
)

// Record is the pair of entries persisted per session id.
type Record struct {
	User  string
	Token string
}

// Store persists records. Save and Clear always touch both entries;
// Load reports ok only when both are present.
type Store interface {
	Load(ctx context.Context, sid string) (rec Record, ok bool, err error)
	Save(ctx context.Context, sid string, rec Record, ttl time.Duration) error
	Clear(ctx context.Context, sid string) error
}
