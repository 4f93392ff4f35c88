package session

import "context"

type contextKey struct{}

func WithState(ctx context.Context, st *State) context.Context {
	return context.WithValue(ctx, contextKey{}, st)
}

// FromContext returns the request's session state. It panics when the
// session middleware is not installed on the route.
func FromContext(ctx context.Context) *State {
	st := lookup(ctx)
	if st == nil {
		panic("session: FromContext called outside the session middleware")
	}
	return st
}

func lookup(ctx context.Context) *State {
	st, _ := ctx.Value(contextKey{}).(*State)
	return st
}
