// Package resource implements the remote list used by every screen:
// fetch on render and filter in memory. Mutations redirect back to the
// list, so the next render fetches again.
package resource

import (
	"context"
	"strings"
)

// Status of a Snapshot. A list is loading until Load returns; the zero
// value means it was never loaded.
type Status string

const (
	StatusLoaded  Status = "loaded"
	StatusErrored Status = "errored"
)

// List describes how to fetch items and which fields the search matches.
type List[T any] struct {
	Fetch func(ctx context.Context) ([]T, error)
	Match func(item T) []string
}

// Snapshot is the result of one Load.
type Snapshot[T any] struct {
	Status Status
	Items  []T
	Err    error
}

func (l List[T]) Load(ctx context.Context) Snapshot[T] {
	items, err := l.Fetch(ctx)
	if err != nil {
		return Snapshot[T]{Status: StatusErrored, Items: []T{}, Err: err}
	}
	if items == nil {
		items = []T{}
	}
	return Snapshot[T]{Status: StatusLoaded, Items: items}
}

// Filter keeps items where any matched field contains q, ignoring case.
// An empty query keeps everything. The snapshot is not modified.
func (l List[T]) Filter(s Snapshot[T], q string) []T {
	q = strings.ToLower(strings.TrimSpace(q))
	if q == "" || l.Match == nil {
		return s.Items
	}
	out := make([]T, 0, len(s.Items))
	for _, item := range s.Items {
		for _, field := range l.Match(item) {
			if strings.Contains(strings.ToLower(field), q) {
				out = append(out, item)
				break
			}
		}
	}
	return out
}

func (s Snapshot[T]) Failed() bool { return s.Status == StatusErrored }
