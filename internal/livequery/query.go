package livequery

import (
	"context"
)

type Fetch[T any] func(ctx context.Context) (T, error)

// Result is one emission of a live query.
type Result[T any] struct {
	Value T
	Err   error
}

// Query binds a fetch function to the tables it reads. Subscribers
// receive a fresh result every time one of those tables changes.
type Query[T any] struct {
	hub    *Hub
	tables []string
	fetch  Fetch[T]
}

func New[T any](hub *Hub, fetch Fetch[T], tables ...string) Query[T] {
	return Query[T]{hub: hub, tables: tables, fetch: fetch}
}

// Get runs the query once.
func (q Query[T]) Get(ctx context.Context) (T, error) {
	return q.fetch(ctx)
}

func (q Query[T]) Tables() []string {
	return q.tables
}

// Subscribe emits the current result immediately and again after every
// change. The channel is closed once ctx is done.
func (q Query[T]) Subscribe(ctx context.Context) <-chan Result[T] {
	out := make(chan Result[T])
	signal, stop := q.hub.watch(q.tables)

	go func() {
		defer close(out)
		defer stop()

		for {
			value, err := q.fetch(ctx)
			if ctx.Err() != nil {
				return
			}
			select {
			case out <- Result[T]{Value: value, Err: err}:
			case <-ctx.Done():
				return
			}

			select {
			case <-signal:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

// Map derives a query whose value is computed from q's value.
func Map[T, U any](q Query[T], fn func(T) U) Query[U] {
	return Query[U]{
		hub:    q.hub,
		tables: q.tables,
		fetch: func(ctx context.Context) (U, error) {
			v, err := q.fetch(ctx)
			if err != nil {
				var zero U
				return zero, err
			}
			return fn(v), nil
		},
	}
}
