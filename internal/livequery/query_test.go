package livequery

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan Result[T]) Result[T] {
	t.Helper()
	select {
	case r, ok := <-ch:
		require.True(t, ok, "channel closed")
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for emission")
	}
	return Result[T]{}
}

func TestSubscribeEmitsOnChange(t *testing.T) {
	hub := NewHub()
	var counter atomic.Int64
	q := New(hub, func(ctx context.Context) (int64, error) {
		return counter.Load(), nil
	}, "materials")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := q.Subscribe(ctx)

	assert.Equal(t, int64(0), receive(t, ch).Value)

	counter.Store(3)
	hub.Notify("materials")
	assert.Equal(t, int64(3), receive(t, ch).Value)

	counter.Store(4)
	hub.Notify("suppliers")
	select {
	case r := <-ch:
		t.Fatalf("unexpected emission %v for unrelated table", r.Value)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSubscribeClosesOnCancel(t *testing.T) {
	hub := NewHub()
	q := New(hub, func(ctx context.Context) (string, error) { return "x", nil }, "deliveries")

	ctx, cancel := context.WithCancel(context.Background())
	ch := q.Subscribe(ctx)
	receive(t, ch)
	assert.Equal(t, 1, hub.Subscribers("deliveries"))

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return hub.Subscribers("deliveries") == 0 }, time.Second, 5*time.Millisecond)
}

func TestSubscribePropagatesFetchErrors(t *testing.T) {
	hub := NewHub()
	boom := errors.New("disk I/O error")
	q := New(hub, func(ctx context.Context) ([]int, error) { return nil, boom }, "materials")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := receive(t, q.Subscribe(ctx))
	assert.ErrorIs(t, r.Err, boom)
}

func TestNotifyCoalesces(t *testing.T) {
	hub := NewHub()
	signal, stop := hub.watch([]string{"a", "b"})
	defer stop()

	hub.Notify("a", "b")
	hub.Notify("a")

	<-signal
	select {
	case <-signal:
		t.Fatal("second signal should have been coalesced")
	default:
	}
}

func TestMap(t *testing.T) {
	hub := NewHub()
	q := New(hub, func(ctx context.Context) ([]string, error) { return []string{"a", "b"}, nil }, "t")
	counted := Map(q, func(v []string) int { return len(v) })

	n, err := counted.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"t"}, counted.Tables())
}
