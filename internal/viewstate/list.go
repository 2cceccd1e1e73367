// Package viewstate keeps list screens bound to live queries. A List holds
// the current selection key (a search term, a status filter), runs the live
// query chosen for that key and fans the latest snapshot out to observers.
package viewstate

import (
	"context"
	"sync"
	"time"

	"github.com/fekuna/stroymaterials/internal/livequery"
	"github.com/fekuna/stroymaterials/internal/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const DefaultGracePeriod = 5 * time.Second

// Snapshot is an immutable view of the list. Items must not be modified.
type Snapshot[K comparable, T any] struct {
	Key    K
	Items  []T
	Err    error
	Loaded bool
}

type Option func(*options)

type options struct {
	grace  time.Duration
	logger logger.ZapLogger
}

// WithGracePeriod sets how long the subscription outlives its last observer.
func WithGracePeriod(d time.Duration) Option {
	return func(o *options) { o.grace = d }
}

func WithLogger(l logger.ZapLogger) Option {
	return func(o *options) { o.logger = l }
}

type List[K comparable, T any] struct {
	selectQuery func(K) livequery.Query[[]T]
	grace       time.Duration
	logger      logger.ZapLogger

	mu        sync.Mutex
	key       K
	snapshot  Snapshot[K, T]
	observers map[string]chan Snapshot[K, T]
	cancel    context.CancelFunc // nil while stopped
	gen       uint64
	idle      *time.Timer
	closed    bool
	done      chan struct{} // closed by Close
}

func New[K comparable, T any](initial K, selectQuery func(K) livequery.Query[[]T], opts ...Option) *List[K, T] {
	o := options{grace: DefaultGracePeriod, logger: logger.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &List[K, T]{
		selectQuery: selectQuery,
		grace:       o.grace,
		logger:      o.logger,
		key:         initial,
		snapshot:    Snapshot[K, T]{Key: initial},
		observers:   map[string]chan Snapshot[K, T]{},
		done:        make(chan struct{}),
	}
}

// Observe attaches an observer until ctx is done. The first observer starts
// the underlying subscription. The channel holds only the newest snapshot;
// it is closed when ctx ends or the list is closed.
func (l *List[K, T]) Observe(ctx context.Context) <-chan Snapshot[K, T] {
	ch := make(chan Snapshot[K, T], 1)
	id := uuid.NewString()

	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		close(ch)
		return ch
	}
	l.observers[id] = ch
	if l.idle != nil {
		l.idle.Stop()
		l.idle = nil
	}
	if l.cancel == nil {
		l.startLocked()
	}
	// A snapshot cached for an earlier key is stale once the key moved on
	// while stopped.
	if l.snapshot.Loaded && l.snapshot.Key == l.key {
		ch <- l.snapshot
	}
	l.mu.Unlock()

	l.logger.Debug("observer attached", zap.String("observer_id", id))

	go func() {
		select {
		case <-ctx.Done():
			l.detach(id)
		case <-l.done:
		}
	}()
	return ch
}

// Set changes the selection key. With observers attached the previous
// subscription is cancelled and results for older keys are dropped.
func (l *List[K, T]) Set(key K) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed || key == l.key {
		return
	}
	l.key = key
	if l.cancel != nil {
		l.startLocked()
	}
}

func (l *List[K, T]) Key() K {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.key
}

// Current returns the last published snapshot.
func (l *List[K, T]) Current() Snapshot[K, T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshot
}

// Active reports whether a subscription is running.
func (l *List[K, T]) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cancel != nil
}

// Close stops the subscription and closes every observer channel.
func (l *List[K, T]) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	l.closed = true
	close(l.done)
	l.stopLocked()
	for id, ch := range l.observers {
		close(ch)
		delete(l.observers, id)
	}
}

func (l *List[K, T]) startLocked() {
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen, key := l.gen, l.key

	ctx, cancel := context.WithCancel(context.Background())
	l.cancel = cancel
	results := l.selectQuery(key).Subscribe(ctx)

	go func() {
		for r := range results {
			l.publish(gen, key, r)
		}
	}()
}

func (l *List[K, T]) stopLocked() {
	if l.idle != nil {
		l.idle.Stop()
		l.idle = nil
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
}

func (l *List[K, T]) publish(gen uint64, key K, r livequery.Result[[]T]) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.gen {
		return
	}
	if r.Err != nil {
		l.logger.Error("live query failed", zap.Any("key", key), zap.Error(r.Err))
		l.snapshot = Snapshot[K, T]{Key: key, Items: l.snapshot.Items, Err: r.Err, Loaded: true}
	} else {
		l.snapshot = Snapshot[K, T]{Key: key, Items: r.Value, Loaded: true}
	}

	for _, ch := range l.observers {
		select {
		case <-ch:
		default:
		}
		ch <- l.snapshot
	}
}

func (l *List[K, T]) detach(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.observers[id]
	if !ok {
		return
	}
	delete(l.observers, id)
	close(ch)
	l.logger.Debug("observer detached", zap.String("observer_id", id))

	if len(l.observers) > 0 || l.cancel == nil {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(l.grace, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if l.idle != timer || len(l.observers) > 0 {
			return
		}
		l.idle = nil
		l.stopLocked()
		l.logger.Debug("live subscription stopped after grace period")
	})
	l.idle = timer
}
