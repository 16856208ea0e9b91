// Package query holds the result of one parameterized fetch and re-runs it
// whenever its key changes. Results of superseded fetches are discarded, so
// the State always reflects the latest key.
package query

import (
	"context"
	"sync"
)

type Status int

const (
	Idle Status = iota
	Loading
	Resolved
	Errored
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Resolved:
		return "resolved"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// State is a snapshot of a Query.
type State[T any] struct {
	Status Status
	Data   T
	Err    error
}

func (s State[T]) Loading() bool { return s.Status == Loading }

// Fetcher loads the value for key. It must honor ctx cancellation.
type Fetcher[K comparable, T any] func(ctx context.Context, key K) (T, error)

// Option configures a Query.
type Option[K comparable, T any] func(*Query[K, T])

// WithObserver registers fn to be called after every state transition. fn
// runs outside the Query's lock.
func WithObserver[K comparable, T any](fn func(K, State[T])) Option[K, T] {
	return func(q *Query[K, T]) { q.observer = fn }
}

type Query[K comparable, T any] struct {
	fetch    Fetcher[K, T]
	observer func(K, State[T])

	mu     sync.Mutex
	key    K
	active bool
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
	state  State[T]
}

func New[K comparable, T any](fetch Fetcher[K, T], opts ...Option[K, T]) *Query[K, T] {
	q := &Query[K, T]{fetch: fetch}
	for _, o := range opts {
		o(q)
	}
	return q
}

// Set makes key the active key and starts fetching it. Setting the key that
// is already active is a no-op unless the previous fetch failed.
func (q *Query[K, T]) Set(ctx context.Context, key K) {
	q.mu.Lock()
	if q.active && q.key == key && q.state.Status != Errored {
		q.mu.Unlock()
		return
	}
	q.start(ctx, key)
}

// Refetch re-runs the active key. It does nothing when no key is set.
func (q *Query[K, T]) Refetch(ctx context.Context) {
	q.mu.Lock()
	if !q.active {
		q.mu.Unlock()
		return
	}
	q.start(ctx, q.key)
}

// start must be called with q.mu held; it releases it.
func (q *Query[K, T]) start(ctx context.Context, key K) {
	q.invalidate()

	fetchCtx, cancel := context.WithCancel(ctx)
	q.key = key
	q.active = true
	q.cancel = cancel
	q.done = make(chan struct{})
	q.state = State[T]{Status: Loading}
	gen := q.gen
	done := q.done
	snap := q.state
	q.mu.Unlock()

	q.notify(key, snap)

	go func() {
		defer close(done)
		defer cancel()

		data, err := q.fetch(fetchCtx, key)

		q.mu.Lock()
		if q.gen != gen {
			q.mu.Unlock()
			return
		}
		if err != nil {
			q.state = State[T]{Status: Errored, Err: err}
		} else {
			q.state = State[T]{Status: Resolved, Data: data}
		}
		snap := q.state
		q.mu.Unlock()

		q.notify(key, snap)
	}()
}

// invalidate cancels in-flight work and bumps the generation so that its
// completion is ignored. Caller holds q.mu.
func (q *Query[K, T]) invalidate() {
	q.gen++
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
}

// Clear drops the active key and returns to Idle.
func (q *Query[K, T]) Clear() {
	q.mu.Lock()
	q.invalidate()
	var zero K
	wasActive := q.active
	q.key = zero
	q.active = false
	q.done = nil
	q.state = State[T]{}
	q.mu.Unlock()

	if wasActive {
		q.notify(zero, State[T]{})
	}
}

// Key returns the active key and whether one is set.
func (q *Query[K, T]) Key() (K, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.key, q.active
}

func (q *Query[K, T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Wait blocks until the latest fetch has finished and its observer call has
// returned, or ctx is done. A fetch started while waiting is waited for too.
func (q *Query[K, T]) Wait(ctx context.Context) (State[T], error) {
	for {
		q.mu.Lock()
		done := q.done
		st := q.state
		q.mu.Unlock()

		if done == nil {
			return st, nil
		}
		select {
		case <-done:
		case <-ctx.Done():
			return st, ctx.Err()
		}

		q.mu.Lock()
		same := q.done == done
		st = q.state
		q.mu.Unlock()
		if same {
			return st, nil
		}
	}
}

func (q *Query[K, T]) notify(key K, st State[T]) {
	if q.observer != nil {
		q.observer(key, st)
	}
}
