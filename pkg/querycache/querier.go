package querycache

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce coalesces rapid refetch triggers, e.g. from scroll
// driven pagination.
const DefaultDebounce = 150 * time.Millisecond

// FetchFunc loads the value for a key, usually from the API.
type FetchFunc func(ctx context.Context) (any, error)

type fetchHandle struct {
	cancel context.CancelFunc
}

// Querier binds cache keys to fetch functions. It guarantees that at
// most one fetch per key is in flight and that in-flight fetches can be
// cancelled before an optimistic mutation, so a stale response can never
// overwrite the optimistic value.
type Querier struct {
	store    *Store
	debounce time.Duration

	mu       sync.Mutex
	inflight map[Key]*fetchHandle
	timers   map[Key]*time.Timer
}

// NewQuerier returns a Querier on the store. A debounce of 0 uses
// DefaultDebounce.
func NewQuerier(store *Store, debounce time.Duration) *Querier {
	if debounce == 0 {
		debounce = DefaultDebounce
	}

	return &Querier{
		store:    store,
		debounce: debounce,
		inflight: make(map[Key]*fetchHandle),
		timers:   make(map[Key]*time.Timer),
	}
}

// Fetch loads the value for a key and stores it. A fetch already in
// flight for the same key is cancelled first. When the fetch itself is
// cancelled, the store is left untouched.
func (q *Querier) Fetch(ctx context.Context, key Key, fetch FetchFunc) (any, error) {
	ctx, cancel := context.WithCancel(ctx)
	handle := &fetchHandle{cancel: cancel}

	q.mu.Lock()
	if inflight, ok := q.inflight[key]; ok {
		inflight.cancel()
	}
	q.inflight[key] = handle
	q.mu.Unlock()

	defer func() {
		q.mu.Lock()
		// Only clear our own registration, a later fetch may have
		// replaced it already
		if q.inflight[key] == handle {
			delete(q.inflight, key)
		}
		q.mu.Unlock()
		cancel()
	}()

	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	// A cancelled fetch must not overwrite a newer or optimistic value
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	q.store.Set(key, value)
	return value, nil
}

// Cancel aborts the in-flight fetch for a key, if any. Callers invoke
// this before optimistically mutating the key.
func (q *Querier) Cancel(key Key) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if inflight, ok := q.inflight[key]; ok {
		inflight.cancel()
		delete(q.inflight, key)
	}
}

// Refetch triggers a debounced background fetch for a key. Rapid
// triggers for the same key are coalesced, only the last one runs.
func (q *Querier) Refetch(key Key, fetch FetchFunc) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if timer, ok := q.timers[key]; ok {
		timer.Stop()
	}

	q.timers[key] = time.AfterFunc(q.debounce, func() {
		q.mu.Lock()
		delete(q.timers, key)
		q.mu.Unlock()

		_, _ = q.Fetch(context.Background(), key, fetch)
	})
}
