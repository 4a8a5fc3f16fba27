package service

import "sync"

// RefreshSignal tells feed consumers that their collection is stale. It is a
// monotonically increasing version counter rather than an edge-triggered
// flag, so a fetch completion can be matched against the version that
// triggered it and out-of-order completions discarded.
//
// Bumps while nobody is subscribed are lost. That is acceptable: every
// fetcher performs an unconditional fetch when it starts.
type RefreshSignal struct {
	mu      sync.Mutex
	version uint64
	subs    map[int]chan uint64
	nextID  int
}

func NewRefreshSignal() *RefreshSignal {
	return &RefreshSignal{subs: make(map[int]chan uint64)}
}

// Version returns the current version.
func (r *RefreshSignal) Version() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.version
}

// Bump increments the version and wakes every subscriber. It is the sole
// mutator; any action that makes the feed stale calls it exactly once.
// Returns the new version.
func (r *RefreshSignal) Bump() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.version++
	for _, ch := range r.subs {
		// Coalesce: drop an undelivered older version so a slow
		// subscriber always sees only the latest.
		select {
		case ch <- r.version:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- r.version:
			default:
			}
		}
	}
	return r.version
}

// Subscribe registers a consumer. The channel carries the version of each
// bump, coalesced to the latest when the consumer lags. The returned cancel
// function must be called when the consumer stops.
func (r *RefreshSignal) Subscribe() (<-chan uint64, func()) {
	ch := make(chan uint64, 1)

	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = ch
	r.mu.Unlock()

	cancel := func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
	return ch, cancel
}
