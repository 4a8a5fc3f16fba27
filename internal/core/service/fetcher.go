package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hidayetmm/places-client/internal/core/domain"
	"github.com/hidayetmm/places-client/internal/core/ports"
	"github.com/hidayetmm/places-client/internal/metrics"
)

// TransportErrorMessage is surfaced when a remote call fails without a
// server-reported message.
const TransportErrorMessage = "Network error, please try again"

// noPlacesMessage matches the text the places UI has always shown for an
// empty feed response.
const noPlacesMessage = "Couldn't find any place"

// Fetcher keeps one named collection synchronized with the remote API. It
// fetches once when started and again on every refresh-signal bump, then
// replaces the collection through the CollectionStore.
//
// Triggers are not serialized behind in-flight fetches: two rapid bumps run
// two concurrent fetches, and the version guard in apply makes the
// last-triggered fetch win regardless of completion order. A completion
// arriving after Close is discarded instead of writing into a torn-down
// consumer.
type Fetcher struct {
	feed        string
	creator     string
	gateway     ports.PlacesGateway
	collections *CollectionStore
	signal      *RefreshSignal
	notifier    ports.Notifier
	log         zerolog.Logger

	mu          sync.Mutex
	applied     bool
	lastApplied uint64
	closed      bool
}

// NewFetcher builds a Fetcher for the named feed. A non-empty creator
// restricts the collection to places published by that user.
func NewFetcher(
	feed string,
	creator string,
	gateway ports.PlacesGateway,
	collections *CollectionStore,
	signal *RefreshSignal,
	notifier ports.Notifier,
	log zerolog.Logger,
) *Fetcher {
	return &Fetcher{
		feed:        feed,
		creator:     creator,
		gateway:     gateway,
		collections: collections,
		signal:      signal,
		notifier:    notifier,
		log:         log,
	}
}

// Run subscribes to the refresh signal and blocks until ctx is cancelled.
// The initial fetch is unconditional, so bumps that happened before Run are
// deliberately irrelevant.
func (f *Fetcher) Run(ctx context.Context) {
	ch, cancel := f.signal.Subscribe()
	defer cancel()
	defer f.Close()

	go f.fetch(ctx, f.signal.Version())

	for {
		select {
		case <-ctx.Done():
			return
		case v := <-ch:
			go f.fetch(ctx, v)
		}
	}
}

// FetchOnce performs a single fetch attributed to the current signal
// version. Used by one-shot callers that do not run the subscription loop.
func (f *Fetcher) FetchOnce(ctx context.Context) {
	f.fetch(ctx, f.signal.Version())
}

// Close marks the fetcher as torn down; later completions are discarded.
// Safe to call more than once.
func (f *Fetcher) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

func (f *Fetcher) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *Fetcher) fetch(ctx context.Context, version uint64) {
	start := time.Now()

	places, err := f.gateway.FetchPlaces(ctx)
	if f.isClosed() {
		// Every completion path is discarded after Close, not just
		// successful applies: no late notifications either.
		metrics.StaleCompletionsTotal.WithLabelValues("closed").Inc()
		f.log.Debug().Str("feed", f.feed).Msg("fetch completed after shutdown, discarded")
		return
	}
	if err != nil {
		f.reportFailure(err)
		return
	}
	metrics.FetchDuration.Observe(time.Since(start).Seconds())

	if len(places) == 0 {
		// The current collection stays in place rather than being
		// cleared, so a transient empty response never flashes an
		// empty feed. The user is told instead.
		metrics.FetchesTotal.WithLabelValues(f.feed, "empty").Inc()
		f.notify(noPlacesMessage, ports.SeverityInfo)
		return
	}

	items := newestFirst(places)
	if f.creator != "" {
		items = filterByCreator(items, f.creator)
	}
	f.apply(version, items)
}

func (f *Fetcher) apply(version uint64, items []domain.Place) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		metrics.StaleCompletionsTotal.WithLabelValues("closed").Inc()
		f.log.Debug().Str("feed", f.feed).Msg("fetch completed after shutdown, discarded")
		return
	}
	if f.applied && version <= f.lastApplied {
		metrics.StaleCompletionsTotal.WithLabelValues("outdated").Inc()
		f.log.Debug().Str("feed", f.feed).Uint64("version", version).Msg("stale fetch completion discarded")
		return
	}
	f.applied = true
	f.lastApplied = version

	// Written under the guard lock so a slower, older completion that
	// already passed the check cannot overwrite a newer one.
	f.collections.Set(f.feed, items)
	metrics.FetchesTotal.WithLabelValues(f.feed, "ok").Inc()
	f.log.Info().
		Str("feed", f.feed).
		Int("count", len(items)).
		Uint64("version", version).
		Msg("feed updated")
}

func (f *Fetcher) reportFailure(err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		f.log.Debug().Err(err).Str("feed", f.feed).Msg("fetch aborted")
		return
	}

	var apiErr *ports.APIError
	if errors.As(err, &apiErr) {
		metrics.FetchesTotal.WithLabelValues(f.feed, "api_error").Inc()
		f.notify(apiErr.Message, ports.SeverityError)
		return
	}

	metrics.FetchesTotal.WithLabelValues(f.feed, "transport_error").Inc()
	f.log.Warn().Err(err).Str("feed", f.feed).Msg("feed fetch failed")
	f.notify(TransportErrorMessage, ports.SeverityError)
}

func (f *Fetcher) notify(msg string, sev ports.Severity) {
	f.notifier.Notify(ports.Notification{
		ID:       uuid.NewString(),
		Message:  msg,
		Severity: sev,
	})
}

// newestFirst returns a reversed copy: the server sends ascending insertion
// order, the feed shows newest first.
func newestFirst(places []domain.Place) []domain.Place {
	out := make([]domain.Place, len(places))
	for i, p := range places {
		out[len(places)-1-i] = p
	}
	return out
}

func filterByCreator(places []domain.Place, creator string) []domain.Place {
	out := make([]domain.Place, 0, len(places))
	for _, p := range places {
		if p.Creator.Name == creator {
			out = append(out, p)
		}
	}
	return out
}
