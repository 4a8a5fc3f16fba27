package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/hidayetmm/places-client/internal/core/ports"
)

// AppState is the single shared state container for the client: one instance
// is constructed at startup and handed to every consumer by injection. It
// owns the session, the place collections, and the refresh signal, and wires
// the mutation flows around them.
//
// Construction order matters and is fixed here: durable session restore,
// then empty collections, then the refresh signal at version zero, then the
// flows. Logout resets the session only; collections keep their last value
// until the next fetch replaces them.
type AppState struct {
	Sessions    *SessionStore
	Collections *CollectionStore
	Signal      *RefreshSignal
	Auth        *AuthFlow
	Places      *PlaceFlow

	gateway  ports.PlacesGateway
	notifier ports.Notifier
	log      zerolog.Logger
}

func NewAppState(ctx context.Context, gateway ports.PlacesGateway, vault ports.SessionVault, notifier ports.Notifier, log zerolog.Logger) *AppState {
	sessions := NewSessionStore(ctx, vault, log)
	collections := NewCollectionStore()
	signal := NewRefreshSignal()

	return &AppState{
		Sessions:    sessions,
		Collections: collections,
		Signal:      signal,
		Auth:        NewAuthFlow(gateway, sessions, notifier, log),
		Places:      NewPlaceFlow(gateway, sessions, signal, notifier, log),
		gateway:     gateway,
		notifier:    notifier,
		log:         log,
	}
}

// FeedFetcher builds a fetcher for the global feed.
func (a *AppState) FeedFetcher() *Fetcher {
	return NewFetcher(FeedGlobal, "", a.gateway, a.Collections, a.Signal, a.notifier, a.log)
}

// UserFeedFetcher builds a fetcher for the creator-scoped feed of username.
func (a *AppState) UserFeedFetcher(username string) *Fetcher {
	return NewFetcher(UserFeed(username), username, a.gateway, a.Collections, a.Signal, a.notifier, a.log)
}
