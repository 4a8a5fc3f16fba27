package service

import (
	"sync"

	"github.com/hidayetmm/places-client/internal/core/domain"
)

// FeedGlobal is the name of the shared global feed.
const FeedGlobal = "places"

// UserFeed returns the collection name for a creator-scoped feed.
func UserFeed(username string) string {
	return "places:user:" + username
}

// CollectionStore holds the currently displayed place collections by name.
// The only write operation is a full replace; consistency comes from always
// re-fetching the authoritative set instead of reconciling diffs.
type CollectionStore struct {
	mu          sync.RWMutex
	collections map[string][]domain.Place
}

func NewCollectionStore() *CollectionStore {
	return &CollectionStore{collections: make(map[string][]domain.Place)}
}

// Get returns a copy of the named collection, newest-first. An unknown name
// yields nil.
func (s *CollectionStore) Get(name string) []domain.Place {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items, ok := s.collections[name]
	if !ok {
		return nil
	}
	out := make([]domain.Place, len(items))
	copy(out, items)
	return out
}

// Set replaces the named collection. The caller supplies the order; Set
// preserves it. The input slice is copied so later caller mutation cannot
// leak into the store.
func (s *CollectionStore) Set(name string, items []domain.Place) {
	stored := make([]domain.Place, len(items))
	copy(stored, items)

	s.mu.Lock()
	s.collections[name] = stored
	s.mu.Unlock()
}
