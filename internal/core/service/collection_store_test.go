package service

import (
	"testing"

	"github.com/hidayetmm/places-client/internal/core/domain"
)

func place(id string) domain.Place {
	return domain.Place{ID: id, Title: "place " + id}
}

func TestCollectionStore_UnknownNameIsNil(t *testing.T) {
	store := NewCollectionStore()
	if got := store.Get(FeedGlobal); got != nil {
		t.Fatalf("expected nil for unset collection, got %v", got)
	}
}

func TestCollectionStore_SetPreservesCallerOrder(t *testing.T) {
	store := NewCollectionStore()
	store.Set(FeedGlobal, []domain.Place{place("c"), place("b"), place("a")})

	got := store.Get(FeedGlobal)
	if len(got) != 3 || got[0].ID != "c" || got[1].ID != "b" || got[2].ID != "a" {
		t.Fatalf("order not preserved: %v", got)
	}
}

func TestCollectionStore_SetIsFullReplace(t *testing.T) {
	store := NewCollectionStore()
	store.Set(FeedGlobal, []domain.Place{place("a"), place("b")})
	store.Set(FeedGlobal, []domain.Place{place("z")})

	got := store.Get(FeedGlobal)
	if len(got) != 1 || got[0].ID != "z" {
		t.Fatalf("expected full replace, got %v", got)
	}
}

func TestCollectionStore_CollectionsAreIndependent(t *testing.T) {
	store := NewCollectionStore()
	store.Set(FeedGlobal, []domain.Place{place("a")})
	store.Set(UserFeed("alice"), []domain.Place{place("b")})

	if got := store.Get(FeedGlobal); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("global feed clobbered: %v", got)
	}
	if got := store.Get(UserFeed("alice")); len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("user feed clobbered: %v", got)
	}
}

func TestCollectionStore_CopiesInAndOut(t *testing.T) {
	store := NewCollectionStore()
	in := []domain.Place{place("a")}
	store.Set(FeedGlobal, in)

	in[0].ID = "mutated"
	if got := store.Get(FeedGlobal); got[0].ID != "a" {
		t.Fatalf("caller mutation leaked into store: %v", got)
	}

	out := store.Get(FeedGlobal)
	out[0].ID = "mutated"
	if got := store.Get(FeedGlobal); got[0].ID != "a" {
		t.Fatalf("reader mutation leaked into store: %v", got)
	}
}
