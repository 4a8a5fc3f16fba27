package ports

import (
	"context"
	"errors"
)

// ErrNoSession is returned by SessionVault.Get when no session is stored.
var ErrNoSession = errors.New("no stored session")

// SessionVault is the durable storage holding the serialized session under a
// single fixed key, surviving process restarts. It is the client-side
// analogue of browser local storage: presence of the stored value is the sole
// signal used to restore a session at startup.
type SessionVault interface {
	Put(ctx context.Context, session []byte) error
	// Get returns the stored session bytes, or ErrNoSession when absent.
	Get(ctx context.Context) ([]byte, error)
	// Delete removes the stored session. Deleting an absent session is a no-op.
	Delete(ctx context.Context) error
	// Ping reports whether the vault backend is usable.
	Ping(ctx context.Context) error
}
