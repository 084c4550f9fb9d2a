// Package session owns the durable representation of the client's token pair.
// A store holds at most one pair (one user per client instance) plus an
// optional display-name override; every other component reads the pair through
// the store and never caches it.
package session

import "context"

// TokenPair holds the current bearer credentials. Access is short-lived and
// attached to authenticated calls; Refresh is longer-lived and exchangeable
// only for a new access token. The two are never interchangeable.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Store is durable key/value storage for the session. A missing pair is the
// normal logged-out state, not a failure. Implementations must write the pair
// atomically: a concurrent Get never observes an access token from one pair
// together with a refresh token from another.
type Store interface {
	// Get returns the current pair. The second return is false when no pair
	// is stored.
	Get(ctx context.Context) (TokenPair, bool, error)

	// Set persists a new pair, overwriting any previous one atomically.
	Set(ctx context.Context, pair TokenPair) error

	// Clear removes the pair and any display-name override. Clearing an
	// already-empty store is a no-op.
	Clear(ctx context.Context) error

	// DisplayName returns the display-name override, or "" when none is set.
	DisplayName(ctx context.Context) (string, error)

	// SetDisplayName stores the override. An empty name removes it.
	SetDisplayName(ctx context.Context, name string) error
}
