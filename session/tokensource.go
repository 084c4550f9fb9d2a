package session

import (
	"context"
	"errors"

	"golang.org/x/oauth2"
)

// ErrNoSession is returned by TokenSource when the store holds no pair.
var ErrNoSession = errors.New("no session stored")

// TokenSource exposes the stored pair as an oauth2.TokenSource so the session
// can feed libraries that speak the oauth2 interfaces. It performs no refresh
// of its own; the portal client owns that.
type TokenSource struct {
	store Store
}

var _ oauth2.TokenSource = (*TokenSource)(nil)

// NewTokenSource wraps a store.
func NewTokenSource(store Store) *TokenSource {
	return &TokenSource{store: store}
}

// Token returns the current pair as an oauth2 bearer token.
func (t *TokenSource) Token() (*oauth2.Token, error) {
	pair, ok, err := t.store.Get(context.Background())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNoSession
	}
	return &oauth2.Token{
		AccessToken:  pair.Access,
		RefreshToken: pair.Refresh,
		TokenType:    "Bearer",
	}, nil
}
