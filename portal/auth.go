package portal

import (
	"context"
	"net/http"
	"net/url"
	"sync"

	"github.com/pkg/errors"

	"github.com/colegioing/go-portal-client/claims"
	"github.com/colegioing/go-portal-client/session"
)

// Identity is the client's view of who is logged in, derived from the stored
// access token's unverified claims.
type Identity struct {
	SubjectID   int64
	Role        claims.Role
	DisplayName string
}

// HasPermission reports whether the identity's role grants the permission.
// Advisory only; the backend enforces authorization on every call.
func (i Identity) HasPermission(permission string) bool {
	return i.Role.HasPermission(permission)
}

// sessionLifecycle tracks session-ended subscribers and serialises the
// logged-in/logged-out transition.
type sessionLifecycle struct {
	sessionMu   sync.Mutex
	subscribers []func()
}

// loginResponse is the token endpoint's body. The backend also echoes the
// role, which the client rederives from the token instead of trusting here.
type loginResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
	Rol     string `json:"rol"`
}

// Login exchanges credentials for a token pair, persists it, and returns the
// identity derived from the new access token. A credential rejection is
// terminal for this call: no retry, and any stale tokens are cleared.
func (c *Client) Login(ctx context.Context, username, password string) (*Identity, error) {
	req, err := c.newFormRequest(ctx, http.MethodPost, "token/", url.Values{
		"username": {username},
		"password": {password},
	})
	if err != nil {
		return nil, err
	}

	// Login is public and must not recurse into refresh-and-retry, so it
	// bypasses the pipeline; the request is still tagged for log correlation.
	resp, err := requestID(c.send)(req)
	if err != nil {
		return nil, err
	}
	defer drainAndClose(resp.Body)

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		// fall through to the token pair
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		c.clearStoredSession(ctx)
		return nil, ErrInvalidCredentials
	default:
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: readBodySnippet(resp.Body)}
	}

	var body loginResponse
	if err := decodeJSON(resp.Body, &body); err != nil || body.Access == "" || body.Refresh == "" {
		c.clearStoredSession(ctx)
		return nil, claims.ErrMalformedToken
	}

	decoded, err := claims.Decode(body.Access)
	if err != nil {
		c.clearStoredSession(ctx)
		return nil, err
	}

	pair := session.TokenPair{Access: body.Access, Refresh: body.Refresh}
	if err := c.store.Set(ctx, pair); err != nil {
		return nil, errors.Wrap(err, "persist token pair")
	}

	identity := c.identityFrom(ctx, decoded)
	c.logger.Info().Int64("subject_id", identity.SubjectID).Str("role", string(identity.Role)).Msg("logged in")
	return &identity, nil
}

// Logout clears the stored session and, when a session was actually present,
// notifies subscribers that it ended. It is idempotent: calling it twice in a
// row leaves the same state and raises nothing the second time.
//
// An in-flight refresh is unaffected mechanically but irrelevant afterwards:
// its result lands in a cleared store only if it wins the race, and the next
// authenticated call simply fails 401 and tears down again.
func (c *Client) Logout(ctx context.Context) error {
	c.sessionMu.Lock()
	_, hadSession, getErr := c.store.Get(ctx)
	err := c.store.Clear(ctx)
	subscribers := make([]func(), len(c.subscribers))
	copy(subscribers, c.subscribers)
	c.sessionMu.Unlock()

	// A failed read cannot prove the store was empty; notify anyway so
	// subscribers still invalidate whatever depended on the session.
	if hadSession || getErr != nil {
		c.logger.Info().Msg("session ended")
		for _, notify := range subscribers {
			notify()
		}
	}
	return err
}

// clearStoredSession removes tokens without the session-ended notification;
// used when normalising state inside an operation that reports its own error.
func (c *Client) clearStoredSession(ctx context.Context) {
	if err := c.store.Clear(ctx); err != nil {
		c.logger.Warn().Err(err).Msg("session store clear failed")
	}
}

// OnSessionEnded registers a callback invoked after the session transitions
// to logged out, whether through Logout or an irrecoverable refresh failure.
// The application hangs cache invalidation and navigation off this event.
func (c *Client) OnSessionEnded(callback func()) {
	c.sessionMu.Lock()
	defer c.sessionMu.Unlock()
	c.subscribers = append(c.subscribers, callback)
}

// CurrentIdentity derives the identity from the stored access token. It
// returns false when no session is stored; a malformed or expired token is
// normalised to the logged-out state via Logout before returning false.
func (c *Client) CurrentIdentity(ctx context.Context) (*Identity, bool) {
	pair, ok, err := c.store.Get(ctx)
	if err != nil || !ok {
		return nil, false
	}

	if claims.IsExpired(pair.Access) {
		_ = c.Logout(ctx)
		return nil, false
	}

	decoded, err := claims.Decode(pair.Access)
	if err != nil {
		_ = c.Logout(ctx)
		return nil, false
	}

	identity := c.identityFrom(ctx, decoded)
	return &identity, true
}

// SetDisplayName persists a display-name override shown in place of the
// token's username.
func (c *Client) SetDisplayName(ctx context.Context, name string) error {
	return errors.Wrap(c.store.SetDisplayName(ctx, name), "persist display name")
}

// identityFrom maps decoded claims to an Identity, applying the stored
// display-name override when present.
func (c *Client) identityFrom(ctx context.Context, decoded *claims.Claims) Identity {
	name := decoded.DisplayName
	if override, err := c.store.DisplayName(ctx); err == nil && override != "" {
		name = override
	}
	return Identity{
		SubjectID:   decoded.SubjectID,
		Role:        decoded.Role,
		DisplayName: name,
	}
}
