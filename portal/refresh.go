package portal

import (
	"context"
	"net/http"
	"net/url"

	"github.com/pkg/errors"
)

// refreshGroupKey: the client manages one session, so every refresh demand
// collapses onto the same single-flight key.
const refreshGroupKey = "refresh"

// refreshResponse is the token-refresh endpoint's body. The backend normally
// returns only a new access token; a refresh field is present when it rotates
// the refresh token as well.
type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// AcquireNewAccessToken exchanges the stored refresh token for a new access
// token. Concurrent callers share one in-flight exchange: for N callers that
// each require a refresh at overlapping times the refresh endpoint is invoked
// exactly once, and all N resolve from that exchange's outcome.
//
// Any failure (no refresh token stored, backend rejection, network error or
// timeout) returns a *RefreshError and tears the session down exactly once;
// a later demand starts a fresh exchange.
func (c *Client) AcquireNewAccessToken(ctx context.Context) (string, error) {
	result, err, _ := c.refreshGroup.Do(refreshGroupKey, func() (any, error) {
		return c.exchangeRefreshToken(ctx)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// exchangeRefreshToken performs the actual exchange. It runs at most once per
// in-flight refresh, so the teardown on failure also runs at most once per
// failed exchange.
func (c *Client) exchangeRefreshToken(ctx context.Context) (string, error) {
	pair, ok, storeErr := c.store.Get(ctx)
	if storeErr != nil || !ok || pair.Refresh == "" {
		// Nothing to exchange: fail without contacting the backend.
		c.teardownSession(ctx)
		return "", &RefreshError{Reason: RefreshNoToken, Err: errors.Wrap(storeErr, "read stored session")}
	}

	req, err := c.newFormRequest(ctx, http.MethodPost, "token/refresh/", url.Values{
		"refresh": {pair.Refresh},
	})
	if err != nil {
		return "", err
	}

	// The refresh endpoint is public and must not recurse into the retry
	// stage, so the request bypasses the pipeline; it is still tagged for
	// log correlation.
	resp, err := requestID(c.send)(req)
	if err != nil {
		c.logger.Warn().Err(err).Msg("token refresh failed")
		c.teardownSession(ctx)
		return "", &RefreshError{Reason: RefreshNetworkOrTimeout, Err: err}
	}
	defer drainAndClose(resp.Body)

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn().Int("status", resp.StatusCode).Msg("refresh token rejected")
		c.teardownSession(ctx)
		return "", &RefreshError{Reason: RefreshRejected}
	}

	var body refreshResponse
	if err := decodeJSON(resp.Body, &body); err != nil || body.Access == "" {
		c.logger.Warn().Err(err).Msg("refresh response unreadable")
		c.teardownSession(ctx)
		return "", &RefreshError{Reason: RefreshRejected, Err: err}
	}

	newPair := pair
	newPair.Access = body.Access
	if body.Refresh != "" {
		// Backend rotated the refresh token; persist both halves together.
		newPair.Refresh = body.Refresh
	}
	if err := c.store.Set(ctx, newPair); err != nil {
		c.teardownSession(ctx)
		return "", &RefreshError{Reason: RefreshNetworkOrTimeout, Err: errors.Wrap(err, "persist refreshed pair")}
	}

	c.logger.Debug().Msg("access token refreshed")
	return body.Access, nil
}

// teardownSession forces the logged-out state after an irrecoverable refresh
// failure. The caller's context may already be cancelled or past its
// deadline; teardown still has to clear the store.
func (c *Client) teardownSession(ctx context.Context) {
	c.Logout(context.WithoutCancel(ctx))
}
