package portal

import (
	"errors"
	"net/http"
	"strings"
)

// retryOnAuthRejection observes completed calls. On a 401 it engages the
// refresh coordinator and replays the original call exactly once; the replay
// runs through the inner stages again, so it picks up the token the exchange
// produced. A second 401 propagates as-is, which bounds every call to one
// retry and guarantees termination under persistent rejection.
func (c *Client) retryOnAuthRejection(next Doer) Doer {
	return func(req *http.Request) (*http.Response, error) {
		resp, err := next(req)
		if err != nil || resp.StatusCode != http.StatusUnauthorized {
			return resp, err
		}

		// The authenticate stage set the header on this request, so it
		// reflects the token the rejected call actually went out with.
		sentToken := bearerToken(req)

		// When a concurrent call has already replaced the token, the
		// rejection is stale: replay with the current token, no exchange.
		if !c.tokenAlreadyReplaced(req, sentToken) {
			if _, refreshErr := c.AcquireNewAccessToken(req.Context()); refreshErr != nil {
				// The coordinator has already torn the session down; the
				// caller sees the original rejection.
				var rerr *RefreshError
				if errors.As(refreshErr, &rerr) {
					c.logger.Debug().Str("reason", string(rerr.Reason)).Msg("not retrying call, refresh failed")
				}
				return resp, nil
			}
		}

		retryReq, cloneErr := replayableRequest(req)
		if cloneErr != nil {
			c.logger.Warn().Err(cloneErr).Msg("cannot replay request after refresh")
			return resp, nil
		}

		drainAndClose(resp.Body)
		c.logger.Debug().Str("path", req.URL.Path).Msg("replaying call with refreshed token")
		return next(retryReq)
	}
}

// tokenAlreadyReplaced reports whether the stored access token differs from
// the one this request went out with.
func (c *Client) tokenAlreadyReplaced(req *http.Request, sentToken string) bool {
	if sentToken == "" {
		return false
	}
	pair, ok, err := c.store.Get(req.Context())
	return err == nil && ok && pair.Access != "" && pair.Access != sentToken
}

// bearerToken extracts the bearer credential a request carries, if any.
func bearerToken(req *http.Request) string {
	header := req.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// replayableRequest clones a request for the single retry, rewinding the body
// through GetBody. Requests whose body cannot be rewound are not replayed.
func replayableRequest(req *http.Request) (*http.Request, error) {
	clone := req.Clone(req.Context())
	if req.Body == nil {
		return clone, nil
	}
	if req.GetBody == nil {
		return nil, errors.New("request body is not rewindable")
	}

	body, err := req.GetBody()
	if err != nil {
		return nil, err
	}
	clone.Body = body
	return clone, nil
}
