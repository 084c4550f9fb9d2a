package portal

import (
	"net/http"

	"github.com/google/uuid"
)

// Doer executes one HTTP exchange. The base Doer is the underlying
// http.Client; middleware stages wrap it into the outbound pipeline.
type Doer func(*http.Request) (*http.Response, error)

// Middleware wraps a Doer with one stage of the pipeline.
type Middleware func(Doer) Doer

// chain composes middleware around a base Doer. The first middleware is the
// outermost stage.
func chain(base Doer, middleware ...Middleware) Doer {
	for i := len(middleware) - 1; i >= 0; i-- {
		base = middleware[i](base)
	}
	return base
}

// requestID tags every outbound call so backend logs can be correlated with
// client logs.
func requestID(next Doer) Doer {
	return func(req *http.Request) (*http.Response, error) {
		if req.Header.Get("X-Request-Id") == "" {
			req.Header.Set("X-Request-Id", uuid.NewString())
		}
		return next(req)
	}
}

// authenticate sets the bearer credential from the session store, when one is
// present. Requests without a stored pair go out unauthenticated; some
// endpoints are public.
func (c *Client) authenticate(next Doer) Doer {
	return func(req *http.Request) (*http.Response, error) {
		pair, ok, err := c.store.Get(req.Context())
		if err != nil {
			c.logger.Warn().Err(err).Msg("session store read failed, sending unauthenticated")
		} else if ok && pair.Access != "" {
			req.Header.Set("Authorization", "Bearer "+pair.Access)
		}
		return next(req)
	}
}
