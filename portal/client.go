// Package portal is the authenticated API client for the member-portal
// backend. It owns the session lifecycle: attaching the bearer token to
// outgoing calls, recovering from authentication rejections through a
// single-flight token refresh, and tearing the session down when recovery is
// impossible.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/colegioing/go-portal-client/session"
)

const defaultTimeout = 30 * time.Second

// Client talks to the portal backend on behalf of exactly one user session.
// It is safe for concurrent use; concurrent calls that hit an authentication
// rejection share a single refresh exchange.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	store      session.Store
	logger     zerolog.Logger

	// pipeline is the outbound call chain: request-id → retry-once →
	// authenticate → send. Built once at construction.
	pipeline Doer

	refreshGroup singleflight.Group

	sessionLifecycle
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. The client's own
// timeout is the per-call bound when the caller's context carries none.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger attaches a logger. The default discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout sets the per-call timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// New creates a client for the backend at baseURL (e.g.
// "https://portal.example.org/api/"). The store is required: it is the sole
// owner of the durable token pair.
func New(baseURL string, store session.Store, options ...Option) (*Client, error) {
	if store == nil {
		return nil, fmt.Errorf("[portal.New] session store is required")
	}

	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("[portal.New] invalid base URL: %w", err)
	}
	if !strings.HasSuffix(parsed.Path, "/") {
		parsed.Path += "/"
	}

	c := &Client{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: defaultTimeout},
		store:      store,
		logger:     zerolog.Nop(),
	}

	for _, opt := range options {
		opt(c)
	}

	c.pipeline = chain(c.send, requestID, c.retryOnAuthRejection, c.authenticate)

	return c, nil
}

// send is the base of the pipeline: the raw HTTP exchange.
func (c *Client) send(req *http.Request) (*http.Response, error) {
	return c.httpClient.Do(req)
}

// endpoint resolves a backend path ("news/news/") against the base URL.
// Trailing slashes are significant to the backend's router and are preserved.
func (c *Client) endpoint(path string) string {
	ref := &url.URL{Path: path}
	return c.baseURL.ResolveReference(ref).String()
}

// newRequest builds a request whose body can be replayed by the retry stage.
func (c *Client) newRequest(ctx context.Context, method, path string, body []byte, contentType string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return nil, fmt.Errorf("[portal] build request %s %s: %w", method, path, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// newJSONRequest marshals payload as the request body.
func (c *Client) newJSONRequest(ctx context.Context, method, path string, payload any) (*http.Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("[portal] encode request body: %w", err)
	}
	return c.newRequest(ctx, method, path, body, "application/json")
}

// newFormRequest encodes fields as a form body, the encoding the token
// endpoints expect.
func (c *Client) newFormRequest(ctx context.Context, method, path string, fields url.Values) (*http.Request, error) {
	return c.newRequest(ctx, method, path, []byte(fields.Encode()), "application/x-www-form-urlencoded")
}

// do runs a request through the full pipeline and decodes a JSON response
// into out (which may be nil for endpoints whose body is irrelevant).
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.pipeline(req)
	if err != nil {
		return fmt.Errorf("[portal] %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer drainAndClose(resp.Body)

	if err := responseError(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("[portal] decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// responseError maps a non-success status to the client's error taxonomy.
// A 401 observed here has already been through the retry stage.
func responseError(resp *http.Response) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return ErrAuthRejected
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	default:
		return &StatusError{StatusCode: resp.StatusCode, Body: readBodySnippet(resp.Body)}
	}
}

func decodeJSON(r io.Reader, out any) error {
	return json.NewDecoder(r).Decode(out)
}

// readBodySnippet captures the start of an error body for diagnostics.
func readBodySnippet(body io.Reader) string {
	snippet, _ := io.ReadAll(io.LimitReader(body, 512))
	return strings.TrimSpace(string(snippet))
}

// drainAndClose lets the transport reuse the connection.
func drainAndClose(body io.ReadCloser) {
	_, _ = io.Copy(io.Discard, io.LimitReader(body, 4096))
	_ = body.Close()
}
