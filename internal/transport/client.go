// Package transport provides the authenticated HTTP client registry adapters
// share. Tokens are resolved per source at request time so authenticated and
// anonymous operation can coexist in one process.
package transport

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/agentstation/modelscout/pkg/constants"
	"github.com/agentstation/modelscout/pkg/errors"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Tokens resolves API tokens per source. An empty token means the source
// operates anonymously.
type Tokens interface {
	Token(source string) string
}

// TokenMap is a static Tokens implementation.
type TokenMap map[string]string

// Token implements the Tokens interface.
func (m TokenMap) Token(source string) string {
	return m[source]
}

// Client provides HTTP client functionality with authentication.
type Client struct {
	http   *http.Client
	auth   Authenticator
	tokens Tokens
	source string
}

// New creates a transport client for source using the given authenticator.
// tokens may be nil for sources that never authenticate.
func New(source string, auth Authenticator, tokens Tokens) *Client {
	if auth == nil {
		auth = &NoAuth{}
	}
	return &Client{
		http:   &http.Client{Timeout: DefaultHTTPTimeout},
		auth:   auth,
		tokens: tokens,
		source: source,
	}
}

// Authenticated reports whether the client currently holds a token for its
// source. Rate limiters use this to pick the request budget.
func (c *Client) Authenticated() bool {
	return c.tokens != nil && c.tokens.Token(c.source) != ""
}

// Do performs an HTTP request with authentication applied.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	if c.tokens != nil {
		if token := c.tokens.Token(c.source); token != "" {
			c.auth.Apply(req, token)
		}
	}

	req.Header.Set("Accept", "application/json")
	if req.Method == http.MethodPost || req.Method == http.MethodPut || req.Method == http.MethodPatch {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.http.Do(req)
}

// Get performs a GET request against url.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapAPI(c.source, 0, err)
	}
	resp, err := c.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &errors.APIError{
			Source:   c.source,
			Message:  "request failed",
			Endpoint: url,
			Err:      err,
		}
	}
	return resp, nil
}

// GetJSON performs a GET request and decodes a JSON body into v. Non-2xx
// statuses are mapped to APIError so 429 and 5xx unwrap to their sentinels.
func (c *Client) GetJSON(ctx context.Context, url string, v any) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &errors.APIError{
			Source:     c.source,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, string(body)),
			Endpoint:   url,
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.WrapParse("json", c.source, err)
	}
	return nil
}
