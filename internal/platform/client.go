package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dviselman/pconsole/internal/auth"
	"github.com/dviselman/pconsole/internal/config"
)

// Client provides access to the platform REST API. All requests carry the
// org/sandbox headers and a bearer token from the token source. The
// underlying http.Client enforces a per-request timeout so a hung remote
// call surfaces as a fetch error instead of stalling a crawl.
type Client struct {
	baseURL    string
	orgID      string
	sandbox    string
	apiKey     string
	tokens     auth.TokenSource
	httpClient *http.Client
}

// New creates a platform API client.
func New(api config.APIConfig, clientID string, tokens auth.TokenSource) *Client {
	return &Client{
		baseURL:    strings.TrimRight(api.BaseURL, "/"),
		orgID:      api.OrgID,
		sandbox:    api.Sandbox,
		apiKey:     clientID,
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// GetJSON performs a GET against the given API path (leading slash) and
// decodes the JSON response into out. Extra Accept headers can be supplied
// via accept; empty means application/json.
func (c *Client) GetJSON(ctx context.Context, path string, query url.Values, accept string, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	token, err := c.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("acquiring token: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("x-gw-ims-org-id", c.orgID)
	req.Header.Set("x-sandbox-name", c.sandbox)
	if accept == "" {
		accept = "application/json"
	}
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("platform API error on %s (%d): %s", path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s response: %w", path, err)
	}
	return nil
}
