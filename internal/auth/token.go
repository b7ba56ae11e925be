package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/dviselman/pconsole/internal/config"
)

// TokenSource supplies a bearer token for platform API requests.
// Implementations cache and refresh tokens internally; callers treat
// Token as cheap.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// ClientCredentialsSource obtains tokens via the OAuth2 client-credentials
// grant against the platform's token endpoint.
type ClientCredentialsSource struct {
	source oauth2.TokenSource
}

// NewClientCredentialsSource builds a token source from the auth config.
// The underlying oauth2 token source caches the token and refreshes it
// transparently when it expires.
func NewClientCredentialsSource(cfg config.AuthConfig) (*ClientCredentialsSource, error) {
	if cfg.TokenURL == "" {
		return nil, fmt.Errorf("auth.token_url is required")
	}
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, fmt.Errorf("auth.client_id and auth.client_secret are required")
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
		Scopes:       cfg.Scopes,
	}

	return &ClientCredentialsSource{
		source: cc.TokenSource(context.Background()),
	}, nil
}

func (s *ClientCredentialsSource) Token(ctx context.Context) (string, error) {
	tok, err := s.source.Token()
	if err != nil {
		return "", fmt.Errorf("fetching access token: %w", err)
	}
	return tok.AccessToken, nil
}

// StaticTokenSource returns a fixed token. Used for tests and for the
// PCONSOLE_ACCESS_TOKEN escape hatch.
type StaticTokenSource struct {
	AccessToken string
}

func (s StaticTokenSource) Token(ctx context.Context) (string, error) {
	if s.AccessToken == "" {
		return "", fmt.Errorf("no access token configured")
	}
	return s.AccessToken, nil
}
