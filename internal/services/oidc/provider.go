package oidc

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

// Provider holds the OIDC provider settings the service trusts. Settings come
// from the environment at startup; there is no per-request provider lookup.
type Provider struct {
	Issuer      string
	ClientID    string
	JWKSURL     string
	RedirectURI string
}

// NewProvider creates a new OIDC provider from static configuration
func NewProvider(issuer, clientID, jwksURL, redirectURI string) *Provider {
	return &Provider{
		Issuer:      issuer,
		ClientID:    clientID,
		JWKSURL:     jwksURL,
		RedirectURI: redirectURI,
	}
}

// LoginConfig contains OIDC login configuration for the frontend
type LoginConfig struct {
	AuthorizationEndpoint string `json:"authorization_endpoint"`
	TokenEndpoint         string `json:"token_endpoint"`
	ClientID              string `json:"client_id"`
	RedirectURI           string `json:"redirect_uri"`
	Scope                 string `json:"scope"`
}

// GetLoginConfig returns the configuration the frontend needs to start an
// OIDC login. Endpoints come from the discovery document when reachable,
// falling back to issuer-relative conventions.
func (p *Provider) GetLoginConfig(ctx context.Context) (*LoginConfig, error) {
	endpoint := p.discoverEndpoint(ctx)

	return &LoginConfig{
		AuthorizationEndpoint: endpoint.AuthURL,
		TokenEndpoint:         endpoint.TokenURL,
		ClientID:              p.ClientID,
		RedirectURI:           p.RedirectURI,
		Scope:                 "openid email profile",
	}, nil
}

// OAuth2Config returns an oauth2 client config for the provider
func (p *Provider) OAuth2Config(ctx context.Context) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    p.ClientID,
		RedirectURL: p.RedirectURI,
		Scopes:      []string{"openid", "email", "profile"},
		Endpoint:    p.discoverEndpoint(ctx),
	}
}

func (p *Provider) discoverEndpoint(ctx context.Context) oauth2.Endpoint {
	issuer := strings.TrimSuffix(p.Issuer, "/")
	endpoint := oauth2.Endpoint{
		AuthURL:  issuer + "/oauth2/authorize",
		TokenURL: issuer + "/oauth2/token",
	}

	discoveryURL := issuer + "/.well-known/openid-configuration"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discoveryURL, nil)
	if err != nil {
		return endpoint
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil || resp.StatusCode != http.StatusOK {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return endpoint
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			_ = closeErr
		}
	}()

	var discovery struct {
		AuthorizationEndpoint string `json:"authorization_endpoint"`
		TokenEndpoint         string `json:"token_endpoint"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&discovery); err == nil {
		if discovery.AuthorizationEndpoint != "" {
			endpoint.AuthURL = discovery.AuthorizationEndpoint
		}
		if discovery.TokenEndpoint != "" {
			endpoint.TokenURL = discovery.TokenEndpoint
		}
	}

	return endpoint
}
