// Package oauth exchanges Google authorization codes for a verified identity.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTokenURL = "https://oauth2.googleapis.com/token"
	DefaultJWKSURL  = "https://www.googleapis.com/oauth2/v3/certs"
	DefaultIssuer   = "https://accounts.google.com"
)

var (
	ErrExchangeFailed = errors.New("authorization code exchange failed")
	ErrMissingIDToken = errors.New("provider response has no id_token")
)

// Identity is what the provider asserts about the signed-in user.
type Identity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
	Picture       string
}

type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	TokenURL     string

	HTTPClient *http.Client
}

type tokenResponse struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
	Error       string `json:"error"`
	ErrorDesc   string `json:"error_description"`
}

// GoogleProvider performs the authorization code exchange against Google's
// token endpoint and checks the returned id_token with its verifier.
type GoogleProvider struct {
	cfg      Config
	client   *http.Client
	verifier IDTokenVerifier
}

func NewGoogleProvider(cfg Config, verifier IDTokenVerifier) *GoogleProvider {
	if cfg.TokenURL == "" {
		cfg.TokenURL = DefaultTokenURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &GoogleProvider{cfg: cfg, client: client, verifier: verifier}
}

// Exchange trades code for the provider's id_token and returns the identity
// it carries.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Identity, error) {
	form := url.Values{
		"code":          {code},
		"client_id":     {p.cfg.ClientID},
		"client_secret": {p.cfg.ClientSecret},
		"redirect_uri":  {p.cfg.RedirectURI},
		"grant_type":    {"authorization_code"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrExchangeFailed, err)
	}
	if resp.StatusCode != http.StatusOK || tr.Error != "" {
		return nil, fmt.Errorf("%w: status %d: %s %s", ErrExchangeFailed, resp.StatusCode, tr.Error, tr.ErrorDesc)
	}
	if tr.IDToken == "" {
		return nil, ErrMissingIDToken
	}

	claims, err := p.verifier.Verify(ctx, tr.IDToken)
	if err != nil {
		return nil, err
	}

	return &Identity{
		Subject:       claims.Subject,
		Email:         claims.Email,
		EmailVerified: claims.EmailVerified,
		Name:          claims.Name,
		Picture:       claims.Picture,
	}, nil
}
