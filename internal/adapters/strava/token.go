// Package strava talks to the remote activity API: token exchange and
// paginated activity listing.
package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/runseob/paceboard/pkg/metrics"
)

// defaultTokenTTL is the validity window of a memoized access token.
const defaultTokenTTL = time.Hour

// Credentials holds the long-lived athlete credential set.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// TokenOption applies a configuration option to the TokenProvider.
type TokenOption func(*TokenProvider)

// WithTokenURL overrides the token endpoint.
func WithTokenURL(u string) TokenOption {
	return func(p *TokenProvider) {
		if u != "" {
			p.tokenURL = u
		}
	}
}

// WithTokenTTL overrides the memoization window.
func WithTokenTTL(ttl time.Duration) TokenOption {
	return func(p *TokenProvider) {
		if ttl > 0 {
			p.ttl = ttl
		}
	}
}

// WithTokenHTTPClient overrides the HTTP client.
func WithTokenHTTPClient(c *http.Client) TokenOption {
	return func(p *TokenProvider) {
		if c != nil {
			p.client = c
		}
	}
}

// WithTokenClock overrides the clock, for tests.
func WithTokenClock(now func() time.Time) TokenOption {
	return func(p *TokenProvider) {
		if now != nil {
			p.now = now
		}
	}
}

// TokenProvider exchanges a refresh token for a short-lived access
// token. The result is memoized as an explicit (value, fetchedAt) pair
// with a TTL check, so expiry is testable and there is no hidden state.
type TokenProvider struct {
	creds    Credentials
	tokenURL string
	ttl      time.Duration
	client   *http.Client
	now      func() time.Time

	mu        sync.Mutex
	token     string
	fetchedAt time.Time
}

// NewTokenProvider constructs a TokenProvider.
func NewTokenProvider(creds Credentials, opts ...TokenOption) *TokenProvider {
	p := &TokenProvider{
		creds:    creds,
		tokenURL: "https://www.strava.com/oauth/token",
		ttl:      defaultTokenTTL,
		client:   &http.Client{Timeout: 30 * time.Second},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Token returns a valid access token, reusing the memoized one while it
// is fresh. A non-success status or malformed body fails with ErrAuth;
// the caller must not proceed to fetch.
func (p *TokenProvider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.token != "" && p.now().Sub(p.fetchedAt) < p.ttl {
		metrics.RecordTokenCacheHit()
		return p.token, nil
	}

	form := url.Values{
		"client_id":     {p.creds.ClientID},
		"client_secret": {p.creds.ClientSecret},
		"refresh_token": {p.creds.RefreshToken},
		"grant_type":    {"refresh_token"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuth, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: unexpected status %d", ErrAuth, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrAuth, err)
	}
	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("%w: malformed token response: %w", ErrAuth, err)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access_token", ErrAuth)
	}

	p.token = tr.AccessToken
	p.fetchedAt = p.now()
	metrics.RecordTokenRefresh()
	return p.token, nil
}

// Invalidate drops the memoized token so the next call re-exchanges.
func (p *TokenProvider) Invalidate() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.token = ""
	p.fetchedAt = time.Time{}
}
