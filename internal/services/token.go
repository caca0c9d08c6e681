// Client credentials session management for the Spotify Web API.
//
// https://developer.spotify.com/documentation/web-api/tutorials/client-credentials-flow
package services

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/desertthunder/isrcx/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

// tokenExpiryMargin is subtracted from the provider's expiry so a
// token is refreshed before it can expire mid-request.
const tokenExpiryMargin = 60 * time.Second

// TokenSession owns the access token for a provider and refreshes it
// on demand. Safe for use from multiple goroutines.
type TokenSession struct {
	conf   *clientcredentials.Config
	client *http.Client
	margin time.Duration

	mu  sync.Mutex
	tok *oauth2.Token
}

// NewTokenSession creates a session for the client credentials grant.
// No network call is made until Token is first invoked.
func NewTokenSession(clientID, clientSecret string, client *http.Client) *TokenSession {
	if client == nil {
		client = http.DefaultClient
	}

	return &TokenSession{
		conf: &clientcredentials.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			TokenURL:     spotifyTokenURL,
			AuthStyle:    oauth2.AuthStyleInHeader,
		},
		client: client,
		margin: tokenExpiryMargin,
	}
}

// Token returns a bearer token, fetching a fresh one when none is
// cached or the cached one is within the expiry margin.
func (s *TokenSession) Token(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.valid() {
		return s.tok.AccessToken, nil
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.client)

	tok, err := s.conf.Token(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	s.tok = tok

	return tok.AccessToken, nil
}

// Invalidate discards the cached token so the next Token call fetches
// a new one. Called when the provider rejects a request with 401.
func (s *TokenSession) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tok = nil
}

func (s *TokenSession) valid() bool {
	if s.tok == nil || s.tok.AccessToken == "" {
		return false
	}

	// Tokens without an expiry never go stale.
	if s.tok.Expiry.IsZero() {
		return true
	}

	return time.Until(s.tok.Expiry) > s.margin
}
