// Spotify API implementation of [Matcher]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/desertthunder/isrcx/internal/models"
	"github.com/desertthunder/isrcx/internal/shared"
)

const (
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"
)

type externalIDs struct {
	ISRC string `json:"isrc"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	Album       SpotifyAlbum    `json:"album"`
	DurationMS  int             `json:"duration_ms"`
	ExternalIDs externalIDs     `json:"external_ids"`
	URI         string          `json:"uri"`
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URI  string `json:"uri"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ReleaseDate string `json:"release_date"`
	TotalTracks int    `json:"total_tracks"`
	URI         string `json:"uri"`
}

type searchTracks struct {
	Items []SpotifyTrack `json:"items"`
	Total int            `json:"total"`
}

// SpotifySearchResponse represents a track search response envelope.
type SpotifySearchResponse struct {
	Tracks searchTracks `json:"tracks"`
}

// SpotifyService implements the Matcher interface for Spotify API interactions.
// Uses [TokenSession] for authentication and retries rate-limited requests
// up to a configured bound.
type SpotifyService struct {
	session    *TokenSession
	httpClient *http.Client
	baseURL    string
	maxRetries int
	backoff    time.Duration
}

// NewSpotifyService creates a Spotify matcher from resolved
// configuration. A nil client gets a default with the configured
// per-request timeout.
func NewSpotifyService(conf *shared.Config, client *http.Client) *SpotifyService {
	if client == nil {
		client = &http.Client{Timeout: conf.Lookup.Timeout()}
	}

	spotify := conf.Credentials.Spotify

	return &SpotifyService{
		session:    NewTokenSession(spotify.ClientID, spotify.ClientSecret, client),
		httpClient: client,
		baseURL:    spotifyBaseURL,
		maxRetries: conf.Lookup.MaxRetries,
		backoff:    conf.Lookup.Backoff(),
	}
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Match searches the catalog for a track carrying the given ISRC.
// Returns shared.ErrTrackNotFound when the search comes back empty.
func (s *SpotifyService) Match(ctx context.Context, isrc string) (*models.Track, error) {
	query := url.QueryEscape("isrc:" + isrc)
	endpoint := fmt.Sprintf("/search?q=%s&type=track&limit=1", query)

	var response SpotifySearchResponse
	if err := s.doRequest(ctx, http.MethodGet, endpoint, &response); err != nil {
		return nil, err
	}

	if len(response.Tracks.Items) == 0 {
		return nil, fmt.Errorf("%w: %s", shared.ErrTrackNotFound, isrc)
	}

	item := response.Tracks.Items[0]
	track := &models.Track{
		ISRC:        item.ExternalIDs.ISRC,
		Name:        item.Name,
		Album:       item.Album.Name,
		ReleaseDate: item.Album.ReleaseDate,
	}

	if track.ISRC == "" {
		track.ISRC = isrc
	}

	if len(item.Artists) > 0 {
		track.Artist = item.Artists[0].Name
	}

	return track, nil
}

// doRequest performs an authenticated request against the Spotify API.
//
// A 401 invalidates the session and retries once with a fresh token.
// 429 and 5xx responses and transport failures are retried up to
// maxRetries attempts, honoring Retry-After when the provider sends
// one and falling back to the configured backoff otherwise.
func (s *SpotifyService) doRequest(ctx context.Context, method, endpoint string, result any) error {
	refreshed := false
	attempts := 0

	for {
		token, err := s.session.Token(ctx)
		if err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, method, s.baseURL+endpoint, nil)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Content-Type", "application/json")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}

			attempts++
			if attempts >= s.maxRetries {
				return classifyTransportErr(err, attempts)
			}

			if err := sleepWithContext(ctx, s.backoff); err != nil {
				return err
			}

			continue
		}

		switch {
		case resp.StatusCode == http.StatusUnauthorized:
			drain(resp)

			if refreshed {
				return fmt.Errorf("%w: token rejected after refresh", shared.ErrAuthFailed)
			}

			refreshed = true
			s.session.Invalidate()
			continue
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			wait := s.backoff
			if resp.StatusCode == http.StatusTooManyRequests {
				wait = parseRetryAfter(resp.Header.Get("Retry-After"), s.backoff)
			}

			status := resp.StatusCode
			drain(resp)

			attempts++
			if attempts >= s.maxRetries {
				if status == http.StatusTooManyRequests {
					return fmt.Errorf("%w: gave up after %d attempts", shared.ErrRateLimited, attempts)
				}

				return fmt.Errorf("%w: status %d after %d attempts", shared.ErrAPIRequest, status, attempts)
			}

			if err := sleepWithContext(ctx, wait); err != nil {
				return err
			}

			continue
		case resp.StatusCode < 200 || resp.StatusCode >= 300:
			status := resp.StatusCode
			drain(resp)

			return fmt.Errorf("%w: status %d", shared.ErrAPIRequest, status)
		}

		defer resp.Body.Close()

		if result != nil {
			if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
		}

		return nil
	}
}

func classifyTransportErr(err error, attempts int) error {
	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return fmt.Errorf("%w: %d attempts timed out", shared.ErrTimeout, attempts)
	}

	return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
}

// parseRetryAfter reads the Retry-After header, which carries either a
// delay in seconds or an HTTP date.
func parseRetryAfter(header string, fallback time.Duration) time.Duration {
	if header == "" {
		return fallback
	}

	if secs, err := strconv.Atoi(header); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}

	if at, err := http.ParseTime(header); err == nil {
		if wait := time.Until(at); wait > 0 {
			return wait
		}
	}

	return fallback
}

func sleepWithContext(ctx context.Context, wait time.Duration) error {
	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func drain(resp *http.Response) {
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
