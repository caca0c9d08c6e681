// package services defines interface Matcher for catalog providers
// that can resolve an ISRC to a recording.
package services

import (
	"context"

	"github.com/desertthunder/isrcx/internal/models"
)

// Matcher defines the interface for catalog providers that resolve a
// normalized ISRC to track metadata.
type Matcher interface {
	// Match finds the catalog entry for a normalized ISRC.
	// Returns shared.ErrTrackNotFound when the catalog has no entry.
	Match(ctx context.Context, isrc string) (*models.Track, error)

	// Name returns the provider name (e.g. "Spotify")
	Name() string
}
