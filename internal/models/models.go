package models

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/desertthunder/isrcx/internal/shared"
)

// Status classifies the outcome of a single ISRC lookup.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusNotFound Status = "not_found"
	StatusError    Status = "error"
)

// Messages recorded on results that carry no catalog match.
const (
	MsgNoTrackFound  = "No track found for this ISRC"
	MsgInvalidFormat = "Invalid ISRC format"
)

// NormalizeISRC uppercases raw, strips surrounding whitespace and
// hyphens, and verifies the remainder is exactly twelve alphanumeric
// characters. The normalized code is what goes on the wire; results
// keep the trimmed original for traceability.
func NormalizeISRC(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	code := strings.ReplaceAll(strings.ToUpper(trimmed), "-", "")

	if len(code) != 12 {
		return "", fmt.Errorf("%w: %q is not 12 characters", shared.ErrInvalidISRC, trimmed)
	}

	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return "", fmt.Errorf("%w: %q contains non-alphanumeric characters", shared.ErrInvalidISRC, trimmed)
		}
	}

	return code, nil
}

// Track is the catalog metadata returned by a provider for a matched
// recording.
type Track struct {
	ISRC        string `json:"isrc"`
	Name        string `json:"name"`
	Artist      string `json:"artist"`
	Album       string `json:"album"`
	ReleaseDate string `json:"release_date"`
}

// Year extracts the release year from the provider's release date,
// which may be YYYY, YYYY-MM, or YYYY-MM-DD depending on precision.
func (t Track) Year() string {
	if len(t.ReleaseDate) < 4 {
		return t.ReleaseDate
	}

	return t.ReleaseDate[:4]
}

// InputRow is one ISRC read from the input document along with the
// other cells of its row, preserved for the output report.
type InputRow struct {
	ISRC        string
	Passthrough []string
}

// LookupResult is the outcome of one lookup. Exactly one row is
// produced per input row, in input order.
type LookupResult struct {
	ISRC         string   `json:"isrc"`
	Status       Status   `json:"status"`
	TrackName    string   `json:"track_name,omitempty"`
	ArtistName   string   `json:"artist_name,omitempty"`
	AlbumName    string   `json:"album_name,omitempty"`
	ReleaseYear  string   `json:"release_year,omitempty"`
	ErrorMessage string   `json:"error,omitempty"`
	Passthrough  []string `json:"-"`
}

// FoundResult builds a success row from a matched track.
func FoundResult(isrc string, track Track) LookupResult {
	return LookupResult{
		ISRC:        isrc,
		Status:      StatusSuccess,
		TrackName:   track.Name,
		ArtistName:  track.Artist,
		AlbumName:   track.Album,
		ReleaseYear: track.Year(),
	}
}

// NotFoundResult builds a row for an ISRC the catalog has no match for.
func NotFoundResult(isrc string) LookupResult {
	return LookupResult{ISRC: isrc, Status: StatusNotFound, ErrorMessage: MsgNoTrackFound}
}

// InvalidResult builds a row for an ISRC that failed validation and
// was never sent to the provider.
func InvalidResult(isrc string) LookupResult {
	return LookupResult{ISRC: isrc, Status: StatusNotFound, ErrorMessage: MsgInvalidFormat}
}

// FailedResult builds a row for a lookup that errored after retries.
func FailedResult(isrc string, err error) LookupResult {
	return LookupResult{ISRC: isrc, Status: StatusError, ErrorMessage: err.Error()}
}

// ArtistCount pairs an artist with the number of matched tracks
// credited to them.
type ArtistCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// BatchSummary aggregates a batch of results for the report's summary
// surfaces.
type BatchSummary struct {
	Total       int            `json:"total"`
	Successful  int            `json:"successful"`
	Failed      int            `json:"failed"`
	SuccessRate float64        `json:"success_rate"`
	YearCounts  map[string]int `json:"year_counts"`
	TopArtists  []ArtistCount  `json:"top_artists"`
	ErrorCounts map[string]int `json:"error_counts"`
}

// TopArtistLimit caps the artist leaderboard in summaries.
const TopArtistLimit = 20

// Summarize derives aggregate counts from a slice of results. Both
// not_found and error rows count as failed.
func Summarize(results []LookupResult) BatchSummary {
	summary := BatchSummary{
		Total:       len(results),
		YearCounts:  map[string]int{},
		ErrorCounts: map[string]int{},
	}

	artists := map[string]int{}
	for _, r := range results {
		if r.Status == StatusSuccess {
			summary.Successful++

			if r.ReleaseYear != "" {
				summary.YearCounts[r.ReleaseYear]++
			}

			if r.ArtistName != "" {
				artists[r.ArtistName]++
			}

			continue
		}

		summary.Failed++

		if r.ErrorMessage != "" {
			summary.ErrorCounts[r.ErrorMessage]++
		}
	}

	if summary.Total > 0 {
		summary.SuccessRate = float64(summary.Successful) / float64(summary.Total) * 100
	}

	summary.TopArtists = rankArtists(artists, TopArtistLimit)

	return summary
}

func rankArtists(counts map[string]int, limit int) []ArtistCount {
	ranked := make([]ArtistCount, 0, len(counts))
	for name, count := range counts {
		ranked = append(ranked, ArtistCount{Name: name, Count: count})
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}

		return ranked[i].Name < ranked[j].Name
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	return ranked
}

// RunMetadata records the identity and timing of one batch run. It is
// captured once by the engine so that rendering a report twice
// produces identical output.
type RunMetadata struct {
	RunID     string    `json:"run_id"`
	Provider  string    `json:"provider"`
	Source    string    `json:"source"`
	StartedAt time.Time `json:"started_at"`
	ElapsedMS int64     `json:"elapsed_ms"`
}

// Elapsed returns the run duration.
func (m RunMetadata) Elapsed() time.Duration {
	return time.Duration(m.ElapsedMS) * time.Millisecond
}

// Report is the complete, immutable product of a batch run. Writers
// render it without recomputing or mutating anything.
type Report struct {
	Meta               RunMetadata    `json:"meta"`
	Results            []LookupResult `json:"results"`
	Summary            BatchSummary   `json:"summary"`
	PassthroughHeaders []string       `json:"-"`
}

// NewReport assembles a report, deriving the summary from results.
func NewReport(meta RunMetadata, results []LookupResult, passthrough []string) Report {
	return Report{
		Meta:               meta,
		Results:            results,
		Summary:            Summarize(results),
		PassthroughHeaders: passthrough,
	}
}
