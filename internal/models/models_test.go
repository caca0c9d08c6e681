package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/isrcx/internal/shared"
)

func TestNormalizeISRC(t *testing.T) {
	t.Run("valid codes", func(t *testing.T) {
		cases := map[string]string{
			"USUG11904257":     "USUG11904257",
			"usug11904257":     "USUG11904257",
			"  GBUM71029604  ": "GBUM71029604",
			"US-RC1-76-07839":  "USRC17607839",
		}

		for raw, want := range cases {
			got, err := NormalizeISRC(raw)
			if err != nil {
				t.Errorf("expected %q to normalize, got %v", raw, err)
				continue
			}

			if got != want {
				t.Errorf("expected %s, got %s", want, got)
			}
		}
	})

	t.Run("invalid codes", func(t *testing.T) {
		cases := []string{
			"",
			"SHORT",
			"INVALID_ISRC",
			"USUG119042577",
			"USUG1190425!",
		}

		for _, raw := range cases {
			if _, err := NormalizeISRC(raw); !errors.Is(err, shared.ErrInvalidISRC) {
				t.Errorf("expected ErrInvalidISRC for %q, got %v", raw, err)
			}
		}
	})
}

func TestTrackYear(t *testing.T) {
	cases := map[string]string{
		"2019-11-29": "2019",
		"2019-11":    "2019",
		"2019":       "2019",
		"":           "",
	}

	for date, want := range cases {
		track := Track{ReleaseDate: date}
		if got := track.Year(); got != want {
			t.Errorf("expected year %q for %q, got %q", want, date, got)
		}
	}
}

func TestResultConstructors(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		track := Track{
			Name:        "Blinding Lights",
			Artist:      "The Weeknd",
			Album:       "After Hours",
			ReleaseDate: "2020-03-20",
		}

		result := FoundResult("USUG11904257", track)
		if result.Status != StatusSuccess {
			t.Errorf("expected success, got %s", result.Status)
		}

		if result.ReleaseYear != "2020" {
			t.Errorf("expected 2020, got %s", result.ReleaseYear)
		}

		if result.ErrorMessage != "" {
			t.Errorf("expected empty error, got %s", result.ErrorMessage)
		}
	})

	t.Run("not found", func(t *testing.T) {
		result := NotFoundResult("GBUM71029604")
		if result.Status != StatusNotFound {
			t.Errorf("expected not_found, got %s", result.Status)
		}

		if result.ErrorMessage != MsgNoTrackFound {
			t.Errorf("expected %q, got %q", MsgNoTrackFound, result.ErrorMessage)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		result := InvalidResult("INVALID_ISRC")
		if result.Status != StatusNotFound {
			t.Errorf("expected not_found, got %s", result.Status)
		}

		if result.ErrorMessage != MsgInvalidFormat {
			t.Errorf("expected %q, got %q", MsgInvalidFormat, result.ErrorMessage)
		}
	})

	t.Run("failed", func(t *testing.T) {
		result := FailedResult("USUM71703861", shared.ErrRateLimited)
		if result.Status != StatusError {
			t.Errorf("expected error, got %s", result.Status)
		}

		if result.ErrorMessage != shared.ErrRateLimited.Error() {
			t.Errorf("expected rate limit message, got %s", result.ErrorMessage)
		}
	})
}

func TestSummarize(t *testing.T) {
	results := []LookupResult{
		FoundResult("A", Track{Artist: "The Weeknd", ReleaseDate: "2019-11-29"}),
		FoundResult("B", Track{Artist: "The Weeknd", ReleaseDate: "2020-03-20"}),
		FoundResult("C", Track{Artist: "Adele", ReleaseDate: "2019-01-01"}),
		NotFoundResult("D"),
		FailedResult("E", shared.ErrRateLimited),
	}

	summary := Summarize(results)

	if summary.Total != 5 {
		t.Errorf("expected total 5, got %d", summary.Total)
	}

	if summary.Successful != 3 {
		t.Errorf("expected 3 successful, got %d", summary.Successful)
	}

	if summary.Failed != 2 {
		t.Errorf("expected 2 failed, got %d", summary.Failed)
	}

	if summary.SuccessRate != 60.0 {
		t.Errorf("expected 60%% success rate, got %f", summary.SuccessRate)
	}

	if summary.YearCounts["2019"] != 2 {
		t.Errorf("expected 2 tracks from 2019, got %d", summary.YearCounts["2019"])
	}

	if len(summary.TopArtists) != 2 || summary.TopArtists[0].Name != "The Weeknd" {
		t.Errorf("expected The Weeknd first, got %+v", summary.TopArtists)
	}

	if summary.ErrorCounts[MsgNoTrackFound] != 1 {
		t.Errorf("expected 1 not-found error, got %d", summary.ErrorCounts[MsgNoTrackFound])
	}
}

func TestSummarizeEmpty(t *testing.T) {
	summary := Summarize(nil)

	if summary.Total != 0 || summary.SuccessRate != 0 {
		t.Errorf("expected zeroed summary, got %+v", summary)
	}
}

func TestRankArtistsOrdering(t *testing.T) {
	var results []LookupResult
	for i := range 25 {
		artist := fmt.Sprintf("Artist %02d", i)
		results = append(results, FoundResult("X", Track{Artist: artist, ReleaseDate: "2020"}))
	}

	results = append(results, FoundResult("Y", Track{Artist: "Artist 07", ReleaseDate: "2020"}))

	summary := Summarize(results)

	if len(summary.TopArtists) != TopArtistLimit {
		t.Fatalf("expected %d artists, got %d", TopArtistLimit, len(summary.TopArtists))
	}

	if summary.TopArtists[0].Name != "Artist 07" || summary.TopArtists[0].Count != 2 {
		t.Errorf("expected Artist 07 with 2 tracks first, got %+v", summary.TopArtists[0])
	}

	if summary.TopArtists[1].Name != "Artist 00" {
		t.Errorf("expected ties broken alphabetically, got %s", summary.TopArtists[1].Name)
	}
}

func TestNewReport(t *testing.T) {
	results := []LookupResult{
		FoundResult("USUG11904257", Track{Name: "Blinding Lights", Artist: "The Weeknd"}),
		NotFoundResult("GBUM71029604"),
	}

	report := NewReport(RunMetadata{RunID: "run-1", Provider: "spotify"}, results, []string{"Notes"})

	if report.Summary.Total != 2 || report.Summary.Successful != 1 || report.Summary.Failed != 1 {
		t.Errorf("expected 1/1/2 summary, got %+v", report.Summary)
	}

	if len(report.PassthroughHeaders) != 1 || report.PassthroughHeaders[0] != "Notes" {
		t.Errorf("expected Notes header, got %v", report.PassthroughHeaders)
	}
}
