package tasks

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/desertthunder/isrcx/internal/models"
	"github.com/desertthunder/isrcx/internal/shared"
	th "github.com/desertthunder/isrcx/internal/testing"
)

func matcherWithCatalog() *th.MockMatcher {
	return &th.MockMatcher{
		Tracks: map[string]*models.Track{
			"USUG11904257": {
				ISRC:        "USUG11904257",
				Name:        "Blinding Lights",
				Artist:      "The Weeknd",
				Album:       "After Hours",
				ReleaseDate: "2020-03-20",
			},
			"USUM71703861": {
				ISRC:        "USUM71703861",
				Name:        "Shape of You",
				Artist:      "Ed Sheeran",
				Album:       "Divide",
				ReleaseDate: "2017-03-03",
			},
		},
	}
}

func inputRows(codes ...string) []models.InputRow {
	rows := make([]models.InputRow, len(codes))
	for i, code := range codes {
		rows[i] = models.InputRow{ISRC: code}
	}

	return rows
}

func TestRun(t *testing.T) {
	t.Run("preserves input order and statuses", func(t *testing.T) {
		matcher := matcherWithCatalog()
		engine := NewMatchEngine(matcher, 0)

		rows := inputRows("USUG11904257", "GBUM71029604", "USUM71703861")

		report, err := engine.Run(context.Background(), nil, rows, nil, "order.xlsx")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if len(report.Results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(report.Results))
		}

		for i, row := range rows {
			if report.Results[i].ISRC != row.ISRC {
				t.Errorf("expected %s at position %d, got %s", row.ISRC, i, report.Results[i].ISRC)
			}
		}

		wantStatuses := []models.Status{models.StatusSuccess, models.StatusNotFound, models.StatusSuccess}
		for i, want := range wantStatuses {
			if report.Results[i].Status != want {
				t.Errorf("expected %s at position %d, got %s", want, i, report.Results[i].Status)
			}
		}

		if report.Results[0].TrackName != "Blinding Lights" || report.Results[0].ReleaseYear != "2020" {
			t.Errorf("matched row missing track metadata, got %+v", report.Results[0])
		}
	})

	t.Run("invalid codes never reach the provider", func(t *testing.T) {
		matcher := matcherWithCatalog()
		engine := NewMatchEngine(matcher, 0)

		rows := inputRows("INVALID_ISRC", "USUG11904257")

		report, err := engine.Run(context.Background(), nil, rows, nil, "")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if len(matcher.Calls) != 1 || matcher.Calls[0] != "USUG11904257" {
			t.Errorf("expected a single provider call for the valid code, got %v", matcher.Calls)
		}

		invalid := report.Results[0]
		if invalid.Status != models.StatusNotFound || invalid.ErrorMessage != models.MsgInvalidFormat {
			t.Errorf("expected invalid row marked not_found, got %+v", invalid)
		}
	})

	t.Run("normalizes codes before matching", func(t *testing.T) {
		matcher := matcherWithCatalog()
		engine := NewMatchEngine(matcher, 0)

		rows := inputRows("us-ug1-19-04257")

		report, err := engine.Run(context.Background(), nil, rows, nil, "")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if matcher.Calls[0] != "USUG11904257" {
			t.Errorf("expected normalized code on the wire, got %s", matcher.Calls[0])
		}

		if report.Results[0].ISRC != "us-ug1-19-04257" {
			t.Errorf("expected original code in the result, got %s", report.Results[0].ISRC)
		}

		if report.Results[0].Status != models.StatusSuccess {
			t.Errorf("expected success, got %s", report.Results[0].Status)
		}
	})

	t.Run("continues past provider errors", func(t *testing.T) {
		matcher := matcherWithCatalog()
		matcher.Errs = map[string]error{
			"USUM71703861": fmt.Errorf("%w: gave up after 3 attempts", shared.ErrRateLimited),
		}

		engine := NewMatchEngine(matcher, 0)
		rows := inputRows("USUG11904257", "USUM71703861", "GBUM71029604")

		report, err := engine.Run(context.Background(), nil, rows, nil, "")
		if err != nil {
			t.Fatalf("expected per-row failure to be absorbed, got %v", err)
		}

		if len(report.Results) != 3 {
			t.Fatalf("expected all rows processed, got %d", len(report.Results))
		}

		failed := report.Results[1]
		if failed.Status != models.StatusError {
			t.Errorf("expected error status, got %s", failed.Status)
		}

		if !strings.Contains(failed.ErrorMessage, "rate limited") {
			t.Errorf("expected rate limit message, got %s", failed.ErrorMessage)
		}

		if report.Results[2].Status != models.StatusNotFound {
			t.Errorf("expected batch to continue after failure, got %s", report.Results[2].Status)
		}
	})

	t.Run("two code scenario summary", func(t *testing.T) {
		matcher := matcherWithCatalog()
		engine := NewMatchEngine(matcher, 0)

		rows := inputRows("USUG11904257", "GBUM71029604")

		report, err := engine.Run(context.Background(), nil, rows, nil, "")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		summary := report.Summary
		if summary.Successful != 1 || summary.Failed != 1 || summary.Total != 2 {
			t.Errorf("expected 1/1/2 summary, got %d/%d/%d", summary.Successful, summary.Failed, summary.Total)
		}

		if summary.SuccessRate != 50.0 {
			t.Errorf("expected 50%% success rate, got %.1f", summary.SuccessRate)
		}
	})

	t.Run("auth failures abort the batch", func(t *testing.T) {
		matcher := matcherWithCatalog()
		matcher.Errs = map[string]error{
			"USUG11904257": fmt.Errorf("%w: token rejected after refresh", shared.ErrAuthFailed),
		}

		engine := NewMatchEngine(matcher, 0)
		rows := inputRows("USUG11904257", "USUM71703861")

		report, err := engine.Run(context.Background(), nil, rows, nil, "")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Fatalf("expected ErrAuthFailed, got %v", err)
		}

		if report != nil {
			t.Errorf("expected no report on fatal error, got %+v", report)
		}

		if len(matcher.Calls) != 1 {
			t.Errorf("expected the batch to stop immediately, got %d calls", len(matcher.Calls))
		}
	})

	t.Run("empty input", func(t *testing.T) {
		engine := NewMatchEngine(matcherWithCatalog(), 0)

		if _, err := engine.Run(context.Background(), nil, nil, nil, ""); !errors.Is(err, shared.ErrEmptyInput) {
			t.Errorf("expected ErrEmptyInput, got %v", err)
		}
	})

	t.Run("nil matcher", func(t *testing.T) {
		engine := NewMatchEngine(nil, 0)

		if _, err := engine.Run(context.Background(), nil, inputRows("USUG11904257"), nil, ""); !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("cancelled context aborts", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		engine := NewMatchEngine(matcherWithCatalog(), 0)

		if _, err := engine.Run(ctx, nil, inputRows("USUG11904257"), nil, ""); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("carries pass-through cells onto results", func(t *testing.T) {
		engine := NewMatchEngine(matcherWithCatalog(), 0)

		rows := []models.InputRow{
			{ISRC: "USUG11904257", Passthrough: []string{"Blinding Lights", "The Weeknd hit"}},
		}

		report, err := engine.Run(context.Background(), nil, rows, []string{"Song Title", "Notes"}, "")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if len(report.Results[0].Passthrough) != 2 || report.Results[0].Passthrough[1] != "The Weeknd hit" {
			t.Errorf("expected pass-through cells carried, got %v", report.Results[0].Passthrough)
		}

		if len(report.PassthroughHeaders) != 2 {
			t.Errorf("expected pass-through headers on report, got %v", report.PassthroughHeaders)
		}
	})

	t.Run("captures run metadata", func(t *testing.T) {
		engine := NewMatchEngine(matcherWithCatalog(), 0)

		report, err := engine.Run(context.Background(), nil, inputRows("USUG11904257"), nil, "meta.xlsx")
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if len(report.Meta.RunID) != 36 {
			t.Errorf("expected uuid run id, got %q", report.Meta.RunID)
		}

		if report.Meta.Provider != "mock" {
			t.Errorf("expected provider mock, got %s", report.Meta.Provider)
		}

		if report.Meta.Source != "meta.xlsx" {
			t.Errorf("expected source meta.xlsx, got %s", report.Meta.Source)
		}

		if report.Meta.StartedAt.IsZero() {
			t.Errorf("expected start timestamp to be captured")
		}

		if report.Meta.ElapsedMS < 0 {
			t.Errorf("expected non-negative elapsed time, got %d", report.Meta.ElapsedMS)
		}
	})

	t.Run("emits progress updates", func(t *testing.T) {
		engine := NewMatchEngine(matcherWithCatalog(), 0)
		progress := make(chan ProgressUpdate, 64)

		rows := inputRows("USUG11904257", "GBUM71029604")

		if _, err := engine.Run(context.Background(), progress, rows, nil, ""); err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		close(progress)

		var messages []string
		for update := range progress {
			if update.Phase != MatchTracks {
				t.Errorf("expected match_tracks phase, got %s", update.Phase)
			}

			messages = append(messages, update.Message)
		}

		joined := strings.Join(messages, "\n")

		for _, want := range []string{
			"Matching 2 ISRCs against mock...",
			"[1/2] USUG11904257",
			"[1/2] ✓ Blinding Lights - The Weeknd",
			"[2/2] ✗ GBUM71029604: No track found for this ISRC",
			"Matched 1 of 2 ISRCs (50.0%)",
		} {
			if !strings.Contains(joined, want) {
				t.Errorf("expected progress message %q, got:\n%s", want, joined)
			}
		}
	})

	t.Run("full progress channel never blocks", func(t *testing.T) {
		engine := NewMatchEngine(matcherWithCatalog(), 0)
		progress := make(chan ProgressUpdate, 1)

		rows := inputRows("USUG11904257", "GBUM71029604", "USUM71703861")

		if _, err := engine.Run(context.Background(), progress, rows, nil, ""); err != nil {
			t.Fatalf("Run failed: %v", err)
		}
	})
}

func TestPhaseString(t *testing.T) {
	cases := map[Phase]string{
		ReadInput:   "read_input",
		MatchTracks: "match_tracks",
		WriteReport: "write_report",
		Phase(99):   "",
	}

	for phase, want := range cases {
		if got := phase.String(); got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	}
}
