package tasks

import (
	"fmt"

	"github.com/desertthunder/isrcx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ReadInput Phase = iota
	MatchTracks
	WriteReport
)

func (p Phase) String() string {
	switch p {
	case ReadInput:
		return "read_input"
	case MatchTracks:
		return "match_tracks"
	case WriteReport:
		return "write_report"
	default:
		return ""
	}
}

func matchStartUpdate(total int, provider string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchTracks,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Matching %d ISRCs against %s...", total, provider),
	}
}

func matchTrackUpdate(step, total int, isrc string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s", step, total, isrc),
	}
}

func matchedUpdate(step, total int, result models.LookupResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s - %s", step, total, result.TrackName, result.ArtistName),
		Data:    result,
	}
}

func matchFailedUpdate(step, total int, result models.LookupResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %s", step, total, result.ISRC, result.ErrorMessage),
		Data:    result,
	}
}

func matchDoneUpdate(total int, summary models.BatchSummary) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchTracks,
		Step:    total,
		Total:   total,
		Message: fmt.Sprintf("Matched %d of %d ISRCs (%.1f%%)", summary.Successful, summary.Total, summary.SuccessRate),
		Data:    summary,
	}
}

// WriteReportUpdate marks the report-writing stage that follows a
// completed run. Callers that write the report themselves send it so
// display layers can show the hand-off.
func WriteReportUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteReport,
		Message: fmt.Sprintf("Writing report to %s...", path),
	}
}
