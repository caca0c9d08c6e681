package ui

import (
	"github.com/desertthunder/isrcx/internal/models"
	"github.com/desertthunder/isrcx/internal/tasks"
)

// inputLoadedMsg carries the parsed identifiers once the input file has
// been read, or the read error when it has not.
type inputLoadedMsg struct {
	rows    []models.InputRow
	headers []string
	err     error
}

// progressUpdateMsg relays one engine update into the bubbletea loop.
type progressUpdateMsg tasks.ProgressUpdate

// matchCompleteMsg carries the finished report and the path it was
// written to. err is set when the run aborted or the write failed.
type matchCompleteMsg struct {
	report *models.Report
	path   string
	err    error
}
