// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for batch ISRC matching:
//  1. [FormView] : Prompt for the input file, identifier column, and report path
//  2. [PreviewView] : Browse the parsed identifiers before matching
//  3. [ConfirmView] : Confirm the match run
//  4. [MatchView] : Monitor real-time progress updates
//  5. [ResultView] : Display match totals, the report location, and failed identifiers
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the match engine, providing non-blocking status reporting during runs.
//
// Keyboard navigation uses vim-style bindings (j/k, tab, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
