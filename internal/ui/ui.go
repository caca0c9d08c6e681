package ui

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/isrcx/internal/formatter"
	"github.com/desertthunder/isrcx/internal/models"
	"github.com/desertthunder/isrcx/internal/tasks"
	"github.com/desertthunder/isrcx/internal/workbook"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	FormView ViewState = iota
	PreviewView
	ConfirmView
	MatchView
	ResultView
)

// Form field order.
const (
	fieldInput = iota
	fieldColumn
	fieldOutput
)

// Options carries the resolved settings for a TUI session. Values
// prefill the prompt form and can be edited before the run starts.
type Options struct {
	Input  string
	Column string
	Sheet  string
	Output string
	Format formatter.Format
}

// matchOutcome is written by the match goroutine before the progress
// channel closes and read only after the close is observed.
type matchOutcome struct {
	report *models.Report
	path   string
	err    error
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       tasks.Engine
	opts         Options
	width        int
	height       int
	inputs       []textinput.Model
	focused      int
	formErr      string
	spin         spinner.Model
	rowList      list.Model
	rows         []models.InputRow
	headers      []string
	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	outcome      matchOutcome
	report       *models.Report
	reportPath   string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine tasks.Engine, opts Options) *Model {
	inputs := newFormInputs(opts)
	inputs[fieldInput].Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = NewStyle("#1DB954")

	return &Model{
		ctx:    ctx,
		view:   FormView,
		engine: engine,
		opts:   opts,
		inputs: inputs,
		spin:   spin,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

func newFormInputs(opts Options) []textinput.Model {
	path := textinput.New()
	path.Placeholder = "input.xlsx"
	path.Width = 48
	path.SetValue(opts.Input)

	column := textinput.New()
	column.Placeholder = "ISRC (blank scans for a known header)"
	column.Width = 48
	column.SetValue(opts.Column)

	output := textinput.New()
	output.Placeholder = "defaults to {input}_results.xlsx"
	output.Width = 48
	output.SetValue(opts.Output)

	return []textinput.Model{path, column, output}
}

// Init starts the cursor blink for the prompt form.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Err reports the fatal error from the last run, if any, so the CLI
// layer can exit non-zero after the session ends.
func (m *Model) Err() error {
	return m.err
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.rowList.Width() == 0 {
			m.rowList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case FormView:
			return m.handleFormKeys(msg)
		case PreviewView:
			return m.handlePreviewKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case MatchView:
			return m.handleMatchKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case spinner.TickMsg:
		if m.view == MatchView {
			var cmd tea.Cmd
			m.spin, cmd = m.spin.Update(msg)
			return m, cmd
		}
		return m, nil

	case inputLoadedMsg:
		if msg.err != nil {
			m.formErr = msg.err.Error()
			return m, nil
		}
		m.rows = msg.rows
		m.headers = msg.headers
		items := make([]list.Item, len(msg.rows))
		for i, row := range msg.rows {
			items[i] = rowItem{row: row}
		}
		m.rowList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.rowList.Title = fmt.Sprintf("ISRCs in '%s'", filepath.Base(m.opts.Input))
		m.rowList.SetSize(m.width-4, m.height-8)
		m.view = PreviewView
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case matchCompleteMsg:
		m.report = msg.report
		m.reportPath = msg.path
		m.err = msg.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m.updateComponents(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case FormView:
		return m.renderForm()
	case PreviewView:
		return m.renderPreview()
	case ConfirmView:
		return m.renderConfirm()
	case MatchView:
		return m.renderMatch()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		return m, tea.Quit
	case "enter":
		if m.focused < len(m.inputs)-1 {
			return m.focusInput(m.focused + 1)
		}
		return m.submitForm()
	case "tab", "down":
		return m.focusInput((m.focused + 1) % len(m.inputs))
	case "shift+tab", "up":
		return m.focusInput((m.focused + len(m.inputs) - 1) % len(m.inputs))
	}

	var cmd tea.Cmd
	m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	return m, cmd
}

func (m *Model) handlePreviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = FormView
		return m, nil
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.rowList, cmd = m.rowList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n":
		m.view = PreviewView
		return m, nil
	case "y":
		m.view = MatchView
		return m, tea.Batch(m.startMatch(), m.spin.Tick)
	}
	return m, nil
}

func (m *Model) handleMatchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = FormView
		m.report = nil
		m.reportPath = ""
		m.err = nil
		m.progress = tasks.ProgressUpdate{}
		m.outcome = matchOutcome{}
		return m.focusInput(fieldInput)
	}
	return m, nil
}

func (m *Model) focusInput(i int) (tea.Model, tea.Cmd) {
	m.inputs[m.focused].Blur()
	m.focused = i
	return m, m.inputs[i].Focus()
}

func (m *Model) submitForm() (tea.Model, tea.Cmd) {
	m.opts.Input = strings.TrimSpace(m.inputs[fieldInput].Value())
	m.opts.Column = strings.TrimSpace(m.inputs[fieldColumn].Value())
	m.opts.Output = strings.TrimSpace(m.inputs[fieldOutput].Value())

	if m.opts.Input == "" {
		m.formErr = "input path is required"
		return m.focusInput(fieldInput)
	}

	if m.opts.Output == "" {
		m.opts.Output = formatter.DefaultExportPath(m.opts.Input, m.opts.Format)
	} else {
		m.opts.Format = formatter.FormatForPath(m.opts.Output, m.opts.Format)
	}

	m.formErr = ""
	return m, m.loadInput()
}

func (m *Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case FormView:
		m.inputs[m.focused], cmd = m.inputs[m.focused].Update(msg)
	case PreviewView:
		m.rowList, cmd = m.rowList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadInput() tea.Cmd {
	return func() tea.Msg {
		table, err := workbook.Read(m.opts.Input, m.opts.Sheet)
		if err != nil {
			return inputLoadedMsg{err: err}
		}

		rows, headers, err := table.ExtractRows(m.opts.Column)
		return inputLoadedMsg{rows: rows, headers: headers, err: err}
	}
}

func (m *Model) startMatch() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		report, err := m.engine.Run(m.ctx, m.progressChan, m.rows, m.headers, filepath.Base(m.opts.Input))
		if err == nil {
			select {
			case m.progressChan <- tasks.WriteReportUpdate(m.opts.Output):
			default:
			}
			m.outcome.path, err = formatter.WriteExport(report, m.opts.Output, m.opts.Format)
		}
		m.outcome.report = report
		m.outcome.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return matchCompleteMsg{report: m.outcome.report, path: m.outcome.path, err: m.outcome.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return matchCompleteMsg{report: m.outcome.report, path: m.outcome.path, err: m.outcome.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderForm() string {
	title := styles.title.Render("Match ISRCs against Spotify")

	labels := []string{"Input file", "Identifier column", "Report path"}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")
	for i, input := range m.inputs {
		b.WriteString(styles.help.Render(labels[i]))
		b.WriteString("\n")
		b.WriteString(input.View())
		b.WriteString("\n\n")
	}

	if m.formErr != "" {
		b.WriteString(styles.warn.Render(m.formErr))
		b.WriteString("\n\n")
	}

	continueKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "continue"))
	quitKey := key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "quit"))
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.next, continueKey, quitKey})

	return fmt.Sprintf("%s%s", b.String(), helpView)
}

func (m *Model) renderPreview() string {
	confirmKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "match"))
	helpKeys := []key.Binding{confirmKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.rowList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Match %d ISRCs against Spotify?", len(m.rows)))
	info := fmt.Sprintf("\nSource: %s\nIdentifiers: %d\nReport: %s\n", m.opts.Input, len(m.rows), m.opts.Output)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderMatch() string {
	title := styles.title.Render("Matching Tracks")

	var phase string
	switch m.progress.Phase {
	case tasks.MatchTracks:
		if m.progress.Total > 0 {
			phase = fmt.Sprintf("Matching ISRCs (%d/%d)", m.progress.Step, m.progress.Total)
		} else {
			phase = "Matching ISRCs..."
		}
	case tasks.WriteReport:
		phase = "Writing report..."
	default:
		phase = "Starting..."
	}

	return fmt.Sprintf("%s\n\n%s %s\n%s", title, m.spin.View(), phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Match failed: %v\n\nPress r to retry, q to quit", m.err))
	}

	if m.report == nil {
		return styles.err.Render("No report available\n\nPress r to retry, q to quit")
	}

	summary := m.report.Summary
	title := styles.ok.Render("✓ Match Complete!")
	info := fmt.Sprintf(
		"\nSource: %s (%d ISRCs)\nMatched: %d/%d (%.1f%%)\nReport: %s",
		m.report.Meta.Source,
		summary.Total,
		summary.Successful,
		summary.Total,
		summary.SuccessRate,
		m.reportPath,
	)

	var failed string
	if summary.Failed > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Failed to match %d ISRCs:", summary.Failed)))
		for _, result := range m.report.Results {
			if result.Status != models.StatusSuccess {
				failed += fmt.Sprintf("\n  • %s: %s", result.ISRC, result.ErrorMessage)
			}
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
