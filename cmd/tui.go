package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/isrcx/internal/shared"
	"github.com/desertthunder/isrcx/internal/tasks"
	"github.com/desertthunder/isrcx/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for batch matching.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	conf, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := conf.ValidateCredentials(); err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/isrcx-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(shared.WithLogger(fileLogger, "mode", "tui"))

	format, err := r.resolveFormat(cmd, conf)
	if err != nil {
		return err
	}

	matcher := r.matcherFor(conf)
	engine := tasks.NewMatchEngine(matcher, conf.Lookup.Delay())

	model := ui.NewModel(ctx, engine, ui.Options{
		Input:  cmd.String("input"),
		Column: cmd.String("column"),
		Sheet:  cmd.String("sheet"),
		Output: cmd.String("output"),
		Format: format,
	})
	p := tea.NewProgram(model)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	if m, ok := final.(*ui.Model); ok && m.Err() != nil {
		return m.Err()
	}

	return nil
}
