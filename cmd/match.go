package main

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/desertthunder/isrcx/internal/formatter"
	"github.com/desertthunder/isrcx/internal/models"
	"github.com/desertthunder/isrcx/internal/shared"
	"github.com/desertthunder/isrcx/internal/tasks"
	"github.com/desertthunder/isrcx/internal/ui"
	"github.com/desertthunder/isrcx/internal/workbook"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/urfave/cli/v3"
)

// Match reads ISRCs from the input document, resolves each against the
// catalog, and writes the report.
func (r *Runner) Match(ctx context.Context, cmd *cli.Command) error {
	input := cmd.StringArg("input")
	if input == "" {
		return fmt.Errorf("%w: input file path", shared.ErrMissingArgument)
	}

	conf, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := conf.ValidateCredentials(); err != nil {
		return err
	}

	format, err := r.resolveFormat(cmd, conf)
	if err != nil {
		return err
	}

	output := cmd.String("output")
	if output == "" {
		output = formatter.DefaultExportPath(input, format)
	}

	r.logger.Info("reading input", "path", input)

	doc, err := workbook.Read(input, cmd.String("sheet"))
	if err != nil {
		return err
	}

	rows, passthrough, err := doc.ExtractRows(cmd.String("column"))
	if err != nil {
		return err
	}
	r.logger.Info("parsed identifiers", "count", len(rows), "sheet", doc.Sheet)

	matcher := r.matcherFor(conf)
	engine := tasks.NewMatchEngine(matcher, conf.Lookup.Delay())

	r.writePlain("Matching ISRCs against %s...\n", matcher.Name())
	r.writePlain("Source: %s\n", input)
	r.writePlain("Report: %s\n\n", output)

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.MatchTracks:
				if update.Step == 0 {
					r.writePlain("🔍 %s\n", update.Message)
				} else if update.Data != nil {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.WriteReport:
				r.writePlain("\n📝 %s\n", update.Message)
			}
		}
	}()

	// Run the engine operation
	report, err := engine.Run(ctx, progressCh, rows, passthrough, filepath.Base(input))
	if err == nil {
		progressCh <- tasks.WriteReportUpdate(output)
	}
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	path, err := formatter.WriteExport(report, output, format)
	if err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	r.logger.Info("report written", "path", path, "format", format)

	for _, name := range cmd.StringSlice("export") {
		extra, err := formatter.ParseFormat(name)
		if err != nil {
			return err
		}
		if extra == format {
			continue
		}

		extraPath := strings.TrimSuffix(path, filepath.Ext(path)) + "." + extra.Ext()
		if _, err := formatter.WriteExport(report, extraPath, extra); err != nil {
			return fmt.Errorf("failed to write %s export: %w", extra, err)
		}
		r.logger.Info("export written", "path", extraPath, "format", extra)
	}

	return r.printSummary(report, path)
}

// printSummary renders the run summary table and the failed rows.
func (r *Runner) printSummary(report *models.Report, path string) error {
	summary := report.Summary

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"Metric", "Value"})
	tw.AppendRows([]table.Row{
		{"Run ID", report.Meta.RunID},
		{"Provider", report.Meta.Provider},
		{"Source", report.Meta.Source},
		{"Elapsed", report.Meta.Elapsed().String()},
		{"Total ISRCs", summary.Total},
		{"Matched", summary.Successful},
		{"Failed", summary.Failed},
		{"Success rate", fmt.Sprintf("%.1f%%", summary.SuccessRate)},
	})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 2, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})

	if err := r.writePlain("\n%s\n", tw.Render()); err != nil {
		return err
	}

	if summary.Failed > 0 {
		r.writePlain("\nFailed to match %d ISRCs:\n", summary.Failed)
		for _, result := range report.Results {
			if result.Status != models.StatusSuccess {
				r.writePlain("  - %s: %s\n", result.ISRC, result.ErrorMessage)
			}
		}
	}

	return r.writePlainln("%s", ui.NewBold("#1DB954").Render(fmt.Sprintf("✓ Report written to %s", path)))
}
