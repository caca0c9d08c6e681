package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/isrcx/internal/shared"
	"github.com/desertthunder/isrcx/internal/workbook"
	"github.com/urfave/cli/v3"
)

const dashboardURL = "https://developer.spotify.com/dashboard"

// SetupConfig writes a starter configuration file from the embedded template.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("config")

	if err := shared.CreateConfigFile(path); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}

	r.logger.Info("config file created", "path", path)

	r.writePlain("✓ Configuration template written to %s\n", path)
	r.writePlainln("Next steps:")
	r.writePlain("1. Fill in credentials.spotify.client_id and client_secret from %s\n", dashboardURL)
	r.writePlain("2. Run 'isrcx setup sample' to generate a workbook to try\n")
	r.writePlain("3. Run 'isrcx match sample_isrcs.xlsx' to match it\n")

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(dashboardURL); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	return nil
}

// SetupSample writes a small example workbook for trying the matcher.
func (r *Runner) SetupSample(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")

	if err := workbook.CreateSample(path); err != nil {
		return fmt.Errorf("failed to create sample workbook: %w", err)
	}

	r.logger.Info("sample workbook created", "path", path)

	r.writePlain("✓ Sample workbook written to %s\n", path)
	r.writePlain("Run 'isrcx match %s' to match it\n", path)

	return nil
}
