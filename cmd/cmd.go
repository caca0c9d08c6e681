// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// matchCommand handles batch matching from a spreadsheet.
func matchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "match",
		Aliases: []string{"run"},
		Usage:   "Match ISRCs from a spreadsheet against the Spotify catalog",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "input",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "column",
				Usage: "Header of the identifier column (default: scan for a known ISRC header)",
			},
			&cli.StringFlag{
				Name:  "sheet",
				Usage: "Worksheet to read from .xlsx inputs (default: first sheet)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Report path (default: {input}_results.xlsx)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Report format: xlsx, csv, json, or txt",
			},
			&cli.StringSliceFlag{
				Name:  "export",
				Usage: "Additional report formats written beside the primary report",
			},
		},
		Action: r.Match,
	}
}

// lookupCommand handles single-identifier lookups.
func lookupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "lookup",
		Usage: "Look up a single ISRC on Spotify",
		Arguments: []cli.Argument{
			&cli.StringArg{
				Name: "isrc",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Lookup,
	}
}

// setupCommand handles setup operations for configuration and sample data.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Create a configuration file from the embedded template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
					&cli.BoolFlag{
						Name:  "open",
						Usage: "Open the Spotify developer dashboard in a browser",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "sample",
				Usage: "Create a sample input workbook for trying the matcher",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Workbook path",
						Value:   "sample_isrcs.xlsx",
					},
				},
				Action: r.SetupSample,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive matching.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive matcher",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "input",
				Usage: "Prefill the input file prompt",
			},
			&cli.StringFlag{
				Name:  "column",
				Usage: "Prefill the identifier column prompt",
			},
			&cli.StringFlag{
				Name:  "sheet",
				Usage: "Worksheet to read from .xlsx inputs",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Prefill the report path prompt",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Report format: xlsx, csv, json, or txt",
			},
		},
		Action: r.TUI,
	}
}
