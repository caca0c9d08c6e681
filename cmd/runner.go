package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/isrcx/internal/formatter"
	"github.com/desertthunder/isrcx/internal/services"
	"github.com/desertthunder/isrcx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	matcher    services.Matcher
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Matcher    services.Matcher
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		matcher:    opts.Matcher,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

// SetLogger replaces the runner's logger. The TUI swaps in a file
// logger before taking over the terminal.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		matchCommand, lookupCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// resolveConfig returns the startup config, reloading only when the
// command names a different file than the one loaded at startup.
func (r *Runner) resolveConfig(cmd *cli.Command) (*shared.Config, error) {
	path := cmd.String("config")
	if path == "" || path == r.configPath {
		return r.config, nil
	}

	return shared.ResolveConfig(path)
}

// resolveFormat picks the report format. An explicit --format wins,
// then the --output extension, then the configured default.
func (r *Runner) resolveFormat(cmd *cli.Command, conf *shared.Config) (formatter.Format, error) {
	format := formatter.FormatXLSX
	if conf.Output.Format != "" {
		parsed, err := formatter.ParseFormat(conf.Output.Format)
		if err != nil {
			return "", fmt.Errorf("config [output] format: %w", err)
		}

		format = parsed
	}

	if name := cmd.String("format"); name != "" {
		return formatter.ParseFormat(name)
	}

	if out := cmd.String("output"); out != "" {
		format = formatter.FormatForPath(out, format)
	}

	return format, nil
}

// matcherFor returns the injected matcher when present, otherwise a
// Spotify service on a client carrying the configured timeout and the
// runner's transport.
func (r *Runner) matcherFor(conf *shared.Config) services.Matcher {
	if r.matcher != nil {
		return r.matcher
	}

	client := &http.Client{
		Timeout:   conf.Lookup.Timeout(),
		Transport: r.httpClient.Transport,
	}

	return services.NewSpotifyService(conf, client)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
