package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/isrcx/internal/models"
	"github.com/desertthunder/isrcx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Lookup resolves a single ISRC and prints the matched track.
func (r *Runner) Lookup(ctx context.Context, cmd *cli.Command) error {
	raw := cmd.StringArg("isrc")
	if raw == "" {
		return fmt.Errorf("%w: isrc", shared.ErrMissingArgument)
	}

	conf, err := r.resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := conf.ValidateCredentials(); err != nil {
		return err
	}

	isrc, err := models.NormalizeISRC(raw)
	if err != nil {
		return err
	}

	matcher := r.matcherFor(conf)
	r.logger.Info("looking up track", "isrc", isrc, "provider", matcher.Name())

	track, err := matcher.Match(ctx, isrc)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(track, cmd.Bool("pretty"))
	}

	r.writePlain("%s\n", track.Name)
	r.writePlain("Artist: %s\n", track.Artist)
	r.writePlain("Album:  %s (%s)\n", track.Album, track.Year())
	r.writePlain("ISRC:   %s\n", track.ISRC)
	return nil
}
