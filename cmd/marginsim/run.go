package main

import (
	"context"
	"fmt"
	"os"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/go-drift/margins/cmd/marginsim/internal/scenario"
	"github.com/go-drift/margins/cmd/marginsim/internal/sim"
)

func runScenario(ctx context.Context, cmd *cli.Command) error {
	log := envFromContext(ctx).log
	if log == nil {
		log = zap.NewNop()
	}
	if cmd.Args().Len() > 0 {
		log.Warn("Malformed command line, unexpected arguments", zap.Strings("ignoring", cmd.Args().Slice()))
	}

	path := cmd.String("scenario")
	s, err := scenario.Load(path)
	if err != nil {
		return err
	}
	log.Debug("Scenario loaded", zap.String("file", path), zap.String("name", s.Name),
		zap.String("version", s.Version), zap.Int("steps", len(s.Steps)))

	res, err := sim.Run(s, log.Named("sim"))
	if err != nil {
		return fmt.Errorf("scenario '%s': %w", path, err)
	}

	out := cmd.Root().Writer
	if cmd.Bool("json") {
		err = sim.WriteJSON(out, res)
	} else {
		err = sim.WriteText(out, res)
	}
	if err != nil {
		return fmt.Errorf("unable to write result: %w", err)
	}

	if fname := cmd.String("png"); fname != "" {
		f, err := os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create timeline file '%s': %w", fname, err)
		}
		if err := multierr.Append(sim.WritePNG(f, res), f.Close()); err != nil {
			return fmt.Errorf("unable to write timeline '%s': %w", fname, err)
		}
		log.Debug("Timeline written", zap.String("file", fname))
	}
	return nil
}
