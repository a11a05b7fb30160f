// Command marginsim replays margin scenarios against the animation engine
// on a simulated frame clock and prints the committed frames.
//
// Usage:
//
//	marginsim run --scenario toolbar.yaml
//	marginsim run -s toolbar.yaml --json
//	marginsim run -s toolbar.yaml --png timeline.png
//	marginsim version
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// errWasHandled is set once the error has been written to the log, so main
// does not print it a second time.
var errWasHandled bool

func newApp() *cli.Command {
	return &cli.Command{
		Name:            "marginsim",
		Usage:           "replays edge margin scenarios on a simulated frame clock",
		Version:         Version + " (" + runtime.Version() + ")",
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "log every step and animation transition"},
		},
		Commands: []*cli.Command{
			{
				Name:         "run",
				Usage:        "Replays a scenario and prints the committed frames",
				OnUsageError: usageErrorHandler,
				Action:       runScenario,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "scenario", Aliases: []string{"s"}, Required: true, Usage: "load scenario from `FILE` (YAML)"},
					&cli.StringFlag{Name: "png", Usage: "render the margin timeline to `FILE`"},
					&cli.BoolFlag{Name: "json", Usage: "print the result as JSON instead of a table"},
				},
			},
			{
				Name:   "version",
				Usage:  "Prints version information",
				Action: printVersion,
			},
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(contextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	var err error
	// os.Exit skips deferred calls, so this must stay the only deferred function.
	defer func() {
		stop()
		if err != nil {
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "marginsim: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = newApp().Run(ctx, os.Args)
}

func printVersion(_ context.Context, cmd *cli.Command) error {
	_, err := fmt.Fprintf(cmd.Root().Writer, "marginsim version %s (built %s, %s)\n", Version, BuildTime, runtime.Version())
	return err
}

func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	if log := envFromContext(ctx).log; log != nil {
		log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	return err
}
