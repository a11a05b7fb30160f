package main

import (
	"context"
	"fmt"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/go-drift/margins/pkg/errors"
)

// env carries process-wide state between the cli hooks and actions.
type env struct {
	log     *zap.Logger
	started time.Time
}

type envKey struct{}

func contextWithEnv(ctx context.Context) context.Context {
	return context.WithValue(ctx, envKey{}, &env{started: time.Now()})
}

func envFromContext(ctx context.Context) *env {
	if e, ok := ctx.Value(envKey{}).(*env); ok {
		return e
	}
	return &env{started: time.Now()}
}

// newLogger builds the console logger. Without --debug only warnings and
// errors reach stderr.
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = !debug
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	return cfg.Build()
}

// initializeAppContext prepares logging after the command line has been
// parsed.
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	e := envFromContext(ctx)
	log, err := newLogger(cmd.Bool("debug"))
	if err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	e.log = log
	errors.SetHandler(errors.NewLogHandler(log.Named("errors"), cmd.Bool("debug")))
	e.log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", Version))
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) error {
	e := envFromContext(ctx)
	if e.log == nil {
		return nil
	}
	e.log.Debug("Program ended", zap.Duration("elapsed", time.Since(e.started)), zap.Strings("parsed args", cmd.Args().Slice()))
	errors.SetHandler(nil)
	// Sync on a console stderr fails with EINVAL or ENOTTY on most platforms.
	_ = e.log.Sync()
	return nil
}
