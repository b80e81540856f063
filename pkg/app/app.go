// Package app wires the ambient stack shared by the example commands:
// configuration, the log file, feature flags, metrics, tracing and the
// terminal backend.
package app

import (
	"context"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/odvcencio/dispatch/pkg/config"
	"github.com/odvcencio/dispatch/pkg/dispatch"
	"github.com/odvcencio/dispatch/pkg/errors"
	"github.com/odvcencio/dispatch/pkg/event"
	"github.com/odvcencio/dispatch/pkg/features"
	"github.com/odvcencio/dispatch/pkg/logging"
	"github.com/odvcencio/dispatch/pkg/runtime"
	"github.com/odvcencio/dispatch/pkg/telemetry"
	"github.com/odvcencio/dispatch/pkg/ui/backend"
	tcellbackend "github.com/odvcencio/dispatch/pkg/ui/backend/tcell"
)

// Env is the process-wide setup for one application run.
type Env struct {
	Config *config.Config
	Logger *logging.Logger
	Flags  *features.Flags

	tracing   *telemetry.TracerProvider
	traceFile *os.File
}

// Bootstrap loads configuration from configPath, or from the default
// locations when it is empty, and opens the log and trace sinks.
func Bootstrap(configPath string) (*Env, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFromPath(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	return NewEnv(cfg)
}

// NewEnv opens the sinks described by cfg.
func NewEnv(cfg *config.Config) (*Env, error) {
	logger, err := logging.Open(cfg.Logging.Path, cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	env := &Env{
		Config: cfg,
		Logger: logger,
		Flags:  features.FromMap(cfg.Features),
	}

	if path := cfg.Telemetry.TracePath; path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			logger.Close()
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "opening trace file").WithContext("path", path)
		}
		tp, err := telemetry.NewTracerProvider(cfg.Telemetry.ServiceName, f)
		if err != nil {
			f.Close()
			logger.Close()
			return nil, errors.Wrap(err, errors.ErrCodeInternal, "starting tracer")
		}
		env.tracing = tp
		env.traceFile = f
	}

	logger.Info("environment ready",
		slog.String("log_level", cfg.Logging.Level),
		slog.Bool("tracing", env.tracing != nil),
		slog.String("metrics_addr", cfg.Telemetry.MetricsAddr),
		slog.Any("features", env.Flags.Names()),
	)
	return env, nil
}

// RuntimeOptions translates the runtime section of the configuration.
func (e *Env) RuntimeOptions() []runtime.Option {
	rc := e.Config.Runtime
	opts := []runtime.Option{
		runtime.WithLogger(logging.For(e.Logger.Logger, logging.CategoryRuntime)),
		runtime.WithPollerConfig(event.PollerConfig{
			Interval:          rc.PollInterval,
			MaxEventsPerBatch: rc.MaxEventsPerBatch,
		}),
		runtime.WithMaxActionsPerCycle(rc.MaxActionsPerCycle),
	}
	if rc.TickRate > 0 {
		opts = append(opts, runtime.WithTickRate(rc.TickRate))
	}
	return opts
}

// Middleware returns the store middleware for env: metrics always, tracing
// when a trace file is configured and the action logger when enabled.
func Middleware[A dispatch.Action](e *Env) []dispatch.Middleware[A] {
	mw := []dispatch.Middleware[A]{telemetry.NewMetricsMiddleware[A]()}
	if e.tracing != nil {
		mw = append(mw, telemetry.NewTracingMiddleware[A](telemetry.Tracer()))
	}
	if actions := e.Config.Logging.Actions; actions.Enabled {
		filter := dispatch.ParseLogFilter(actions.Include, actions.Exclude)
		mw = append(mw, dispatch.NewActionLogger[A](logging.For(e.Logger.Logger, logging.CategoryStore), filter))
	}
	return mw
}

// Run calls fn alongside the metrics endpoint, if one is configured. The
// endpoint stops when fn returns.
func (e *Env) Run(ctx context.Context, fn func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	runCtx, stop := context.WithCancel(gctx)
	defer stop()

	if addr := e.Config.Telemetry.MetricsAddr; addr != "" {
		g.Go(func() error {
			return telemetry.Serve(runCtx, addr, logging.For(e.Logger.Logger, logging.CategoryTelemetry))
		})
	}
	g.Go(func() error {
		defer stop()
		return fn(runCtx)
	})
	return g.Wait()
}

// Close flushes traces and closes the sinks.
func (e *Env) Close() error {
	var first error
	if e.tracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		first = e.tracing.Shutdown(ctx)
		cancel()
	}
	if e.traceFile != nil {
		if err := e.traceFile.Close(); err != nil && first == nil {
			first = err
		}
	}
	if err := e.Logger.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// RequireTerminal fails unless stdin and stdout are both terminals.
func RequireTerminal() error {
	if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		return nil
	}
	return errors.New(errors.ErrCodeBackendInit, "not running in a terminal").
		WithRemediation("run the command directly in an interactive terminal", "do not pipe its input or output")
}

// Terminal returns a tcell backend for the controlling terminal.
func Terminal() (backend.Backend, error) {
	if err := RequireTerminal(); err != nil {
		return nil, err
	}
	b, err := tcellbackend.New()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeBackendInit, "creating terminal screen")
	}
	return b, nil
}
