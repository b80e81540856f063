package runtime

import (
	"log/slog"
	"time"

	"github.com/odvcencio/dispatch/pkg/event"
)

const (
	// DefaultMaxActionsPerCycle bounds how many queued actions are
	// dispatched between two draws.
	DefaultMaxActionsPerCycle = 64
	// DefaultInputBuffer is the capacity of the poller-to-loop channel.
	DefaultInputBuffer = 64
	// DefaultShutdownGrace is how long shutdown waits for the poller before
	// finalizing the backend under it.
	DefaultShutdownGrace = 100 * time.Millisecond
)

// Options configures a runtime.
type Options struct {
	Logger             *slog.Logger
	Poller             event.PollerConfig
	MaxActionsPerCycle int
	InputBuffer        int
	ShutdownGrace      time.Duration
	// TickRate, when positive, feeds event.Tick to the mapper at that rate.
	TickRate time.Duration
}

// Option mutates Options.
type Option func(*Options)

func defaultOptions() Options {
	return Options{
		Logger:             slog.New(slog.DiscardHandler),
		Poller:             event.DefaultPollerConfig(),
		MaxActionsPerCycle: DefaultMaxActionsPerCycle,
		InputBuffer:        DefaultInputBuffer,
		ShutdownGrace:      DefaultShutdownGrace,
	}
}

func buildOptions(opts []Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.MaxActionsPerCycle <= 0 {
		o.MaxActionsPerCycle = DefaultMaxActionsPerCycle
	}
	if o.InputBuffer <= 0 {
		o.InputBuffer = DefaultInputBuffer
	}
	if o.ShutdownGrace <= 0 {
		o.ShutdownGrace = DefaultShutdownGrace
	}
	return o
}

// WithLogger sets the runtime logger. Task and subscription managers share it.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Options) { o.Logger = logger }
}

// WithPollerConfig sets input polling parameters.
func WithPollerConfig(cfg event.PollerConfig) Option {
	return func(o *Options) { o.Poller = cfg }
}

// WithMaxActionsPerCycle bounds actions dispatched between draws.
func WithMaxActionsPerCycle(n int) Option {
	return func(o *Options) { o.MaxActionsPerCycle = n }
}

// WithInputBuffer sets the input channel capacity.
func WithInputBuffer(n int) Option {
	return func(o *Options) { o.InputBuffer = n }
}

// WithTickRate feeds event.Tick to the mapper every d.
func WithTickRate(d time.Duration) Option {
	return func(o *Options) { o.TickRate = d }
}
