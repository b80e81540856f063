package event

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/odvcencio/dispatch/pkg/ui/backend"
	"github.com/odvcencio/dispatch/pkg/ui/terminal"
)

const (
	// DefaultPollInterval paces wake-ups to roughly one per frame.
	DefaultPollInterval = 16 * time.Millisecond
	// DefaultMaxEventsPerBatch bounds the events forwarded per wake-up.
	DefaultMaxEventsPerBatch = 20
)

// PollerConfig controls input polling.
type PollerConfig struct {
	Interval          time.Duration
	MaxEventsPerBatch int
}

// DefaultPollerConfig returns the standard polling configuration.
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		Interval:          DefaultPollInterval,
		MaxEventsPerBatch: DefaultMaxEventsPerBatch,
	}
}

func (c PollerConfig) withDefaults() PollerConfig {
	if c.Interval <= 0 {
		c.Interval = DefaultPollInterval
	}
	if c.MaxEventsPerBatch <= 0 {
		c.MaxEventsPerBatch = DefaultMaxEventsPerBatch
	}
	return c
}

// Poller moves raw events from a backend to a channel on its own goroutine.
type Poller struct {
	source  backend.EventSource
	cfg     PollerConfig
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewPoller creates a poller reading from source.
func NewPoller(source backend.EventSource, cfg PollerConfig, logger *slog.Logger) *Poller {
	cfg = cfg.withDefaults()
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Poller{
		source:  source,
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.Interval), 1),
		logger:  logger,
	}
}

// Run forwards events to out until ctx is done or the backend stops. Each
// wake-up forwards at most MaxEventsPerBatch pending events. On
// cancellation, input still buffered in the backend is read and discarded
// so it does not leak into the shell.
func (p *Poller) Run(ctx context.Context, out chan<- terminal.Event) error {
	for {
		if err := p.limiter.Wait(ctx); err != nil {
			p.drain()
			return nil
		}

		for n := 0; n < p.cfg.MaxEventsPerBatch && p.source.HasPendingEvent(); n++ {
			ev := p.source.PollEvent()
			if ev == nil {
				p.logger.Debug("event source closed")
				return nil
			}
			select {
			case out <- ev:
			case <-ctx.Done():
				p.drain()
				return nil
			}
		}
	}
}

func (p *Poller) drain() {
	discarded := 0
	for p.source.HasPendingEvent() {
		if p.source.PollEvent() == nil {
			break
		}
		discarded++
	}
	if discarded > 0 {
		p.logger.Debug("discarded buffered input", slog.Int("events", discarded))
	}
}
