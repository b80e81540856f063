// Package sources adapts external producers into action streams for
// subscriptions.Manager.StreamAsync. Every Connect function does its setup
// on the calling goroutine, then forwards values until the context is done
// or the producer ends, and always closes the returned channel.
package sources

import (
	"context"
	"log/slog"

	"github.com/odvcencio/dispatch/pkg/logging"
)

// Connect starts a stream bound to ctx.
type Connect[A any] func(ctx context.Context) <-chan A

// Decoder turns a payload into an action. Returning false drops the payload.
type Decoder[A any] func(data []byte) (A, bool)

// ErrorFunc turns a source failure into an action. A nil ErrorFunc drops
// failures after logging them.
type ErrorFunc[A any] func(err error) A

// Option configures a source.
type Option func(*options)

type options struct {
	logger *slog.Logger
	buffer int
}

// WithLogger sets the logger for source failures.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithBuffer sets the capacity of the intermediate channel.
func WithBuffer(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.buffer = n
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{logger: logging.Discard(), buffer: 16}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logging.For(o.logger, logging.CategorySources)
	return o
}

// failed returns a channel carrying only the error action, if any.
func failed[A any](err error, onError ErrorFunc[A], logger *slog.Logger) <-chan A {
	logger.Warn("source failed", "error", err)
	ch := make(chan A, 1)
	if onError != nil {
		ch <- onError(err)
	}
	close(ch)
	return ch
}

// report delivers the error action for a failure after setup.
func report[A any](ctx context.Context, out chan<- A, err error, onError ErrorFunc[A], logger *slog.Logger) {
	logger.Warn("source failed", "error", err)
	if onError != nil {
		send(ctx, out, onError(err))
	}
}

func send[A any](ctx context.Context, out chan<- A, a A) bool {
	select {
	case out <- a:
		return true
	case <-ctx.Done():
		return false
	}
}
