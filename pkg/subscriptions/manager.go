// Package subscriptions manages keyed, long-lived action producers: timers
// and streams.
//
// Like tasks, subscriptions are replaced by key and a cancelled or replaced
// subscription emits nothing further. Each emission is checked against the
// registry under the manager lock before it reaches the queue.
package subscriptions

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/odvcencio/dispatch/pkg/dispatch"
	"github.com/odvcencio/dispatch/pkg/telemetry"
)

const (
	kindInterval = "interval"
	kindStream   = "stream"
)

type handle struct {
	kind   string
	cancel context.CancelFunc
}

// Option configures a Manager.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for subscription lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Manager owns the keyed subscription registry.
type Manager[A any] struct {
	mu     sync.Mutex
	sender dispatch.Sender[A]
	subs   map[string]*handle
	closed bool
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewManager creates a manager that emits into sender.
func NewManager[A any](sender dispatch.Sender[A], opts ...Option) *Manager[A] {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager[A]{
		sender: sender,
		subs:   make(map[string]*handle),
		logger: o.logger,
	}
}

// Interval emits factory() every period. The first emission happens one
// period after registration.
func (m *Manager[A]) Interval(key string, period time.Duration, factory func() A) {
	m.interval(key, period, false, factory)
}

// IntervalImmediate emits factory() at registration and then every period.
func (m *Manager[A]) IntervalImmediate(key string, period time.Duration, factory func() A) {
	m.interval(key, period, true, factory)
}

func (m *Manager[A]) interval(key string, period time.Duration, immediate bool, factory func() A) {
	if period <= 0 {
		m.logger.Warn("interval ignored, period must be positive",
			slog.String("key", key), slog.Duration("period", period))
		return
	}
	m.start(key, kindInterval, func(ctx context.Context, emit func(A) bool) {
		if immediate && !emit(factory()) {
			return
		}
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !emit(factory()) {
					return
				}
			}
		}
	})
}

// Stream forwards every value received on ch, in order, until ch is closed
// or the subscription is cancelled.
func (m *Manager[A]) Stream(key string, ch <-chan A) {
	m.start(key, kindStream, func(ctx context.Context, emit func(A) bool) {
		forward(ctx, ch, emit)
	})
}

// StreamAsync defers stream construction to the subscription goroutine.
// connect receives the subscription context and should stop producing once
// it is done.
func (m *Manager[A]) StreamAsync(key string, connect func(ctx context.Context) <-chan A) {
	m.start(key, kindStream, func(ctx context.Context, emit func(A) bool) {
		ch := connect(ctx)
		if ch == nil {
			return
		}
		forward(ctx, ch, emit)
	})
}

func forward[A any](ctx context.Context, ch <-chan A, emit func(A) bool) {
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-ch:
			if !ok || !emit(v) {
				return
			}
		}
	}
}

func (m *Manager[A]) start(key, kind string, body func(ctx context.Context, emit func(A) bool)) {
	ctx, cancel := context.WithCancel(context.Background())
	h := &handle{kind: kind, cancel: cancel}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		cancel()
		m.logger.Debug("subscription rejected, manager closed", slog.String("key", key))
		return
	}
	if prev, ok := m.subs[key]; ok {
		prev.cancel()
		telemetry.SubscriptionsCancelled.Inc()
		telemetry.SubscriptionsActive.Dec()
		m.logger.Debug("subscription replaced", slog.String("key", key))
	}
	m.subs[key] = h
	m.wg.Add(1)
	m.mu.Unlock()

	telemetry.SubscriptionsActive.Inc()
	m.logger.Debug("subscription started", slog.String("key", key), slog.String("kind", kind))

	go func() {
		defer m.wg.Done()
		defer cancel()
		defer m.release(key, h)
		defer func() {
			if r := recover(); r != nil {
				m.logger.Error("subscription panicked",
					slog.String("key", key),
					slog.String("error", fmt.Sprint(r)))
			}
		}()

		body(ctx, func(action A) bool { return m.emit(key, h, action) })
	}()
}

// emit forwards action while h is still registered under key. It reports
// false when the subscription should stop.
func (m *Manager[A]) emit(key string, h *handle, action A) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.subs[key] != h {
		return false
	}
	if !m.sender.Send(action) {
		m.logger.Debug("subscription emission dropped, queue closed", slog.String("key", key))
		return false
	}
	telemetry.SubscriptionEmissions.WithLabelValues(h.kind).Inc()
	return true
}

func (m *Manager[A]) release(key string, h *handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.subs[key] == h {
		delete(m.subs, key)
		telemetry.SubscriptionsActive.Dec()
		m.logger.Debug("subscription ended", slog.String("key", key))
	}
}

// Cancel stops the subscription registered under key.
func (m *Manager[A]) Cancel(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked(key)
}

func (m *Manager[A]) cancelLocked(key string) {
	h, ok := m.subs[key]
	if !ok {
		return
	}
	h.cancel()
	delete(m.subs, key)
	telemetry.SubscriptionsCancelled.Inc()
	telemetry.SubscriptionsActive.Dec()
	m.logger.Debug("subscription cancelled", slog.String("key", key))
}

// CancelAll stops every subscription.
func (m *Manager[A]) CancelAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.subs {
		m.cancelLocked(key)
	}
}

// Close stops every subscription and rejects later registrations.
func (m *Manager[A]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for key := range m.subs {
		m.cancelLocked(key)
	}
}

// Wait blocks until every subscription goroutine has returned.
func (m *Manager[A]) Wait() {
	m.wg.Wait()
}

// IsActive reports whether a subscription is registered under key.
func (m *Manager[A]) IsActive(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.subs[key]
	return ok
}

// Len returns the number of registered subscriptions.
func (m *Manager[A]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subs)
}

// Keys returns the registered keys in sorted order.
func (m *Manager[A]) Keys() []string {
	m.mu.Lock()
	keys := make([]string, 0, len(m.subs))
	for key := range m.subs {
		keys = append(keys, key)
	}
	m.mu.Unlock()
	sort.Strings(keys)
	return keys
}
