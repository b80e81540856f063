// Package tasks runs keyed background work whose results come back to the
// runtime as actions.
//
// At most one task is registered per key. Spawning on a busy key cancels the
// previous task, and a cancelled or replaced task never delivers its action:
// the delivery check and the send happen under the same lock that replace and
// cancel take.
package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/odvcencio/dispatch/pkg/dispatch"
	"github.com/odvcencio/dispatch/pkg/telemetry"
)

// Work is a unit of asynchronous work. It should return promptly once ctx is
// done; whatever it returns after cancellation is discarded.
type Work[A any] func(ctx context.Context) A

const (
	modeSpawn    = "spawn"
	modeDebounce = "debounce"
)

type handle struct {
	id     ulid.ULID
	mode   string
	cancel context.CancelFunc
}

// Option configures a Manager.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger sets the logger used for task lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Manager owns the keyed task registry.
type Manager[A any] struct {
	mu     sync.Mutex
	sender dispatch.Sender[A]
	tasks  map[string]*handle
	closed bool
	logger *slog.Logger
	wg     sync.WaitGroup
}

// NewManager creates a manager that delivers results to sender.
func NewManager[A any](sender dispatch.Sender[A], opts ...Option) *Manager[A] {
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager[A]{
		sender: sender,
		tasks:  make(map[string]*handle),
		logger: o.logger,
	}
}

// Spawn starts work under key, cancelling any task already registered there.
func (m *Manager[A]) Spawn(key string, work Work[A]) {
	m.start(key, 0, modeSpawn, work)
}

// Debounce starts work under key after delay. Calling Debounce again with the
// same key before the delay elapses discards the earlier call, so only the
// last call in a burst runs.
func (m *Manager[A]) Debounce(key string, delay time.Duration, work Work[A]) {
	m.start(key, delay, modeDebounce, work)
}

func (m *Manager[A]) start(key string, delay time.Duration, mode string, work Work[A]) {
	ctx, cancel := context.WithCancel(context.Background())
	h := &handle{id: ulid.Make(), mode: mode, cancel: cancel}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		cancel()
		m.logger.Debug("task rejected, manager closed", slog.String("key", key))
		return
	}
	if prev, ok := m.tasks[key]; ok {
		prev.cancel()
		telemetry.TasksCancelled.Inc()
		telemetry.TasksRunning.Dec()
		m.logger.Debug("task replaced",
			slog.String("key", key),
			slog.String("task_id", prev.id.String()),
			slog.String("replaced_by", h.id.String()))
	}
	m.tasks[key] = h
	m.wg.Add(1)
	m.mu.Unlock()

	telemetry.TasksSpawned.WithLabelValues(mode).Inc()
	telemetry.TasksRunning.Inc()
	m.logger.Debug("task started",
		slog.String("key", key),
		slog.String("task_id", h.id.String()),
		slog.String("mode", mode),
		slog.Duration("delay", delay))

	go m.run(ctx, key, h, delay, work)
}

func (m *Manager[A]) run(ctx context.Context, key string, h *handle, delay time.Duration, work Work[A]) {
	defer m.wg.Done()
	defer h.cancel()

	if delay > 0 {
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}

	action, err := invoke(ctx, work)
	if err != nil {
		telemetry.TasksPanicked.Inc()
		m.logger.Error("task panicked",
			slog.String("key", key),
			slog.String("task_id", h.id.String()),
			slog.String("error", err.Error()))
		m.release(key, h)
		return
	}
	m.deliver(key, h, action)
}

func invoke[A any](ctx context.Context, work Work[A]) (action A, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return work(ctx), nil
}

// deliver sends the result only while h is still the task registered for key.
func (m *Manager[A]) deliver(key string, h *handle, action A) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.tasks[key] != h {
		m.logger.Debug("task result discarded",
			slog.String("key", key),
			slog.String("task_id", h.id.String()))
		return
	}
	delete(m.tasks, key)
	telemetry.TasksRunning.Dec()

	if !m.sender.Send(action) {
		m.logger.Debug("task result dropped, queue closed",
			slog.String("key", key),
			slog.String("task_id", h.id.String()))
		return
	}
	telemetry.TasksCompleted.Inc()
}

func (m *Manager[A]) release(key string, h *handle) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tasks[key] == h {
		delete(m.tasks, key)
		telemetry.TasksRunning.Dec()
	}
}

// Cancel cancels the task registered under key. Unknown keys are ignored.
func (m *Manager[A]) Cancel(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelLocked(key)
}

func (m *Manager[A]) cancelLocked(key string) {
	h, ok := m.tasks[key]
	if !ok {
		return
	}
	h.cancel()
	delete(m.tasks, key)
	telemetry.TasksCancelled.Inc()
	telemetry.TasksRunning.Dec()
	m.logger.Debug("task cancelled",
		slog.String("key", key),
		slog.String("task_id", h.id.String()))
}

// CancelAll cancels every registered task.
func (m *Manager[A]) CancelAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key := range m.tasks {
		m.cancelLocked(key)
	}
}

// Close cancels every task and rejects later spawns.
func (m *Manager[A]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	for key := range m.tasks {
		m.cancelLocked(key)
	}
}

// Wait blocks until every task goroutine has returned. Work that ignores
// its context can hold Wait indefinitely.
func (m *Manager[A]) Wait() {
	m.wg.Wait()
}

// IsRunning reports whether a task is registered under key.
func (m *Manager[A]) IsRunning(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.tasks[key]
	return ok
}

// Len returns the number of registered tasks.
func (m *Manager[A]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Keys returns the registered keys in sorted order.
func (m *Manager[A]) Keys() []string {
	m.mu.Lock()
	keys := make([]string, 0, len(m.tasks))
	for key := range m.tasks {
		keys = append(keys, key)
	}
	m.mu.Unlock()
	sort.Strings(keys)
	return keys
}
