// Package runtime runs the event/action/render loop around a store.
//
// One goroutine owns the loop: it draws when a render is pending, then
// waits for either terminal input or queued actions. Input goes through the
// event mapper into the action queue; actions are checked against the quit
// predicate and dispatched. Only an explicit render request or a dispatch
// that reports a change schedules the next draw.
package runtime

import (
	"context"
	stderrors "errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/odvcencio/dispatch/pkg/dispatch"
	"github.com/odvcencio/dispatch/pkg/errors"
	"github.com/odvcencio/dispatch/pkg/event"
	"github.com/odvcencio/dispatch/pkg/telemetry"
	"github.com/odvcencio/dispatch/pkg/ui/backend"
	"github.com/odvcencio/dispatch/pkg/ui/terminal"
)

var errInputClosed = stderrors.New("terminal event source closed")

// alwaysReady is a closed channel used to re-arm the action case when the
// previous cycle left actions queued.
var alwaysReady = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

type loop[S any, A dispatch.Action] struct {
	opts     Options
	logger   *slog.Logger
	queue    *dispatch.Queue[A]
	overlay  Overlay[S, A]
	state    func() *S
	dispatch func(A) bool
	teardown func()
}

func newLoop[S any, A dispatch.Action](opts []Option, state func() *S) *loop[S, A] {
	o := buildOptions(opts)
	return &loop[S, A]{
		opts:     o,
		logger:   o.Logger,
		queue:    dispatch.NewQueue[A](),
		state:    state,
		teardown: func() {},
	}
}

func (l *loop[S, A]) run(ctx context.Context, b backend.Backend, render RenderFunc[S], mapEvent EventMapper[S, A], quit QuitFunc[A]) error {
	if b == nil {
		return errors.New(errors.ErrCodeInvalidInput, "backend is required")
	}
	if err := b.Init(); err != nil {
		return errors.Wrap(err, errors.ErrCodeBackendInit, "failed to initialize terminal")
	}
	b.HideCursor()

	runCtx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(runCtx)

	input := make(chan terminal.Event, l.opts.InputBuffer)
	poller := event.NewPoller(b, l.opts.Poller, l.logger)
	g.Go(func() error {
		if err := poller.Run(gctx, input); err != nil {
			return err
		}
		if gctx.Err() == nil {
			return errInputClosed
		}
		return nil
	})
	defer l.shutdown(cancel, g, b)

	var ticks <-chan time.Time
	if l.opts.TickRate > 0 {
		ticker := time.NewTicker(l.opts.TickRate)
		defer ticker.Stop()
		ticks = ticker.C
	}

	w, h := b.Size()
	l.logger.Info("runtime started", slog.Int("width", w), slog.Int("height", h))

	pending := true
	for {
		if pending {
			l.draw(b, render)
			pending = false
		}

		ready := l.queue.Ready()
		if l.queue.Len() > 0 {
			ready = alwaysReady
		}

		select {
		case <-ctx.Done():
			l.logger.Info("runtime cancelled", slog.String("reason", ctx.Err().Error()))
			return ctx.Err()

		case <-gctx.Done():
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if err := g.Wait(); err != nil {
				l.logger.Error("terminal input failed", slog.String("error", err.Error()))
				return errors.Wrap(err, errors.ErrCodeBackendIO, "terminal input failed")
			}
			return nil

		case raw := <-input:
			if l.handleInput(b, raw, mapEvent) {
				pending = true
			}

		case <-ticks:
			if l.mapKind(event.Tick{}, mapEvent) {
				pending = true
			}

		case <-ready:
			changed, stop := l.drain(quit)
			if changed {
				pending = true
			}
			if stop {
				return nil
			}
		}
	}
}

func (l *loop[S, A]) shutdown(cancel context.CancelFunc, g *errgroup.Group, b backend.Backend) {
	cancel()
	l.teardown()
	l.queue.Close()

	done := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(l.opts.ShutdownGrace):
		l.logger.Debug("poller still blocked, finalizing backend")
	}
	b.Fini()
	<-done

	telemetry.QueueDepth.Set(0)
	l.logger.Info("runtime stopped")
}

func (l *loop[S, A]) draw(b backend.Backend, render RenderFunc[S]) {
	w, h := b.Size()
	area := event.Rect{Width: w, Height: h}
	rc := RenderContext{OverlayActive: l.overlay != nil && l.overlay.Enabled()}
	state := l.state()

	b.Clear()
	if render != nil {
		draw := func(frame backend.RenderTarget, a event.Rect) {
			render(frame, a, state, rc)
		}
		if l.overlay != nil {
			l.overlay.Render(b, area, state, draw)
		} else {
			draw(b, area)
		}
	}
	b.Show()
	telemetry.Renders.Inc()
}

func (l *loop[S, A]) handleInput(b backend.Backend, raw terminal.Event, mapEvent EventMapper[S, A]) bool {
	kind, ok := event.Normalize(raw)
	if !ok {
		return false
	}
	if _, resized := kind.(event.Resize); resized {
		b.Sync()
	}
	return l.mapKind(kind, mapEvent)
}

func (l *loop[S, A]) mapKind(kind event.Kind, mapEvent EventMapper[S, A]) bool {
	telemetry.InputEvents.WithLabelValues(event.TypeOf(kind).String()).Inc()
	state := l.state()

	if l.overlay != nil {
		needsRender, consumed := l.overlay.HandleEvent(kind, state, l.emit)
		if consumed {
			return needsRender
		}
	}
	if mapEvent == nil {
		return false
	}

	out := mapEvent(kind, state)
	for _, action := range out.Actions {
		l.emit(action)
	}
	return out.NeedsRender
}

func (l *loop[S, A]) emit(action A) {
	l.queue.Send(action)
}

// drain dispatches up to MaxActionsPerCycle queued actions. It reports
// whether any dispatch changed state and whether the quit action was seen.
func (l *loop[S, A]) drain(quit QuitFunc[A]) (changed, stop bool) {
	defer func() { telemetry.QueueDepth.Set(float64(l.queue.Len())) }()

	for n := 0; n < l.opts.MaxActionsPerCycle; n++ {
		action, ok := l.queue.TryRecv()
		if !ok {
			break
		}
		if quit != nil && quit(action) {
			l.logger.Info("quit action received", slog.String("action", action.Name()))
			return changed, true
		}
		if l.overlay != nil {
			l.overlay.LogAction(action)
		}
		if l.dispatch(action) {
			changed = true
		}
	}
	return changed, false
}
