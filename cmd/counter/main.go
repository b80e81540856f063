// Command counter is the smallest dispatch application: a plain store, a
// key and mouse mapper and an optional debug overlay.
package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/odvcencio/dispatch/pkg/app"
	"github.com/odvcencio/dispatch/pkg/debug"
	"github.com/odvcencio/dispatch/pkg/dispatch"
	"github.com/odvcencio/dispatch/pkg/runtime"
	"github.com/odvcencio/dispatch/pkg/ui/backend"
	"github.com/odvcencio/dispatch/pkg/ui/theme"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default: ~/.dispatch and ./.dispatch)")
	debugOn := flag.Bool("debug", false, "open the debug overlay at start")
	start := flag.Int("start", 0, "initial count")
	flag.Parse()

	if err := run(*configPath, *debugOn, *start); err != nil {
		fmt.Fprintf(os.Stderr, "counter: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string, debugOn bool, start int) error {
	env, err := app.Bootstrap(configPath)
	if err != nil {
		return err
	}
	defer env.Close()

	b, err := app.Terminal()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt := newRuntime(env, State{Count: start}, debugOn || env.Flags.Get("debug_overlay"))
	err = env.Run(ctx, func(ctx context.Context) error {
		return rt.run(ctx, b)
	})
	if stderrors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

type counterRuntime struct {
	rt   *runtime.DispatchRuntime[State, Action]
	view *view
}

func newRuntime(env *app.Env, initial State, debugOn bool) *counterRuntime {
	store := dispatch.NewStore(initial, reduce, app.Middleware[Action](env)...)
	rt := runtime.NewDispatchRuntime(store, env.RuntimeOptions()...)
	rt.SetOverlay(debug.New[State, Action](debug.WithActive(debugOn)))
	th := theme.Default()
	if env.Flags.Get("mono") {
		th = theme.Mono()
	}
	return &counterRuntime{rt: rt, view: newViewWith(th)}
}

func (c *counterRuntime) run(ctx context.Context, b backend.Backend) error {
	return c.rt.Run(ctx, b, c.view.render, c.view.mapEvent, isQuit)
}
