// Command weather shows current conditions for a city. It exercises the
// effect runtime: keyed fetch tasks, a debounced city search, interval
// subscriptions and optional NATS, websocket and file-watch streams.
package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/odvcencio/dispatch/pkg/app"
	"github.com/odvcencio/dispatch/pkg/debug"
	"github.com/odvcencio/dispatch/pkg/dispatch"
	"github.com/odvcencio/dispatch/pkg/logging"
	"github.com/odvcencio/dispatch/pkg/runtime"
	"github.com/odvcencio/dispatch/pkg/sources"
	"github.com/odvcencio/dispatch/pkg/ui/backend"
	"github.com/odvcencio/dispatch/pkg/ui/theme"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default: ~/.dispatch and ./.dispatch)")
	city := flag.String("city", "Kyiv", "city to show at start")
	refresh := flag.Duration("refresh", 30*time.Second, "how often to refetch; 0 disables")
	debugOn := flag.Bool("debug", false, "open the debug overlay at start")
	flag.Parse()

	if err := run(*configPath, *city, *refresh, *debugOn); err != nil {
		fmt.Fprintf(os.Stderr, "weather: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, city string, refresh time.Duration, debugOn bool) error {
	env, err := app.Bootstrap(configPath)
	if err != nil {
		return err
	}
	defer env.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := NewClient()
	lookup, cancel := context.WithTimeout(ctx, 10*time.Second)
	loc, err := client.Geocode(lookup, city)
	cancel()
	if err != nil {
		return err
	}

	b, err := app.Terminal()
	if err != nil {
		return err
	}

	state := NewState(loc)
	if env.Flags.Get("fahrenheit") {
		state.Unit = Fahrenheit
	}

	sourcesLog := logging.For(env.Logger.Logger, logging.CategorySources)
	st := streams{Refresh: refresh, Sources: env.Config.Sources, Logger: sourcesLog}
	if url := env.Config.Sources.NATSURL; url != "" {
		conn, err := sources.ConnectNATS(url, "dispatch-weather")
		if err != nil {
			sourcesLog.Warn("nats unavailable, continuing without it", slog.String("error", err.Error()))
			state.Error = "nats unavailable"
		} else {
			defer conn.Close()
			st.NATS = conn
		}
	}

	w := newWeatherRuntime(env, state, client, st, debugOn || env.Flags.Get("debug_overlay"))
	err = env.Run(ctx, func(ctx context.Context) error {
		return w.run(ctx, b)
	})
	if stderrors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

type weatherRuntime struct {
	rt      *runtime.EffectRuntime[State, Action, Effect]
	view    *view
	effects *effects
}

func newWeatherRuntime(env *app.Env, initial State, client *Client, st streams, debugOn bool) *weatherRuntime {
	store := dispatch.NewEffectStore(initial, reduce, app.Middleware[Action](env)...)
	rt := runtime.NewEffectRuntime(store, env.RuntimeOptions()...)
	rt.SetOverlay(debug.New[State, Action](debug.WithActive(debugOn)))

	st.start(rt.Subscriptions())
	if st.Refresh <= 0 {
		rt.Enqueue(WeatherFetch{})
	}
	th := theme.Default()
	if env.Flags.Get("mono") {
		th = theme.Mono()
	}
	return &weatherRuntime{rt: rt, view: newViewWith(th), effects: &effects{client: client}}
}

func (w *weatherRuntime) run(ctx context.Context, b backend.Backend) error {
	return w.rt.Run(ctx, b, w.view.render, w.view.mapEvent, w.effects.handle, isQuit)
}
