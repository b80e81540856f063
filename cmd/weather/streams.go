package main

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/odvcencio/dispatch/pkg/config"
	"github.com/odvcencio/dispatch/pkg/sources"
	"github.com/odvcencio/dispatch/pkg/subscriptions"
)

const (
	subSpinner  = "spinner"
	subRefresh  = "refresh"
	subNATS     = "nats"
	subSocket   = "websocket"
	subCityFile = "city_file"

	spinnerPeriod = 120 * time.Millisecond
)

// streams says which subscriptions to start.
type streams struct {
	Refresh time.Duration
	Sources config.SourcesConfig
	// NATS is nil unless Sources.NATSURL is set and the connection opened.
	NATS   sources.Subscriber
	Logger *slog.Logger
}

func (c streams) start(subs *subscriptions.Manager[Action]) {
	subs.Interval(subSpinner, spinnerPeriod, func() Action { return Tick{} })
	if c.Refresh > 0 {
		subs.IntervalImmediate(subRefresh, c.Refresh, func() Action { return WeatherFetch{} })
	}

	opts := []sources.Option{sources.WithLogger(c.Logger)}
	if c.NATS != nil && c.Sources.NATSSubject != "" {
		subs.StreamAsync(subNATS, sources.NATSSubject(c.NATS, c.Sources.NATSSubject, decodeRemote(subNATS), streamError, opts...))
	}
	if c.Sources.WebSocketURL != "" {
		subs.StreamAsync(subSocket, sources.WebSocket(c.Sources.WebSocketURL, decodeRemote(subSocket), streamError, opts...))
	}
	if c.Sources.WatchPath != "" {
		subs.StreamAsync(subCityFile, sources.FileChanges(c.Sources.WatchPath, cityFileAction, streamError, opts...))
	}
}

// remoteReading is the payload pushed by NATS and websocket producers, the
// same shape as the forecast API's current_weather object.
type remoteReading struct {
	Temperature *float64 `json:"temperature"`
	WeatherCode int      `json:"weathercode"`
}

func decodeRemote(source string) sources.Decoder[Action] {
	return func(data []byte) (Action, bool) {
		var r remoteReading
		if err := json.Unmarshal(data, &r); err != nil || r.Temperature == nil {
			return nil, false
		}
		w := currentWeather{Temperature: *r.Temperature, WeatherCode: r.WeatherCode}
		return WeatherDidStream{Data: w.data(), Source: source}, true
	}
}

func cityFileAction(c sources.FileChange) (Action, bool) {
	if c.Removed() {
		return nil, false
	}
	return CityFileChanged{Path: c.Path}, true
}

func streamError(err error) Action {
	return WeatherDidError{Err: err.Error()}
}
