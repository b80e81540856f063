package main

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/odvcencio/dispatch/pkg/runtime"
)

// Effect is I/O requested by the reducer.
type Effect interface {
	isEffect()
}

type (
	FetchWeather  struct{ Lat, Lon float64 }
	SearchCities  struct {
		Query string
		// Immediate skips the debounce, replacing any pending search.
		Immediate bool
	}
	ReadCityFile  struct{ Path string }
	StopSearching struct{}
)

func (FetchWeather) isEffect()  {}
func (SearchCities) isEffect()  {}
func (ReadCityFile) isEffect()  {}
func (StopSearching) isEffect() {}

const (
	taskWeather  = "weather"
	taskSearch   = "city_search"
	taskCityFile = "city_file"

	searchDebounce = 300 * time.Millisecond
	searchResults  = 6
)

// effects interprets Effect values against the weather API.
type effects struct {
	client *Client
}

func (e *effects) handle(effect Effect, ctx *runtime.EffectContext[Action]) {
	switch eff := effect.(type) {
	case FetchWeather:
		ctx.Tasks().Spawn(taskWeather, func(c context.Context) Action {
			data, err := e.client.Forecast(c, eff.Lat, eff.Lon)
			if err != nil {
				return WeatherDidError{Err: err.Error()}
			}
			return WeatherDidLoad{Data: data}
		})

	case SearchCities:
		query := strings.TrimSpace(eff.Query)
		if query == "" {
			ctx.Tasks().Cancel(taskSearch)
			return
		}
		work := func(c context.Context) Action {
			results, err := e.client.SearchCities(c, query, searchResults)
			if err != nil {
				return SearchDidError{Err: err.Error()}
			}
			return SearchDidLoad{Results: results}
		}
		if eff.Immediate {
			ctx.Tasks().Spawn(taskSearch, work)
			return
		}
		ctx.Tasks().Debounce(taskSearch, searchDebounce, work)

	case StopSearching:
		ctx.Tasks().Cancel(taskSearch)

	case ReadCityFile:
		ctx.Tasks().Spawn(taskCityFile, func(c context.Context) Action {
			raw, err := os.ReadFile(eff.Path)
			if err != nil {
				return WeatherDidError{Err: err.Error()}
			}
			city := strings.TrimSpace(string(raw))
			if city == "" {
				return WeatherDidError{Err: "city file is empty"}
			}
			loc, err := e.client.Geocode(c, city)
			if err != nil {
				return WeatherDidError{Err: err.Error()}
			}
			return LocationDidChange{Location: loc}
		})
	}
}
