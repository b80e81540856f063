package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odvcencio/dispatch/pkg/dispatchtest"
	"github.com/odvcencio/dispatch/pkg/runtime"
	"github.com/odvcencio/dispatch/pkg/subscriptions"
	"github.com/odvcencio/dispatch/pkg/tasks"
)

type effectRig struct {
	h     *dispatchtest.Harness[State, Action]
	tasks *tasks.Manager[Action]
	ctx   *runtime.EffectContext[Action]
	fx    *effects
	meteo *meteo
}

func newEffectRig(t *testing.T) *effectRig {
	t.Helper()
	h := dispatchtest.NewHarness[State, Action](NewState(Location{}))
	tm := tasks.NewManager[Action](h.Sender())
	sm := subscriptions.NewManager[Action](h.Sender())
	t.Cleanup(func() {
		tm.Close()
		sm.Close()
	})
	m := newMeteo(t)
	return &effectRig{
		h:     h,
		tasks: tm,
		ctx:   runtime.NewEffectContext[Action](h.Sender(), tm, sm),
		fx:    &effects{client: m.client()},
		meteo: m,
	}
}

func (r *effectRig) run(effs ...Effect) []Action {
	for _, e := range effs {
		r.fx.handle(e, r.ctx)
	}
	r.tasks.Wait()
	return r.h.Drain()
}

func TestEffects_FetchWeather(t *testing.T) {
	r := newEffectRig(t)
	got := r.run(FetchWeather{Lat: 50.45, Lon: 30.52})
	require.Len(t, got, 1)
	assert.Equal(t, WeatherDidLoad{Data: WeatherData{Temperature: 21.5, Code: 2, Description: "Partly cloudy"}}, got[0])
	dispatchtest.AssertCategoryEmitted(t, got, "weather_did")
}

func TestEffects_FetchWeatherError(t *testing.T) {
	r := newEffectRig(t)
	got := r.run(FetchWeather{})
	require.Len(t, got, 1)
	e, ok := got[0].(WeatherDidError)
	require.True(t, ok)
	assert.Contains(t, e.Err, "500")
}

func TestEffects_SearchIsDebounced(t *testing.T) {
	r := newEffectRig(t)
	got := r.run(SearchCities{Query: "l"}, SearchCities{Query: "lo"}, SearchCities{Query: "lon"})

	require.Len(t, got, 1)
	loaded, ok := got[0].(SearchDidLoad)
	require.True(t, ok)
	assert.Len(t, loaded.Results, 2)
	assert.EqualValues(t, 1, r.meteo.searches.Load())
}

func TestEffects_SubmitSkipsDebounce(t *testing.T) {
	r := newEffectRig(t)
	start := time.Now()
	got := r.run(SearchCities{Query: "lo"}, SearchCities{Query: "par", Immediate: true})

	assert.Less(t, time.Since(start), searchDebounce, "submit does not wait out the quiet period")
	require.Len(t, got, 1)
	loaded, ok := got[0].(SearchDidLoad)
	require.True(t, ok)
	require.Len(t, loaded.Results, 1)
	assert.Equal(t, paris.Name, loaded.Results[0].Name)
	assert.EqualValues(t, 1, r.meteo.searches.Load(), "pending debounced search was replaced")
}

func TestEffects_EmptyQueryCancelsSearch(t *testing.T) {
	r := newEffectRig(t)
	got := r.run(SearchCities{Query: "par"}, SearchCities{Query: "  "})
	assert.Empty(t, got)
	assert.False(t, r.tasks.IsRunning(taskSearch))
	assert.Zero(t, r.meteo.searches.Load())
}

func TestEffects_StopSearching(t *testing.T) {
	r := newEffectRig(t)
	got := r.run(SearchCities{Query: "par"}, StopSearching{})
	assert.Empty(t, got)
	assert.Zero(t, r.meteo.searches.Load())
}

func TestEffects_ReadCityFile(t *testing.T) {
	r := newEffectRig(t)
	dir := t.TempDir()

	path := filepath.Join(dir, "city")
	require.NoError(t, os.WriteFile(path, []byte("Paris\n"), 0o644))
	got := r.run(ReadCityFile{Path: path})
	require.Len(t, got, 1)
	changed, ok := got[0].(LocationDidChange)
	require.True(t, ok)
	assert.Equal(t, "Paris, France", changed.Location.Name)

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	got = r.run(ReadCityFile{Path: empty})
	assert.Equal(t, []Action{WeatherDidError{Err: "city file is empty"}}, got)

	got = r.run(ReadCityFile{Path: filepath.Join(dir, "missing")})
	require.Len(t, got, 1)
	assert.IsType(t, WeatherDidError{}, got[0])
}
