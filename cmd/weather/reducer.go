package main

import (
	"unicode/utf8"

	"github.com/odvcencio/dispatch/pkg/dispatch"
)

type result = dispatch.DispatchResult[Effect]

func reduce(s *State, a Action) result {
	switch a := a.(type) {
	case WeatherFetch:
		s.Loading = true
		s.Error = ""
		return dispatch.ChangedWith[Effect](FetchWeather{Lat: s.Location.Lat, Lon: s.Location.Lon})

	case WeatherDidLoad:
		s.Weather = &a.Data
		s.Loading = false
		s.Error = ""
		s.Source = "api"
		return dispatch.Changed[Effect]()

	case WeatherDidStream:
		s.Weather = &a.Data
		s.Source = a.Source
		return dispatch.Changed[Effect]()

	case WeatherDidError:
		s.Loading = false
		s.Error = a.Err
		return dispatch.Changed[Effect]()

	case LocationDidChange:
		s.Location = a.Location
		s.Weather = nil
		s.Loading = true
		s.Error = ""
		return dispatch.ChangedWith[Effect](FetchWeather{Lat: a.Location.Lat, Lon: a.Location.Lon})

	case CityFileChanged:
		return dispatch.Effect[Effect](ReadCityFile{Path: a.Path})

	case UiToggleUnits:
		s.Unit = s.Unit.Toggle()
		return dispatch.Changed[Effect]()

	case UiTerminalResize:
		size := [2]int{a.Width, a.Height}
		if s.Size == size {
			return dispatch.Unchanged[Effect]()
		}
		s.Size = size
		return dispatch.Changed[Effect]()

	case Tick:
		s.Ticks++
		if s.Loading || s.SearchLoading {
			return dispatch.Changed[Effect]()
		}
		return dispatch.Unchanged[Effect]()

	case SearchOpen:
		if s.SearchMode {
			return dispatch.Unchanged[Effect]()
		}
		s.SearchMode = true
		s.SearchQuery = ""
		s.SearchResults = nil
		s.SearchSelected = 0
		s.SearchError = ""
		return dispatch.Changed[Effect]()

	case SearchClose:
		if !s.SearchMode {
			return dispatch.Unchanged[Effect]()
		}
		s.SearchMode = false
		s.SearchLoading = false
		return dispatch.ChangedWith[Effect](StopSearching{})

	case SearchQueryChange:
		if !s.SearchMode || s.SearchQuery == a.Query {
			return dispatch.Unchanged[Effect]()
		}
		s.SearchQuery = a.Query
		s.SearchError = ""
		s.SearchSelected = 0
		s.SearchLoading = utf8.RuneCountInString(a.Query) > 0
		if !s.SearchLoading {
			s.SearchResults = nil
		}
		return dispatch.ChangedWith[Effect](SearchCities{Query: a.Query})

	case SearchQuerySubmit:
		if !s.SearchMode || s.SearchQuery == "" {
			return dispatch.Unchanged[Effect]()
		}
		s.SearchLoading = true
		return dispatch.ChangedWith[Effect](SearchCities{Query: s.SearchQuery, Immediate: true})

	case SearchSelectMove:
		n := len(s.SearchResults)
		if n == 0 {
			return dispatch.Unchanged[Effect]()
		}
		s.SearchSelected = ((s.SearchSelected+a.Delta)%n + n) % n
		return dispatch.Changed[Effect]()

	case SearchSelect:
		if a.Index < 0 || a.Index >= len(s.SearchResults) {
			return dispatch.Unchanged[Effect]()
		}
		loc := s.SearchResults[a.Index]
		s.SearchMode = false
		s.SearchLoading = false
		s.Location = loc
		s.Weather = nil
		s.Loading = true
		s.Error = ""
		return dispatch.ChangedWithMany[Effect](StopSearching{}, FetchWeather{Lat: loc.Lat, Lon: loc.Lon})

	case SearchDidLoad:
		if !s.SearchMode {
			return dispatch.Unchanged[Effect]()
		}
		s.SearchResults = a.Results
		s.SearchSelected = 0
		s.SearchLoading = false
		s.SearchError = ""
		if len(a.Results) == 0 {
			s.SearchError = "no matching cities"
		}
		return dispatch.Changed[Effect]()

	case SearchDidError:
		if !s.SearchMode {
			return dispatch.Unchanged[Effect]()
		}
		s.SearchLoading = false
		s.SearchError = a.Err
		return dispatch.Changed[Effect]()
	}
	return dispatch.Unchanged[Effect]()
}
