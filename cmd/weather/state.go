package main

import "fmt"

// WeatherData is the current conditions at a location.
type WeatherData struct {
	Temperature float64
	Code        int
	Description string
}

// Location is a geocoded place.
type Location struct {
	Name string
	Lat  float64
	Lon  float64
}

// TempUnit selects how temperatures are shown.
type TempUnit int

const (
	Celsius TempUnit = iota
	Fahrenheit
)

func (u TempUnit) Toggle() TempUnit {
	if u == Celsius {
		return Fahrenheit
	}
	return Celsius
}

// Format renders a Celsius reading in u.
func (u TempUnit) Format(celsius float64) string {
	if u == Fahrenheit {
		return fmt.Sprintf("%.1f°F", celsius*9/5+32)
	}
	return fmt.Sprintf("%.1f°C", celsius)
}

// State is the weather application state.
type State struct {
	Weather  *WeatherData
	Loading  bool
	Error    string
	Location Location
	Unit     TempUnit

	// Source names where the last reading came from: "api" or a stream key.
	Source string

	Ticks int
	Size  [2]int

	SearchMode     bool
	SearchQuery    string
	SearchResults  []Location
	SearchSelected int
	SearchLoading  bool
	SearchError    string
}

// NewState starts at loc with no reading.
func NewState(loc Location) State {
	return State{Location: loc, Size: [2]int{80, 24}}
}

// SelectedResult returns the highlighted search result.
func (s *State) SelectedResult() (Location, bool) {
	if s.SearchSelected < 0 || s.SearchSelected >= len(s.SearchResults) {
		return Location{}, false
	}
	return s.SearchResults[s.SearchSelected], true
}

// describeCode maps a WMO weather code to text.
func describeCode(code int) string {
	switch {
	case code == 0:
		return "Clear sky"
	case code == 1:
		return "Mainly clear"
	case code == 2:
		return "Partly cloudy"
	case code == 3:
		return "Overcast"
	case code == 45 || code == 48:
		return "Fog"
	case code >= 51 && code <= 55:
		return "Drizzle"
	case code == 56 || code == 57:
		return "Freezing drizzle"
	case code >= 61 && code <= 65:
		return "Rain"
	case code == 66 || code == 67:
		return "Freezing rain"
	case code >= 71 && code <= 75:
		return "Snow"
	case code == 77:
		return "Snow grains"
	case code >= 80 && code <= 82:
		return "Rain showers"
	case code == 85 || code == 86:
		return "Snow showers"
	case code == 95:
		return "Thunderstorm"
	case code == 96 || code == 99:
		return "Thunderstorm with hail"
	}
	return "Unknown"
}
