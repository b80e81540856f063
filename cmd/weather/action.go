package main

// Action is a weather intent. The set of actions is closed.
type Action interface {
	Name() string
	isAction()
}

type (
	WeatherFetch     struct{}
	WeatherDidLoad   struct{ Data WeatherData }
	WeatherDidError  struct{ Err string }
	WeatherDidStream struct {
		Data   WeatherData
		Source string
	}

	LocationDidChange struct{ Location Location }
	CityFileChanged   struct{ Path string }

	UiToggleUnits    struct{}
	UiTerminalResize struct{ Width, Height int }
	Tick             struct{}

	SearchOpen        struct{}
	SearchClose       struct{}
	SearchQueryChange struct{ Query string }
	SearchQuerySubmit struct{}
	SearchSelectMove  struct{ Delta int }
	SearchSelect      struct{ Index int }
	SearchDidLoad     struct{ Results []Location }
	SearchDidError    struct{ Err string }

	Quit struct{}
)

func (WeatherFetch) Name() string      { return "WeatherFetch" }
func (WeatherDidLoad) Name() string    { return "WeatherDidLoad" }
func (WeatherDidError) Name() string   { return "WeatherDidError" }
func (WeatherDidStream) Name() string  { return "WeatherDidStream" }
func (LocationDidChange) Name() string { return "LocationDidChange" }
func (CityFileChanged) Name() string   { return "CityFileChanged" }
func (UiToggleUnits) Name() string     { return "UiToggleUnits" }
func (UiTerminalResize) Name() string  { return "UiTerminalResize" }
func (Tick) Name() string              { return "Tick" }
func (SearchOpen) Name() string        { return "SearchOpen" }
func (SearchClose) Name() string       { return "SearchClose" }
func (SearchQueryChange) Name() string { return "SearchQueryChange" }
func (SearchQuerySubmit) Name() string { return "SearchQuerySubmit" }
func (SearchSelectMove) Name() string  { return "SearchSelectMove" }
func (SearchSelect) Name() string      { return "SearchSelect" }
func (SearchDidLoad) Name() string     { return "SearchDidLoad" }
func (SearchDidError) Name() string    { return "SearchDidError" }
func (Quit) Name() string              { return "Quit" }

func (WeatherFetch) isAction()      {}
func (WeatherDidLoad) isAction()    {}
func (WeatherDidError) isAction()   {}
func (WeatherDidStream) isAction()  {}
func (LocationDidChange) isAction() {}
func (CityFileChanged) isAction()   {}
func (UiToggleUnits) isAction()     {}
func (UiTerminalResize) isAction()  {}
func (Tick) isAction()              {}
func (SearchOpen) isAction()        {}
func (SearchClose) isAction()       {}
func (SearchQueryChange) isAction() {}
func (SearchQuerySubmit) isAction() {}
func (SearchSelectMove) isAction()  {}
func (SearchSelect) isAction()      {}
func (SearchDidLoad) isAction()     {}
func (SearchDidError) isAction()    {}
func (Quit) isAction()              {}

func isQuit(a Action) bool {
	_, ok := a.(Quit)
	return ok
}
