package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/odvcencio/dispatch/pkg/errors"
)

const (
	defaultGeocodeURL  = "https://geocoding-api.open-meteo.com/v1/search"
	defaultForecastURL = "https://api.open-meteo.com/v1/forecast"
)

// Client talks to the open-meteo geocoding and forecast APIs.
type Client struct {
	HTTP        *http.Client
	GeocodeURL  string
	ForecastURL string
}

// NewClient returns a client for the public open-meteo endpoints.
func NewClient() *Client {
	return &Client{
		HTTP:        &http.Client{Timeout: 10 * time.Second},
		GeocodeURL:  defaultGeocodeURL,
		ForecastURL: defaultForecastURL,
	}
}

type geocodingResponse struct {
	Results []struct {
		Name      string  `json:"name"`
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
		Country   string  `json:"country"`
		Admin1    string  `json:"admin1"`
	} `json:"results"`
}

type currentWeather struct {
	Temperature float64 `json:"temperature"`
	WeatherCode int     `json:"weathercode"`
}

type forecastResponse struct {
	CurrentWeather *currentWeather `json:"current_weather"`
}

func (w currentWeather) data() WeatherData {
	return WeatherData{
		Temperature: w.Temperature,
		Code:        w.WeatherCode,
		Description: describeCode(w.WeatherCode),
	}
}

// SearchCities returns up to count places matching query.
func (c *Client) SearchCities(ctx context.Context, query string, count int) ([]Location, error) {
	q := url.Values{}
	q.Set("name", query)
	q.Set("count", strconv.Itoa(count))
	q.Set("language", "en")
	q.Set("format", "json")

	var resp geocodingResponse
	if err := c.getJSON(ctx, c.GeocodeURL, q, &resp); err != nil {
		return nil, err
	}
	locs := make([]Location, 0, len(resp.Results))
	for _, r := range resp.Results {
		name := r.Name
		if r.Country != "" {
			name = r.Name + ", " + r.Country
		}
		locs = append(locs, Location{Name: name, Lat: r.Latitude, Lon: r.Longitude})
	}
	return locs, nil
}

// Geocode resolves city to its best match.
func (c *Client) Geocode(ctx context.Context, city string) (Location, error) {
	locs, err := c.SearchCities(ctx, city, 1)
	if err != nil {
		return Location{}, err
	}
	if len(locs) == 0 {
		return Location{}, errors.Newf(errors.ErrCodeInvalidInput, "city %q not found", city).
			WithRemediation("check the spelling", "try a larger nearby city, e.g. 'London' or 'Tokyo'")
	}
	return locs[0], nil
}

// Forecast returns the current conditions at lat, lon.
func (c *Client) Forecast(ctx context.Context, lat, lon float64) (WeatherData, error) {
	q := url.Values{}
	q.Set("latitude", strconv.FormatFloat(lat, 'f', 4, 64))
	q.Set("longitude", strconv.FormatFloat(lon, 'f', 4, 64))
	q.Set("current_weather", "true")

	var resp forecastResponse
	if err := c.getJSON(ctx, c.ForecastURL, q, &resp); err != nil {
		return WeatherData{}, err
	}
	if resp.CurrentWeather == nil {
		return WeatherData{}, errors.New(errors.ErrCodeSourceRead, "forecast has no current weather")
	}
	return resp.CurrentWeather.data(), nil
}

func (c *Client) getJSON(ctx context.Context, base string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"?"+q.Encode(), nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, "building request").WithContext("url", base)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeSourceConnect, "request failed").WithContext("url", base)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return errors.New(errors.ErrCodeSourceRead, fmt.Sprintf("unexpected status %d", resp.StatusCode)).WithContext("url", base)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, errors.ErrCodeSourceRead, "decoding response").WithContext("url", base)
	}
	return nil
}
