package main

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// This file holds the per-request view state for the search and forecast pages.
// A view is never shared between requests. Begin hands out a ticket and Complete
// only applies a result whose ticket is still current, so a response that arrives
// after Reset or Close is dropped instead of overwriting newer state.

var (
	// ErrBusy is returned by Begin while a previous request of the same view is in flight.
	ErrBusy = errors.New("request already in progress")
	// ErrViewClosed is returned by Begin after the view has been closed.
	ErrViewClosed = errors.New("view closed")
)

// User-facing messages.
const (
	msgNoCities       = "No cities found. Please try a different search term."
	msgSearchFailed   = "Failed to search for cities. Please try again."
	msgForecastFailed = "Failed to fetch weather data. Please try again."
	msgNoForecast     = "No weather data available"
)

type SearchState int

const (
	SearchIdle SearchState = iota
	SearchSearching
	SearchResults
	SearchError
)

func (s SearchState) String() string {
	switch s {
	case SearchIdle:
		return "idle"
	case SearchSearching:
		return "searching"
	case SearchResults:
		return "results"
	case SearchError:
		return "error"
	}
	return "unknown"
}

type SearchView struct {
	mu         sync.Mutex
	state      SearchState
	query      string
	results    []GeocodingResult
	errMsg     string
	generation uint64
	closed     bool
}

func NewSearchView() *SearchView {
	return &SearchView{}
}

// SearchViewModel is an immutable snapshot of a SearchView for rendering.
type SearchViewModel struct {
	State   string
	Query   string
	Results []GeocodingResult
	Error   string
}

// Begin moves the view to searching and returns the ticket for Complete.
func (v *SearchView) Begin(query string) (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return 0, ErrViewClosed
	}
	if v.state == SearchSearching {
		return 0, ErrBusy
	}
	v.generation++
	v.state = SearchSearching
	v.query = query
	v.results = nil
	v.errMsg = ""
	return v.generation, nil
}

// Complete applies the outcome of the search started with ticket. It reports whether
// the outcome was applied; stale tickets and closed views are ignored.
func (v *SearchView) Complete(ticket uint64, results []GeocodingResult, err error) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || ticket != v.generation || v.state != SearchSearching {
		return false
	}
	switch {
	case err != nil:
		v.state = SearchError
		v.errMsg = msgSearchFailed
	case len(results) == 0:
		v.state = SearchError
		v.errMsg = msgNoCities
	default:
		v.state = SearchResults
		v.results = results
	}
	return true
}

// Reset returns the view to idle and invalidates any outstanding ticket.
func (v *SearchView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.generation++
	v.state = SearchIdle
	v.query = ""
	v.results = nil
	v.errMsg = ""
}

// Close marks the view as torn down. Later completions are discarded.
func (v *SearchView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
}

func (v *SearchView) Snapshot() SearchViewModel {
	v.mu.Lock()
	defer v.mu.Unlock()
	results := make([]GeocodingResult, len(v.results))
	copy(results, v.results)
	return SearchViewModel{
		State:   v.state.String(),
		Query:   v.query,
		Results: results,
		Error:   v.errMsg,
	}
}

// Search runs one lookup through the view.
func (v *SearchView) Search(ctx context.Context, geocoder GeocodingService, query string, logger *slog.Logger) error {
	ticket, err := v.Begin(query)
	if err != nil {
		return err
	}
	results, err := geocoder.SearchCities(ctx, query)
	if err != nil {
		logger.Warn("search error", "query", query, "error", err)
	}
	if !v.Complete(ticket, results, err) {
		logger.Debug("discarded stale search result", "query", query)
	}
	return err
}

type ForecastState int

const (
	ForecastIdle ForecastState = iota
	ForecastLoading
	ForecastLoaded
	ForecastFailed
)

func (s ForecastState) String() string {
	switch s {
	case ForecastIdle:
		return "idle"
	case ForecastLoading:
		return "loading"
	case ForecastLoaded:
		return "loaded"
	case ForecastFailed:
		return "error"
	}
	return "unknown"
}

// DayCard is one entry of the daily forecast list.
type DayCard struct {
	Date              string  `json:"date"`
	Label             string  `json:"label"`
	Description       string  `json:"description"`
	High              int     `json:"high"`
	Low               int     `json:"low"`
	Precipitation     float64 `json:"precipitation_mm"`
	ShowPrecipitation bool    `json:"show_precipitation"`
}

type ForecastView struct {
	mu         sync.Mutex
	state      ForecastState
	city       string
	forecast   ForecastResponse
	errMsg     string
	generation uint64
	closed     bool
}

func NewForecastView(city string) *ForecastView {
	return &ForecastView{city: city}
}

// ForecastViewModel is a rendering snapshot of a ForecastView.
type ForecastViewModel struct {
	State     string
	City      string
	Error     string
	Forecast  ForecastResponse
	Condition string
	Chart     Chart
	Days      []DayCard
}

func (v *ForecastView) Begin() (uint64, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return 0, ErrViewClosed
	}
	if v.state == ForecastLoading {
		return 0, ErrBusy
	}
	v.generation++
	v.state = ForecastLoading
	v.errMsg = ""
	return v.generation, nil
}

func (v *ForecastView) Complete(ticket uint64, forecast ForecastResponse, err error) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed || ticket != v.generation || v.state != ForecastLoading {
		return false
	}
	if err != nil {
		v.state = ForecastFailed
		v.errMsg = msgForecastFailed
		return true
	}
	v.state = ForecastLoaded
	v.forecast = forecast
	return true
}

func (v *ForecastView) Reset() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.generation++
	v.state = ForecastIdle
	v.forecast = ForecastResponse{}
	v.errMsg = ""
}

func (v *ForecastView) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
}

// Snapshot builds the page model. The chart and day cards are derived on every call.
func (v *ForecastView) Snapshot() ForecastViewModel {
	v.mu.Lock()
	defer v.mu.Unlock()
	model := ForecastViewModel{
		State: v.state.String(),
		City:  v.city,
		Error: v.errMsg,
	}
	if v.state != ForecastLoaded {
		return model
	}
	if v.forecast.CurrentWeather == nil {
		model.State = ForecastFailed.String()
		model.Error = msgNoForecast
		return model
	}
	model.Forecast = v.forecast
	model.Condition = describeWeatherCode(v.forecast.CurrentWeather.WeatherCode)
	model.Chart = RenderChart(v.forecast.Daily)
	model.Days = buildDayCards(v.forecast.Daily)
	return model
}

// Load fetches the forecast for lat/lon through the view.
func (v *ForecastView) Load(ctx context.Context, forecaster ForecastService, lat, lon float64, logger *slog.Logger) error {
	ticket, err := v.Begin()
	if err != nil {
		return err
	}
	forecast, err := forecaster.GetForecast(ctx, lat, lon)
	if err != nil {
		logger.Warn("weather fetch error", "lat", lat, "lon", lon, "error", err)
	}
	if !v.Complete(ticket, forecast, err) {
		logger.Debug("discarded stale forecast result", "lat", lat, "lon", lon)
	}
	return err
}

// buildDayCards expects a validated series; see validateForecast.
func buildDayCards(daily DailySeries) []DayCard {
	cards := make([]DayCard, daily.Len())
	for i, date := range daily.Time {
		card := DayCard{
			Date:          date,
			Label:         date,
			Description:   describeWeatherCode(daily.WeatherCode[i]),
			High:          roundTemp(daily.Temperature2mMax[i]),
			Low:           roundTemp(daily.Temperature2mMin[i]),
			Precipitation: daily.PrecipitationSum[i],
		}
		if d, err := time.Parse(time.DateOnly, date); err == nil {
			card.Label = d.Format("Mon, Jan 2")
		}
		card.ShowPrecipitation = card.Precipitation > 0
		cards[i] = card
	}
	return cards
}
