package main

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// This file contains the HTTP handlers. The HTML handlers drive a per-request
// SearchView or ForecastView and render its snapshot; the /api handlers expose
// the same operations as JSON.

// handlerSearchPage renders the search page. A non-blank ?q= runs a city search.
func (cfg *apiConfig) handlerSearchPage(w http.ResponseWriter, r *http.Request) {
	view := NewSearchView()
	defer view.Close()

	query := r.URL.Query().Get("q")
	if strings.TrimSpace(query) != "" {
		cfg.logger.Debug("city search request", "query", query)
		// Failures are reflected in the view state.
		_ = view.Search(r.Context(), cfg.geocoder, query, cfg.logger)
	}

	cfg.renderPage(w, http.StatusOK, "search", searchPage{
		View:    view.Snapshot(),
		History: cfg.history.Items(),
	})
}

// handlerSelectCity records a chosen search result in the history and
// redirects to its forecast page.
func (cfg *apiConfig) handlerSelectCity(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		cfg.renderError(w, http.StatusBadRequest, "Invalid city selection.")
		return
	}
	lat, lon, err := cfg.parseCoordinates(r.PostForm.Get("latitude"), r.PostForm.Get("longitude"))
	if err != nil {
		cfg.logger.Debug("invalid city selection", "error", err)
		cfg.renderError(w, http.StatusBadRequest, "Invalid city selection.")
		return
	}
	selection := selectionParams{
		Name:    strings.TrimSpace(r.PostForm.Get("name")),
		Country: strings.TrimSpace(r.PostForm.Get("country")),
	}
	if err := cfg.validate.Struct(selection); err != nil {
		cfg.logger.Debug("invalid city selection", "error", validationSummary(err))
		cfg.renderError(w, http.StatusBadRequest, "Invalid city selection.")
		return
	}
	label := GeocodingResult{Name: selection.Name, Country: selection.Country}.Label()

	if _, err := cfg.history.Add(r.Context(), label, lat, lon); err != nil {
		cfg.logger.Warn("failed to persist search history", "city", label, "error", err)
	}
	http.Redirect(w, r, forecastPath(lat, lon, label), http.StatusSeeOther)
}

func (cfg *apiConfig) handlerClearHistoryForm(w http.ResponseWriter, r *http.Request) {
	if err := cfg.history.Clear(r.Context()); err != nil {
		cfg.logger.Warn("failed to clear search history", "error", err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handlerForecastPage serves /forecast/{lat}/{lon}/{city}.
func (cfg *apiConfig) handlerForecastPage(w http.ResponseWriter, r *http.Request) {
	city, err := pathParam(r, "city")
	if err != nil {
		cfg.logger.Debug("invalid city path segment", "error", err)
		cfg.renderError(w, http.StatusBadRequest, msgForecastFailed)
		return
	}
	lat, lon, err := cfg.parseCoordinates(chi.URLParam(r, "lat"), chi.URLParam(r, "lon"))
	if err != nil {
		cfg.logger.Debug("invalid forecast coordinates", "error", err)
		cfg.renderError(w, http.StatusBadRequest, msgForecastFailed)
		return
	}
	cfg.logger.Debug("forecast request", "city", city, "lat", lat, "lon", lon)

	view := NewForecastView(city)
	defer view.Close()
	_ = view.Load(r.Context(), cfg.forecaster, lat, lon, cfg.logger)

	cfg.renderPage(w, http.StatusOK, "forecast", forecastPage{View: view.Snapshot()})
}

// handlerAPISearch serves GET /api/search?name=.
func (cfg *apiConfig) handlerAPISearch(w http.ResponseWriter, r *http.Request) {
	params := searchParams{Name: strings.TrimSpace(r.URL.Query().Get("name"))}
	if err := cfg.validate.Struct(params); err != nil {
		cfg.respondWithError(w, r, http.StatusBadRequest, "Missing search term", nil)
		return
	}

	results, err := cfg.geocoder.SearchCities(r.Context(), params.Name)
	if err != nil {
		cfg.respondWithError(w, r, upstreamStatus(err), "Error searching for cities", err)
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, SearchResponse{
		Query:   params.Name,
		Results: results,
	})
}

// handlerAPIForecast serves GET /api/forecast?lat=&lon=[&city=].
func (cfg *apiConfig) handlerAPIForecast(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, lon, err := cfg.parseCoordinates(q.Get("lat"), q.Get("lon"))
	if err != nil {
		cfg.respondWithError(w, r, http.StatusBadRequest, "Invalid coordinates", nil)
		return
	}

	forecast, err := cfg.forecaster.GetForecast(r.Context(), lat, lon)
	if err != nil {
		cfg.respondWithError(w, r, upstreamStatus(err), "Error getting weather data", err)
		return
	}
	if forecast.CurrentWeather == nil {
		cfg.respondWithError(w, r, http.StatusBadGateway, "Error getting weather data", ErrMalformedForecast)
		return
	}

	cfg.respondWithJSON(w, http.StatusOK, ForecastAPIResponse{
		City:     q.Get("city"),
		Forecast: forecast,
		Current:  describeWeatherCode(forecast.CurrentWeather.WeatherCode),
		Chart:    RenderChart(forecast.Daily),
		Days:     buildDayCards(forecast.Daily),
	})
}

func (cfg *apiConfig) handlerAPIHistory(w http.ResponseWriter, r *http.Request) {
	cfg.respondWithJSON(w, http.StatusOK, HistoryResponse{Items: cfg.history.Items()})
}

// handlerAPIAddHistory serves POST /api/history with a {city, latitude, longitude} body.
func (cfg *apiConfig) handlerAPIAddHistory(w http.ResponseWriter, r *http.Request) {
	var req addHistoryRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		cfg.respondWithError(w, r, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.City = strings.TrimSpace(req.City)
	if err := cfg.validate.Struct(req); err != nil {
		cfg.respondWithError(w, r, http.StatusBadRequest, "Invalid history entry: "+validationSummary(err), nil)
		return
	}

	item, err := cfg.history.Add(r.Context(), req.City, *req.Latitude, *req.Longitude)
	if err != nil {
		cfg.respondWithError(w, r, http.StatusInternalServerError, "Error saving search history", err)
		return
	}
	cfg.respondWithJSON(w, http.StatusCreated, item)
}

func (cfg *apiConfig) handlerAPIClearHistory(w http.ResponseWriter, r *http.Request) {
	if err := cfg.history.Clear(r.Context()); err != nil {
		cfg.respondWithError(w, r, http.StatusInternalServerError, "Error clearing search history", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handlerHealth reports whether the history backend is reachable.
func (cfg *apiConfig) handlerHealth(w http.ResponseWriter, r *http.Request) {
	if err := cfg.store.Ping(r.Context()); err != nil {
		cfg.respondWithError(w, r, http.StatusServiceUnavailable, "history storage unavailable", err)
		return
	}
	cfg.respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (cfg *apiConfig) handlerNotAllowed(w http.ResponseWriter, r *http.Request) {
	cfg.respondWithError(w, r, http.StatusMethodNotAllowed, "Method Not Allowed", nil)
}
