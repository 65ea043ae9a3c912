package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// This file provides the city search backed by the Open-Meteo geocoding API.
// The lookup sits behind the GeocodingService interface so handlers and tests
// can substitute their own implementation.

// ErrEmptyQuery is returned when a search is attempted with a blank city name.
var ErrEmptyQuery = errors.New("city name must not be empty")

// GeocodingError reports a non-success HTTP status from the geocoding API.
type GeocodingError struct {
	Status int
}

func (e *GeocodingError) Error() string {
	return fmt.Sprintf("Geocoding API error: %d", e.Status)
}

// GeocodingService resolves a free-text city name into candidate places.
type GeocodingService interface {
	SearchCities(ctx context.Context, name string) ([]GeocodingResult, error)
}

// OpenMeteoGeocodingService implements GeocodingService against the Open-Meteo API.
type OpenMeteoGeocodingService struct {
	geocodeURL string
	httpClient *http.Client
}

// NewOpenMeteoGeocodingService creates a new OpenMeteoGeocodingService.
func NewOpenMeteoGeocodingService(geocodeURL string, httpClient *http.Client) *OpenMeteoGeocodingService {
	return &OpenMeteoGeocodingService{
		geocodeURL: geocodeURL,
		httpClient: httpClient,
	}
}

// searchResultCount is the number of candidates requested per search.
const searchResultCount = 10

// SearchCities returns up to ten candidate places for name. The list may be empty.
func (s *OpenMeteoGeocodingService) SearchCities(ctx context.Context, name string) ([]GeocodingResult, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyQuery
	}

	response, err := fetchJSON[GeocodingResponse](ctx, s.httpClient, s.searchURL(name), func(status int) error {
		return &GeocodingError{Status: status}
	})
	if err != nil {
		return nil, err
	}

	if response.Results == nil {
		return []GeocodingResult{}, nil
	}
	return response.Results, nil
}

// searchURL builds the request URL. The name is written with component encoding
// (spaces as %20) rather than url.Values form encoding.
func (s *OpenMeteoGeocodingService) searchURL(name string) string {
	return fmt.Sprintf("%s?name=%s&count=%d&language=en&format=json",
		s.geocodeURL, encodeURIComponent(name), searchResultCount)
}
