package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCoordinates(t *testing.T) {
	cfg := &apiConfig{validate: validator.New(validator.WithRequiredStructEnabled())}

	testCases := []struct {
		name      string
		lat, lon  string
		wantLat   float64
		wantLon   float64
		expectErr bool
	}{
		{name: "Valid", lat: "52.52", lon: "13.41", wantLat: 52.52, wantLon: 13.41},
		{name: "Negative", lat: "-23.5475", lon: "-46.63611", wantLat: -23.5475, wantLon: -46.63611},
		{name: "Whitespace", lat: " 1 ", lon: "2", wantLat: 1, wantLon: 2},
		{name: "Out of range is passed through", lat: "123", lon: "500", wantLat: 123, wantLon: 500},
		{name: "Empty latitude", lat: "", lon: "13.41", expectErr: true},
		{name: "Not a number", lat: "52.52", lon: "east", expectErr: true},
		{name: "Exponent", lat: "1e3", lon: "0", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			lat, lon, err := cfg.parseCoordinates(tc.lat, tc.lon)
			if tc.expectErr {
				assert.ErrorIs(t, err, errInvalidCoordinates)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.wantLat, lat)
			assert.Equal(t, tc.wantLon, lon)
		})
	}
}

func TestPathParam(t *testing.T) {
	testCases := []struct {
		target string
		want   string
	}{
		{"/c/Berlin", "Berlin"},
		{"/c/S%C3%A3o%20Paulo%2C%20Brazil", "São Paulo, Brazil"},
		{"/c/AC%2FDC%20City", "AC/DC City"},
		{"/c/100%25%20Town", "100% Town"},
	}

	for _, tc := range testCases {
		t.Run(tc.target, func(t *testing.T) {
			var got string
			var gotErr error
			r := chi.NewRouter()
			r.Get("/c/{city}", func(w http.ResponseWriter, r *http.Request) {
				got, gotErr = pathParam(r, "city")
			})
			rr := httptest.NewRecorder()
			r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.target, nil))

			require.Equal(t, http.StatusOK, rr.Code)
			require.NoError(t, gotErr)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUpstreamStatus(t *testing.T) {
	testCases := []struct {
		err  error
		want int
	}{
		{&GeocodingError{Status: 500}, http.StatusBadGateway},
		{&ForecastError{Status: 404}, http.StatusBadGateway},
		{fmt.Errorf("%w: daily series is empty", ErrMalformedForecast), http.StatusBadGateway},
		{ErrEmptyQuery, http.StatusBadRequest},
		{fmt.Errorf("%w: lat", errInvalidCoordinates), http.StatusBadRequest},
		{fmt.Errorf("Get \"x\": %w", context.DeadlineExceeded), http.StatusGatewayTimeout},
		{errors.New("connection refused"), http.StatusBadGateway},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, upstreamStatus(tc.err), "upstreamStatus(%v)", tc.err)
	}
}
