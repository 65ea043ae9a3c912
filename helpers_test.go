package main

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

//go:embed testdata/*.json
var testData embed.FS

// --- Mocks ---

type mockGeocodingService struct {
	SearchCitiesFunc func(ctx context.Context, name string) ([]GeocodingResult, error)
}

func (m *mockGeocodingService) SearchCities(ctx context.Context, name string) ([]GeocodingResult, error) {
	if m.SearchCitiesFunc != nil {
		return m.SearchCitiesFunc(ctx, name)
	}
	return nil, errors.New("SearchCitiesFunc not implemented in mock")
}

type mockForecastService struct {
	GetForecastFunc func(ctx context.Context, lat, lon float64) (ForecastResponse, error)
}

func (m *mockForecastService) GetForecast(ctx context.Context, lat, lon float64) (ForecastResponse, error) {
	if m.GetForecastFunc != nil {
		return m.GetForecastFunc(ctx, lat, lon)
	}
	return ForecastResponse{}, errors.New("GetForecastFunc not implemented in mock")
}

// mockStore wraps a MemoryStore and lets individual operations be overridden.
type mockStore struct {
	*MemoryStore
	getFunc    func(ctx context.Context, key string) (string, error)
	setFunc    func(ctx context.Context, key, value string) error
	deleteFunc func(ctx context.Context, key string) error
	pingFunc   func(ctx context.Context) error
	closed     bool
}

func newMockStore() *mockStore {
	return &mockStore{MemoryStore: NewMemoryStore()}
}

func (m *mockStore) Get(ctx context.Context, key string) (string, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, key)
	}
	return m.MemoryStore.Get(ctx, key)
}

func (m *mockStore) Set(ctx context.Context, key, value string) error {
	if m.setFunc != nil {
		return m.setFunc(ctx, key, value)
	}
	return m.MemoryStore.Set(ctx, key, value)
}

func (m *mockStore) Delete(ctx context.Context, key string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, key)
	}
	return m.MemoryStore.Delete(ctx, key)
}

func (m *mockStore) Ping(ctx context.Context) error {
	if m.pingFunc != nil {
		return m.pingFunc(ctx)
	}
	return nil
}

func (m *mockStore) Close() error {
	m.closed = true
	return m.MemoryStore.Close()
}

// --- Helpers ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func readTestData(t *testing.T, name string) []byte {
	t.Helper()
	data, err := testData.ReadFile("testdata/" + name)
	require.NoError(t, err, "failed to read test data %s", name)
	return data
}

func loadForecastFixture(t *testing.T) ForecastResponse {
	t.Helper()
	var f ForecastResponse
	require.NoError(t, json.Unmarshal(readTestData(t, "forecast.json"), &f))
	return f
}

// serveTestData starts a server answering every request with the named fixture.
func serveTestData(t *testing.T, name string) *httptest.Server {
	t.Helper()
	data := readTestData(t, name)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}))
	t.Cleanup(server.Close)
	return server
}

// newTestAPIConfig returns an apiConfig backed by the given services and store.
func newTestAPIConfig(t *testing.T, geocoder GeocodingService, forecaster ForecastService, store KeyValueStore) *apiConfig {
	t.Helper()
	templates, err := parseTemplates()
	require.NoError(t, err)
	logger := discardLogger()
	return &apiConfig{
		geocoder:   geocoder,
		forecaster: forecaster,
		history:    NewSearchHistory(store, logger),
		store:      store,
		templates:  templates,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		httpClient: http.DefaultClient,
		port:       "8080",
		logger:     logger,
	}
}
