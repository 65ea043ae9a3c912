package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleResults = []GeocodingResult{
	{Name: "Berlin", Country: "Germany", Latitude: 52.52437, Longitude: 13.41053},
}

func TestSearchView_Transitions(t *testing.T) {
	testCases := []struct {
		name          string
		results       []GeocodingResult
		err           error
		expectedState string
		expectedError string
	}{
		{
			name:          "Results",
			results:       sampleResults,
			expectedState: "results",
		},
		{
			name:          "No results",
			results:       []GeocodingResult{},
			expectedState: "error",
			expectedError: "No cities found. Please try a different search term.",
		},
		{
			name:          "Client failure",
			err:           &GeocodingError{Status: 500},
			expectedState: "error",
			expectedError: "Failed to search for cities. Please try again.",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			view := NewSearchView()
			assert.Equal(t, "idle", view.Snapshot().State)

			ticket, err := view.Begin("Berlin")
			require.NoError(t, err)
			assert.Equal(t, "searching", view.Snapshot().State)

			assert.True(t, view.Complete(ticket, tc.results, tc.err))

			snap := view.Snapshot()
			assert.Equal(t, tc.expectedState, snap.State)
			assert.Equal(t, tc.expectedError, snap.Error)
			assert.Equal(t, "Berlin", snap.Query)
			if tc.expectedState == "results" {
				assert.Equal(t, tc.results, snap.Results)
			} else {
				assert.Empty(t, snap.Results)
			}
		})
	}
}

func TestSearchView_BusyRejectsReentry(t *testing.T) {
	view := NewSearchView()
	_, err := view.Begin("Berlin")
	require.NoError(t, err)

	_, err = view.Begin("Paris")
	assert.ErrorIs(t, err, ErrBusy)
	assert.Equal(t, "Berlin", view.Snapshot().Query)
}

func TestSearchView_StaleCompletionDiscarded(t *testing.T) {
	view := NewSearchView()
	stale, err := view.Begin("Berlin")
	require.NoError(t, err)

	view.Reset()
	fresh, err := view.Begin("Paris")
	require.NoError(t, err)

	assert.False(t, view.Complete(stale, sampleResults, nil))
	assert.Equal(t, "searching", view.Snapshot().State)

	assert.True(t, view.Complete(fresh, nil, errors.New("boom")))
	assert.Equal(t, "error", view.Snapshot().State)
}

func TestSearchView_CompletionAfterCloseDiscarded(t *testing.T) {
	view := NewSearchView()
	ticket, err := view.Begin("Berlin")
	require.NoError(t, err)

	view.Close()
	assert.False(t, view.Complete(ticket, sampleResults, nil))
	assert.Equal(t, "searching", view.Snapshot().State)

	_, err = view.Begin("Paris")
	assert.ErrorIs(t, err, ErrViewClosed)
}

func TestSearchView_Search(t *testing.T) {
	var gotQuery string
	geocoder := &mockGeocodingService{
		SearchCitiesFunc: func(ctx context.Context, name string) ([]GeocodingResult, error) {
			gotQuery = name
			return sampleResults, nil
		},
	}

	view := NewSearchView()
	require.NoError(t, view.Search(context.Background(), geocoder, "Berlin", discardLogger()))
	assert.Equal(t, "Berlin", gotQuery)
	assert.Equal(t, "results", view.Snapshot().State)

	// A new search is allowed once the previous one has completed.
	require.NoError(t, view.Search(context.Background(), geocoder, "Berlin", discardLogger()))
}

func TestSearchView_SearchDiscardsLateResult(t *testing.T) {
	view := NewSearchView()
	geocoder := &mockGeocodingService{
		SearchCitiesFunc: func(ctx context.Context, name string) ([]GeocodingResult, error) {
			// The page is torn down while the request is in flight.
			view.Close()
			return sampleResults, nil
		},
	}

	require.NoError(t, view.Search(context.Background(), geocoder, "Berlin", discardLogger()))
	snap := view.Snapshot()
	assert.Equal(t, "searching", snap.State)
	assert.Empty(t, snap.Results)
}

func TestForecastView_Loaded(t *testing.T) {
	forecast := loadForecastFixture(t)
	forecaster := &mockForecastService{
		GetForecastFunc: func(ctx context.Context, lat, lon float64) (ForecastResponse, error) {
			assert.Equal(t, 52.52, lat)
			assert.Equal(t, 13.41, lon)
			return forecast, nil
		},
	}

	view := NewForecastView("Berlin, Germany")
	assert.Equal(t, "idle", view.Snapshot().State)
	require.NoError(t, view.Load(context.Background(), forecaster, 52.52, 13.41, discardLogger()))

	snap := view.Snapshot()
	assert.Equal(t, "loaded", snap.State)
	assert.Equal(t, "Berlin, Germany", snap.City)
	assert.Equal(t, "Partly cloudy", snap.Condition)
	assert.Len(t, snap.Chart.HighPoints, 7)
	require.Len(t, snap.Days, 7)

	assert.Equal(t, DayCard{
		Date:              "2024-06-04",
		Label:             "Tue, Jun 4",
		Description:       "Slight rain",
		High:              18,
		Low:               13,
		Precipitation:     4.2,
		ShowPrecipitation: true,
	}, snap.Days[1])
	assert.False(t, snap.Days[0].ShowPrecipitation)
}

func TestForecastView_Error(t *testing.T) {
	forecaster := &mockForecastService{
		GetForecastFunc: func(ctx context.Context, lat, lon float64) (ForecastResponse, error) {
			return ForecastResponse{}, &ForecastError{Status: 404}
		},
	}

	view := NewForecastView("Nowhere, Atlantis")
	err := view.Load(context.Background(), forecaster, 0, 0, discardLogger())
	require.Error(t, err)

	snap := view.Snapshot()
	assert.Equal(t, "error", snap.State)
	assert.Equal(t, "Failed to fetch weather data. Please try again.", snap.Error)
	assert.Empty(t, snap.Days)
}

func TestForecastView_StaleAndBusy(t *testing.T) {
	forecast := loadForecastFixture(t)
	view := NewForecastView("Berlin, Germany")

	stale, err := view.Begin()
	require.NoError(t, err)
	_, err = view.Begin()
	assert.ErrorIs(t, err, ErrBusy)

	view.Reset()
	assert.False(t, view.Complete(stale, forecast, nil))
	assert.Equal(t, "idle", view.Snapshot().State)

	fresh, err := view.Begin()
	require.NoError(t, err)
	view.Close()
	assert.False(t, view.Complete(fresh, forecast, nil))
	assert.Equal(t, "loading", view.Snapshot().State)
}

func TestForecastView_MissingCurrentWeather(t *testing.T) {
	view := NewForecastView("Berlin, Germany")
	ticket, err := view.Begin()
	require.NoError(t, err)
	require.True(t, view.Complete(ticket, ForecastResponse{}, nil))

	snap := view.Snapshot()
	assert.Equal(t, "error", snap.State)
	assert.Equal(t, "No weather data available", snap.Error)
}

func TestBuildDayCards(t *testing.T) {
	cards := buildDayCards(DailySeries{
		Time:             []string{"2024-12-31", "not-a-date"},
		WeatherCode:      []int{71, 42},
		Temperature2mMax: []float64{-0.5, 3.5},
		Temperature2mMin: []float64{-7.6, 1.2},
		PrecipitationSum: []float64{2.5, 0},
	})

	require.Len(t, cards, 2)
	assert.Equal(t, "Tue, Dec 31", cards[0].Label)
	assert.Equal(t, "Slight snow fall", cards[0].Description)
	assert.Equal(t, 0, cards[0].High)
	assert.Equal(t, -8, cards[0].Low)
	assert.True(t, cards[0].ShowPrecipitation)

	assert.Equal(t, "not-a-date", cards[1].Label)
	assert.Equal(t, "Unknown", cards[1].Description)
	assert.Equal(t, 4, cards[1].High)
	assert.False(t, cards[1].ShowPrecipitation)
}
