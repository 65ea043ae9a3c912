package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ErrMalformedForecast is returned when a successful forecast response is missing
// data the forecast page depends on, or its daily sequences are not aligned.
var ErrMalformedForecast = errors.New("malformed forecast response")

// ForecastError reports a non-success HTTP status from the forecast API.
type ForecastError struct {
	Status int
}

func (e *ForecastError) Error() string {
	return fmt.Sprintf("Weather API error: %d", e.Status)
}

// dailyVariables is the fixed set of daily fields requested from the forecast API.
var dailyVariables = []string{
	"weathercode",
	"temperature_2m_max",
	"temperature_2m_min",
	"apparent_temperature_max",
	"apparent_temperature_min",
	"sunrise",
	"sunset",
	"precipitation_sum",
	"rain_sum",
	"showers_sum",
	"snowfall_sum",
	"precipitation_hours",
	"precipitation_probability_max",
	"windspeed_10m_max",
	"windgusts_10m_max",
	"winddirection_10m_dominant",
	"shortwave_radiation_sum",
	"et0_fao_evapotranspiration",
}

const forecastDays = 7

// ForecastService fetches current conditions and a daily series for a coordinate pair.
type ForecastService interface {
	GetForecast(ctx context.Context, lat, lon float64) (ForecastResponse, error)
}

type OpenMeteoForecastService struct {
	forecastURL string
	httpClient  *http.Client
}

func NewOpenMeteoForecastService(forecastURL string, httpClient *http.Client) *OpenMeteoForecastService {
	return &OpenMeteoForecastService{
		forecastURL: forecastURL,
		httpClient:  httpClient,
	}
}

// GetForecast requests the 7-day forecast for lat/lon. Coordinates are passed through
// to the remote service without range checks.
func (s *OpenMeteoForecastService) GetForecast(ctx context.Context, lat, lon float64) (ForecastResponse, error) {
	forecast, err := fetchJSON[ForecastResponse](ctx, s.httpClient, s.forecastRequestURL(lat, lon), func(status int) error {
		return &ForecastError{Status: status}
	})
	if err != nil {
		return ForecastResponse{}, err
	}

	if err := validateForecast(forecast); err != nil {
		return ForecastResponse{}, err
	}
	return forecast, nil
}

func (s *OpenMeteoForecastService) forecastRequestURL(lat, lon float64) string {
	params := url.Values{}
	params.Set("latitude", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("longitude", strconv.FormatFloat(lon, 'f', -1, 64))
	params.Set("current_weather", "true")
	params.Set("daily", strings.Join(dailyVariables, ","))
	params.Set("timezone", "auto")
	params.Set("forecast_days", strconv.Itoa(forecastDays))
	return s.forecastURL + "?" + params.Encode()
}

// validateForecast rejects responses the renderer cannot use instead of letting
// missing fields flow through as zero values.
func validateForecast(f ForecastResponse) error {
	if f.CurrentWeather == nil {
		return fmt.Errorf("%w: current_weather missing", ErrMalformedForecast)
	}

	n := f.Daily.Len()
	if n == 0 {
		return fmt.Errorf("%w: daily series is empty", ErrMalformedForecast)
	}

	series := []struct {
		name string
		len  int
	}{
		{"weathercode", len(f.Daily.WeatherCode)},
		{"temperature_2m_max", len(f.Daily.Temperature2mMax)},
		{"temperature_2m_min", len(f.Daily.Temperature2mMin)},
		{"precipitation_sum", len(f.Daily.PrecipitationSum)},
	}
	for _, s := range series {
		if s.len != n {
			return fmt.Errorf("%w: %s has %d values, expected %d", ErrMalformedForecast, s.name, s.len, n)
		}
	}
	return nil
}
