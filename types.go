package main

// GeocodingResult is a single candidate place returned by the Open-Meteo geocoding API.
type GeocodingResult struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Latitude    float64  `json:"latitude"`
	Longitude   float64  `json:"longitude"`
	Elevation   float64  `json:"elevation"`
	FeatureCode string   `json:"feature_code"`
	CountryCode string   `json:"country_code"`
	Admin1ID    int64    `json:"admin1_id"`
	Admin2ID    int64    `json:"admin2_id"`
	Admin3ID    int64    `json:"admin3_id"`
	Admin4ID    int64    `json:"admin4_id"`
	Timezone    string   `json:"timezone"`
	Population  int64    `json:"population"`
	Postcodes   []string `json:"postcodes"`
	CountryID   int64    `json:"country_id"`
	Country     string   `json:"country"`
	Admin1      string   `json:"admin1"`
	Admin2      string   `json:"admin2"`
	Admin3      string   `json:"admin3"`
	Admin4      string   `json:"admin4"`
}

// Label is the display form used for history entries and the forecast page title.
func (g GeocodingResult) Label() string {
	return g.Name + ", " + g.Country
}

type GeocodingResponse struct {
	Results          []GeocodingResult `json:"results"`
	GenerationTimeMs float64           `json:"generationtime_ms"`
}

type CurrentWeather struct {
	Temperature   float64 `json:"temperature"`
	WindSpeed     float64 `json:"windspeed"`
	WindDirection float64 `json:"winddirection"`
	WeatherCode   int     `json:"weathercode"`
	IsDay         int     `json:"is_day"`
	Time          string  `json:"time"`
}

// DailySeries holds index-aligned per-day sequences. Every slice has the
// same length as Time.
type DailySeries struct {
	Time                        []string  `json:"time"`
	WeatherCode                 []int     `json:"weathercode"`
	Temperature2mMax            []float64 `json:"temperature_2m_max"`
	Temperature2mMin            []float64 `json:"temperature_2m_min"`
	ApparentTemperatureMax      []float64 `json:"apparent_temperature_max"`
	ApparentTemperatureMin      []float64 `json:"apparent_temperature_min"`
	Sunrise                     []string  `json:"sunrise"`
	Sunset                      []string  `json:"sunset"`
	PrecipitationSum            []float64 `json:"precipitation_sum"`
	RainSum                     []float64 `json:"rain_sum"`
	ShowersSum                  []float64 `json:"showers_sum"`
	SnowfallSum                 []float64 `json:"snowfall_sum"`
	PrecipitationHours          []float64 `json:"precipitation_hours"`
	PrecipitationProbabilityMax []float64 `json:"precipitation_probability_max"`
	WindSpeed10mMax             []float64 `json:"windspeed_10m_max"`
	WindGusts10mMax             []float64 `json:"windgusts_10m_max"`
	WindDirection10mDominant    []float64 `json:"winddirection_10m_dominant"`
	ShortwaveRadiationSum       []float64 `json:"shortwave_radiation_sum"`
	Et0FaoEvapotranspiration    []float64 `json:"et0_fao_evapotranspiration"`
}

// Len is the number of days in the series.
func (d DailySeries) Len() int {
	return len(d.Time)
}

type DailyUnits struct {
	Time             string `json:"time"`
	WeatherCode      string `json:"weathercode"`
	Temperature2mMax string `json:"temperature_2m_max"`
	Temperature2mMin string `json:"temperature_2m_min"`
}

type ForecastResponse struct {
	Latitude             float64         `json:"latitude"`
	Longitude            float64         `json:"longitude"`
	GenerationTimeMs     float64         `json:"generationtime_ms"`
	UTCOffsetSeconds     int             `json:"utc_offset_seconds"`
	Timezone             string          `json:"timezone"`
	TimezoneAbbreviation string          `json:"timezone_abbreviation"`
	Elevation            float64         `json:"elevation"`
	CurrentWeather       *CurrentWeather `json:"current_weather"`
	DailyUnits           DailyUnits      `json:"daily_units"`
	Daily                DailySeries     `json:"daily"`
}

// SearchHistoryItem is one entry of the recent-searches list. Timestamp is
// Unix milliseconds, set once at insertion.
type SearchHistoryItem struct {
	City      string  `json:"city"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timestamp int64   `json:"timestamp"`
}

// The following structs are the JSON API payloads.

type SearchResponse struct {
	Query   string            `json:"query"`
	Results []GeocodingResult `json:"results"`
}

type ForecastAPIResponse struct {
	City     string           `json:"city,omitempty"`
	Forecast ForecastResponse `json:"forecast"`
	Current  string           `json:"current_condition"`
	Chart    Chart            `json:"chart"`
	Days     []DayCard        `json:"days"`
}

type HistoryResponse struct {
	Items []SearchHistoryItem `json:"items"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
