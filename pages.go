package main

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"
	"strconv"
)

//go:embed templates/*.html
var templateFS embed.FS

type searchPage struct {
	View    SearchViewModel
	History []SearchHistoryItem
}

type forecastPage struct {
	View ForecastViewModel
}

type errorPage struct {
	Message string
}

func parseTemplates() (*template.Template, error) {
	return template.New("edweather").Funcs(template.FuncMap{
		"coord":        formatCoordinate,
		"coordValue":   coordinateValue,
		"forecastPath": forecastPath,
	}).ParseFS(templateFS, "templates/*.html")
}

func formatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// coordinateValue renders a coordinate for a form field. It never uses
// exponent notation, so the value posts back through parseCoordinates.
func coordinateValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// forecastPath builds the navigation target for a city: /forecast/<lat>/<lon>/<label>.
func forecastPath(lat, lon float64, label string) string {
	return "/forecast/" +
		strconv.FormatFloat(lat, 'f', -1, 64) + "/" +
		strconv.FormatFloat(lon, 'f', -1, 64) + "/" +
		encodeURIComponent(label)
}

// renderPage executes into a buffer first so a template error still yields a clean 500.
func (cfg *apiConfig) renderPage(w http.ResponseWriter, code int, name string, data any) {
	var buf bytes.Buffer
	if err := cfg.templates.ExecuteTemplate(&buf, name, data); err != nil {
		cfg.logger.Error("error rendering page", "page", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	if _, err := buf.WriteTo(w); err != nil {
		cfg.logger.Error("error writing response", "error", err)
	}
}

func (cfg *apiConfig) renderError(w http.ResponseWriter, code int, msg string) {
	cfg.renderPage(w, code, "error", errorPage{Message: msg})
}
