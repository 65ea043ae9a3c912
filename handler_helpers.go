package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

// This file contains helpers shared by the HTTP handlers: request parameter
// parsing and validation, and mapping service errors to status codes.

var errInvalidCoordinates = errors.New("invalid coordinates")

type searchParams struct {
	Name string `validate:"required"`
}

type selectionParams struct {
	Name    string `validate:"required"`
	Country string
}

type coordinateParams struct {
	Lat string `validate:"required,numeric"`
	Lon string `validate:"required,numeric"`
}

type addHistoryRequest struct {
	City      string   `json:"city" validate:"required"`
	Latitude  *float64 `json:"latitude" validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
}

// parseCoordinates validates and converts a latitude/longitude pair.
// Range is not checked; out-of-range values are left to the upstream API.
func (cfg *apiConfig) parseCoordinates(lat, lon string) (float64, float64, error) {
	params := coordinateParams{Lat: strings.TrimSpace(lat), Lon: strings.TrimSpace(lon)}
	if err := cfg.validate.Struct(params); err != nil {
		return 0, 0, fmt.Errorf("%w: %s", errInvalidCoordinates, validationSummary(err))
	}
	latitude, err := strconv.ParseFloat(params.Lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", errInvalidCoordinates, err)
	}
	longitude, err := strconv.ParseFloat(params.Lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", errInvalidCoordinates, err)
	}
	return latitude, longitude, nil
}

// validationSummary flattens validator errors into "field: tag" pairs.
func validationSummary(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, len(verrs))
	for i, fe := range verrs {
		parts[i] = strings.ToLower(fe.Field()) + ": " + fe.Tag()
	}
	return strings.Join(parts, ", ")
}

// pathParam returns a chi URL parameter in decoded form. chi matches against
// RawPath when the request path holds escapes such as %2F, in which case the
// parameter is still encoded.
func pathParam(r *http.Request, name string) (string, error) {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v, nil
	}
	return url.PathUnescape(v)
}

// upstreamStatus maps an error from a weather service to an HTTP status.
func upstreamStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyQuery), errors.Is(err, errInvalidCoordinates):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
