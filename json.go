package main

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// This file contains helpers for reading JSON request bodies and writing JSON responses.

// maxRequestBodyBytes bounds the JSON bodies accepted by the API.
const maxRequestBodyBytes = 1 << 16

// decodeJSONBody decodes a single JSON object from r into dst. Unknown fields are rejected.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

// respondWithError sends {"error": msg}. When err is set it is logged together with
// the request ID, at error level for 5xx responses and warn level otherwise.
func (cfg *apiConfig) respondWithError(w http.ResponseWriter, r *http.Request, code int, msg string, err error) {
	if err != nil {
		log := cfg.logger.Warn
		if code >= http.StatusInternalServerError {
			log = cfg.logger.Error
		}
		log(msg, "error", err, "status", code, "request_id", requestIDFromContext(r.Context()))
	}
	cfg.respondWithJSON(w, code, ErrorResponse{Error: msg})
}

// respondWithJSON marshals payload before touching the response so an encoding
// failure can still be reported as a 500.
func (cfg *apiConfig) respondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		cfg.logger.Error("error marshalling JSON", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if _, err := w.Write(data); err != nil {
		cfg.logger.Error("error writing response", "error", err)
	}
}
