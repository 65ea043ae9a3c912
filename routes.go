package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (cfg *apiConfig) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		requestIDMiddleware,
		loggingMiddleware(cfg.logger),
		metricsMiddleware,
	)
	r.MethodNotAllowed(cfg.handlerNotAllowed)

	r.Get("/", cfg.handlerSearchPage)
	r.Post("/select", cfg.handlerSelectCity)
	r.Post("/history/clear", cfg.handlerClearHistoryForm)
	r.Get("/forecast/{lat}/{lon}/{city}", cfg.handlerForecastPage)

	r.Route("/api", func(r chi.Router) {
		r.Use(corsMiddleware)
		r.Get("/search", cfg.handlerAPISearch)
		r.Get("/forecast", cfg.handlerAPIForecast)
		r.Get("/history", cfg.handlerAPIHistory)
		r.Post("/history", cfg.handlerAPIAddHistory)
		r.Delete("/history", cfg.handlerAPIClearHistory)
	})

	r.Get("/healthz", cfg.handlerHealth)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
