// Package main: HTTP route registration.
//
// initRoutes, tüm endpoint'leri mux'a bağlar. Global middleware'ler
// (recovery, metrics, CORS) main.go'da mux'ın dışına sarılır.
package main

import (
	"net/http"

	"github.com/akinalp/kbbsite/static"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// initRoutes, endpoint'leri mux'a bağlar.
//
// "GET /{$}" sadece kök path ile eşleşir; bilinmeyen path'ler 404 döner.
func initRoutes(mux *http.ServeMux, h *Handlers, limiters *RateLimiters) {
	// Sayfa
	mux.HandleFunc("GET /{$}", h.Site.Index)
	mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServerFS(static.Assets())))
	mux.HandleFunc("GET /images/{name}", h.Images.Serve)

	// API
	mux.Handle("GET /api/google-reviews", limiters.Reviews.Middleware(http.HandlerFunc(h.Reviews.List)))
	mux.Handle("POST /api/appointments", limiters.Appointment.Middleware(http.HandlerFunc(h.Appointment.Create)))
	mux.HandleFunc("GET /api/health", h.Health.Check)

	// Prometheus
	mux.Handle("GET /metrics", promhttp.Handler())

	// WebSocket: yorum gösterim oturumu, ?view=<sayfa kimliği>
	mux.HandleFunc("GET /ws/reviews", h.WS.HandleConnection)
}
