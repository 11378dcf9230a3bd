// Package metrics, sitenin prometheus metriklerini tek yerde tanımlar.
// Tümü promauto ile varsayılan registry'ye kaydedilir ve /metrics'ten okunur.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReviewResolutions, her çözümlemenin hangi kaynaktan sonuçlandığını sayar
	// (injected, network, fallback).
	ReviewResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kbbsite_review_resolutions_total",
			Help: "Total number of review list resolutions by source",
		},
		[]string{"source"},
	)

	// ReviewFetchFailures, ağ denemesinin neden başarısız olduğunu sayar.
	ReviewFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kbbsite_review_fetch_failures_total",
			Help: "Total number of failed review endpoint fetches by reason",
		},
		[]string{"reason"},
	)

	// ReviewFetchDuration, ağ denemesinin süresi.
	ReviewFetchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "kbbsite_review_fetch_duration_seconds",
			Help:    "Review endpoint fetch duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// DisplaySessions, açık yorum gösterim oturumu sayısı.
	DisplaySessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kbbsite_review_display_sessions",
			Help: "Current number of open review display sessions",
		},
	)

	// CircuitBreakerState: 0=closed, 1=half-open, 2=open
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current state of the circuit breaker (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// CircuitBreakerRejected, devre açıkken gönderilmeden reddedilen istekler.
	CircuitBreakerRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_rejected_total",
			Help: "Total number of requests rejected while the circuit breaker was open",
		},
		[]string{"name"},
	)

	// AppointmentRequests, randevu taleplerini sonuca göre sayar (sent, failed, rejected).
	AppointmentRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kbbsite_appointment_requests_total",
			Help: "Total number of appointment requests by outcome",
		},
		[]string{"outcome"},
	)

	// ContentReloads, site içeriğinin yeniden yüklenme denemeleri.
	ContentReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kbbsite_content_reloads_total",
			Help: "Total number of site content reloads by result",
		},
		[]string{"result"},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)
