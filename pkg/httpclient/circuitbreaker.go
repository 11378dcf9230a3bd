package httpclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/akinalp/kbbsite/pkg/metrics"
	"github.com/sony/gobreaker/v2"
)

// CircuitBreakerConfig, devre kesici ayarları.
type CircuitBreakerConfig struct {
	// Name, metrik ve loglarda görünen ad.
	Name string

	// MaxRequests, yarı açık durumda izin verilen deneme sayısı.
	MaxRequests uint32

	// Interval, kapalı durumda sayaçların sıfırlanma periyodu.
	Interval time.Duration

	// Timeout, açık durumdan yarı açığa geçmeden önce beklenen süre.
	Timeout time.Duration

	// FailureRatio, devreyi açan hata oranı (0.5 → %50).
	FailureRatio float64

	// MinRequests, oran değerlendirilmeden önce gereken en az istek sayısı.
	MinRequests uint32
}

// DefaultCircuitBreakerConfig, yorum kaynağı için varsayılan ayarlar.
func DefaultCircuitBreakerConfig(name string) CircuitBreakerConfig {
	return CircuitBreakerConfig{
		Name:         name,
		MaxRequests:  1,
		Interval:     60 * time.Second,
		Timeout:      30 * time.Second,
		FailureRatio: 0.5,
		MinRequests:  5,
	}
}

// ErrCircuitOpen, devre açıkken istek hiç gönderilmediğinde döner.
var ErrCircuitOpen = gobreaker.ErrOpenState

// CircuitBreakerClient, Client'ı devre kesici ile sarmalar.
// 5xx yanıtlar ve ağ hataları başarısızlık sayılır; 4xx sayılmaz.
type CircuitBreakerClient struct {
	client  *Client
	breaker *gobreaker.CircuitBreaker[*http.Response]
	name    string
}

// NewCircuitBreakerClient, mevcut istemciyi devre kesiciyle sarmalar.
func NewCircuitBreakerClient(client *Client, cbCfg CircuitBreakerConfig) *CircuitBreakerClient {
	settings := gobreaker.Settings{
		Name:        cbCfg.Name,
		MaxRequests: cbCfg.MaxRequests,
		Interval:    cbCfg.Interval,
		Timeout:     cbCfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cbCfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cbCfg.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("[httpclient] circuit breaker %s: %s -> %s", name, from, to)
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	}

	metrics.CircuitBreakerState.WithLabelValues(cbCfg.Name).Set(0)

	return &CircuitBreakerClient{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker[*http.Response](settings),
		name:    cbCfg.Name,
	}
}

// Do, isteği devre kesici üzerinden çalıştırır.
// Devre açıksa istek gönderilmez, ErrCircuitOpen döner.
func (c *CircuitBreakerClient) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.breaker.Execute(func() (*http.Response, error) {
		resp, err := c.client.Do(ctx, req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode >= 500 {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			_ = resp.Body.Close()
			return nil, fmt.Errorf("server error %d: %s", resp.StatusCode, string(body))
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, ErrCircuitOpen) {
			metrics.CircuitBreakerRejected.WithLabelValues(c.name).Inc()
		}
		return nil, err
	}
	return resp, nil
}

// Get, devre kesici üzerinden GET isteği yapar.
func (c *CircuitBreakerClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create GET request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.Do(ctx, req)
}

// State, devre kesicinin anlık durumunu döner.
func (c *CircuitBreakerClient) State() gobreaker.State {
	return c.breaker.State()
}

// stateToFloat, gobreaker durumunu prometheus gauge değerine çevirir.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
