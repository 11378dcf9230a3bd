// Package httpclient, dış kaynaklara yapılan HTTP çağrıları için ortak istemci.
//
// Yorum kaynağı tek denemelik bir GET'tir; Client yeniden deneme yapmaz.
// Üst üste hata veren kaynaklar CircuitBreakerClient ile kısa süre devre
// dışı bırakılır, böylece her sayfa yüklemesi zaman aşımını beklemez.
package httpclient

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Config, HTTP istemci ayarları.
type Config struct {
	Timeout         time.Duration // tek isteğin üst süresi
	MaxConnsPerHost int
}

// DefaultConfig, varsayılan istemci ayarlarını döner.
func DefaultConfig() Config {
	return Config{
		Timeout:         5 * time.Second,
		MaxConnsPerHost: 10,
	}
}

// Client, http.Client'ı bağlantı havuzu ayarlarıyla sarmalar.
type Client struct {
	httpClient *http.Client
}

// New, yeni bir Client oluşturur.
func New(cfg Config) *Client {
	if cfg.MaxConnsPerHost <= 0 {
		cfg.MaxConnsPerHost = DefaultConfig().MaxConnsPerHost
	}

	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          20,
		MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		},
	}
}

// Do, isteği tek seferde çalıştırır.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	return resp, nil
}

// Get, tek denemelik GET isteği yapar.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create GET request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	return c.Do(ctx, req)
}
