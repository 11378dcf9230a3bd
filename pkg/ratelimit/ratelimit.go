// Package ratelimit, IP bazlı sabit pencereli istek sınırlayıcı.
//
// /api/google-reviews ve /api/appointments uçlarını korur. Sayaçlar bellekte
// tutulur (tek instance); süresi geçmiş pencereler arka planda temizlenir.
package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/akinalp/kbbsite/pkg"
)

// bucket, bir IP adresinin o anki penceresi.
type bucket struct {
	count       int
	windowStart time.Time
}

// IPRateLimiter, IP başına window içinde en fazla maxRequests isteğe izin verir.
//
//	limiter := NewIPRateLimiter(30, time.Minute)
//	mux.Handle("GET /api/google-reviews", limiter.Middleware(handler))
type IPRateLimiter struct {
	mu          sync.RWMutex
	buckets     map[string]*bucket
	maxRequests int
	window      time.Duration
	now         func() time.Time
	stopCleanup chan struct{}
	closeOnce   sync.Once

	// skipLocal: proxy header'ı taşımayan, doğrudan loopback'ten gelen istekler sayılmaz.
	skipLocal bool
}

// NewIPRateLimiter, sınırlayıcıyı oluşturur ve temizleme goroutine'ini başlatır.
func NewIPRateLimiter(maxRequests int, window time.Duration) *IPRateLimiter {
	rl := &IPRateLimiter{
		buckets:     make(map[string]*bucket),
		maxRequests: maxRequests,
		window:      window,
		now:         time.Now,
		stopCleanup: make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// SkipLocalRequests, sunucunun kendi içinden yaptığı istekleri limitten muaf tutar.
// Sadece RemoteAddr loopback olan ve X-Forwarded-For / X-Real-IP taşımayan
// istekler muaftır; header'lar istemci kontrolündedir.
// Construction sırasında, limiter kullanılmadan önce çağrılmalıdır.
func (rl *IPRateLimiter) SkipLocalRequests() *IPRateLimiter {
	rl.skipLocal = true
	return rl
}

// Allow, isteği sayar ve limit aşılmadıysa true döner.
func (rl *IPRateLimiter) Allow(ip string) bool {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, exists := rl.buckets[ip]
	if !exists {
		rl.buckets[ip] = &bucket{count: 1, windowStart: now}
		return true
	}

	if now.Sub(b.windowStart) > rl.window {
		b.count = 1
		b.windowStart = now
		return true
	}

	b.count++
	return b.count <= rl.maxRequests
}

// RetryAfterSeconds, pencerenin bitmesine kalan süre (Retry-After için).
func (rl *IPRateLimiter) RetryAfterSeconds(ip string) int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	b, exists := rl.buckets[ip]
	if !exists {
		return 0
	}

	remaining := rl.window - rl.now().Sub(b.windowStart)
	if remaining < 0 {
		return 0
	}
	return int(remaining.Seconds()) + 1
}

// Middleware, limiti aşan isteklere 429 ve Retry-After header'ı döner.
// SkipLocalRequests açıksa sunucunun kendi iç istekleri sayılmaz.
func (rl *IPRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.skipLocal && isLocalRequest(r) {
			next.ServeHTTP(w, r)
			return
		}
		ip := ExtractIP(r)
		if !rl.Allow(ip) {
			retry := rl.RetryAfterSeconds(ip)
			w.Header().Set("Retry-After", strconv.Itoa(retry))
			pkg.Error(w, fmt.Errorf("%w: retry in %s", pkg.ErrRateLimited, FormatRetryMessage(retry)))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Close, temizleme goroutine'ini durdurur.
func (rl *IPRateLimiter) Close() {
	rl.closeOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *IPRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *IPRateLimiter) cleanup() {
	now := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for ip, b := range rl.buckets {
		if now.Sub(b.windowStart) > rl.window {
			delete(rl.buckets, ip)
		}
	}
}

// ExtractIP, isteğin istemci IP'sini bulur.
// Sıra: X-Forwarded-For (ilk değer), X-Real-IP, RemoteAddr.
// Site nginx arkasında çalıştığında RemoteAddr her zaman proxy'dir.
func ExtractIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// isLocalRequest, isteğin proxy üzerinden değil doğrudan loopback'ten geldiğini kontrol eder.
func isLocalRequest(r *http.Request) bool {
	if r.Header.Get("X-Forwarded-For") != "" || r.Header.Get("X-Real-IP") != "" {
		return false
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	parsed := net.ParseIP(host)
	return parsed != nil && parsed.IsLoopback()
}

// FormatRetryMessage, saniyeyi okunabilir süreye çevirir ("2 minute(s)").
func FormatRetryMessage(seconds int) string {
	if seconds >= 60 {
		return fmt.Sprintf("%d minute(s)", seconds/60)
	}
	return fmt.Sprintf("%d second(s)", seconds)
}
