// Package middleware, tüm route'ları saran HTTP middleware'lerini içerir.
package middleware

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/akinalp/kbbsite/pkg/metrics"
)

// statusRecorder, metrikler için yanıt kodunu yakalar.
//
// /ws/reviews bağlantıları da bu wrapper'dan geçer; Hijack gorilla/websocket
// upgrade'i için alttaki ResponseWriter'a iletilir.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (rw *statusRecorder) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.status = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *statusRecorder) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	return rw.ResponseWriter.Write(b)
}

func (rw *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	// upgrade başarılı: 101 Switching Protocols
	rw.status = http.StatusSwitchingProtocols
	rw.wroteHeader = true
	return h.Hijack()
}

func (rw *statusRecorder) Flush() {
	if f, ok := rw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap, http.ResponseController için.
func (rw *statusRecorder) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Metrics, istek sayısı ve süresini route pattern'ine göre kaydeder.
//
// Etiket olarak URL yerine ServeMux'un eşleştirdiği pattern kullanılır
// (ör. "GET /images/{name}"); böylece etiket kardinalitesi route sayısıyla sınırlı kalır.
// Hiçbir route'a uymayan istekler "unmatched" olarak sayılır.
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rw, r)

		// ServeMux eşleşen pattern'i aynı *http.Request üzerine yazar.
		path := r.Pattern
		if path == "" {
			path = "unmatched"
		}

		metrics.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(rw.status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
	})
}
