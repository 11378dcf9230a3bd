package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/akinalp/kbbsite/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_UsesRoutePattern(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /images/{name}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	handler := Metrics(mux)

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "GET /images/{name}", "404")
	before := testutil.ToFloat64(counter)

	for _, name := range []string{"a.jpg", "b.jpg"} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/images/"+name, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, before+2, testutil.ToFloat64(counter))
}

func TestMetrics_Unmatched(t *testing.T) {
	handler := Metrics(http.NewServeMux())

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")
	before := testutil.ToFloat64(counter)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestStatusRecorder_FirstStatusWins(t *testing.T) {
	rw := &statusRecorder{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}

	_, _ = rw.Write([]byte("ok"))
	rw.WriteHeader(http.StatusTeapot)

	assert.Equal(t, http.StatusOK, rw.status)
}

func TestStatusRecorder_HijackUnsupported(t *testing.T) {
	rw := &statusRecorder{ResponseWriter: httptest.NewRecorder()}
	_, _, err := rw.Hijack()
	assert.Error(t, err)
}

func TestRecovery(t *testing.T) {
	handler := Recovery(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), `"success":false`))
}
