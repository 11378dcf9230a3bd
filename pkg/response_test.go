package pkg

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_MapsWrappedSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"bad request", fmt.Errorf("%w: phone is required", ErrBadRequest), http.StatusBadRequest, "bad request: phone is required"},
		{"not found", ErrNotFound, http.StatusNotFound, "not found"},
		{"rate limited", fmt.Errorf("%w: slow down", ErrRateLimited), http.StatusTooManyRequests, "too many requests: slow down"},
		{"unavailable", ErrUnavailable, http.StatusServiceUnavailable, "service unavailable"},
		{"internal hides detail", errors.New("disk on fire"), http.StatusInternalServerError, "internal error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			Error(rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)

			var resp APIResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.Equal(t, tt.msg, resp.Error)
		})
	}
}

func TestJSON_WrapsData(t *testing.T) {
	rec := httptest.NewRecorder()
	JSON(rec, http.StatusCreated, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"success":true,"data":{"status":"ok"}}`, rec.Body.String())
}
