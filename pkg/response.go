package pkg

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
)

// APIResponse, /api altındaki endpoint'lerin standart yanıt formatı.
//
// İstisna: /api/google-reviews. Tüketici sözleşmesi {reviews: [...]} şeklinde
// sabit olduğu için bu zarfı kullanmaz (bkz. WriteJSON).
type APIResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON, başarılı bir yanıtı standart zarf içinde gönderir.
func JSON(w http.ResponseWriter, status int, data any) {
	WriteJSON(w, status, APIResponse{
		Success: true,
		Data:    data,
	})
}

// Error, hata yanıtı gönderir.
// Domain error'ları otomatik olarak uygun HTTP status code'a çevrilir.
func Error(w http.ResponseWriter, err error) {
	status := mapErrorToStatus(err)
	if status == http.StatusInternalServerError {
		// İç hata detayını client'a sızdırmıyoruz, sadece logluyoruz.
		log.Printf("[api] internal error: %v", err)
		ErrorWithMessage(w, status, ErrInternal.Error())
		return
	}
	ErrorWithMessage(w, status, err.Error())
}

// ErrorWithMessage, özel mesajlı hata yanıtı gönderir.
func ErrorWithMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, APIResponse{
		Success: false,
		Error:   message,
	})
}

// WriteJSON, verilen değeri zarf olmadan JSON olarak yazar.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] failed to encode response: %v", err)
	}
}

// mapErrorToStatus, domain error'ları HTTP status code'larına eşler.
// errors.Is() wrap edilmiş error'ları da doğru eşleştirir.
func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
