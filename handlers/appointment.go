package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/akinalp/kbbsite/models"
	"github.com/akinalp/kbbsite/pkg"
	"github.com/akinalp/kbbsite/pkg/i18n"
	"github.com/akinalp/kbbsite/services"
)

// appointmentMaxBody, randevu formu gövdesinin üst sınırı (16KB).
const appointmentMaxBody = 16 << 10

// AppointmentHandler, randevu formu endpoint'i.
type AppointmentHandler struct {
	appointmentService services.AppointmentService
}

// NewAppointmentHandler, constructor.
func NewAppointmentHandler(appointmentService services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// Create godoc
// POST /api/appointments
// Body: { "name": "...", "phone": "...", "email": "...", "message": "...", "language": "tr" }
// Response: { "success": true, "data": { "request_id": "...", "message": "..." } }
func (h *AppointmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, appointmentMaxBody)

	var req models.AppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.ErrorWithMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Language == "" {
		req.Language = i18n.DetectLanguage(r.Header.Get("Accept-Language"))
	}

	receipt, err := h.appointmentService.Submit(r.Context(), &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}

	pkg.JSON(w, http.StatusCreated, receipt)
}
