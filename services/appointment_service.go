package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/akinalp/kbbsite/models"
	"github.com/akinalp/kbbsite/pkg"
	"github.com/akinalp/kbbsite/pkg/email"
	"github.com/akinalp/kbbsite/pkg/i18n"
	"github.com/akinalp/kbbsite/pkg/metrics"
	"github.com/google/uuid"
)

// AppointmentService, sayfadaki randevu formunu işler.
type AppointmentService interface {
	// Submit, talebi doğrular ve e-posta ile iletir. E-posta yapılandırılmamışsa
	// pkg.ErrUnavailable, geçersiz talepte pkg.ErrBadRequest döner.
	Submit(ctx context.Context, req *models.AppointmentRequest) (*models.AppointmentReceipt, error)
}

type appointmentService struct {
	sender      email.EmailSender
	defaultLang string
}

// NewAppointmentService, constructor. sender nil olabilir (RESEND_API_KEY
// yoksa); bu durumda her talep pkg.ErrUnavailable ile reddedilir.
func NewAppointmentService(sender email.EmailSender, defaultLang string) AppointmentService {
	return &appointmentService{
		sender:      sender,
		defaultLang: defaultLang,
	}
}

func (s *appointmentService) Submit(ctx context.Context, req *models.AppointmentRequest) (*models.AppointmentReceipt, error) {
	lang := req.Language
	if !i18n.IsSupported(lang) {
		lang = s.defaultLang
	}
	loc := i18n.NewLocalizer(lang)

	if s.sender == nil {
		metrics.AppointmentRequests.WithLabelValues("disabled").Inc()
		return nil, fmt.Errorf("%w: %s", pkg.ErrUnavailable, loc.T("appointment.disabled"))
	}

	if err := req.Validate(); err != nil {
		metrics.AppointmentRequests.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, validationMessage(loc, err))
	}

	requestID := uuid.New().String()
	msg := email.AppointmentMessage{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		Message:   req.Message,
		Language:  lang,
		RequestID: requestID,
	}

	if err := s.sender.SendAppointmentRequest(ctx, msg); err != nil {
		metrics.AppointmentRequests.WithLabelValues("failed").Inc()
		log.Printf("[appointment] failed to send request %s: %v", requestID, err)
		return nil, fmt.Errorf("%w: %s", pkg.ErrUnavailable, loc.T("appointment.disabled"))
	}

	metrics.AppointmentRequests.WithLabelValues("sent").Inc()
	log.Printf("[appointment] request %s sent", requestID)

	return &models.AppointmentReceipt{
		RequestID: requestID,
		Message:   loc.T("appointment.received"),
	}, nil
}

// validationMessage, zorunlu alan hatalarını kullanıcının diline çevirir.
func validationMessage(loc *i18n.Localizer, err error) string {
	switch {
	case errors.Is(err, models.ErrNameRequired):
		return loc.T("appointment.nameRequired")
	case errors.Is(err, models.ErrPhoneRequired):
		return loc.T("appointment.phoneRequired")
	case errors.Is(err, models.ErrPhoneInvalid):
		return loc.T("appointment.phoneInvalid")
	default:
		return err.Error()
	}
}
