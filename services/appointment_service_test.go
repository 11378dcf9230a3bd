package services

import (
	"context"
	"errors"
	"testing"

	"github.com/akinalp/kbbsite/models"
	"github.com/akinalp/kbbsite/pkg"
	"github.com/akinalp/kbbsite/pkg/email"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []email.AppointmentMessage
	err  error
}

func (f *fakeSender) SendAppointmentRequest(ctx context.Context, msg email.AppointmentMessage) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func TestAppointmentService_Submit(t *testing.T) {
	sender := &fakeSender{}
	svc := NewAppointmentService(sender, "tr")

	receipt, err := svc.Submit(context.Background(), &models.AppointmentRequest{
		Name:    " Ayşe Yılmaz ",
		Phone:   "0501 725 60 51",
		Message: "Rinoplasti hakkında bilgi almak istiyorum.",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, receipt.RequestID)
	assert.Contains(t, receipt.Message, "Randevu talebiniz alındı")

	require.Len(t, sender.sent, 1)
	assert.Equal(t, "Ayşe Yılmaz", sender.sent[0].Name)
	assert.Equal(t, receipt.RequestID, sender.sent[0].RequestID)
	assert.Equal(t, "tr", sender.sent[0].Language)
}

func TestAppointmentService_LocalizedValidation(t *testing.T) {
	svc := NewAppointmentService(&fakeSender{}, "tr")

	_, err := svc.Submit(context.Background(), &models.AppointmentRequest{Phone: "05017256051"})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
	assert.Contains(t, err.Error(), "ad soyad zorunludur")

	_, err = svc.Submit(context.Background(), &models.AppointmentRequest{Name: "A", Phone: "x", Language: "en"})
	assert.ErrorIs(t, err, pkg.ErrBadRequest)
	assert.Contains(t, err.Error(), "invalid phone number")
}

func TestAppointmentService_DisabledWithoutSender(t *testing.T) {
	svc := NewAppointmentService(nil, "tr")

	_, err := svc.Submit(context.Background(), &models.AppointmentRequest{Name: "A", Phone: "05017256051"})
	assert.ErrorIs(t, err, pkg.ErrUnavailable)
}

func TestAppointmentService_SendFailure(t *testing.T) {
	svc := NewAppointmentService(&fakeSender{err: errors.New("resend down")}, "en")

	_, err := svc.Submit(context.Background(), &models.AppointmentRequest{Name: "A", Phone: "05017256051"})
	assert.ErrorIs(t, err, pkg.ErrUnavailable)
	assert.NotContains(t, err.Error(), "resend down")
}
