// Package email, randevu taleplerinin muayenehaneye e-posta ile iletilmesini sağlar.
//
// Service katmanı EmailSender interface'ine bağımlıdır; şu anki implementasyon
// Resend API kullanır.
package email

import (
	"context"
	"fmt"
	"html"
	"strings"

	"github.com/resend/resend-go/v3"
)

// AppointmentMessage, e-postaya dönüştürülecek randevu talebi.
type AppointmentMessage struct {
	Name      string
	Phone     string
	Email     string
	Message   string
	Language  string
	RequestID string
}

// EmailSender, e-posta gönderimi için interface.
type EmailSender interface {
	// SendAppointmentRequest, talebi muayenehane adresine gönderir.
	SendAppointmentRequest(ctx context.Context, msg AppointmentMessage) error
}

type resendSender struct {
	client      *resend.Client
	fromEmail   string // Resend'de doğrulanmış domain altında olmalı
	toEmail     string
	practiceTag string
}

// NewResendSender, Resend API client'ı ile yeni bir EmailSender oluşturur.
func NewResendSender(apiKey, fromEmail, toEmail, practiceName string) EmailSender {
	return &resendSender{
		client:      resend.NewClient(apiKey),
		fromEmail:   fromEmail,
		toEmail:     toEmail,
		practiceTag: practiceName,
	}
}

// SendAppointmentRequest, randevu talebini HTML e-posta olarak gönderir.
// Form alanları kullanıcı girdisidir; HTML'e yazılmadan önce escape edilir.
func (s *resendSender) SendAppointmentRequest(ctx context.Context, msg AppointmentMessage) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", s.practiceTag, s.fromEmail),
		To:      []string{s.toEmail},
		Subject: fmt.Sprintf("Randevu talebi: %s", msg.Name),
		Html:    renderAppointmentHTML(msg),
		Text:    renderAppointmentText(msg),
	}
	if _, err := s.client.Emails.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send appointment email: %w", err)
	}

	return nil
}

func renderAppointmentHTML(msg AppointmentMessage) string {
	row := func(label, value string) string {
		if value == "" {
			return ""
		}
		return fmt.Sprintf(`<tr><td style="color:#64748b;padding:4px 12px 4px 0;">%s</td><td style="color:#0f172a;padding:4px 0;">%s</td></tr>`,
			label, strings.ReplaceAll(html.EscapeString(value), "\n", "<br>"))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"></head>
<body style="margin:0;padding:24px;background-color:#f8fafc;font-family:Arial,Helvetica,sans-serif;">
  <table cellpadding="0" cellspacing="0" style="background-color:#ffffff;border-radius:8px;padding:24px;">
    <tr><td colspan="2"><h2 style="color:#0f172a;font-size:18px;margin:0 0 16px 0;">Yeni randevu talebi</h2></td></tr>
    %s%s%s%s%s
  </table>
  <p style="color:#94a3b8;font-size:12px;">#%s</p>
</body>
</html>`,
		row("Ad Soyad", msg.Name),
		row("Telefon", msg.Phone),
		row("E-posta", msg.Email),
		row("Mesaj", msg.Message),
		row("Dil", msg.Language),
		html.EscapeString(msg.RequestID),
	)
}

func renderAppointmentText(msg AppointmentMessage) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Yeni randevu talebi (#%s)\n\n", msg.RequestID)
	fmt.Fprintf(&b, "Ad Soyad: %s\nTelefon: %s\n", msg.Name, msg.Phone)
	if msg.Email != "" {
		fmt.Fprintf(&b, "E-posta: %s\n", msg.Email)
	}
	if msg.Message != "" {
		fmt.Fprintf(&b, "\n%s\n", msg.Message)
	}
	return b.String()
}
