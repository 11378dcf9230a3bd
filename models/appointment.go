package models

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"
)

// AppointmentRequest, sayfadaki randevu formundan gelen veri.
type AppointmentRequest struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Message  string `json:"message"`
	Language string `json:"language"`
}

// AppointmentReceipt, kabul edilen talebin yanıtı.
type AppointmentReceipt struct {
	RequestID string `json:"request_id"`
	Message   string `json:"message"`
}

// Randevu formunun zorunlu alan hataları. Handler bunları kullanıcının
// dilindeki mesajlara çevirir.
var (
	ErrNameRequired  = errors.New("name is required")
	ErrPhoneRequired = errors.New("phone is required")
	ErrPhoneInvalid  = errors.New("invalid phone number")
)

const (
	maxAppointmentName    = 100
	maxAppointmentMessage = 2000
	minPhoneDigits        = 10
	maxPhoneDigits        = 15
)

// Validate, alanları kırpar ve kontrol eder. Ad ve telefon zorunludur.
func (r *AppointmentRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return ErrNameRequired
	}
	if utf8.RuneCountInString(r.Name) > maxAppointmentName {
		return fmt.Errorf("name must be at most %d characters", maxAppointmentName)
	}

	r.Phone = strings.TrimSpace(r.Phone)
	if r.Phone == "" {
		return ErrPhoneRequired
	}
	if !validPhone(r.Phone) {
		return ErrPhoneInvalid
	}

	r.Email = strings.TrimSpace(r.Email)
	if r.Email != "" {
		if _, err := mail.ParseAddress(r.Email); err != nil {
			return fmt.Errorf("invalid email address")
		}
	}

	r.Message = strings.TrimSpace(r.Message)
	if utf8.RuneCountInString(r.Message) > maxAppointmentMessage {
		return fmt.Errorf("message must be at most %d characters", maxAppointmentMessage)
	}

	return nil
}

// validPhone: rakam, boşluk, +, -, ( ) kabul edilir; 10-15 rakam olmalı.
func validPhone(phone string) bool {
	digits := 0
	for i, ch := range phone {
		switch {
		case unicode.IsDigit(ch):
			digits++
		case ch == '+' && i == 0:
		case ch == ' ' || ch == '-' || ch == '(' || ch == ')':
		default:
			return false
		}
	}
	return digits >= minPhoneDigits && digits <= maxPhoneDigits
}
