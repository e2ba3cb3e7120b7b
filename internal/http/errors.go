package http

import (
	"errors"
	"net/http"

	"ecocharge/internal/core"
	applog "ecocharge/internal/log"
	"ecocharge/internal/records"
)

// fieldLabels names form fields in user-facing messages.
var fieldLabels = map[string]string{
	"id":              "Kimlik",
	"provider":        "Sağlayıcı",
	"date":            "Tarih",
	"durationMinutes": "Süre",
	"pricePerKwh":     "kWh fiyatı",
	"totalKwh":        "Enerji",
	"totalCost":       "Toplam tutar",
}

// statusFor maps a write error onto an HTTP status.
func statusFor(err error) int {
	var ve *core.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.Is(err, records.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, records.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// errorType classifies err for the structured logs.
func errorType(err error) string {
	switch statusFor(err) {
	case http.StatusUnprocessableEntity:
		return applog.ErrorTypeValidation
	case http.StatusConflict:
		return applog.ErrorTypeConflict
	case http.StatusServiceUnavailable:
		return applog.ErrorTypeUnavailable
	default:
		return applog.ErrorTypeInternal
	}
}

// userMessage returns the Turkish notification text for err.
func userMessage(err error) string {
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		label, ok := fieldLabels[ve.Field]
		if !ok {
			label = ve.Field
		}
		return "Geçersiz değer: " + label
	}
	switch {
	case errors.Is(err, records.ErrDuplicateID):
		return "Bu kayıt zaten mevcut."
	case errors.Is(err, records.ErrStoreUnavailable):
		return "Veri deposuna ulaşılamıyor. Lütfen tekrar deneyin."
	default:
		return "Beklenmeyen bir hata oluştu."
	}
}
