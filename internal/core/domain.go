package core

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the storage form of a session date.
const DateLayout = "2006-01-02"

// OtherProvider is the catch-all entry of Providers.
const OtherProvider = "Diğer"

// Providers lists the charging networks offered by the input form.
// The set is open: records may carry any provider name.
var Providers = []string{
	"ZES",
	"Eşarj",
	"Trugo",
	"Voltrun",
	"Tesla Supercharger",
	"Astor",
	"TRCharge",
	"5Şarj",
	"OtoPriz",
	"RotaWatt",
	"Evde Şarj",
	OtherProvider,
}

type (
	// Session is one logged charging event. It is never updated in place.
	Session struct {
		ID              string  `json:"id" yaml:"id"`
		Provider        string  `json:"provider" yaml:"provider"`
		Date            string  `json:"date" yaml:"date"` // YYYY-MM-DD
		DurationMinutes int     `json:"durationMinutes" yaml:"durationMinutes"`
		PricePerKWh     float64 `json:"pricePerKwh" yaml:"pricePerKwh"`
		TotalKWh        float64 `json:"totalKwh" yaml:"totalKwh"`
		TotalCost       float64 `json:"totalCost" yaml:"totalCost"`
	}

	// ValidationError reports malformed input for a single field.
	ValidationError struct {
		Field string
		Err   error
	}
)

var (
	ErrEmptyID         = errors.New("empty id")
	ErrEmptyProvider   = errors.New("empty provider")
	ErrInvalidDate     = errors.New("invalid date")
	ErrInvalidDuration = errors.New("invalid duration")
	ErrInvalidAmount   = errors.New("invalid amount")
)

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// NewID returns a fresh random session identifier.
func NewID() string {
	return uuid.NewString()
}

// MonthKey returns the YYYY-MM prefix of a date string.
func MonthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// MonthKey returns the month the session belongs to.
func (s Session) MonthKey() string {
	return MonthKey(s.Date)
}

// ParsedDate parses the session date. ok is false for malformed dates.
func (s Session) ParsedDate() (t time.Time, ok bool) {
	t, err := time.Parse(DateLayout, s.Date)
	return t, err == nil
}

// IsKnownProvider reports whether name is one of Providers.
func IsKnownProvider(name string) bool {
	for _, p := range Providers {
		if p == name {
			return true
		}
	}
	return false
}

// Validate checks the fields the input layer is responsible for.
// Stores never call it: they persist whatever they are given.
func (s Session) Validate() error {
	if strings.TrimSpace(s.ID) == "" {
		return &ValidationError{Field: "id", Err: ErrEmptyID}
	}
	if strings.TrimSpace(s.Provider) == "" {
		return &ValidationError{Field: "provider", Err: ErrEmptyProvider}
	}
	if _, ok := s.ParsedDate(); !ok {
		return &ValidationError{Field: "date", Err: fmt.Errorf("%w: %q is not YYYY-MM-DD", ErrInvalidDate, s.Date)}
	}
	if s.DurationMinutes <= 0 {
		return &ValidationError{Field: "durationMinutes", Err: ErrInvalidDuration}
	}
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"pricePerKwh", s.PricePerKWh},
		{"totalKwh", s.TotalKWh},
		{"totalCost", s.TotalCost},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return &ValidationError{Field: f.name, Err: ErrInvalidAmount}
		}
	}
	return nil
}

// RoundCost rounds to two decimal places, half away from zero.
func RoundCost(v float64) float64 {
	return math.Round(v*100) / 100
}
