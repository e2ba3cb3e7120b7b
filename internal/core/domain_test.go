package core

import (
	"errors"
	"math"
	"testing"
)

func TestSessionValidate(t *testing.T) {
	good := Session{ID: "a", Provider: "ZES", Date: "2024-05-01", DurationMinutes: 30, PricePerKWh: 10, TotalKWh: 10, TotalCost: 100}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		mutate func(*Session)
		field  string
		target error
	}{
		{func(s *Session) { s.ID = "" }, "id", ErrEmptyID},
		{func(s *Session) { s.Provider = "  " }, "provider", ErrEmptyProvider},
		{func(s *Session) { s.Date = "2024-13-01" }, "date", ErrInvalidDate},
		{func(s *Session) { s.Date = "yesterday" }, "date", ErrInvalidDate},
		{func(s *Session) { s.DurationMinutes = 0 }, "durationMinutes", ErrInvalidDuration},
		{func(s *Session) { s.PricePerKWh = -1 }, "pricePerKwh", ErrInvalidAmount},
		{func(s *Session) { s.TotalKWh = math.NaN() }, "totalKwh", ErrInvalidAmount},
		{func(s *Session) { s.TotalCost = math.Inf(1) }, "totalCost", ErrInvalidAmount},
	}
	for i, tc := range cases {
		s := good
		tc.mutate(&s)
		err := s.Validate()
		var ve *ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("case %d expected ValidationError, got %v", i, err)
		}
		if ve.Field != tc.field || !errors.Is(err, tc.target) {
			t.Fatalf("case %d expected %s/%v, got %s/%v", i, tc.field, tc.target, ve.Field, ve.Err)
		}
	}
}

func TestMonthKey(t *testing.T) {
	cases := map[string]string{
		"2024-05-01": "2024-05",
		"2024-05":    "2024-05",
		"2024":       "2024",
		"":           "",
	}
	for in, want := range cases {
		if got := MonthKey(in); got != want {
			t.Fatalf("MonthKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestNewIDIsUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

func TestIsKnownProvider(t *testing.T) {
	if !IsKnownProvider("Trugo") || !IsKnownProvider(OtherProvider) {
		t.Fatalf("expected known providers")
	}
	if IsKnownProvider("Shell Recharge") {
		t.Fatalf("unexpected known provider")
	}
}

func TestRoundCost(t *testing.T) {
	if got := RoundCost(7.499 * 10); got != 74.99 {
		t.Fatalf("got %v", got)
	}
	if got := RoundCost(0.125 * 3); got != 0.38 {
		t.Fatalf("got %v", got)
	}
}
