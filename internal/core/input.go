package core

import (
	"fmt"
	"strconv"
	"strings"
)

// SessionInput holds the raw values of the session form.
type SessionInput struct {
	Provider        string
	Date            string
	DurationMinutes string
	PricePerKWh     string
	TotalKWh        string
	TotalCost       string // optional, derived from price and energy when empty
}

// ParseSessionInput converts form values into a new Session with a fresh id.
// A *ValidationError is returned for the first malformed field.
//
// Decimals accept both dot (12.34) and comma (12,34) separators. When TotalCost
// is empty it is computed as PricePerKWh × TotalKWh rounded to two decimals.
func ParseSessionInput(in SessionInput) (Session, error) {
	s := Session{
		ID:       NewID(),
		Provider: strings.TrimSpace(in.Provider),
		Date:     strings.TrimSpace(in.Date),
	}

	d, err := strconv.Atoi(strings.TrimSpace(in.DurationMinutes))
	if err != nil {
		return Session{}, &ValidationError{Field: "durationMinutes", Err: ErrInvalidDuration}
	}
	s.DurationMinutes = d

	if s.PricePerKWh, err = ParseDecimal(in.PricePerKWh); err != nil {
		return Session{}, &ValidationError{Field: "pricePerKwh", Err: err}
	}
	if s.TotalKWh, err = ParseDecimal(in.TotalKWh); err != nil {
		return Session{}, &ValidationError{Field: "totalKwh", Err: err}
	}
	if strings.TrimSpace(in.TotalCost) == "" {
		s.TotalCost = RoundCost(s.PricePerKWh * s.TotalKWh)
	} else if s.TotalCost, err = ParseDecimal(in.TotalCost); err != nil {
		return Session{}, &ValidationError{Field: "totalCost", Err: err}
	}

	if err := s.Validate(); err != nil {
		return Session{}, err
	}
	return s, nil
}

// ParseDecimal parses a non-negative decimal written with either separator.
//
// Examples:
//
//	ParseDecimal("12.34") -> 12.34, nil
//	ParseDecimal("12,34") -> 12.34, nil
//	ParseDecimal("-1")    -> 0, ErrInvalidAmount
func ParseDecimal(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return 0, ErrInvalidAmount
	}
	// ParseFloat accepts "NaN" and "Inf"; only plain digits are wanted here.
	for _, r := range s {
		if (r < '0' || r > '9') && r != '.' {
			return 0, ErrInvalidAmount
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	return v, nil
}

// ImportedSession is one entry of a batch import. TotalCost is a pointer so
// that an absent cost can be told apart from an explicit zero.
type ImportedSession struct {
	ID              string   `json:"id" yaml:"id"`
	Provider        string   `json:"provider" yaml:"provider"`
	Date            string   `json:"date" yaml:"date"`
	DurationMinutes int      `json:"durationMinutes" yaml:"durationMinutes"`
	PricePerKWh     float64  `json:"pricePerKwh" yaml:"pricePerKwh"`
	TotalKWh        float64  `json:"totalKwh" yaml:"totalKwh"`
	TotalCost       *float64 `json:"totalCost" yaml:"totalCost"`
}

// PrepareBatch readies imported sessions for InsertMany: missing ids are
// generated, a missing total cost is computed from price and energy, and every
// entry is validated. Ids repeated inside the batch are rejected.
func PrepareBatch(batch []ImportedSession) ([]Session, error) {
	out := make([]Session, 0, len(batch))
	seen := make(map[string]struct{}, len(batch))
	for i, in := range batch {
		s := Session{
			ID:              strings.TrimSpace(in.ID),
			Provider:        strings.TrimSpace(in.Provider),
			Date:            strings.TrimSpace(in.Date),
			DurationMinutes: in.DurationMinutes,
			PricePerKWh:     in.PricePerKWh,
			TotalKWh:        in.TotalKWh,
		}
		if s.ID == "" {
			s.ID = NewID()
		}
		if in.TotalCost != nil {
			s.TotalCost = *in.TotalCost
		} else {
			s.TotalCost = RoundCost(s.PricePerKWh * s.TotalKWh)
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("session %d: %w", i, err)
		}
		if _, ok := seen[s.ID]; ok {
			return nil, fmt.Errorf("session %d: %w", i, &ValidationError{Field: "id", Err: fmt.Errorf("repeated id %q", s.ID)})
		}
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}
