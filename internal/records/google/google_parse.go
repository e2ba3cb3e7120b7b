package google

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ecocharge/internal/core"
)

var columns = []string{"ID", "Provider", "Date", "DurationMinutes", "PricePerKWh", "TotalKWh", "TotalCost"}

func headerRow() []any {
	out := make([]any, len(columns))
	for i, c := range columns {
		out[i] = c
	}
	return out
}

// formatRow renders a session in column order. Numbers are written with a dot.
func formatRow(s core.Session) []any {
	return []any{
		s.ID,
		s.Provider,
		s.Date,
		strconv.Itoa(s.DurationMinutes),
		strconv.FormatFloat(s.PricePerKWh, 'f', -1, 64),
		strconv.FormatFloat(s.TotalKWh, 'f', -1, 64),
		strconv.FormatFloat(s.TotalCost, 'f', -1, 64),
	}
}

// parseRow converts a values row into a session. Cells may come back as
// strings or numbers depending on the value render option.
func parseRow(row []any) (core.Session, error) {
	cells := toStrings(row)
	id := safeGet(cells, 0)
	if id == "" {
		return core.Session{}, errors.New("empty id")
	}
	s := core.Session{
		ID:       id,
		Provider: safeGet(cells, 1),
		Date:     safeGet(cells, 2),
	}
	var err error
	if s.DurationMinutes, err = strconv.Atoi(safeGet(cells, 3)); err != nil {
		return core.Session{}, fmt.Errorf("duration %q: %w", safeGet(cells, 3), err)
	}
	for i, dst := range []*float64{&s.PricePerKWh, &s.TotalKWh, &s.TotalCost} {
		raw := safeGet(cells, 4+i)
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64)
		if err != nil {
			return core.Session{}, fmt.Errorf("%s %q: %w", columns[4+i], raw, err)
		}
		*dst = v
	}
	return s, nil
}

func toStrings(row []any) []string {
	out := make([]string, len(row))
	for i, v := range row {
		out[i] = strings.TrimSpace(fmt.Sprint(v))
	}
	return out
}

func safeGet(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
