package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"ecocharge/internal/core"
)

// maxBatchBytes bounds the body of a batch import.
const maxBatchBytes = 1 << 20

var errEmptyBatch = errors.New("empty batch")

// ParseSessionForm extracts the session form fields.
func ParseSessionForm(form url.Values) core.SessionInput {
	return core.SessionInput{
		Provider:        sanitizeInput(form.Get("provider")),
		Date:            sanitizeInput(form.Get("date")),
		DurationMinutes: sanitizeInput(form.Get("durationMinutes")),
		PricePerKWh:     sanitizeInput(form.Get("pricePerKwh")),
		TotalKWh:        sanitizeInput(form.Get("totalKwh")),
		TotalCost:       sanitizeInput(form.Get("totalCost")),
	}
}

// ParseMonthFilter returns query's month as YYYY-MM, or "all" when it is
// missing or malformed.
func ParseMonthFilter(query url.Values) string {
	v := strings.TrimSpace(query.Get("month"))
	if v == "" || v == core.AllMonths {
		return core.AllMonths
	}
	if _, err := time.Parse("2006-01", v); err != nil {
		return core.AllMonths
	}
	return v
}

// ParseSessionBatch decodes a JSON array of sessions and prepares it with
// core.PrepareBatch. Every entry must validate for the batch to be accepted.
func ParseSessionBatch(body io.Reader) ([]core.Session, error) {
	dec := json.NewDecoder(io.LimitReader(body, maxBatchBytes))
	dec.DisallowUnknownFields()

	var batch []core.ImportedSession
	if err := dec.Decode(&batch); err != nil {
		return nil, fmt.Errorf("decode batch: %w", err)
	}
	if len(batch) == 0 {
		return nil, errEmptyBatch
	}

	for i := range batch {
		batch[i].Provider = sanitizeInput(batch[i].Provider)
		batch[i].Date = sanitizeInput(batch[i].Date)
	}
	return core.PrepareBatch(batch)
}
