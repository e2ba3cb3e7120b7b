package core

import (
	"slices"
	"strconv"
	"strings"
	"time"
)

const (
	Monthly SeriesMode = "monthly"
	Daily   SeriesMode = "daily"
)

// Turkish month names, as rendered by the tr-TR locale.
var (
	monthNames      = [12]string{"Ocak", "Şubat", "Mart", "Nisan", "Mayıs", "Haziran", "Temmuz", "Ağustos", "Eylül", "Ekim", "Kasım", "Aralık"}
	shortMonthNames = [12]string{"Oca", "Şub", "Mar", "Nis", "May", "Haz", "Tem", "Ağu", "Eyl", "Eki", "Kas", "Ara"}
)

type (
	SeriesMode string

	// Bucket aggregates the sessions of one month or one day.
	Bucket struct {
		Label string  `json:"label"`
		Key   string  `json:"key"`
		Cost  float64 `json:"cost"`
		KWh   float64 `json:"kwh"`
	}

	// Dashboard is everything the presentation layer renders for one filter.
	Dashboard struct {
		Filter          string          `json:"filter"`
		Mode            SeriesMode      `json:"mode"`
		Sessions        []Session       `json:"sessions"`
		Summary         Summary         `json:"summary"`
		Providers       []ProviderTotal `json:"providers"`
		Series          []Bucket        `json:"series"`
		AvailableMonths []string        `json:"availableMonths"`
	}
)

// ModeFor picks monthly buckets for AllMonths and daily buckets otherwise.
func ModeFor(filter string) SeriesMode {
	if filter == "" || filter == AllMonths {
		return Monthly
	}
	return Daily
}

// TimeSeries groups sessions by month (Monthly) or exact date (Daily) and
// returns buckets in ascending key order. Periods without sessions produce no
// bucket. Dates that do not parse are grouped under their raw string.
func TimeSeries(sessions []Session, mode SeriesMode) []Bucket {
	index := make(map[string]int)
	var out []Bucket
	for _, s := range sessions {
		key := s.Date
		if mode == Monthly {
			key = s.MonthKey()
		}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, Bucket{Key: key})
		}
		out[i].Cost += s.TotalCost
		out[i].KWh += s.TotalKWh
	}

	slices.SortFunc(out, func(a, b Bucket) int { return strings.Compare(a.Key, b.Key) })
	for i := range out {
		if mode == Monthly {
			out[i].Label = MonthLabel(out[i].Key)
		} else {
			out[i].Label = DayLabel(out[i].Key)
		}
	}
	return out
}

// AvailableMonths lists the distinct month keys, most recent first.
func AvailableMonths(sessions []Session) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range sessions {
		k := s.MonthKey()
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	slices.SortFunc(out, func(a, b string) int { return strings.Compare(b, a) })
	return out
}

// Derive computes the full dashboard for sessions under filter.
// List fields are never nil, so an empty dashboard encodes them as [].
func Derive(sessions []Session, filter string) Dashboard {
	if filter == "" {
		filter = AllMonths
	}
	filtered := FilterByMonth(sessions, filter)
	mode := ModeFor(filter)
	return Dashboard{
		Filter:          filter,
		Mode:            mode,
		Sessions:        nonNil(filtered),
		Summary:         Summarize(filtered),
		Providers:       nonNil(DistributionByProvider(filtered)),
		Series:          nonNil(TimeSeries(filtered, mode)),
		AvailableMonths: nonNil(AvailableMonths(sessions)),
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// MonthLabel renders a YYYY-MM key as "Mayıs 24". Unparseable keys are returned as is.
func MonthLabel(key string) string {
	t, err := time.Parse(DateLayout, key+"-01")
	if err != nil {
		return key
	}
	return monthNames[t.Month()-1] + " " + t.Format("06")
}

// DayLabel renders a YYYY-MM-DD date as "1 May". Unparseable dates are returned as is.
func DayLabel(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return strconv.Itoa(t.Day()) + " " + shortMonthNames[t.Month()-1]
}

// LongDate renders a date the way the history table shows it ("01.05.2024").
func LongDate(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return date
	}
	return t.Format("02.01.2006")
}
