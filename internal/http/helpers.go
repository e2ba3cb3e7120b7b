package http

import (
	"math"
	"strings"

	"github.com/dustin/go-humanize"
)

// formatLira renders an amount the way tr-TR shows currency ("₺1.234,50").
func formatLira(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "₺-"
	}
	if v < 0 {
		return "-₺" + humanize.FormatFloat("#.###,##", -v)
	}
	return "₺" + humanize.FormatFloat("#.###,##", v)
}

// formatNumber renders a quantity with Turkish separators and two decimals.
func formatNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	return humanize.FormatFloat("#.###,##", v)
}

// percent returns part as a whole-number share of total, 0 when total is not positive.
func percent(part, total float64) int {
	if total <= 0 || math.IsNaN(part) {
		return 0
	}
	return int(math.Round(part / total * 100))
}

// barHeight scales value to a percentage of max, keeping non-empty bars visible.
func barHeight(value, max float64) int {
	if max <= 0 || value <= 0 || math.IsNaN(value) {
		return 0
	}
	h := int(math.Round(value / max * 100))
	if h < 2 {
		return 2
	}
	return h
}

// sanitizeInput trims whitespace and strips control characters other than tab and newlines.
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, strings.TrimSpace(s))
}
