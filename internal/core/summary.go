package core

import "strings"

// CO2KgPerKWh is the illustrative savings factor shown on the dashboard.
// It is a motivational estimate, not a physical figure.
const CO2KgPerKWh = 0.4

// AllMonths disables month filtering.
const AllMonths = "all"

// Palette assigns chart colors by group position.
var Palette = []string{"#10b981", "#3b82f6", "#f59e0b", "#ef4444", "#8b5cf6", "#ec4899", "#6366f1"}

type (
	// Summary holds totals over a set of sessions.
	Summary struct {
		TotalCost            float64 `json:"totalCost"`
		TotalKWh             float64 `json:"totalKwh"`
		TotalDurationMinutes int     `json:"totalDurationMinutes"`
		EstimatedCO2SavedKg  float64 `json:"estimatedCo2SavedKg"`
	}

	// ProviderTotal is the spend on a single provider.
	ProviderTotal struct {
		Provider  string  `json:"provider"`
		TotalCost float64 `json:"totalCost"`
		Color     string  `json:"color"`
	}
)

// Hours returns the whole hours of the total duration.
func (s Summary) Hours() int { return s.TotalDurationMinutes / 60 }

// Minutes returns the minutes left over after Hours.
func (s Summary) Minutes() int { return s.TotalDurationMinutes % 60 }

// FilterByMonth returns the sessions whose date starts with month.
// AllMonths (or an empty filter) returns the input unchanged. The input slice
// is never modified.
func FilterByMonth(sessions []Session, month string) []Session {
	if month == "" || month == AllMonths {
		return sessions
	}
	out := make([]Session, 0, len(sessions))
	for _, s := range sessions {
		if strings.HasPrefix(s.Date, month) {
			out = append(out, s)
		}
	}
	return out
}

// Summarize totals cost, energy and duration. An empty input yields zeros.
// NaN values are not filtered and propagate into the sums.
func Summarize(sessions []Session) Summary {
	var sum Summary
	for _, s := range sessions {
		sum.TotalCost += s.TotalCost
		sum.TotalKWh += s.TotalKWh
		sum.TotalDurationMinutes += s.DurationMinutes
	}
	sum.EstimatedCO2SavedKg = sum.TotalKWh * CO2KgPerKWh
	return sum
}

// DistributionByProvider sums cost per provider, in order of first appearance.
func DistributionByProvider(sessions []Session) []ProviderTotal {
	index := make(map[string]int)
	var out []ProviderTotal
	for _, s := range sessions {
		i, ok := index[s.Provider]
		if !ok {
			i = len(out)
			index[s.Provider] = i
			out = append(out, ProviderTotal{Provider: s.Provider, Color: PaletteColor(i)})
		}
		out[i].TotalCost += s.TotalCost
	}
	return out
}

// PaletteColor cycles through Palette.
func PaletteColor(i int) string {
	return Palette[i%len(Palette)]
}
