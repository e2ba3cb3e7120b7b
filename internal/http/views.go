package http

import (
	"time"

	"ecocharge/internal/core"
)

type (
	pageView struct {
		Dashboard dashboardView
		Providers []string
		Today     string
		Notice    string
	}

	dashboardView struct {
		Filter          string
		Daily           bool
		Summary         core.Summary
		Sessions        []core.Session
		ProviderShares  []providerShare
		Bars            []seriesBar
		AvailableMonths []string
	}

	providerShare struct {
		Provider  string
		TotalCost float64
		Color     string
		Percent   int
	}

	seriesBar struct {
		Label  string
		Cost   float64
		KWh    float64
		Height int
	}
)

func newDashboardView(d core.Dashboard) dashboardView {
	v := dashboardView{
		Filter:          d.Filter,
		Daily:           d.Mode == core.Daily,
		Summary:         d.Summary,
		Sessions:        d.Sessions,
		AvailableMonths: d.AvailableMonths,
	}
	for _, p := range d.Providers {
		v.ProviderShares = append(v.ProviderShares, providerShare{
			Provider:  p.Provider,
			TotalCost: p.TotalCost,
			Color:     p.Color,
			Percent:   percent(p.TotalCost, d.Summary.TotalCost),
		})
	}

	var peak float64
	for _, b := range d.Series {
		peak = max(peak, b.Cost)
	}
	for _, b := range d.Series {
		v.Bars = append(v.Bars, seriesBar{Label: b.Label, Cost: b.Cost, KWh: b.KWh, Height: barHeight(b.Cost, peak)})
	}
	return v
}

func newPageView(d core.Dashboard, now time.Time) pageView {
	return pageView{
		Dashboard: newDashboardView(d),
		Providers: core.Providers,
		Today:     now.Format(core.DateLayout),
	}
}
