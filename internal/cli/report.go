package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"ecocharge/internal/core"
)

// Lira formats v with Turkish separators ("₺1.234,50").
func Lira(v float64) string {
	if v < 0 {
		return "-₺" + humanize.FormatFloat("#.###,##", -v)
	}
	return "₺" + humanize.FormatFloat("#.###,##", v)
}

// Number formats a quantity with Turkish separators and two decimals.
func Number(v float64) string {
	return humanize.FormatFloat("#.###,##", v)
}

// WriteSessions prints sessions as an aligned table.
func WriteSessions(w io.Writer, sessions []core.Session) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTARİH\tSAĞLAYICI\tSÜRE\tKWH\t₺/KWH\tTUTAR")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d dk\t%s\t%s\t%s\n",
			s.ID, core.LongDate(s.Date), s.Provider, s.DurationMinutes,
			Number(s.TotalKWh), Number(s.PricePerKWh), Lira(s.TotalCost))
	}
	return tw.Flush()
}

// WriteSummary prints the totals, provider split and series of a dashboard.
func WriteSummary(w io.Writer, d core.Dashboard) error {
	period := "Tüm zamanlar"
	if d.Filter != core.AllMonths {
		period = core.MonthLabel(d.Filter)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Dönem\t%s\n", period)
	fmt.Fprintf(tw, "Oturum\t%s\n", humanize.Comma(int64(len(d.Sessions))))
	fmt.Fprintf(tw, "Toplam harcama\t%s\n", Lira(d.Summary.TotalCost))
	fmt.Fprintf(tw, "Toplam enerji\t%s kWh\n", Number(d.Summary.TotalKWh))
	fmt.Fprintf(tw, "Şarj süresi\t%d sa %d dk\n", d.Summary.Hours(), d.Summary.Minutes())
	fmt.Fprintf(tw, "Tahmini CO₂ tasarrufu\t%s kg\n", Number(d.Summary.EstimatedCO2SavedKg))

	if len(d.Providers) > 0 {
		fmt.Fprintln(tw, "\nSağlayıcı\tTutar")
		for _, p := range d.Providers {
			fmt.Fprintf(tw, "%s\t%s\n", p.Provider, Lira(p.TotalCost))
		}
	}
	if len(d.Series) > 0 {
		fmt.Fprintln(tw, "\nDönem\tTutar\tkWh")
		for _, b := range d.Series {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", b.Label, Lira(b.Cost), Number(b.KWh))
		}
	}
	return tw.Flush()
}
