package core

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestTimeSeriesMonthlyExample(t *testing.T) {
	got := TimeSeries(exampleSessions(), Monthly)
	want := []Bucket{
		{Label: "Mayıs 24", Key: "2024-05", Cost: 150, KWh: 15},
		{Label: "Haziran 24", Key: "2024-06", Cost: 75, KWh: 7.5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestTimeSeriesDailyInMonth(t *testing.T) {
	got := TimeSeries(FilterByMonth(exampleSessions(), "2024-05"), Daily)
	want := []Bucket{
		{Label: "1 May", Key: "2024-05-01", Cost: 100, KWh: 10},
		{Label: "20 May", Key: "2024-05-20", Cost: 50, KWh: 5},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestTimeSeriesOrdersAndGroups(t *testing.T) {
	sessions := []Session{
		{Date: "2024-03-02", TotalCost: 1, TotalKWh: 1},
		{Date: "2023-12-31", TotalCost: 2, TotalKWh: 2},
		{Date: "2024-03-02", TotalCost: 3, TotalKWh: 3},
		{Date: "2024-01-15", TotalCost: 4, TotalKWh: 4},
	}
	monthly := TimeSeries(sessions, Monthly)
	keys := []string{}
	for _, b := range monthly {
		keys = append(keys, b.Key)
	}
	if !reflect.DeepEqual(keys, []string{"2023-12", "2024-01", "2024-03"}) {
		t.Fatalf("unexpected month order: %v", keys)
	}
	if monthly[0].Label != "Aralık 23" || monthly[2].Cost != 4 {
		t.Fatalf("unexpected buckets: %+v", monthly)
	}

	daily := TimeSeries(sessions, Daily)
	if len(daily) != 3 || daily[2].Key != "2024-03-02" || daily[2].Cost != 4 || daily[2].Label != "2 Mar" {
		t.Fatalf("unexpected daily buckets: %+v", daily)
	}
}

func TestTimeSeriesMalformedDates(t *testing.T) {
	sessions := []Session{
		{Date: "garbage", TotalCost: 1},
		{Date: "2024-05-01", TotalCost: 2},
		{Date: "garbage", TotalCost: 3},
	}
	daily := TimeSeries(sessions, Daily)
	if len(daily) != 2 {
		t.Fatalf("expected 2 buckets, got %+v", daily)
	}
	if daily[1].Key != "garbage" || daily[1].Label != "garbage" || daily[1].Cost != 4 {
		t.Fatalf("malformed date not passed through: %+v", daily[1])
	}
	monthly := TimeSeries(sessions, Monthly)
	if monthly[1].Key != "garbage" || monthly[1].Label != "garbage" {
		t.Fatalf("malformed month not passed through: %+v", monthly)
	}
}

func TestTimeSeriesCostsMatchSummary(t *testing.T) {
	sessions := exampleSessions()
	for _, mode := range []SeriesMode{Monthly, Daily} {
		var total float64
		for _, b := range TimeSeries(sessions, mode) {
			total += b.Cost
		}
		if !approx(total, Summarize(sessions).TotalCost) {
			t.Fatalf("%s buckets sum to %v", mode, total)
		}
	}
}

func TestTimeSeriesEmpty(t *testing.T) {
	if got := TimeSeries(nil, Monthly); len(got) != 0 {
		t.Fatalf("expected no buckets, got %+v", got)
	}
}

func TestTimeSeriesIdempotent(t *testing.T) {
	a := TimeSeries(exampleSessions(), Monthly)
	b := TimeSeries(exampleSessions(), Monthly)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("repeated calls differ")
	}
}

func TestAvailableMonths(t *testing.T) {
	sessions := append(exampleSessions(), Session{Date: "2023-11-05"}, Session{Date: "2024-06-30"})
	got := AvailableMonths(sessions)
	want := []string{"2024-06", "2024-05", "2023-11"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if len(AvailableMonths(nil)) != 0 {
		t.Fatalf("expected no months")
	}
}

func TestDerive(t *testing.T) {
	all := Derive(exampleSessions(), "")
	if all.Filter != AllMonths || all.Mode != Monthly || len(all.Series) != 2 || len(all.Sessions) != 3 {
		t.Fatalf("unexpected unfiltered dashboard: %+v", all)
	}

	may := Derive(exampleSessions(), "2024-05")
	if may.Mode != Daily || len(may.Sessions) != 2 || len(may.Series) != 2 {
		t.Fatalf("unexpected filtered dashboard: %+v", may)
	}
	if may.Summary.TotalCost != 150 || len(may.Providers) != 1 {
		t.Fatalf("unexpected filtered stats: %+v", may)
	}
	// Month selector is built from the whole collection.
	if !reflect.DeepEqual(may.AvailableMonths, []string{"2024-06", "2024-05"}) {
		t.Fatalf("unexpected months: %v", may.AvailableMonths)
	}
}

func TestDerive_EmptyCollectionEncodesEmptyLists(t *testing.T) {
	for _, filter := range []string{AllMonths, "2024-05"} {
		d := Derive(nil, filter)
		if d.Sessions == nil || d.Providers == nil || d.Series == nil || d.AvailableMonths == nil {
			t.Fatalf("%s: nil list in %+v", filter, d)
		}
		body, err := json.Marshal(d)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		var raw map[string]json.RawMessage
		if err := json.Unmarshal(body, &raw); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		for _, key := range []string{"sessions", "providers", "series", "availableMonths"} {
			if string(raw[key]) != "[]" {
				t.Errorf("%s: %s = %s, want []", filter, key, raw[key])
			}
		}
	}
}

func TestLabels(t *testing.T) {
	cases := []struct{ got, want string }{
		{MonthLabel("2024-01"), "Ocak 24"},
		{MonthLabel("2025-08"), "Ağustos 25"},
		{MonthLabel("bad"), "bad"},
		{DayLabel("2024-02-09"), "9 Şub"},
		{DayLabel("2024-02-30"), "2024-02-30"},
		{LongDate("2024-02-09"), "09.02.2024"},
	}
	for i, tc := range cases {
		if tc.got != tc.want {
			t.Fatalf("case %d: got %q, want %q", i, tc.got, tc.want)
		}
	}
}
