package core

import (
	"errors"
	"testing"
)

func TestParseDecimal(t *testing.T) {
	cases := []struct {
		in  string
		out float64
		ok  bool
	}{
		{"1", 1, true},
		{"1.25", 1.25, true},
		{"1,25", 1.25, true},
		{" 7.5 ", 7.5, true},
		{"0", 0, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"NaN", 0, false},
		{"Inf", 0, false},
		{"1e3", 0, false},
		{"1.2.3", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimal(tc.in)
		if tc.ok {
			if err != nil || got != tc.out {
				t.Fatalf("%q expected %v, got %v (err=%v)", tc.in, tc.out, got, err)
			}
		} else if err == nil {
			t.Fatalf("%q expected error", tc.in)
		}
	}
}

func TestParseSessionInputComputesCost(t *testing.T) {
	s, err := ParseSessionInput(SessionInput{
		Provider:        " ZES ",
		Date:            "2024-05-01",
		DurationMinutes: "45",
		PricePerKWh:     "8,49",
		TotalKWh:        "22.3",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.ID == "" || s.Provider != "ZES" || s.DurationMinutes != 45 {
		t.Fatalf("unexpected session: %+v", s)
	}
	if s.TotalCost != 189.33 {
		t.Fatalf("expected computed cost 189.33, got %v", s.TotalCost)
	}
}

func TestParseSessionInputKeepsExplicitCost(t *testing.T) {
	s, err := ParseSessionInput(SessionInput{
		Provider: "Trugo", Date: "2024-06-01", DurationMinutes: "40",
		PricePerKWh: "10", TotalKWh: "7.5", TotalCost: "80",
	})
	if err != nil || s.TotalCost != 80 {
		t.Fatalf("expected explicit cost, got %v (err=%v)", s.TotalCost, err)
	}
}

func TestParseSessionInputErrors(t *testing.T) {
	base := SessionInput{Provider: "ZES", Date: "2024-05-01", DurationMinutes: "30", PricePerKWh: "10", TotalKWh: "10"}
	cases := []struct {
		mutate func(*SessionInput)
		field  string
	}{
		{func(in *SessionInput) { in.Provider = "" }, "provider"},
		{func(in *SessionInput) { in.Date = "01/05/2024" }, "date"},
		{func(in *SessionInput) { in.DurationMinutes = "abc" }, "durationMinutes"},
		{func(in *SessionInput) { in.DurationMinutes = "0" }, "durationMinutes"},
		{func(in *SessionInput) { in.PricePerKWh = "x" }, "pricePerKwh"},
		{func(in *SessionInput) { in.TotalKWh = "" }, "totalKwh"},
		{func(in *SessionInput) { in.TotalCost = "-3" }, "totalCost"},
	}
	for i, tc := range cases {
		in := base
		tc.mutate(&in)
		_, err := ParseSessionInput(in)
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != tc.field {
			t.Fatalf("case %d expected validation error on %s, got %v", i, tc.field, err)
		}
	}
}

func cost(v float64) *float64 { return &v }

func TestPrepareBatch(t *testing.T) {
	batch := []ImportedSession{
		{Provider: " ZES ", Date: "2024-05-01", DurationMinutes: 30, PricePerKWh: 8.5, TotalKWh: 20},
		{ID: "keep", Provider: "Astor", Date: "2024-05-02", DurationMinutes: 10, PricePerKWh: 9, TotalKWh: 5, TotalCost: cost(50)},
	}
	got, err := PrepareBatch(batch)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].ID == "" || got[0].Provider != "ZES" || got[0].TotalCost != 170 {
		t.Fatalf("first entry not prepared: %+v", got[0])
	}
	if got[1].ID != "keep" || got[1].TotalCost != 50 {
		t.Fatalf("second entry changed: %+v", got[1])
	}

	bad := []ImportedSession{{ID: "x", Provider: "ZES", Date: "2024-05-01", DurationMinutes: 0}}
	var ve *ValidationError
	if _, err := PrepareBatch(bad); !errors.As(err, &ve) || ve.Field != "durationMinutes" {
		t.Fatalf("zero duration: %v", err)
	}

	repeated := []ImportedSession{
		{ID: "x", Provider: "ZES", Date: "2024-05-01", DurationMinutes: 1},
		{ID: "x", Provider: "ZES", Date: "2024-05-02", DurationMinutes: 1},
	}
	if _, err := PrepareBatch(repeated); !errors.As(err, &ve) || ve.Field != "id" {
		t.Fatalf("repeated id: %v", err)
	}
}

func TestPrepareBatch_ExplicitZeroCostIsKept(t *testing.T) {
	got, err := PrepareBatch([]ImportedSession{
		{ID: "free", Provider: "Tesla", Date: "2024-05-03", DurationMinutes: 40, PricePerKWh: 7.5, TotalKWh: 22, TotalCost: cost(0)},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got[0].TotalCost != 0 {
		t.Fatalf("free session was charged %v", got[0].TotalCost)
	}
}
