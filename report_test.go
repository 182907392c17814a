package tradetracker

import (
	"testing"
	"time"
)

func TestPeriod_StartOf(t *testing.T) {
	testCases := []struct {
		name   string
		period Period
		in     string
		want   string
	}{
		{name: "daily strips the time", period: Daily, in: "2025-03-12", want: "2025-03-12"},
		{name: "weekly from a wednesday", period: Weekly, in: "2025-03-12", want: "2025-03-10"},
		{name: "weekly from a monday", period: Weekly, in: "2025-03-10", want: "2025-03-10"},
		{name: "weekly from a sunday", period: Weekly, in: "2025-03-16", want: "2025-03-10"},
		{name: "monthly", period: Monthly, in: "2025-03-12", want: "2025-03-01"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.period.StartOf(day(tc.in).Add(13 * time.Hour))
			if !got.Equal(day(tc.want)) {
				t.Errorf("StartOf(%s) = %s, want %s", tc.in, got.Format("2006-01-02"), tc.want)
			}
		})
	}
}

func TestAggregateProfit(t *testing.T) {
	txs := []Transaction{
		tx(Export, "1000", "USD", "steel", "2025-03-12"),
		tx(Import, "400", "USD", "parts", "2025-03-12"),
		tx(Export, "200", "EUR", "dates", "2025-03-11"),
		tx(Export, "999", "USD", "previous week", "2025-03-07"),
	}
	// currency-less trades count as USD
	bare := tx(Export, "50", "x", "bare", "2025-03-12")
	bare.Currency = ""
	txs = append(txs, bare)

	got := AggregateProfit(txs, Weekly, day("2025-03-12"))
	if len(got) != 2 {
		t.Fatalf("got %d currency groups, want 2", len(got))
	}
	eur, usd := got[0], got[1]
	if eur.Currency != "EUR" || usd.Currency != "USD" {
		t.Fatalf("groups = %s, %s; want EUR, USD", eur.Currency, usd.Currency)
	}
	if !eur.Profit.Equal(dec("200")) || eur.Count != 1 {
		t.Errorf("EUR profit = %s (%d trades), want 200 (1)", eur.Profit, eur.Count)
	}
	if !usd.Exports.Equal(dec("1050")) || !usd.Imports.Equal(dec("400")) || !usd.Profit.Equal(dec("650")) {
		t.Errorf("USD totals = %s/%s/%s, want 1050/400/650", usd.Exports, usd.Imports, usd.Profit)
	}
	if usd.Count != 3 {
		t.Errorf("USD count = %d, want 3", usd.Count)
	}
}

func TestAggregateProfit_DailyLowerBoundOnly(t *testing.T) {
	txs := []Transaction{
		tx(Export, "10", "USD", "today", "2025-03-12"),
		tx(Export, "20", "USD", "yesterday", "2025-03-11"),
		tx(Export, "30", "USD", "tomorrow", "2025-03-13"),
	}
	// only the period start bounds the window; future-dated trades count
	got := AggregateProfit(txs, Daily, day("2025-03-12").Add(18*time.Hour))
	if len(got) != 1 || !got[0].Profit.Equal(dec("40")) {
		t.Fatalf("daily profit = %+v, want a single USD group of 40", got)
	}
	if got[0].Count != 2 {
		t.Errorf("daily count = %d, want 2", got[0].Count)
	}
}

func TestMonthlySeries(t *testing.T) {
	txs := []Transaction{
		tx(Export, "100", "USD", "jan", "2025-01-20"),
		tx(Import, "30", "USD", "jan", "2025-01-21"),
		tx(Export, "500", "USD", "mar", "2025-03-02"),
		tx(Export, "9", "USD", "too old", "2024-10-01"),
	}
	got := MonthlySeries(txs, 3, day("2025-03-15"))
	if len(got) != 3 {
		t.Fatalf("got %d points, want 3", len(got))
	}
	if !got[0].Month.Equal(day("2025-01-01")) || !got[2].Month.Equal(day("2025-03-01")) {
		t.Fatalf("month range = %s..%s", got[0].Month, got[2].Month)
	}
	if !got[0].Profit.Equal(dec("70")) {
		t.Errorf("january profit = %s, want 70", got[0].Profit)
	}
	if !got[1].Profit.IsZero() {
		t.Errorf("february profit = %s, want 0", got[1].Profit)
	}
	if !got[2].Profit.Equal(dec("500")) {
		t.Errorf("march profit = %s, want 500", got[2].Profit)
	}
}
