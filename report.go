package tradetracker

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// Period is a reporting granularity for the profit dashboard.
type Period string

const (
	Daily   Period = "daily"
	Weekly  Period = "weekly"
	Monthly Period = "monthly"
)

// StartOf returns the beginning of the period containing t, in t's
// location. Weeks start on Monday.
func (p Period) StartOf(t time.Time) time.Time {
	y, m, d := t.Date()
	switch p {
	case Weekly:
		day := time.Date(y, m, d, 0, 0, 0, 0, t.Location())
		offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
		return day.AddDate(0, 0, -offset)
	case Monthly:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	default:
		return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
	}
}

// ProfitTotals aggregates exports, imports and their difference for one
// currency over one period.
type ProfitTotals struct {
	Currency string
	Exports  decimal.Decimal
	Imports  decimal.Decimal
	Profit   decimal.Decimal // Exports - Imports
	Count    int
}

// AggregateProfit sums the transactions dated at or after the start of
// the period containing ref, grouped by currency. There is no upper
// bound, so future-dated transactions count towards every period. A
// transaction with no currency counts as "USD". Results are sorted by
// currency code.
func AggregateProfit(txs []Transaction, p Period, ref time.Time) []ProfitTotals {
	start := p.StartOf(ref)

	byCurrency := make(map[string]*ProfitTotals)
	for _, t := range txs {
		if t.Date.Before(start) {
			continue
		}
		cur := t.Currency
		if cur == "" {
			cur = "USD"
		}
		totals, ok := byCurrency[cur]
		if !ok {
			totals = &ProfitTotals{Currency: cur}
			byCurrency[cur] = totals
		}
		switch t.Type {
		case Export:
			totals.Exports = totals.Exports.Add(t.Amount)
		case Import:
			totals.Imports = totals.Imports.Add(t.Amount)
		}
		totals.Count++
	}

	out := make([]ProfitTotals, 0, len(byCurrency))
	for _, totals := range byCurrency {
		totals.Profit = totals.Exports.Sub(totals.Imports)
		out = append(out, *totals)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Currency < out[j].Currency })
	return out
}

// MonthPoint is one month of the profit chart.
type MonthPoint struct {
	Month   time.Time // first of the month
	Exports decimal.Decimal
	Imports decimal.Decimal
	Profit  decimal.Decimal
}

// MonthlySeries returns one point per month of the last n months ending
// at the month containing ref, oldest first. Months with no trades
// appear with zero values. Amounts of different currencies are summed
// as-is; convert beforehand for a single-currency chart.
func MonthlySeries(txs []Transaction, n int, ref time.Time) []MonthPoint {
	if n <= 0 {
		return nil
	}
	first := Monthly.StartOf(ref).AddDate(0, -(n - 1), 0)
	points := make([]MonthPoint, n)
	for i := range points {
		points[i].Month = first.AddDate(0, i, 0)
	}
	end := Monthly.StartOf(ref).AddDate(0, 1, 0)
	for _, t := range txs {
		if t.Date.Before(first) || !t.Date.Before(end) {
			continue
		}
		m := Monthly.StartOf(t.Date)
		i := (m.Year()-first.Year())*12 + int(m.Month()) - int(first.Month())
		if i < 0 || i >= n {
			continue
		}
		switch t.Type {
		case Export:
			points[i].Exports = points[i].Exports.Add(t.Amount)
		case Import:
			points[i].Imports = points[i].Imports.Add(t.Amount)
		}
	}
	for i := range points {
		points[i].Profit = points[i].Exports.Sub(points[i].Imports)
	}
	return points
}
