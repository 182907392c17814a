package tradetracker

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// SortOrder selects how a filtered transaction list is ordered.
type SortOrder string

const (
	ByDateDesc   SortOrder = "date-desc" // default
	ByDateAsc    SortOrder = "date-asc"
	ByAmountDesc SortOrder = "amount-desc"
	ByAmountAsc  SortOrder = "amount-asc"
)

// PageSize is the number of transactions shown per dashboard page.
const PageSize = 15

// Filter narrows a transaction list. Zero values mean "no constraint";
// the type booleans are special: when both are false (or both true) no
// type filtering applies.
type Filter struct {
	Search    string // free text, case-insensitive, matches description, amount or currency
	Exports   bool
	Imports   bool
	Currency  string // exact code match
	AmountMin *decimal.Decimal
	AmountMax *decimal.Decimal
	DateFrom  time.Time // inclusive, truncated to start of day
	DateTo    time.Time // inclusive, extended to end of day
	Order     SortOrder
}

// Apply runs the filter pipeline over txs and returns the matching
// transactions in the requested order. The input slice is not modified.
func (f Filter) Apply(txs []Transaction) []Transaction {
	out := make([]Transaction, 0, len(txs))
	query := strings.ToLower(strings.TrimSpace(f.Search))
	currency := strings.ToUpper(f.Currency)

	from, to := f.DateFrom, f.DateTo
	if !from.IsZero() {
		from = startOfDay(from)
	}
	if !to.IsZero() {
		to = startOfDay(to).Add(24*time.Hour - time.Nanosecond)
	}

	for _, t := range txs {
		if query != "" && !t.matches(query) {
			continue
		}
		if f.Exports != f.Imports {
			if f.Exports && t.Type != Export {
				continue
			}
			if f.Imports && t.Type != Import {
				continue
			}
		}
		if currency != "" && t.Currency != currency {
			continue
		}
		if f.AmountMin != nil && t.Amount.LessThan(*f.AmountMin) {
			continue
		}
		if f.AmountMax != nil && t.Amount.GreaterThan(*f.AmountMax) {
			continue
		}
		if !from.IsZero() && t.Date.Before(from) {
			continue
		}
		if !to.IsZero() && t.Date.After(to) {
			continue
		}
		out = append(out, t)
	}
	sortTransactions(out, f.Order)
	return out
}

func sortTransactions(txs []Transaction, order SortOrder) {
	less := func(i, j int) bool { return txs[i].Date.After(txs[j].Date) }
	switch order {
	case ByDateAsc:
		less = func(i, j int) bool { return txs[i].Date.Before(txs[j].Date) }
	case ByAmountDesc:
		less = func(i, j int) bool { return txs[i].Amount.GreaterThan(txs[j].Amount) }
	case ByAmountAsc:
		less = func(i, j int) bool { return txs[i].Amount.LessThan(txs[j].Amount) }
	}
	sort.SliceStable(txs, less)
}

// Paginate slices txs down to the given 1-based page of PageSize
// entries, together with the total page count (at least 1). A page
// beyond the end returns an empty slice.
func Paginate(txs []Transaction, page int) ([]Transaction, int) {
	pages := (len(txs) + PageSize - 1) / PageSize
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * PageSize
	if start >= len(txs) {
		return []Transaction{}, pages
	}
	end := start + PageSize
	if end > len(txs) {
		end = len(txs)
	}
	return txs[start:end], pages
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
