package tradetracker

import (
	"testing"

	"github.com/shopspring/decimal"
)

func sampleTransactions() []Transaction {
	txs := []Transaction{
		tx(Export, "1200", "USD", "Steel coils to Rotterdam", "2025-03-10"),
		tx(Import, "340.50", "EUR", "Machine parts", "2025-03-08"),
		tx(Export, "75", "SAR", "Dates shipment", "2025-02-20"),
		tx(Import, "980", "USD", "Electronics", "2025-01-05"),
		tx(Export, "75", "USD", "Spare steel bolts", "2025-01-02"),
	}
	for i := range txs {
		txs[i].ID = int64(i + 1)
	}
	return txs
}

func TestFilter_Apply(t *testing.T) {
	min := decimal.NewFromInt(100)
	max := decimal.NewFromInt(1000)

	testCases := []struct {
		name    string
		filter  Filter
		wantIDs []int64
	}{
		{
			name:    "no constraints keeps everything date-desc",
			filter:  Filter{},
			wantIDs: []int64{1, 2, 3, 4, 5},
		},
		{
			name:    "search matches description case-insensitively",
			filter:  Filter{Search: "STEEL"},
			wantIDs: []int64{1, 5},
		},
		{
			name:    "search matches amount text",
			filter:  Filter{Search: "340.5"},
			wantIDs: []int64{2},
		},
		{
			name:    "search matches currency",
			filter:  Filter{Search: "sar"},
			wantIDs: []int64{3},
		},
		{
			name:    "exports only",
			filter:  Filter{Exports: true},
			wantIDs: []int64{1, 3, 5},
		},
		{
			name:    "both type flags disable the type filter",
			filter:  Filter{Exports: true, Imports: true},
			wantIDs: []int64{1, 2, 3, 4, 5},
		},
		{
			name:    "currency is exact",
			filter:  Filter{Currency: "usd"},
			wantIDs: []int64{1, 4, 5},
		},
		{
			name:    "amount range",
			filter:  Filter{AmountMin: &min, AmountMax: &max},
			wantIDs: []int64{2, 4},
		},
		{
			name:    "date range is inclusive on both ends",
			filter:  Filter{DateFrom: day("2025-02-20"), DateTo: day("2025-03-08")},
			wantIDs: []int64{2, 3},
		},
		{
			name:    "amount ascending",
			filter:  Filter{Order: ByAmountAsc},
			wantIDs: []int64{3, 5, 2, 4, 1},
		},
		{
			name:    "stacked filters",
			filter:  Filter{Search: "steel", Exports: true, Currency: "USD", AmountMin: &min},
			wantIDs: []int64{1},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.filter.Apply(sampleTransactions())
			ids := make([]int64, len(got))
			for i, tr := range got {
				ids[i] = tr.ID
			}
			if len(ids) != len(tc.wantIDs) {
				t.Fatalf("Apply() ids = %v, want %v", ids, tc.wantIDs)
			}
			for i := range ids {
				if ids[i] != tc.wantIDs[i] {
					t.Fatalf("Apply() ids = %v, want %v", ids, tc.wantIDs)
				}
			}
		})
	}
}

func TestFilter_AmountSortStableOnTies(t *testing.T) {
	// ids 3 and 5 share amount 75; date-desc input order must survive.
	got := Filter{Order: ByAmountAsc}.Apply(sampleTransactions())
	if got[0].ID != 3 || got[1].ID != 5 {
		t.Errorf("tied amounts reordered: got %d, %d", got[0].ID, got[1].ID)
	}
}

func TestPaginate(t *testing.T) {
	txs := make([]Transaction, 38)
	for i := range txs {
		txs[i].ID = int64(i)
	}

	testCases := []struct {
		name      string
		page      int
		wantLen   int
		wantPages int
		wantFirst int64
	}{
		{name: "first page", page: 1, wantLen: 15, wantPages: 3, wantFirst: 0},
		{name: "middle page", page: 2, wantLen: 15, wantPages: 3, wantFirst: 15},
		{name: "short last page", page: 3, wantLen: 8, wantPages: 3, wantFirst: 30},
		{name: "beyond the end", page: 4, wantLen: 0, wantPages: 3},
		{name: "page zero clamps to one", page: 0, wantLen: 15, wantPages: 3, wantFirst: 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, pages := Paginate(txs, tc.page)
			if len(got) != tc.wantLen || pages != tc.wantPages {
				t.Fatalf("Paginate() = %d entries, %d pages; want %d, %d", len(got), pages, tc.wantLen, tc.wantPages)
			}
			if tc.wantLen > 0 && got[0].ID != tc.wantFirst {
				t.Errorf("first id = %d, want %d", got[0].ID, tc.wantFirst)
			}
		})
	}

	if _, pages := Paginate(nil, 1); pages != 1 {
		t.Errorf("empty list pages = %d, want 1", pages)
	}
}
