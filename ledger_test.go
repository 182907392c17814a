package tradetracker

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func day(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func tx(typ TransactionType, amount, currency, desc, date string) Transaction {
	return Transaction{
		Type:        typ,
		Amount:      decimal.RequireFromString(amount),
		Currency:    currency,
		Description: desc,
		Date:        day(date),
	}
}

func TestLedger_Add_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		tx      Transaction
		wantErr error
	}{
		{
			name:    "valid export",
			tx:      tx(Export, "100", "USD", "steel coils", "2025-03-01"),
			wantErr: nil,
		},
		{
			name:    "zero amount",
			tx:      tx(Export, "0", "USD", "steel coils", "2025-03-01"),
			wantErr: ErrAmountInvalid,
		},
		{
			name:    "negative amount",
			tx:      tx(Import, "-5", "USD", "steel coils", "2025-03-01"),
			wantErr: ErrAmountInvalid,
		},
		{
			name:    "blank description",
			tx:      tx(Export, "100", "USD", "   ", "2025-03-01"),
			wantErr: ErrDescriptionMissing,
		},
		{
			name: "missing date",
			tx: Transaction{
				Type:        Export,
				Amount:      decimal.NewFromInt(100),
				Currency:    "USD",
				Description: "steel coils",
			},
			wantErr: ErrDateMissing,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := NewLedger()
			_, err := l.Add(tc.tx, "USD")
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Add() error = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr == nil && l.Len() != 1 {
				t.Fatalf("Len() = %d, want 1", l.Len())
			}
		})
	}
}

func TestLedger_Add_DefaultCurrency(t *testing.T) {
	l := NewLedger()
	got, err := l.Add(tx(Export, "50", "", "dates", "2025-03-01"), "sar")
	if err != nil {
		t.Fatal(err)
	}
	if got.Currency != "SAR" {
		t.Errorf("Currency = %q, want SAR", got.Currency)
	}

	_, err = l.Add(tx(Export, "50", "", "dates", "2025-03-01"), "")
	if !errors.Is(err, ErrCurrencyMissing) {
		t.Errorf("Add() error = %v, want %v", err, ErrCurrencyMissing)
	}
}

func TestLedger_Add_UniqueIDs(t *testing.T) {
	l := NewLedger()
	seen := map[int64]bool{}
	for i := 0; i < 10; i++ {
		got, err := l.Add(tx(Export, "1", "USD", "batch", "2025-03-01"), "USD")
		if err != nil {
			t.Fatal(err)
		}
		if seen[got.ID] {
			t.Fatalf("duplicate id %d", got.ID)
		}
		seen[got.ID] = true
	}
}

func TestLedger_Order(t *testing.T) {
	l := NewLedger()
	for _, d := range []string{"2025-01-15", "2025-03-01", "2025-02-10"} {
		if _, err := l.Add(tx(Export, "1", "USD", "trade", d), "USD"); err != nil {
			t.Fatal(err)
		}
	}
	got := l.Transactions()
	want := []string{"2025-03-01", "2025-02-10", "2025-01-15"}
	for i, w := range want {
		if !got[i].Date.Equal(day(w)) {
			t.Errorf("transactions[%d].Date = %s, want %s", i, got[i].Date.Format("2006-01-02"), w)
		}
	}
}

func TestLedger_UpdateDeleteClear(t *testing.T) {
	l := NewLedger()
	stored, err := l.Add(tx(Export, "100", "USD", "steel", "2025-03-01"), "USD")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.AddComment(stored.ID, "", "first note"); err != nil {
		t.Fatal(err)
	}
	if _, err := l.AddComment(stored.ID, "", "  "); !errors.Is(err, ErrCommentMissing) {
		t.Errorf("blank comment error = %v, want %v", err, ErrCommentMissing)
	}

	edited := stored
	edited.Amount = decimal.NewFromInt(250)
	got, err := l.Update(edited, "USD")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Amount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("Amount = %s, want 250", got.Amount)
	}
	if len(got.Comments) != 1 || got.Comments[0].Author != "Anonymous" {
		t.Errorf("comments not preserved through update: %+v", got.Comments)
	}

	if err := l.Delete(stored.ID); err != nil {
		t.Fatal(err)
	}
	if err := l.Delete(stored.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want %v", err, ErrNotFound)
	}

	if _, err := l.Add(tx(Import, "10", "USD", "parts", "2025-03-02"), "USD"); err != nil {
		t.Fatal(err)
	}
	l.Clear()
	if l.Len() != 0 {
		t.Errorf("Len() after Clear = %d, want 0", l.Len())
	}
}

func TestLedger_OnChange(t *testing.T) {
	l := NewLedger()
	var fired int
	l.OnChange(func() { fired++ })
	stored, _ := l.Add(tx(Export, "1", "USD", "trade", "2025-03-01"), "USD")
	l.Delete(stored.ID)
	l.Clear()
	if fired != 3 {
		t.Errorf("change callbacks fired %d times, want 3", fired)
	}
}
