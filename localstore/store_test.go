package localstore

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/yalkhatib/tradetracker"
)

func open(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_Defaults(t *testing.T) {
	s := open(t)

	txs, err := s.Transactions()
	if err != nil || txs != nil {
		t.Errorf("Transactions() = %v, %v; want empty", txs, err)
	}
	if id, _ := s.WorkspaceID(); id != "" {
		t.Errorf("WorkspaceID() = %q, want empty", id)
	}
	if role, _ := s.Role(); role != tradetracker.Reader {
		t.Errorf("Role() = %s, want reader", role)
	}
	cs, err := s.Currencies()
	if err != nil || !cs.Has("USD") || !cs.Has("EUR") || !cs.Has("SAR") {
		t.Errorf("Currencies() = %v, %v; want seed table", cs, err)
	}
	if def, _ := s.DefaultCurrency(); def != "USD" {
		t.Errorf("DefaultCurrency() = %q, want USD", def)
	}
	if _, at, _ := s.Rates(); !at.IsZero() {
		t.Errorf("rates fetch time = %s, want zero", at)
	}
}

func TestStore_RoundTrips(t *testing.T) {
	s := open(t)

	txs := []tradetracker.Transaction{{
		ID:          42,
		Type:        tradetracker.Export,
		Amount:      decimal.RequireFromString("1200.50"),
		Currency:    "USD",
		Description: "steel",
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}}
	if err := s.SaveTransactions(txs); err != nil {
		t.Fatal(err)
	}
	got, err := s.Transactions()
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].ID != 42 || !got[0].Amount.Equal(txs[0].Amount) {
		t.Errorf("Transactions() = %+v", got)
	}

	if err := s.SaveWorkspaceID("AB2CDE"); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveRole(tradetracker.Creator); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveCredentials("tok-123", "amal@example.com"); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveLastSync(time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)); err != nil {
		t.Fatal(err)
	}
	if err := s.SaveLastBackupDay("2025-03-10"); err != nil {
		t.Fatal(err)
	}

	if id, _ := s.WorkspaceID(); id != "AB2CDE" {
		t.Errorf("WorkspaceID() = %q", id)
	}
	if role, _ := s.Role(); role != tradetracker.Creator {
		t.Errorf("Role() = %s", role)
	}
	tok, email, err := s.Credentials()
	if err != nil || tok != "tok-123" || email != "amal@example.com" {
		t.Errorf("Credentials() = %q, %q, %v", tok, email, err)
	}
	if day, _ := s.LastBackupDay(); day != "2025-03-10" {
		t.Errorf("LastBackupDay() = %q", day)
	}
	if at, _ := s.LastSync(); at.IsZero() {
		t.Error("LastSync() is zero")
	}
}

func TestStore_RatesCache(t *testing.T) {
	s := open(t)
	rates := tradetracker.Rates{"EUR": decimal.RequireFromString("0.91")}
	at := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	if err := s.SaveRates(rates, at); err != nil {
		t.Fatal(err)
	}
	got, gotAt, err := s.Rates()
	if err != nil {
		t.Fatal(err)
	}
	if !got["EUR"].Equal(rates["EUR"]) || !gotAt.Equal(at) {
		t.Errorf("Rates() = %v, %s", got, gotAt)
	}
}

func TestStore_ClearWorkspace(t *testing.T) {
	s := open(t)
	s.SaveTransactions([]tradetracker.Transaction{{ID: 1}})
	s.SaveWorkspaceID("AB2CDE")
	s.SaveRole(tradetracker.Writer)
	s.SaveMembers([]tradetracker.Member{{Email: "amal@example.com", Role: tradetracker.Creator}})
	s.SaveLastSync(time.Now())
	s.SaveCredentials("tok", "amal@example.com")

	if err := s.ClearWorkspace(); err != nil {
		t.Fatal(err)
	}
	if id, _ := s.WorkspaceID(); id != "" {
		t.Errorf("workspace id survived clear: %q", id)
	}
	if txs, _ := s.Transactions(); txs != nil {
		t.Errorf("transactions survived clear: %v", txs)
	}
	if ms, _ := s.Members(); ms != nil {
		t.Errorf("members survived clear: %v", ms)
	}
	// credentials are session state, not workspace state
	if tok, _, _ := s.Credentials(); tok != "tok" {
		t.Error("credentials did not survive workspace clear")
	}
}

func TestStore_Wipe(t *testing.T) {
	s := open(t)
	s.SaveCredentials("tok", "amal@example.com")
	s.SaveWorkspaceID("AB2CDE")
	if err := s.Wipe(); err != nil {
		t.Fatal(err)
	}
	if tok, _, _ := s.Credentials(); tok != "" {
		t.Error("credentials survived wipe")
	}
	if id, _ := s.WorkspaceID(); id != "" {
		t.Error("workspace id survived wipe")
	}
}

func TestStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")
	s, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SaveWorkspaceID("XY34ZW"); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	s, err = Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if id, _ := s.WorkspaceID(); id != "XY34ZW" {
		t.Errorf("WorkspaceID() after reopen = %q", id)
	}
}
