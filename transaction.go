package tradetracker

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is a typed string identifying the direction of a trade.
type TransactionType string

const (
	// Export is an outgoing trade; exports count towards profit.
	Export TransactionType = "export"
	// Import is an incoming trade; imports count against profit.
	Import TransactionType = "import"
)

// ParseTransactionType parses a string into a TransactionType.
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "export":
		return Export, nil
	case "import":
		return Import, nil
	default:
		return "", fmt.Errorf("unknown transaction type: %q", s)
	}
}

// Comment is a note attached to a transaction. Comments are appended,
// never edited or removed individually.
type Comment struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"` // email, or "Anonymous" when unknown
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Transaction is a single export or import trade recorded in the ledger.
type Transaction struct {
	ID          int64           `json:"id"` // creation-time derived, unique per ledger
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"` // 3-letter code
	Description string          `json:"description"`
	Date        time.Time       `json:"date"`
	Comments    []Comment       `json:"comments"`
}

// validate checks the transaction fields and applies quick fixes where
// applicable (falling back to the workspace default currency). It returns
// the validated (and potentially modified) transaction or a
// ValidationError detailing the first failure.
func (t Transaction) validate(defaultCurrency string) (Transaction, error) {
	if !t.Amount.IsPositive() {
		return t, ErrAmountInvalid
	}
	if t.Currency == "" {
		t.Currency = defaultCurrency
	}
	if t.Currency == "" {
		return t, ErrCurrencyMissing
	}
	t.Currency = strings.ToUpper(t.Currency)
	if strings.TrimSpace(t.Description) == "" {
		return t, ErrDescriptionMissing
	}
	if t.Date.IsZero() {
		return t, ErrDateMissing
	}
	if t.Type != Export && t.Type != Import {
		return t, fmt.Errorf("unknown transaction type: %q", t.Type)
	}
	return t, nil
}

// matches reports whether the transaction matches a free-text query.
// The query is matched case-insensitively against the description, the
// stringified amount and the currency code, with OR semantics.
func (t Transaction) matches(query string) bool {
	return strings.Contains(strings.ToLower(t.Description), query) ||
		strings.Contains(t.Amount.String(), query) ||
		strings.Contains(strings.ToLower(t.Currency), query)
}
