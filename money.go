package tradetracker

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// FormatMoney renders an amount with its currency's symbol, grouping
// and fraction digits, e.g. "$1,234.50". An unknown code is formatted
// like a two-decimal currency with the code as symbol.
func FormatMoney(amount decimal.Decimal, code string) string {
	// the Money constructor guarantees a non-nil currency
	cur := money.New(0, code).Currency()
	return cur.Formatter().Format(amount.Shift(int32(cur.Fraction)).IntPart())
}

// SignedMoney is FormatMoney with an explicit "+" on positive amounts.
// Zero renders as "-".
func SignedMoney(amount decimal.Decimal, code string) string {
	if amount.IsZero() {
		return "-"
	}
	if amount.IsPositive() {
		return "+" + FormatMoney(amount, code)
	}
	return FormatMoney(amount, code)
}
