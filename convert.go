package tradetracker

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Rates maps currency codes to their value of one US dollar, e.g.
// {"EUR": 0.85} means 1 USD buys 0.85 EUR.
type Rates map[string]decimal.Decimal

// FallbackRates are used when no fetched rates are available.
func FallbackRates() Rates {
	return Rates{
		"USD": decimal.NewFromInt(1),
		"EUR": decimal.RequireFromString("0.85"),
		"GBP": decimal.RequireFromString("0.73"),
		"SAR": decimal.RequireFromString("3.75"),
	}
}

// rate looks up a code, defaulting to 1 so an unknown currency behaves
// like USD rather than zeroing the amount.
func (r Rates) rate(code string) decimal.Decimal {
	if v, ok := r[strings.ToUpper(code)]; ok && v.IsPositive() {
		return v
	}
	return decimal.NewFromInt(1)
}

// Convert converts amount from one currency to another, pivoting
// through USD. Same-currency conversion returns the amount unchanged.
func (r Rates) Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	from, to = strings.ToUpper(from), strings.ToUpper(to)
	if from == to {
		return amount
	}
	usd := amount.Div(r.rate(from))
	return usd.Mul(r.rate(to))
}

// ConvertAll re-expresses every transaction amount in the target
// currency, leaving the input untouched.
func (r Rates) ConvertAll(txs []Transaction, to string) []Transaction {
	out := make([]Transaction, len(txs))
	for i, t := range txs {
		t.Amount = r.Convert(t.Amount, t.Currency, to)
		t.Currency = strings.ToUpper(to)
		out[i] = t
	}
	return out
}
