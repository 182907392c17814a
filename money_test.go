package tradetracker

import "testing"

func TestFormatMoney(t *testing.T) {
	testCases := []struct {
		amount string
		code   string
		want   string
	}{
		{amount: "1234.5", code: "USD", want: "$1,234.50"},
		{amount: "0", code: "USD", want: "$0.00"},
		{amount: "-75", code: "EUR", want: "-€75.00"},
	}
	for _, tc := range testCases {
		if got := FormatMoney(dec(tc.amount), tc.code); got != tc.want {
			t.Errorf("FormatMoney(%s, %s) = %q, want %q", tc.amount, tc.code, got, tc.want)
		}
	}
}

func TestSignedMoney(t *testing.T) {
	if got := SignedMoney(dec("10"), "USD"); got != "+$10.00" {
		t.Errorf("positive = %q", got)
	}
	if got := SignedMoney(dec("0"), "USD"); got != "-" {
		t.Errorf("zero = %q", got)
	}
}
