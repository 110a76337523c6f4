package extraction

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"plain integer", "100", "100", true},
		{"point decimal", "99.50", "99.5", true},
		{"comma decimal", "1234,56", "1234.56", true},
		{"comma decimal with space thousands", "1 234,56", "1234.56", true},
		{"currency suffix", "123.45 PLN", "123.45", true},
		{"currency symbol", "$99.99", "99.99", true},
		{"negative", "-42.5", "-42.5", true},
		{"minus not leading is stripped", "42-5", "425", true},
		{"empty", "", "", false},
		{"whitespace only", "   ", "", false},
		{"no digits", "brak danych", "", false},
		{"lone separator", ",", "", false},
		{"two decimal points", "1.2.3", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseAmount(tt.input)
			if ok != tt.ok {
				t.Fatalf("ParseAmount(%q) ok = %v, want %v", tt.input, ok, tt.ok)
			}
			if !tt.ok {
				return
			}
			want := decimal.RequireFromString(tt.want)
			if !got.Equal(want) {
				t.Errorf("ParseAmount(%q) = %s, want %s", tt.input, got, want)
			}
		})
	}
}

func TestMoney_Decimal(t *testing.T) {
	tests := []struct {
		name  string
		money Money
		want  string
	}{
		{"units and half", Money{Units: 20, Nanos: 500000000}, "20.5"},
		{"units only", Money{Units: 100}, "100"},
		{"nanos only", Money{Nanos: 10000000}, "0.01"},
		{"zero", Money{}, "0"},
		{"negative units", Money{Units: -5, Nanos: 0}, "-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			want := decimal.RequireFromString(tt.want)
			if got := tt.money.Decimal(); !got.Equal(want) {
				t.Errorf("Money%+v.Decimal() = %s, want %s", tt.money, got, want)
			}
		})
	}
}
