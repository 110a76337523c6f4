package extraction

import (
	"strings"

	"github.com/shopspring/decimal"
)

// nanosExponent places Money.Nanos at billionths of a unit.
const nanosExponent = -9

// Money is a structured fixed-point amount: whole currency units plus a
// fractional part in billionths, as produced by document-understanding
// services.
type Money struct {
	Units int64 `json:"units,omitempty"`
	Nanos int32 `json:"nanos,omitempty"`
}

// Decimal converts the fixed-point representation to a decimal amount.
func (m Money) Decimal() decimal.Decimal {
	return decimal.NewFromInt(m.Units).Add(decimal.New(int64(m.Nanos), nanosExponent))
}

// ParseAmount normalizes heterogeneous numeric text into a decimal amount.
//
// The decimal comma convention is rewritten to a point, then every character
// that is not a digit, decimal point or leading minus sign is stripped
// (currency symbols, thousands separators, stray OCR artifacts). Returns
// ok=false when nothing numeric remains or the remainder does not parse;
// absence is not an error, callers substitute defaults.
func ParseAmount(text string) (decimal.Decimal, bool) {
	cleaned := strings.ReplaceAll(text, ",", ".")

	var b strings.Builder
	hasDigit := false
	for _, r := range cleaned {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			hasDigit = true
		case r == '.':
			b.WriteRune(r)
		case r == '-' && b.Len() == 0:
			b.WriteRune(r)
		}
	}

	if !hasDigit {
		return decimal.Zero, false
	}

	value, err := decimal.NewFromString(b.String())
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}
