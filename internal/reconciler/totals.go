// Package reconciler implements the totals-reconciliation invariant: summed
// line-item components must equal the declared invoice totals within
// tolerance.
//
// The check is defined over a minimal structural shape (Record) rather than
// a concrete invoice type, so the same contract serves both assembly-time
// validation of freshly extracted invoices and post-hoc audits of externally
// stored tabular rows.
package reconciler

import (
	"fmt"

	"invoice-processing-service/internal/models"

	"github.com/shopspring/decimal"
)

// DefaultTolerance is the maximum absolute deviation, in currency units,
// tolerated between a summed dimension and its declared total.
var DefaultTolerance = decimal.RequireFromString("0.01")

// Amounts carries the three summable components of one line item. A missing
// component is simply the zero value.
type Amounts struct {
	Net   decimal.Decimal
	VAT   decimal.Decimal
	Gross decimal.Decimal
}

// Record is the minimal shape the validator operates on.
type Record struct {
	TotalNet   decimal.Decimal
	TotalVAT   decimal.Decimal
	TotalGross decimal.Decimal
	Items      []Amounts
}

// FromInvoice converts a canonical invoice into the validator's record shape.
func FromInvoice(inv *models.Invoice) Record {
	rec := Record{
		TotalNet:   inv.TotalNet,
		TotalVAT:   inv.TotalVAT,
		TotalGross: inv.TotalGross,
		Items:      make([]Amounts, 0, len(inv.LineItems)),
	}
	for i := range inv.LineItems {
		rec.Items = append(rec.Items, Amounts{
			Net:   inv.LineItems[i].Net,
			VAT:   inv.LineItems[i].VAT,
			Gross: inv.LineItems[i].Gross,
		})
	}
	return rec
}

// Discrepancy describes one dimension whose line-item sum deviates from the
// declared total beyond tolerance.
type Discrepancy struct {
	Dimension string          `json:"dimension"` // "net", "vat" or "gross"
	Sum       decimal.Decimal `json:"sum"`
	Stated    decimal.Decimal `json:"stated"`
}

// String renders the discrepancy as a human-readable message. Messages are
// for reporting only, never for control flow.
func (d Discrepancy) String() string {
	return fmt.Sprintf("Mismatch %s: %s vs %s", d.Dimension, d.Sum.StringFixed(2), d.Stated.StringFixed(2))
}

// Result is the outcome of a totals validation.
type Result struct {
	OK            bool          `json:"ok"`
	Discrepancies []Discrepancy `json:"discrepancies,omitempty"`
}

// Messages returns the discrepancy messages in dimension order.
func (r *Result) Messages() []string {
	msgs := make([]string, 0, len(r.Discrepancies))
	for _, d := range r.Discrepancies {
		msgs = append(msgs, d.String())
	}
	return msgs
}

// Compare checks one dimension and returns a Discrepancy when the absolute
// difference between sum and stated exceeds the tolerance.
func Compare(dimension string, sum, stated, tolerance decimal.Decimal) *Discrepancy {
	if sum.Sub(stated).Abs().GreaterThan(tolerance) {
		return &Discrepancy{Dimension: dimension, Sum: sum, Stated: stated}
	}
	return nil
}

// ValidateTotals sums net, vat and gross independently across all items and
// compares each sum against the corresponding declared total. The three
// dimensions are checked independently, so a single record may report zero
// to three discrepancies. A non-positive tolerance falls back to
// DefaultTolerance. The function is pure and deterministic.
func ValidateTotals(rec Record, tolerance decimal.Decimal) Result {
	if tolerance.LessThanOrEqual(decimal.Zero) {
		tolerance = DefaultTolerance
	}

	var netSum, vatSum, grossSum decimal.Decimal
	for _, item := range rec.Items {
		netSum = netSum.Add(item.Net)
		vatSum = vatSum.Add(item.VAT)
		grossSum = grossSum.Add(item.Gross)
	}

	result := Result{OK: true}
	for _, check := range []struct {
		dimension string
		sum       decimal.Decimal
		stated    decimal.Decimal
	}{
		{"net", netSum, rec.TotalNet},
		{"vat", vatSum, rec.TotalVAT},
		{"gross", grossSum, rec.TotalGross},
	} {
		if d := Compare(check.dimension, check.sum, check.stated, tolerance); d != nil {
			result.OK = false
			result.Discrepancies = append(result.Discrepancies, *d)
		}
	}
	return result
}
