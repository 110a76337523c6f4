// Package audit re-validates the totals-reconciliation invariant against a
// previously exported spreadsheet, independently of the extraction pipeline.
// It catches drift between the export and the source of truth: missing
// required header cells and line-item sums that no longer reconcile with the
// header totals.
package audit

import (
	"fmt"

	"invoice-processing-service/internal/extraction"
	"invoice-processing-service/internal/reconciler"

	"github.com/shopspring/decimal"
)

// DefaultTolerance for spreadsheet audits. Looser than the assembly-time
// tolerance because exported values went through cell formatting.
var DefaultTolerance = decimal.RequireFromString("0.02")

// Column offsets are fixed by the export contract. The header range carries
// one row per invoice, the item range many rows per invoice keyed by the
// invoice number in its first column.
const (
	headerColInvoiceID = 0
	headerColTotalNet  = 6
	headerColTotalVAT  = 7
	headerColGross     = 8

	itemColInvoiceID = 0
	itemColNet       = 6
	itemColVAT       = 8
	itemColGross     = 9
)

// requiredHeaderColumns are the header cells that must be non-empty for
// every row. Ordered so report messages are deterministic.
var requiredHeaderColumns = []struct {
	Name  string
	Index int
}{
	{"invoice_id", 0},
	{"supplier_name", 1},
	{"supplier_tax_id", 2},
	{"issue_date", 3},
	{"currency", 5},
	{"total_net", 6},
	{"total_vat", 7},
	{"total_gross", 8},
}

// Report accumulates audit findings. Both lists empty means the sheet is
// complete and consistent.
type Report struct {
	MissingFields []string `json:"missing_fields,omitempty"`
	Mismatches    []string `json:"mismatches,omitempty"`
}

// OK reports whether the audit passed.
func (r *Report) OK() bool {
	return len(r.MissingFields) == 0 && len(r.Mismatches) == 0
}

// Run audits a header range against a line-item range.
//
// Required header columns are checked for presence on every row. Line-item
// rows are grouped by invoice number and their net/vat/gross summed;
// unparseable cells contribute nothing to the sums. For every header row
// whose invoice has at least one grouped item row, the sums are compared
// against the declared totals with the validator's tolerance semantics.
// Invoices without any item rows are an auditing gap surfaced by the header
// check at most, never a totals mismatch.
func Run(header, items [][]string, tolerance decimal.Decimal) *Report {
	if tolerance.LessThanOrEqual(decimal.Zero) {
		tolerance = DefaultTolerance
	}

	report := &Report{}
	checkRequiredFields(header, report)
	sums := groupItemSums(items)
	checkTotals(header, sums, tolerance, report)
	return report
}

// checkRequiredFields collects one message per empty required cell. Row
// numbering starts at 2: data ranges begin below the sheet's header row.
func checkRequiredFields(header [][]string, report *Report) {
	for i, row := range header {
		rowNum := i + 2
		for _, col := range requiredHeaderColumns {
			if col.Index >= len(row) || row[col.Index] == "" {
				report.MissingFields = append(report.MissingFields,
					fmt.Sprintf("Dane!%d:%s empty", rowNum, col.Name))
			}
		}
	}
}

// groupItemSums sums net/vat/gross per invoice number across the item range.
func groupItemSums(items [][]string) map[string]reconciler.Amounts {
	sums := make(map[string]reconciler.Amounts)
	for _, row := range items {
		if len(row) == 0 {
			continue
		}
		invoice := row[itemColInvoiceID]
		entry := sums[invoice]
		if v, ok := cellAmount(row, itemColNet); ok {
			entry.Net = entry.Net.Add(v)
		}
		if v, ok := cellAmount(row, itemColVAT); ok {
			entry.VAT = entry.VAT.Add(v)
		}
		if v, ok := cellAmount(row, itemColGross); ok {
			entry.Gross = entry.Gross.Add(v)
		}
		sums[invoice] = entry
	}
	return sums
}

// checkTotals applies the reconciliation comparison per header row. A
// declared total that does not parse skips that dimension only.
func checkTotals(header [][]string, sums map[string]reconciler.Amounts, tolerance decimal.Decimal, report *Report) {
	for _, row := range header {
		if len(row) <= headerColGross {
			continue
		}
		invoice := row[headerColInvoiceID]
		grouped, ok := sums[invoice]
		if !ok {
			continue
		}

		for _, check := range []struct {
			dimension string
			sum       decimal.Decimal
			col       int
		}{
			{"net", grouped.Net, headerColTotalNet},
			{"vat", grouped.VAT, headerColTotalVAT},
			{"gross", grouped.Gross, headerColGross},
		} {
			stated, ok := cellAmount(row, check.col)
			if !ok {
				continue
			}
			if d := reconciler.Compare(check.dimension, check.sum, stated, tolerance); d != nil {
				report.Mismatches = append(report.Mismatches,
					fmt.Sprintf("%s: sum_%s %s != total_%s %s",
						invoice, d.Dimension, d.Sum.StringFixed(2), d.Dimension, d.Stated.StringFixed(2)))
			}
		}
	}
}

func cellAmount(row []string, index int) (decimal.Decimal, bool) {
	if index >= len(row) {
		return decimal.Zero, false
	}
	return extraction.ParseAmount(row[index])
}
