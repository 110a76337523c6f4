// Package models defines the canonical invoice records produced by
// extraction and consumed by validation and export.
//
// Monetary values use decimal.Decimal throughout; floating point only
// appears at the workbook boundary. Invoices are constructed once per source
// document and never mutated afterwards - corrections require re-extraction.
package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// LineItem represents one billable row of an invoice.
//
// The arithmetic relations between the fields (quantity x unit price = net,
// net x (1 + rate/100) = gross) are soft invariants: extracted data may be
// imperfect, so they are checked by the totals validator in aggregate rather
// than enforced at construction.
type LineItem struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Net         decimal.Decimal `json:"net"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	VAT         decimal.Decimal `json:"vat"`
	Gross       decimal.Decimal `json:"gross"`
}

// Validate performs basic sanity checks on the line item
func (li *LineItem) Validate() error {
	if li.Quantity.IsNegative() {
		return fmt.Errorf("line item quantity cannot be negative, got %s", li.Quantity)
	}
	return nil
}

// Invoice represents one extracted invoice document.
type Invoice struct {
	Number     string          `json:"number"`
	IssueDate  string          `json:"issue_date"` // ISO yyyy-mm-dd
	Seller     string          `json:"seller"`
	Buyer      string          `json:"buyer"`
	Currency   string          `json:"currency"`
	TotalNet   decimal.Decimal `json:"total_net"`
	TotalVAT   decimal.Decimal `json:"total_vat"`
	TotalGross decimal.Decimal `json:"total_gross"`
	LineItems  []LineItem      `json:"line_items"`
}

// Validate checks the fields downstream consumers rely on. Seller and buyer
// may legitimately be empty when the extraction could not resolve them.
func (inv *Invoice) Validate() error {
	if strings.TrimSpace(inv.Number) == "" {
		return fmt.Errorf("invoice number cannot be empty")
	}

	if inv.IssueDate != "" {
		if _, err := time.Parse("2006-01-02", inv.IssueDate); err != nil {
			return fmt.Errorf("invoice issue date must be ISO yyyy-mm-dd, got %q", inv.IssueDate)
		}
	}

	if len(inv.Currency) != 3 {
		return fmt.Errorf("invoice currency must be a 3-letter code, got %q", inv.Currency)
	}

	for i := range inv.LineItems {
		if err := inv.LineItems[i].Validate(); err != nil {
			return fmt.Errorf("line item %d: %w", i+1, err)
		}
	}

	return nil
}

// HeaderRow returns the invoice-level fields in export column order.
func (inv *Invoice) HeaderRow() []interface{} {
	return []interface{}{
		inv.Number,
		inv.IssueDate,
		inv.Seller,
		inv.Buyer,
		inv.Currency,
		inv.TotalNet.InexactFloat64(),
		inv.TotalVAT.InexactFloat64(),
		inv.TotalGross.InexactFloat64(),
	}
}

// ItemRow returns one line item in export column order, foreign-keyed by the
// invoice number.
func (inv *Invoice) ItemRow(li LineItem) []interface{} {
	return []interface{}{
		inv.Number,
		li.Description,
		li.Quantity.InexactFloat64(),
		li.UnitPrice.InexactFloat64(),
		li.Net.InexactFloat64(),
		li.VATRate.InexactFloat64(),
		li.VAT.InexactFloat64(),
		li.Gross.InexactFloat64(),
	}
}
