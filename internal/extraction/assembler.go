package extraction

import (
	"fmt"
	"time"

	"invoice-processing-service/internal/models"

	"github.com/shopspring/decimal"
)

// Header field alias sets, covering the spellings observed across provider
// processor versions.
var (
	numberAlias   = []string{"invoice_id", "invoice_number", "number"}
	dateAlias     = []string{"invoice_date", "issue_date", "date"}
	sellerAlias   = []string{"supplier_name", "seller", "seller_name", "remit_to_name"}
	buyerAlias    = []string{"receiver_name", "buyer", "buyer_name", "bill_to_name", "customer_name"}
	currencyAlias = []string{"currency", "currency_code"}
	totalNetAlias = []string{"total_net_amount", "net_amount", "total_net"}
	totalVATAlias = []string{"total_tax_amount", "vat_amount", "total_vat"}
	totalGrsAlias = []string{"total_amount", "total_gross_amount", "gross_amount", "total"}
)

// AssemblerConfig holds the defaults applied to unresolved header fields.
type AssemblerConfig struct {
	// DefaultCurrency is used when no currency entity resolves.
	DefaultCurrency string

	// RateCandidates is passed through to VAT-rate inference.
	RateCandidates []decimal.Decimal

	// Now supplies the processing time for the issue-date default and
	// synthesized invoice numbers. Defaults to time.Now.
	Now func() time.Time
}

// DefaultAssemblerConfig returns the production defaults.
func DefaultAssemblerConfig() AssemblerConfig {
	return AssemblerConfig{
		DefaultCurrency: "PLN",
		RateCandidates:  DefaultRateCandidates(),
	}
}

// AssembleInvoice combines resolved header fields and extracted line items
// into one canonical Invoice for the named source document.
//
// Every header field is independently optional: the issue date defaults to
// the processing date, the currency to the configured fallback code, seller
// and buyer to empty text, and a missing invoice number is synthesized from
// the source name and processing timestamp so downstream keying never sees
// an empty number. Totals prefer explicit header-level entities; an absent
// total is approximated from the line-item sums (gross minus vat, vat, and
// gross respectively). All three invoice-level totals are rounded to two
// decimals here; line-item amounts are left unrounded, the validator
// tolerance absorbs the residual drift.
//
// When neither extraction strategy yields line items, a single placeholder
// item carrying the invoice-level totals is synthesized so the totals
// validator always has an aggregate to check.
func AssembleInvoice(doc *Document, sourceName string, cfg AssemblerConfig) *models.Invoice {
	now := time.Now
	if cfg.Now != nil {
		now = cfg.Now
	}
	if cfg.DefaultCurrency == "" {
		cfg.DefaultCurrency = "PLN"
	}

	var entities []Entity
	if doc != nil {
		entities = doc.Entities
	}

	number, ok := ResolveText(entities, numberAlias...)
	if !ok {
		number = fmt.Sprintf("INV-%s-%s", sourceName, now().Format("20060102150405"))
	}

	issueDate, ok := ResolveText(entities, dateAlias...)
	if !ok {
		issueDate = now().Format("2006-01-02")
	}

	seller, _ := ResolveText(entities, sellerAlias...)
	buyer, _ := ResolveText(entities, buyerAlias...)

	currency, ok := ResolveText(entities, currencyAlias...)
	if !ok {
		currency = cfg.DefaultCurrency
	}

	items := ExtractLineItems(doc, cfg.RateCandidates)

	var itemVAT, itemGross decimal.Decimal
	for i := range items {
		itemVAT = itemVAT.Add(items[i].VAT)
		itemGross = itemGross.Add(items[i].Gross)
	}

	totalNet, ok := ResolveAmount(entities, totalNetAlias...)
	if !ok {
		totalNet = itemGross.Sub(itemVAT)
	}
	totalVAT, ok := ResolveAmount(entities, totalVATAlias...)
	if !ok {
		totalVAT = itemVAT
	}
	totalGross, ok := ResolveAmount(entities, totalGrsAlias...)
	if !ok {
		totalGross = itemGross
	}

	totalNet = totalNet.Round(2)
	totalVAT = totalVAT.Round(2)
	totalGross = totalGross.Round(2)

	if len(items) == 0 {
		items = []models.LineItem{synthesizeLineItem(totalNet, totalVAT, totalGross, cfg.RateCandidates)}
	}

	return &models.Invoice{
		Number:     number,
		IssueDate:  issueDate,
		Seller:     seller,
		Buyer:      buyer,
		Currency:   currency,
		TotalNet:   totalNet,
		TotalVAT:   totalVAT,
		TotalGross: totalGross,
		LineItems:  items,
	}
}

// synthesizeLineItem constructs the single placeholder item used when no
// item-level data is extractable. Its amounts mirror the invoice totals, so
// the reconciliation check against it is tautological by construction.
func synthesizeLineItem(net, vat, gross decimal.Decimal, rateCandidates []decimal.Decimal) models.LineItem {
	return models.LineItem{
		Description: "Invoice total",
		Quantity:    decimal.NewFromInt(1),
		UnitPrice:   net,
		Net:         net,
		VATRate:     InferVATRate(net, vat, rateCandidates),
		VAT:         vat,
		Gross:       gross,
	}
}
