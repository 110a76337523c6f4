package docai

import (
	"context"
	"time"

	"invoice-processing-service/internal/extraction"
)

// StubProvider produces a deterministic two-item entity tree so the full
// pipeline works end-to-end without service credentials. It is the default
// provider and the fallback when the real service fails.
type StubProvider struct {
	// Now supplies the stub issue date. Defaults to time.Now.
	Now func() time.Time
}

// NewStubProvider creates the deterministic stub.
func NewStubProvider() *StubProvider {
	return &StubProvider{}
}

func textEntity(tag, text string) extraction.Entity {
	return extraction.Entity{Type: tag, MentionText: text}
}

// ProcessDocument ignores the document content and returns a fixed tree: two
// 23%-VAT line items and matching header totals. The invoice number is left
// unresolved on purpose; the assembler synthesizes one from the source file
// name, which keeps stub invoices distinguishable per document.
func (p *StubProvider) ProcessDocument(_ context.Context, _ []byte, _ string) (*extraction.Document, error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}

	return &extraction.Document{
		Entities: []extraction.Entity{
			textEntity("supplier_name", "Acme Sp. z o.o."),
			textEntity("receiver_name", "Twoja Firma Sp. z o.o."),
			textEntity("invoice_date", now().Format("2006-01-02")),
			textEntity("currency", "PLN"),
			textEntity("total_net_amount", "200"),
			textEntity("total_tax_amount", "46"),
			textEntity("total_gross_amount", "246"),
			{
				Type: "line_item",
				Properties: []extraction.Entity{
					textEntity("line_item/description", "Pozycja 1"),
					textEntity("line_item/quantity", "1"),
					textEntity("line_item/unit_price", "100"),
					textEntity("line_item/net_amount", "100"),
					textEntity("line_item/tax_rate", "23"),
					textEntity("line_item/tax_amount", "23"),
					textEntity("line_item/amount", "123"),
				},
			},
			{
				Type: "line_item",
				Properties: []extraction.Entity{
					textEntity("line_item/description", "Pozycja 2"),
					textEntity("line_item/quantity", "2"),
					textEntity("line_item/unit_price", "50"),
					textEntity("line_item/net_amount", "100"),
					textEntity("line_item/tax_rate", "23"),
					textEntity("line_item/tax_amount", "23"),
					textEntity("line_item/amount", "123"),
				},
			},
		},
	}, nil
}
