// Package extraction turns the loosely-structured entity trees returned by a
// document-understanding provider into canonical invoice records.
//
// The provider output is heterogeneous: field names come in several aliasing
// conventions, values may be present as raw text spans, as normalized text,
// or as structured money values, and line items may only exist as detected
// table regions. This package owns the normalization rules that reduce all
// of that to models.Invoice:
//
//   - ParseAmount / Money: numeric normalization of locale-formatted text
//     and fixed-point money values
//   - ResolveText / ResolveAmount: alias-based field lookup over entity trees
//   - ExtractLineItems: entity-first line item extraction with a positional
//     table fallback
//   - InferVATRate: snapping noisy net/tax ratios to statutory rates
//   - AssembleInvoice: combining all of the above into one Invoice
//
// All functions are pure; absence and parse failures are signalled through
// defaults, never through errors.
package extraction

// Entity is one typed node of extracted structured data. Nested records such
// as line items carry their fields as child property entities. The tree is
// read-only from this package's perspective.
type Entity struct {
	// Type is the field tag, possibly namespaced ("line_item/net_amount").
	Type string `json:"type"`

	// MentionText is the raw text span the provider associated with the
	// entity, if any.
	MentionText string `json:"mention_text,omitempty"`

	// Normalized carries the provider's normalized value, when present.
	// It is more reliable than MentionText and is preferred by the
	// resolver.
	Normalized *NormalizedValue `json:"normalized_value,omitempty"`

	// Properties holds child entities for nested records.
	Properties []Entity `json:"properties,omitempty"`
}

// NormalizedValue is the provider's best-effort normalization of an entity.
type NormalizedValue struct {
	Text  string `json:"text,omitempty"`
	Money *Money `json:"money_value,omitempty"`
}

// Table is a detected tabular region, used as a fallback source of line
// items when no line-item entities were recognized.
type Table struct {
	HeaderRows [][]string `json:"header_rows,omitempty"`
	BodyRows   [][]string `json:"body_rows,omitempty"`
}

// Document is the root of a provider response for one source document.
type Document struct {
	Entities []Entity `json:"entities"`
	Tables   []Table  `json:"tables,omitempty"`
}
