package extraction

import (
	"strings"

	"invoice-processing-service/internal/models"

	"github.com/shopspring/decimal"
)

// Alias sets for line-item child properties. Providers disagree on spelling;
// matching is case-insensitive and namespace-agnostic (see matchesAlias).
var (
	lineItemTags     = []string{"line_item", "line_items"}
	descriptionAlias = []string{"description", "item", "name", "product"}
	quantityAlias    = []string{"quantity", "qty", "count"}
	unitPriceAlias   = []string{"unit_price", "price", "unit_cost"}
	netAlias         = []string{"net_amount", "net", "amount_net"}
	rateAlias        = []string{"tax_rate", "vat_rate", "rate"}
	vatAlias         = []string{"tax_amount", "vat_amount", "vat", "tax"}
	grossAlias       = []string{"amount", "gross_amount", "gross", "total_price"}
)

// ExtractLineItems reduces a provider document to canonical line items.
//
// Strategies are attempted in priority order. Entities tagged as line-item
// records are authoritative: when at least one is present the table fallback
// is not attempted. The table fallback is a positional best-effort heuristic
// over detected tabular regions. An empty result is valid; the caller
// synthesizes a placeholder from invoice totals so the totals validator
// never operates on an empty set.
func ExtractLineItems(doc *Document, rateCandidates []decimal.Decimal) []models.LineItem {
	if doc == nil {
		return nil
	}

	items := extractFromEntities(doc.Entities, rateCandidates)
	if len(items) > 0 {
		return items
	}
	return extractFromTables(doc.Tables, rateCandidates)
}

// extractFromEntities scans top-level entities for line-item records and
// resolves their child properties.
func extractFromEntities(entities []Entity, rateCandidates []decimal.Decimal) []models.LineItem {
	var items []models.LineItem
	for i := range entities {
		e := &entities[i]
		if !matchesAlias(e.Type, lineItemTags) {
			continue
		}

		props := e.Properties

		description, _ := ResolveText(props, descriptionAlias...)
		quantity, hasQuantity := ResolveAmount(props, quantityAlias...)
		unitPrice, _ := ResolveAmount(props, unitPriceAlias...)
		net, hasNet := ResolveAmount(props, netAlias...)
		rate, hasRate := ResolveAmount(props, rateAlias...)
		vat, _ := ResolveAmount(props, vatAlias...)
		gross, hasGross := ResolveAmount(props, grossAlias...)

		if !hasQuantity {
			quantity = decimal.NewFromInt(1)
		}
		if !hasNet {
			net = quantity.Mul(unitPrice)
		}
		if !hasGross {
			gross = net.Add(vat)
		}
		if !hasRate {
			rate = InferVATRate(net, vat, rateCandidates)
		}

		items = append(items, models.LineItem{
			Description: description,
			Quantity:    quantity,
			UnitPrice:   unitPrice,
			Net:         net,
			VATRate:     rate,
			VAT:         vat,
			Gross:       gross,
		})
	}
	return items
}

// extractFromTables is the fallback strategy: the first cell of each body
// row is the description, every subsequent cell a candidate numeric value.
// Parsed values map positionally to quantity, unit price, net, vat and
// gross; the same defaulting rules as the entity strategy apply for columns
// that are not present. Rows where no cell parses are treated as non-data
// rows (section headers and the like) and skipped. Rows are independent; a
// bad row never aborts the rest of the table.
//
// The positional mapping is a documented best-effort heuristic, not a
// guaranteed-correct parser.
func extractFromTables(tables []Table, rateCandidates []decimal.Decimal) []models.LineItem {
	var items []models.LineItem
	for ti := range tables {
		for _, row := range tables[ti].BodyRows {
			if len(row) == 0 {
				continue
			}

			description := strings.TrimSpace(row[0])
			var values []decimal.Decimal
			for _, cell := range row[1:] {
				if v, ok := ParseAmount(cell); ok {
					values = append(values, v)
				}
			}
			if len(values) == 0 {
				continue
			}

			quantity := decimal.NewFromInt(1)
			unitPrice := decimal.Zero
			var net, vat, gross decimal.Decimal
			hasNet, hasGross := false, false

			if len(values) > 0 {
				quantity = values[0]
			}
			if len(values) > 1 {
				unitPrice = values[1]
			}
			if len(values) > 2 {
				net = values[2]
				hasNet = true
			}
			if len(values) > 3 {
				vat = values[3]
			}
			if len(values) > 4 {
				gross = values[4]
				hasGross = true
			}

			if !hasNet {
				net = quantity.Mul(unitPrice)
			}
			if !hasGross {
				gross = net.Add(vat)
			}

			items = append(items, models.LineItem{
				Description: description,
				Quantity:    quantity,
				UnitPrice:   unitPrice,
				Net:         net,
				VATRate:     InferVATRate(net, vat, rateCandidates),
				VAT:         vat,
				Gross:       gross,
			})
		}
	}
	return items
}
