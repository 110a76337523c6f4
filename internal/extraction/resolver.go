package extraction

import (
	"strings"

	"github.com/shopspring/decimal"
)

// matchesAlias reports whether an entity type tag matches any of the alias
// names. Comparison is case-insensitive; a namespaced tag such as
// "line_item/net_amount" also matches on its final segment, so alias lists
// do not need to repeat every namespace prefix.
func matchesAlias(entityType string, aliases []string) bool {
	tag := strings.ToLower(strings.TrimSpace(entityType))
	suffix := tag
	if idx := strings.LastIndex(tag, "/"); idx >= 0 {
		suffix = tag[idx+1:]
	}

	for _, alias := range aliases {
		a := strings.ToLower(alias)
		if tag == a || suffix == a {
			return true
		}
	}
	return false
}

// ResolveText finds the first entity in document order whose type tag
// matches one of the aliases and returns its text value. Alias order carries
// no priority; the first matching entity wins. The provider's normalized
// text is used when the raw mention is empty.
func ResolveText(entities []Entity, aliases ...string) (string, bool) {
	for i := range entities {
		e := &entities[i]
		if !matchesAlias(e.Type, aliases) {
			continue
		}
		if text := strings.TrimSpace(e.MentionText); text != "" {
			return text, true
		}
		if e.Normalized != nil {
			if text := strings.TrimSpace(e.Normalized.Text); text != "" {
				return text, true
			}
		}
	}
	return "", false
}

// ResolveAmount finds the first entity in document order whose type tag
// matches one of the aliases and yields a parseable amount.
//
// A structured money value on the matching entity takes precedence over its
// text: providers populate both a best-guess text span and a normalized
// value, and the normalized value is more reliable when present. When
// neither the structured value nor any text on a matching entity parses,
// resolution continues with the next matching entity instead of failing.
func ResolveAmount(entities []Entity, aliases ...string) (decimal.Decimal, bool) {
	for i := range entities {
		e := &entities[i]
		if !matchesAlias(e.Type, aliases) {
			continue
		}

		if e.Normalized != nil {
			if e.Normalized.Money != nil {
				return e.Normalized.Money.Decimal(), true
			}
			if value, ok := ParseAmount(e.Normalized.Text); ok {
				return value, true
			}
		}
		if value, ok := ParseAmount(e.MentionText); ok {
			return value, true
		}
	}
	return decimal.Zero, false
}
