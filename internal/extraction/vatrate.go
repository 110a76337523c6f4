package extraction

import "github.com/shopspring/decimal"

// DefaultRateCandidates are the statutory VAT rates (percent) the inference
// snaps to. Tuned for the Polish jurisdiction; the set is configurable so
// other jurisdictions can be added without code changes.
func DefaultRateCandidates() []decimal.Decimal {
	return []decimal.Decimal{
		decimal.NewFromInt(23),
		decimal.NewFromInt(8),
		decimal.NewFromInt(5),
		decimal.Zero,
	}
}

// snapWindow is the maximum distance, in percentage points, at which a raw
// ratio is snapped to a candidate rate.
var snapWindow = decimal.NewFromInt(1)

// InferVATRate infers the most likely tax rate from a net and a tax amount.
//
// The raw ratio (vat/net)x100 is snapped to the nearest candidate when
// within one percentage point of it; extraction noise routinely shifts
// ratios a fraction of a point from the statutory rate, and snapping avoids
// spurious validator mismatches while preserving genuinely unusual rates,
// which are returned rounded to two decimals. A zero net returns zero
// rather than failing.
func InferVATRate(net, vat decimal.Decimal, candidates []decimal.Decimal) decimal.Decimal {
	if net.IsZero() {
		return decimal.Zero
	}
	if len(candidates) == 0 {
		candidates = DefaultRateCandidates()
	}

	raw := vat.Div(net).Mul(decimal.NewFromInt(100))

	nearest := candidates[0]
	nearestDist := raw.Sub(candidates[0]).Abs()
	for _, c := range candidates[1:] {
		if dist := raw.Sub(c).Abs(); dist.LessThan(nearestDist) {
			nearest = c
			nearestDist = dist
		}
	}

	if nearestDist.LessThanOrEqual(snapWindow) {
		return nearest
	}
	return raw.Round(2)
}
