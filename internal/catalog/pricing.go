package catalog

import "github.com/shopspring/decimal"

var oneHundred = decimal.NewFromInt(100)

// EffectivePriceCents applies the product discount to the list price and
// rounds half away from zero to whole cents. This is the single place
// discount math happens; checkout snapshots its result.
func EffectivePriceCents(priceCents, discountPercent int) int {
	if discountPercent <= 0 {
		return priceCents
	}
	if discountPercent >= 100 {
		return 0
	}
	price := decimal.NewFromInt(int64(priceCents))
	factor := decimal.NewFromInt(int64(100 - discountPercent)).Div(oneHundred)
	return int(price.Mul(factor).Round(0).IntPart())
}
