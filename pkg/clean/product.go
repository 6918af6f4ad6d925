package clean

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/yusefshaaban/Ecommerce-Companion/pkg/tokenset"
	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
	"github.com/yusefshaaban/Ecommerce-Companion/pkg/units"
)

// Postage assumed when a multi-pack listing doesn't state one.
const assumedPostage = 2.7

// ProductCleaner normalizes a candidate product against a reference item.
type ProductCleaner struct {
	*Cleaner
}

// NewProduct returns a product cleaner.
func NewProduct() *ProductCleaner {
	return &ProductCleaner{Cleaner: New()}
}

// Clean reconciles the product with the item: brand inference, pack
// collapse, unit and value alignment, then the base title pipeline. The
// listing price and the accuracy score are adjusted as quantities and
// sizes are reconciled.
func (c *ProductCleaner) Clean(item *domain.Item, product *domain.Product) {
	targetUnits, targetValues := measurementPairs(item)
	c.setName(item, product)
	c.adjustQuantities(product)
	c.adjustMeasurements(product, targetUnits, targetValues)
	c.Basic(&product.Naming)
}

// setName seeds the product's brand/variant split, inferring the brand from
// the item when the listing didn't provide one.
func (c *ProductCleaner) setName(item *domain.Item, product *domain.Product) {
	if product.VariantName == "" {
		product.VariantName = product.Name
	}
	if product.BrandName == "" && item.BrandName != "" {
		if strings.Contains(strings.ToLower(product.Name), strings.ToLower(item.BrandName)) {
			product.BrandName = item.BrandName
			brandRe := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(item.BrandName) + `\b`)
			product.VariantName = strings.TrimSpace(brandRe.ReplaceAllString(product.Name, ""))
		}
	}
	product.Name = strings.TrimSpace(product.BrandName + " " + product.VariantName)
}

func measurementPairs(item *domain.Item) ([]string, []float64) {
	u := make([]string, 0, len(item.Measurements))
	v := make([]float64, 0, len(item.Measurements))
	for _, m := range item.Measurements {
		u = append(u, m.Unit)
		v = append(v, m.Value)
	}
	return u, v
}

// adjustQuantities collapses pack and multiplier expressions from the
// variant name and renormalizes price and confidence to a single unit.
func (c *ProductCleaner) adjustQuantities(product *domain.Product) {
	divisor := c.collapsePack(product, tokenset.Split(product.VariantName))
	if x := c.collapseMultiplier(product, tokenset.Split(product.VariantName)); x > divisor {
		divisor = x
	}
	product.VariantName = strings.TrimSpace(product.VariantName)

	if divisor > 1 {
		postage := product.PostagePrice
		if postage <= 0 {
			postage = assumedPostage
		}
		product.TotalPrice = round2((product.TotalPrice - postage) / math.Pow(float64(divisor), 0.96))
		product.BuyPrice = round2(product.TotalPrice - product.PostagePrice)
		product.AccuracyScore = round2(product.AccuracyScore * (1 - 0.03*math.Pow(float64(divisor), 0.6)))
	}
}

// collapsePack handles "6 pack", "pack of 4" and "6 pack x 500ml".
func (c *ProductCleaner) collapsePack(product *domain.Product, set tokenset.Set) int {
	divisor := 1
	for i, norm := range set.Normalized {
		if !tokenset.IsInteger(norm) {
			continue
		}
		raw := set.Raw[i]
		before := normAt(set, i-1)
		before2 := normAt(set, i-2)
		after := normAt(set, i+1)
		after2 := normAt(set, i+2)

		switch {
		case after == "pack" && after2 == "x":
			// "6 pack x 500ml": the count belongs to the multiplier pass.
			product.VariantName = replaceSpan(product.VariantName, rawAt(set, i+1), " ", true)
		case after == "pack":
			product.VariantName = replaceSpan(product.VariantName, raw+rawAt(set, i+1), " ", true)
			divisor = mustAtoi(norm)
		}
		if before2 == "pack" && before == "of" {
			span := rawAt(set, i-2) + rawAt(set, i-1) + raw
			product.VariantName = replaceSpan(product.VariantName, span, " ", true)
			divisor = mustAtoi(norm)
		}
	}
	product.VariantName = strings.TrimSpace(product.VariantName)
	return divisor
}

// collapseMultiplier handles "4 x 50ml", "4 x 50ml = 200ml", "x 4" and the
// '*' spellings. The first count adjacent to the multiplier sign wins, so a
// size is never mistaken for a quantity.
func (c *ProductCleaner) collapseMultiplier(product *domain.Product, set tokenset.Set) int {
	divisor := 1
	assigned := false
	setDivisor := func(norm string) {
		if !assigned {
			assigned = true
			divisor = mustAtoi(norm)
		}
	}

	for i, norm := range set.Normalized {
		if !tokenset.IsInteger(norm) {
			continue
		}
		raw := set.Raw[i]
		before := normAt(set, i-1)
		after := normAt(set, i+1)
		after2 := normAt(set, i+2)
		after3 := normAt(set, i+3)
		after4 := normAt(set, i+4)
		after5 := normAt(set, i+5)
		after6 := normAt(set, i+6)

		if after == "x" || after == "*" {
			switch {
			case after4 == "=" && units.IsUnit(after3):
				// "4 x 50ml = 200ml" or "4 x 50ml = 200": keep the size.
				keep := " " + rawAt(set, i+2) + rawAt(set, i+3) + " "
				end := i + 5
				if units.IsUnit(after6) {
					end = i + 6
				}
				product.VariantName = replaceSpan(product.VariantName, spanOf(set, i, end), keep, true)
			case after3 == "=":
				// "4 x 50 = 200ml" or "4 x 50 = 200": keep the count's size.
				keep := " " + rawAt(set, i+2) + " "
				end := i + 4
				if units.IsUnit(after5) {
					end = i + 5
				}
				product.VariantName = replaceSpan(product.VariantName, spanOf(set, i, end), keep, true)
			case tokenset.IsInteger(after2):
				// "4 x 50ml" or "4 x 50": drop the whole expression.
				end := i + 2
				if units.IsUnit(after3) {
					end = i + 3
				}
				product.VariantName = replaceSpan(product.VariantName, spanOf(set, i, end), " ", true)
			default:
				// Dangling "4 x".
				product.VariantName = replaceSpan(product.VariantName, raw+rawAt(set, i+1), " ", true)
			}
			setDivisor(norm)
		}

		if before == "x" || before == "*" {
			product.VariantName = replaceSpan(product.VariantName, rawAt(set, i-1)+raw, " ", true)
			setDivisor(norm)
		}
	}
	product.VariantName = strings.TrimSpace(product.VariantName)
	return divisor
}

// adjustMeasurements aligns the variant name's measurements with the
// item's: units first (positional), then at most one value reconciliation.
func (c *ProductCleaner) adjustMeasurements(product *domain.Product, targetUnits []string, targetValues []float64) {
	set := tokenset.Split(product.VariantName)
	c.convertUnits(product, set, targetUnits)
	set = tokenset.Split(product.VariantName)
	c.convertValues(product, set, targetUnits, targetValues)
}

// convertUnits rewrites each "<number><unit>" pair into the item's unit at
// the same position, dropping pairs the item has no measurement for.
func (c *ProductCleaner) convertUnits(product *domain.Product, set tokenset.Set, targetUnits []string) {
	unitsIndex := 0
	for i, norm := range set.Normalized {
		if !tokenset.IsInteger(norm) {
			continue
		}
		after := normAt(set, i+1)
		if !units.IsUnit(after) {
			continue
		}
		span := set.Raw[i] + rawAt(set, i+1)
		if unitsIndex >= len(targetUnits) {
			product.VariantName = replaceSpan(product.VariantName, span, " ", false)
			continue
		}
		value, err := units.Convert(mustParseFloat(norm), after, targetUnits[unitsIndex])
		if err != nil {
			continue
		}
		repl := tokenset.FormatNumber(round2(value)) + targetUnits[unitsIndex]
		product.VariantName = replaceSpan(product.VariantName, span, repl, false)
		unitsIndex++
	}
	product.VariantName = strings.TrimSpace(product.VariantName)
}

// convertValues reconciles the first "<number><unit>" pair whose unit now
// matches the item's leading measurement. Price scales by the size ratio
// dampened to the 0.59 power; confidence degrades with the mismatch and
// zeroes out at a 30x disparity.
func (c *ProductCleaner) convertValues(product *domain.Product, set tokenset.Set, targetUnits []string, targetValues []float64) {
	if len(targetUnits) == 0 || len(targetValues) == 0 {
		return
	}
	for i, norm := range set.Normalized {
		if !tokenset.IsInteger(norm) {
			continue
		}
		after := normAt(set, i+1)
		if after == "" || after != strings.ToLower(targetUnits[0]) {
			continue
		}

		targetValue := targetValues[0]
		divisor := mustParseFloat(norm) / targetValue

		span := set.Raw[i] + rawAt(set, i+1)
		repl := tokenset.FormatNumber(targetValue) + after
		product.VariantName = replaceSpan(product.VariantName, span, repl, false)

		// Only the listing price scales here; the aggregator re-derives
		// buy prices from pooled postage before any quantile is taken.
		if divisor != 1 {
			product.TotalPrice = round2(product.TotalPrice / math.Pow(divisor, 0.59))
		}
		if divisor < 1 {
			divisor = 1 / divisor
		}
		if divisor > 1 {
			if divisor >= 30 {
				product.AccuracyScore = 0
			} else {
				product.AccuracyScore = round2(product.AccuracyScore * (1 - 0.13*math.Pow(divisor, 0.6)))
			}
		}
		return
	}
}

func normAt(set tokenset.Set, i int) string {
	if i < 0 || i >= len(set.Normalized) {
		return ""
	}
	return set.Normalized[i]
}

func rawAt(set tokenset.Set, i int) string {
	if i < 0 || i >= len(set.Raw) {
		return ""
	}
	return set.Raw[i]
}

func spanOf(set tokenset.Set, from, to int) string {
	var b strings.Builder
	for i := from; i <= to && i < len(set.Raw); i++ {
		b.WriteString(set.Raw[i])
	}
	return b.String()
}

func mustAtoi(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func mustParseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
