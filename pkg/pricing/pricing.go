// Package pricing aggregates scored candidate products into sell price,
// postage, fee and confidence estimates for an item, and rolls items up
// into job lot ratings. All functions mutate their inputs in place.
package pricing

import (
	"math"
	"sort"

	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
)

// Config collects the aggregation tuning constants.
type Config struct {
	// CheapnessAggression picks the price quantile: index len/N of the
	// ascending list. 4 approximates the 25th percentile.
	CheapnessAggression int `yaml:"cheapness_aggression"`

	// BelowMultiplier widens the anchor pool to candidates above
	// score * multiplier.
	BelowMultiplier float64 `yaml:"below_multiplier"`

	// MinWorkingSet is the working set size needed before estimates are
	// trusted.
	MinWorkingSet int `yaml:"min_working_set"`

	// StandardizeStrength (0-99) weakens the confidence-spread penalty
	// as it grows; the exponent applied is 1 - strength/100.
	StandardizeStrength float64 `yaml:"standardize_strength"`

	// RichSetMin is the number of candidates at confidence >= 90 that
	// switches estimation to the rich regime.
	RichSetMin int `yaml:"rich_set_min"`
}

// DefaultConfig returns the standard tuning.
func DefaultConfig() Config {
	return Config{
		CheapnessAggression: 4,
		BelowMultiplier:     0.65,
		MinWorkingSet:       8,
		StandardizeStrength: 50,
		RichSetMin:          6,
	}
}

// RichEstimate prices the item from a healthy set of high-confidence
// candidates, pre-sorted by ascending total price. The cheapest candidate
// anchors the sell price; confidence is the average discounted by the
// spread between the weakest and strongest match.
func RichEstimate(item *domain.Item, band []*domain.Product, cfg Config) {
	if len(band) == 0 {
		return
	}

	closest := band[0].TotalPrice

	var postageSum float64
	postageCount := 0
	for _, p := range band {
		if p.PostagePrice > 0 {
			postageSum += p.PostagePrice
			postageCount++
		}
	}
	postage := 0.0
	if postageCount > 0 {
		postage = postageSum / float64(postageCount)
	}

	avg, minAcc, maxAcc := accuracyStats(band)
	if minAcc <= 0 {
		minAcc = 1
	}
	if maxAcc <= 0 {
		maxAcc = 1
	}
	avg *= math.Sqrt(minAcc / maxAcc)

	item.SellPrice = round2(closest)
	item.AccuracyScore = round2(clampScore(avg))
	item.PostagePrice = round2(postage)
	item.NumProducts = len(band)
}

// BandEstimate accumulates evidence while walking down the confidence
// bands. The above-threshold candidates are double-counted into the next
// band's working set together with a synthetic anchor, so each step widens
// the pool without forgetting the stronger matches. Estimates are only
// committed once the working set is large enough, or the threshold reaches
// zero.
func BandEstimate(item *domain.Item, above []*domain.Product, working *[]*domain.Product, score float64, cfg Config) {
	item.NumProducts = len(*working)

	if len(above) > 0 || score <= 30 {
		below := anchorPool(item, score*cfg.BelowMultiplier)
		if len(below) == 0 && score != 0 {
			return
		}

		belowTotal := leftMiddle(below, func(p *domain.Product) float64 { return p.TotalPrice })
		belowPostage := leftMiddle(below, func(p *domain.Product) float64 { return p.PostagePrice })

		anchor := &domain.Product{AccuracyScore: score}
		anchor.Name = "anchor"
		if len(above) > 0 {
			var sum float64
			for _, p := range above {
				sum += p.TotalPrice + p.PostagePrice
			}
			aboveMean := round2(sum / float64(len(above)))
			anchor.TotalPrice = round2(belowTotal + math.Abs(belowTotal-aboveMean)/2)
		} else {
			anchor.TotalPrice = belowTotal
			anchor.PostagePrice = belowPostage
		}

		*working = append(*working, above...)
		*working = append(*working, above...)
		*working = append(*working, anchor)
	}

	if len(*working) >= cfg.MinWorkingSet || score == 0 {
		setItemAttributes(item, *working, cfg)
		return
	}

	item.SellPrice = 0
	item.AccuracyScore = 0
	item.PostagePrice = 0
	item.NumProducts = 0
}

// anchorPool returns the item's priceable candidates above the threshold,
// cheapest first.
func anchorPool(item *domain.Item, threshold float64) []*domain.Product {
	var pool []*domain.Product
	for _, p := range item.Products {
		if !p.Unavailable && p.AccuracyScore > threshold {
			pool = append(pool, p)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		return pool[i].TotalPrice < pool[j].TotalPrice
	})
	return pool
}

// leftMiddle picks the left-middle element of an ascending list, the
// single element for one, zero for none.
func leftMiddle(pool []*domain.Product, f func(*domain.Product) float64) float64 {
	switch len(pool) {
	case 0:
		return 0
	case 1:
		return f(pool[0])
	default:
		return f(pool[len(pool)/2-1])
	}
}

// setItemAttributes derives the item's sell price, postage and confidence
// from the working set: a cheap postage quantile imputes missing postage,
// then a cheap buy-price quantile becomes the sell price.
func setItemAttributes(item *domain.Item, working []*domain.Product, cfg Config) {
	sort.SliceStable(working, func(i, j int) bool {
		return working[i].TotalPrice < working[j].TotalPrice
	})

	var postagePrices []float64
	for _, p := range working {
		if p.PostagePrice > 0 {
			postagePrices = append(postagePrices, p.PostagePrice)
		}
	}
	postage := 0.0
	if len(postagePrices) > 0 {
		postage = postagePrices[len(postagePrices)/cfg.CheapnessAggression]
	}

	imputePostage(working, postage)
	imputePostage(item.Products, postage)

	closest := 0.0
	if len(working) > 0 {
		closest = working[len(working)/cfg.CheapnessAggression].BuyPrice
	}

	avg, minAcc, maxAcc := accuracyStats(working)
	if minAcc <= 0 {
		minAcc = 1
	}
	if maxAcc <= 0 {
		maxAcc = 1
	}
	spread := math.Pow(minAcc/maxAcc, 1-cfg.StandardizeStrength/100)

	item.SellPrice = round2(closest)
	item.AccuracyScore = round2(clampScore(avg * spread))
	item.PostagePrice = round2(postage)
}

func imputePostage(products []*domain.Product, postage float64) {
	for _, p := range products {
		if p.PostagePrice == 0 {
			p.PostagePrice = postage
		}
		p.BuyPrice = round2(p.TotalPrice - p.PostagePrice)
		p.TotalPrice = round2(p.BuyPrice + p.PostagePrice)
	}
}

func accuracyStats(products []*domain.Product) (avg, min, max float64) {
	if len(products) == 0 {
		return 0, 1, 1
	}
	min = products[0].AccuracyScore
	max = products[0].AccuracyScore
	var sum float64
	for _, p := range products {
		sum += p.AccuracyScore
		if p.AccuracyScore < min {
			min = p.AccuracyScore
		}
		if p.AccuracyScore > max {
			max = p.AccuracyScore
		}
	}
	return sum / float64(len(products)), min, max
}

// clampScore bounds a confidence score to [0, 100]. This is the only
// place scores are clamped; the match rules multiply freely.
func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
