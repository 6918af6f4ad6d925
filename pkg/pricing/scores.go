package pricing

import (
	"math"

	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
)

// SetScores finalizes the item's confidence and value metrics. Accuracy is
// compressed through a square-root curve, penalized for tiny samples and
// for uncertain names, and price quality rewards accurate-but-cheap items.
func SetScores(item *domain.Item) {
	item.AccuracyScore = 100 * math.Sqrt(item.AccuracyScore/100)

	switch item.NumProducts {
	case 1:
		item.AccuracyScore *= 0.7
	case 2:
		item.AccuracyScore *= 0.85
	case 3:
		item.AccuracyScore *= 0.95
	}
	item.AccuracyScore = round2(item.AccuracyScore)

	certaintyPenalty := item.AccuracyScore - math.Pow(item.AccuracyScore, math.Sqrt(item.NameCertainty))

	if item.TotalPrice > 0 {
		item.PriceQuality = math.Pow((item.AccuracyScore-certaintyPenalty)/item.TotalPrice, 1.1)
	} else {
		item.PriceQuality = 0
	}
}
