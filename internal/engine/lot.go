package engine

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/yusefshaaban/Ecommerce-Companion/internal/metrics"
	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
)

const dateLayout = "02_01_2006"

// ProcessLot appraises every item in the lot, then rolls the results up
// into lot-level sell price, postage, profit, confidence and rating.
// Items that fail to appraise contribute zeros; the lot always completes.
func (e *Engine) ProcessLot(ctx context.Context, lot *domain.JobLot) error {
	defer metrics.LotsAppraisedTotal.Inc()

	e.log.Info("appraising lot", "name", lot.Name, "id", lot.ID, "items", len(lot.Items))

	for _, item := range lot.Items {
		if err := e.ProcessItem(ctx, item, lot.Condition); err != nil {
			if ctx.Err() != nil {
				return err
			}
			e.log.Error("item appraisal failed", "item", item.Name, "error", err)
		}
	}

	sort.SliceStable(lot.Items, func(i, j int) bool {
		return lot.Items[i].PriceQuality > lot.Items[j].PriceQuality
	})

	var (
		totalAccuracy float64
		totalSell     float64
		totalPostage  float64
		totalFees     float64
		totalScore    float64
		numItems      float64
	)
	for _, item := range lot.Items {
		totalAccuracy += item.AccuracyScore * item.Quantity
		totalSell += item.SellPrice * item.Quantity
		totalPostage += item.PostagePrice * item.Quantity
		totalFees += item.BuyerProtectionFee * item.Quantity
		totalScore += item.PriceQuality * item.Quantity
		numItems += item.Quantity
	}

	lot.SellPrice = round2(totalSell)
	lot.PostagePrice = round2(totalPostage)
	lot.OtherFees = round2(totalFees)
	lot.SellListingPrice = round2(totalSell + totalPostage + totalFees)

	// Dampen the score advantage of sheer item count.
	if numItems > 0 {
		totalScore *= math.Pow(numItems, 0.1)
	}

	if lot.BuyListingPrice > 0 {
		lot.Profit = round2(totalSell - lot.BuyListingPrice)
	} else {
		lot.Profit = 0
	}

	lot.Rating = rating(totalScore, lot.Profit)
	metrics.LotRatingDistribution.Observe(lot.Rating)

	if numItems > 0 {
		lot.AccuracyScore = round2(totalAccuracy / numItems)
	} else {
		lot.AccuracyScore = 0
	}

	lot.DateCreated = time.Now().Format(dateLayout)

	e.log.Info("lot appraised",
		"name", lot.Name,
		"sell", lot.SellPrice,
		"profit", lot.Profit,
		"rating", lot.Rating,
		"accuracy", lot.AccuracyScore,
	)

	return nil
}

// rating rewards profitable lots superlinearly and mirrors the same curve
// below zero so losses rank beneath every profitable lot.
func rating(totalScore, profit float64) float64 {
	if profit == 0 {
		return 0
	}
	sign := 1.0
	if profit < 0 {
		sign = -1
	}
	return round2(sign * totalScore * math.Pow(sign*profit, 1.2))
}
