package ebay

import (
	"context"
	"math"
	"strconv"

	"github.com/yusefshaaban/Ecommerce-Companion/internal/currency"
	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
)

// ToProduct converts a search hit into a domain candidate. Prices are
// converted to the base currency and discounted by any widening price
// penalty; the starting confidence is discounted by the accuracy penalty.
// Hits with no usable price come back with the Unavailable marker so the
// aggregator can keep them out of pricing.
func ToProduct(ctx context.Context, conv currency.Converter, f Found) *domain.Product {
	p := &domain.Product{}
	p.Name = f.Summary.Title
	p.WebURL = f.Summary.ItemWebURL

	value, err := strconv.ParseFloat(f.Summary.Price.Value, 64)
	if err != nil || f.Summary.Price.Currency == "" {
		p.Unavailable = true
		return p
	}

	buy, err := conv.Convert(ctx, value*(1-f.PricePenalty), f.Summary.Price.Currency)
	if err != nil {
		p.Unavailable = true
		return p
	}

	var postage float64
	if len(f.Summary.ShippingOptions) > 0 {
		if sc := f.Summary.ShippingOptions[0].ShippingCost; sc != nil {
			if v, perr := strconv.ParseFloat(sc.Value, 64); perr == nil && v > 0 && sc.Currency != "" {
				if converted, cerr := conv.Convert(ctx, v, sc.Currency); cerr == nil {
					postage = converted
				}
			}
		}
	}

	p.BuyPrice = round2(buy)
	p.PostagePrice = postage
	p.TotalPrice = round2(buy + postage)
	p.AccuracyScore = (1 - f.AccuracyPenalty) * 100

	return p
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
