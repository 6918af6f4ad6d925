package pricing

import (
	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
)

// ApplyBuyerProtectionFee deducts the marketplace's buyer protection fee
// from the item's sell price. The schedule is a flat component plus a
// marginal percentage per tier, capped past 4000.
func ApplyBuyerProtectionFee(item *domain.Item) {
	sell := item.SellPrice

	var fee float64
	switch {
	case sell <= 0:
		fee = 0
	case sell <= 20:
		fee = 0.1 + 0.07*sell
	case sell <= 300:
		fee = 1.5 + 0.04*(sell-20)
	case sell <= 4000:
		fee = 12.7 + 0.02*(sell-300)
	default:
		fee = 86.7
	}

	item.BuyerProtectionFee = round2(fee)
	item.SellPrice = round2(sell - item.BuyerProtectionFee)
}

// EstimatePostage sets the item's expected outbound postage from its first
// measurement. Postage already derived from the candidate pool is kept;
// the table is a fallback for items that priced without one. Small
// letter-sized quantities go at the lowest rate; the bands step up with
// weight. Items without a usable measurement get a middle-of-the-road
// default.
func EstimatePostage(item *domain.Item) {
	if item.PostagePrice > 0 {
		return
	}
	if len(item.Measurements) == 0 {
		item.PostagePrice = 1.7
		return
	}

	m := item.Measurements[0]
	switch m.Unit {
	case "ml":
		if m.Value <= 50 {
			item.PostagePrice = 1.55
		} else {
			item.PostagePrice = 2.7
		}
	case "l":
		if m.Value <= 0.05 {
			item.PostagePrice = 1.55
		} else {
			item.PostagePrice = 2.7
		}
	case "g":
		switch {
		case m.Value <= 100:
			item.PostagePrice = 1.55
		case m.Value <= 200:
			item.PostagePrice = 2.7
		default:
			item.PostagePrice = 3.29
		}
	case "kg":
		switch {
		case m.Value <= 0.1:
			item.PostagePrice = 1.55
		case m.Value <= 0.2:
			item.PostagePrice = 2.7
		default:
			item.PostagePrice = 3.29
		}
	default:
		item.PostagePrice = 1.55
	}
}
