package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusefshaaban/Ecommerce-Companion/internal/ebay"
	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
	"github.com/yusefshaaban/Ecommerce-Companion/pkg/words"
)

type mapTagger map[string]words.Role

func (m mapTagger) Tag(word string) words.Role {
	if r, ok := m[word]; ok {
		return r
	}
	return words.Other
}

// fakeSearcher returns the same pool for every query.
type fakeSearcher struct {
	pool []ebay.Found
	err  error
}

func (f *fakeSearcher) Search(context.Context, string, string) ([]ebay.Found, error) {
	return f.pool, f.err
}

// identityConverter treats every amount as already in the base currency.
type identityConverter struct{}

func (identityConverter) Convert(_ context.Context, amount float64, _ string) (float64, error) {
	return amount, nil
}

func listing(title, price, postage string) ebay.Found {
	f := ebay.Found{Summary: ebay.ItemSummary{
		Title: title,
		Price: ebay.ItemPrice{Value: price, Currency: "GBP"},
	}}
	if postage != "" {
		f.Summary.ShippingOptions = []ebay.ShippingOption{
			{ShippingCost: &ebay.ItemPrice{Value: postage, Currency: "GBP"}},
		}
	}
	return f
}

func repeat(f ebay.Found, n int) []ebay.Found {
	out := make([]ebay.Found, n)
	for i := range out {
		out[i] = f
	}
	return out
}

func TestProcessItemRichRegime(t *testing.T) {
	t.Parallel()

	tags := mapTagger{"gel": words.Noun, "polish": words.Noun}
	searcher := &fakeSearcher{pool: repeat(listing("Gel Polish", "5.00", "1.00"), 6)}
	eng := New(searcher, identityConverter{}, tags)

	item := domain.NewItem("Gel Polish", "", "Gel Polish", 1)
	require.NoError(t, eng.ProcessItem(context.Background(), item, ebay.ConditionNew))

	// Six exact matches at 95: rich regime prices from the cheapest total,
	// then the buyer protection fee is netted out of the sell price. The
	// postage is the candidates' mean, not the measurement-table fallback.
	assert.Equal(t, 6, item.NumProducts)
	assert.InDelta(t, 0.52, item.BuyerProtectionFee, 0.001)
	assert.InDelta(t, 5.48, item.SellPrice, 0.001)
	assert.InDelta(t, 1.0, item.PostagePrice, 0.001)
	assert.InDelta(t, 7.0, item.TotalPrice, 0.001)
	assert.InDelta(t, 97.47, item.AccuracyScore, 0.01)
	assert.Greater(t, item.PriceQuality, 0.0)
}

func TestProcessItemNoCandidates(t *testing.T) {
	t.Parallel()

	eng := New(&fakeSearcher{}, identityConverter{}, mapTagger{"soap": words.Noun})

	item := domain.NewItem("Soap", "", "Soap", 1)
	require.NoError(t, eng.ProcessItem(context.Background(), item, ebay.ConditionNew))

	assert.Zero(t, item.SellPrice)
	assert.Zero(t, item.AccuracyScore)
	assert.Zero(t, item.PriceQuality)
	assert.Empty(t, item.Products)
}

func TestProcessItemKeepsUnavailableCandidatesOutOfPricing(t *testing.T) {
	t.Parallel()

	pool := repeat(listing("Gel Polish", "5.00", "1.00"), 2)
	pool = append(pool, listing("Gel Polish", "", ""))
	tags := mapTagger{"gel": words.Noun, "polish": words.Noun}
	eng := New(&fakeSearcher{pool: pool}, identityConverter{}, tags)

	item := domain.NewItem("Gel Polish", "", "Gel Polish", 1)
	require.NoError(t, eng.ProcessItem(context.Background(), item, ebay.ConditionNew))

	require.Len(t, item.Products, 3)

	var unavailable int
	for _, p := range item.Products {
		if p.Unavailable {
			unavailable++
			assert.Zero(t, p.AccuracyScore)
		}
	}
	assert.Equal(t, 1, unavailable)

	// Two priceable candidates: the band walk still commits an estimate.
	assert.Greater(t, item.SellPrice, 0.0)
	assert.Equal(t, 2, item.NumProducts)
}

func TestProcessItemMeasurementExtraction(t *testing.T) {
	t.Parallel()

	tags := mapTagger{"lotion": words.Noun}
	eng := New(&fakeSearcher{}, identityConverter{}, tags)

	item := domain.NewItem("Lotion 50 ml 30 ml", "", "Lotion 50 ml 30 ml", 1)
	require.NoError(t, eng.ProcessItem(context.Background(), item, ebay.ConditionNew))

	// The first pair becomes the canonical measurement; later pairs are
	// stripped from the display text.
	require.Len(t, item.Measurements, 1)
	assert.Equal(t, domain.Measurement{Value: 50, Unit: "ml"}, item.Measurements[0])
	assert.Equal(t, "Lotion 50ml", item.VariantName)
}

func TestProcessItemViewAveraging(t *testing.T) {
	t.Parallel()

	tags := mapTagger{"cream": words.Noun, "luxury": words.Adjective}
	searcher := &fakeSearcher{pool: []ebay.Found{listing("Cream", "5.00", "")}}
	eng := New(searcher, identityConverter{}, tags)

	item := domain.NewItem("Luxury Cream", "", "Luxury Cream", 1)
	require.NoError(t, eng.ProcessItem(context.Background(), item, ebay.ConditionNew))

	// The noun-only views see an exact match (95); the adjective-keeping
	// views fall back to token overlap (19.8). Weighted average:
	// (19.8*2.3 + 95*4.7) / 7.
	require.Len(t, item.Products, 1)
	assert.InDelta(t, 70.29, item.Products[0].AccuracyScore, 0.01)
	assert.InDelta(t, 760, item.Products[0].BuyQualityScore, 0.001)
}

func TestProcessItemSearchErrorDegrades(t *testing.T) {
	t.Parallel()

	searcher := &fakeSearcher{err: assert.AnError}
	eng := New(searcher, identityConverter{}, mapTagger{"soap": words.Noun})

	item := domain.NewItem("Soap", "", "Soap", 1)
	require.NoError(t, eng.ProcessItem(context.Background(), item, ebay.ConditionNew))
	assert.Zero(t, item.AccuracyScore)
}
