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

func newLotEngine() *Engine {
	tags := mapTagger{"gel": words.Noun, "polish": words.Noun}
	searcher := &fakeSearcher{pool: repeat(listing("Gel Polish", "5.00", "1.00"), 6)}
	return New(searcher, identityConverter{}, tags)
}

func TestProcessLotRollup(t *testing.T) {
	t.Parallel()

	lot := &domain.JobLot{
		Name:            "nail bundle",
		ID:              "lot-1",
		Condition:       "NEW",
		BuyListingPrice: 10,
		Items: []*domain.Item{
			domain.NewItem("Gel Polish", "", "Gel Polish", 2),
			domain.NewItem("Gel Polish", "", "Gel Polish", 1),
		},
	}

	require.NoError(t, newLotEngine().ProcessLot(context.Background(), lot))

	// Each item sells for 5.48 net of a 0.52 fee with the pool's 1.00
	// postage; three units in total.
	assert.InDelta(t, 16.44, lot.SellPrice, 0.001)
	assert.InDelta(t, 3.0, lot.PostagePrice, 0.001)
	assert.InDelta(t, 1.56, lot.OtherFees, 0.001)
	assert.InDelta(t, 21.0, lot.SellListingPrice, 0.001)
	assert.InDelta(t, 6.44, lot.Profit, 0.001)
	assert.InDelta(t, 97.47, lot.AccuracyScore, 0.01)
	assert.Greater(t, lot.Rating, 0.0)
	assert.NotEmpty(t, lot.DateCreated)
}

func TestProcessLotUnknownCostMeansNoProfit(t *testing.T) {
	t.Parallel()

	lot := &domain.JobLot{
		Name:      "mystery bundle",
		Condition: "NEW",
		Items: []*domain.Item{
			domain.NewItem("Gel Polish", "", "Gel Polish", 1),
		},
	}

	require.NoError(t, newLotEngine().ProcessLot(context.Background(), lot))

	assert.Zero(t, lot.Profit)
	assert.Zero(t, lot.Rating)
	assert.Greater(t, lot.SellPrice, 0.0)
}

func TestProcessLotLossRanksNegative(t *testing.T) {
	t.Parallel()

	lot := &domain.JobLot{
		Name:            "overpriced bundle",
		Condition:       "NEW",
		BuyListingPrice: 100,
		Items: []*domain.Item{
			domain.NewItem("Gel Polish", "", "Gel Polish", 1),
		},
	}

	require.NoError(t, newLotEngine().ProcessLot(context.Background(), lot))

	assert.Negative(t, lot.Profit)
	assert.Negative(t, lot.Rating)
}

func TestProcessLotSortsItemsByQuality(t *testing.T) {
	t.Parallel()

	// The second item finds no candidates and earns zero quality, so it
	// must sort after the priced one regardless of input order.
	tags := mapTagger{"gel": words.Noun, "polish": words.Noun, "soap": words.Noun}
	searcher := &queryScriptedSearcher{}
	eng := New(searcher, identityConverter{}, tags)

	lot := &domain.JobLot{
		Name:      "mixed bundle",
		Condition: "NEW",
		Items: []*domain.Item{
			domain.NewItem("Soap", "", "Soap", 1),
			domain.NewItem("Gel Polish", "", "Gel Polish", 1),
		},
	}

	require.NoError(t, eng.ProcessLot(context.Background(), lot))

	assert.Equal(t, "Gel Polish", lot.Items[0].OriginalName)
	assert.Equal(t, "Soap", lot.Items[1].OriginalName)
}

// queryScriptedSearcher finds candidates for gel polish only.
type queryScriptedSearcher struct{}

func (s *queryScriptedSearcher) Search(_ context.Context, query, _ string) ([]ebay.Found, error) {
	if query == "Gel Polish" {
		return repeat(listing("Gel Polish", "5.00", "1.00"), 6), nil
	}
	return nil, nil
}
