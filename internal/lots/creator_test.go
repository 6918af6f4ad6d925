package lots

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yusefshaaban/Ecommerce-Companion/internal/ebay"
	"github.com/yusefshaaban/Ecommerce-Companion/internal/store"
	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
)

type fakeEbay struct {
	summaries []ebay.ItemSummary
	details   map[string]*ebay.ItemDetail
	gets      []string
}

func (f *fakeEbay) Search(context.Context, ebay.SearchRequest) (*ebay.SearchResponse, error) {
	return &ebay.SearchResponse{Items: f.summaries, Total: len(f.summaries)}, nil
}

func (f *fakeEbay) GetItem(_ context.Context, itemID string) (*ebay.ItemDetail, error) {
	f.gets = append(f.gets, itemID)
	d, ok := f.details[itemID]
	if !ok {
		return nil, assert.AnError
	}
	return d, nil
}

// scriptedExtractor returns a fixed item list for any input.
type scriptedExtractor struct {
	items []*domain.Item
}

func (s *scriptedExtractor) FromDescription(context.Context, string) ([]*domain.Item, error) {
	return s.items, nil
}

func (s *scriptedExtractor) FromImage(context.Context, string) ([]*domain.Item, error) {
	return s.items, nil
}

// stampAppraiser marks lots instead of pricing them.
type stampAppraiser struct {
	rating float64
}

func (a *stampAppraiser) ProcessLot(_ context.Context, lot *domain.JobLot) error {
	lot.Rating = a.rating
	lot.SellPrice = 20
	return nil
}

type identityConverter struct{}

func (identityConverter) Convert(_ context.Context, amount float64, _ string) (float64, error) {
	return amount, nil
}

func summaryFixture(id, title string) ebay.ItemSummary {
	return ebay.ItemSummary{
		ItemID:    id,
		Title:     title,
		Price:     ebay.ItemPrice{Value: "10.00", Currency: "GBP"},
		Condition: "New",
		ShippingOptions: []ebay.ShippingOption{
			{ShippingCost: &ebay.ItemPrice{Value: "2.50", Currency: "GBP"}},
		},
	}
}

func newTestCreator(t *testing.T, client *fakeEbay) (*Creator, *store.FileStore) {
	t.Helper()
	st, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	extractor := &scriptedExtractor{items: []*domain.Item{
		domain.NewItem("Gel Polish", "", "Gel Polish", 2),
	}}
	return New(client, identityConverter{}, extractor, &stampAppraiser{rating: 5}, st), st
}

func TestFromSearchAppraisesUnseenLots(t *testing.T) {
	t.Parallel()

	client := &fakeEbay{
		summaries: []ebay.ItemSummary{summaryFixture("v1|1|0", "makeup bundle")},
		details: map[string]*ebay.ItemDetail{
			"v1|1|0": {
				ItemSummary: summaryFixture("v1|1|0", "makeup bundle"),
				Description: "<p>2x Gel Polish</p>",
			},
		},
	}
	c, st := newTestCreator(t, client)
	ctx := context.Background()

	require.NoError(t, c.FromSearch(ctx, "makeup bundle"))

	all, err := st.AllLots(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	lot := all[0]
	assert.Equal(t, "ebay", lot.Source)
	assert.Equal(t, "makeup bundle", lot.Name)
	assert.Equal(t, "NEW", lot.Condition)
	assert.Equal(t, 10.0, lot.BuyPrice)
	assert.Equal(t, 2.5, lot.BuyPostagePrice)
	assert.Equal(t, 12.5, lot.BuyListingPrice)
	assert.Equal(t, "2x Gel Polish", lot.Description)
	require.Len(t, lot.Items, 1)

	// A second run sees the archived lot and skips the item fetch.
	require.NoError(t, c.FromSearch(ctx, "makeup bundle"))
	assert.Len(t, client.gets, 1)
}

func TestFromLink(t *testing.T) {
	t.Parallel()

	client := &fakeEbay{
		details: map[string]*ebay.ItemDetail{
			"v1|267075364121|0": {
				ItemSummary: summaryFixture("v1|267075364121|0", "nail bundle"),
				Description: "2x Gel Polish",
			},
		},
	}
	c, st := newTestCreator(t, client)
	ctx := context.Background()

	require.NoError(t, c.FromLink(ctx, "https://www.ebay.co.uk/itm/267075364121?var=0"))

	assert.Equal(t, []string{"v1|267075364121|0"}, client.gets)
	all, err := st.AllLots(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestFromLinkRejectsNonItemURL(t *testing.T) {
	t.Parallel()

	c, _ := newTestCreator(t, &fakeEbay{})
	err := c.FromLink(context.Background(), "https://www.ebay.co.uk/sch/makeup")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no eBay item id")
}

func TestFromImage(t *testing.T) {
	t.Parallel()

	c, st := newTestCreator(t, &fakeEbay{})
	ctx := context.Background()

	require.NoError(t, c.FromImage(ctx, "/photos/car boot haul.jpeg"))

	all, err := st.AllLots(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	lot := all[0]
	assert.Equal(t, "image", lot.Source)
	assert.Equal(t, "car boot haul", lot.Name)
	assert.NotEmpty(t, lot.ID)
	assert.Zero(t, lot.BuyListingPrice)
	require.Len(t, lot.Items, 1)
}

func TestFromAutoSearches(t *testing.T) {
	t.Parallel()

	client := &fakeEbay{
		summaries: []ebay.ItemSummary{summaryFixture("v1|7|0", "job lot soaps")},
		details: map[string]*ebay.ItemDetail{
			"v1|7|0": {
				ItemSummary: summaryFixture("v1|7|0", "job lot soaps"),
				Description: "10x Soap",
			},
		},
	}
	c, st := newTestCreator(t, client)
	ctx := context.Background()

	require.NoError(t, st.UpdateAutoSearches(ctx, []string{"job lot soaps"}))

	// Stale working entries are cleared before the sweep.
	stale := &domain.JobLot{Name: "stale", ID: "v1|old|0", Rating: 1}
	require.NoError(t, st.SaveLot(ctx, stale))

	require.NoError(t, c.FromAutoSearches(ctx))

	working, err := st.WorkingLots(ctx)
	require.NoError(t, err)
	require.Len(t, working, 1)
	assert.Equal(t, "job lot soaps", working[0].Name)
}

func TestFromAutoSearchesWithoutSavedSearches(t *testing.T) {
	t.Parallel()

	c, _ := newTestCreator(t, &fakeEbay{})
	err := c.FromAutoSearches(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no saved searches")
}
