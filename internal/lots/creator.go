// Package lots builds appraised job lots from eBay searches, direct
// listing links, and local photos, and hands them to the store.
package lots

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/yusefshaaban/Ecommerce-Companion/internal/currency"
	"github.com/yusefshaaban/Ecommerce-Companion/internal/ebay"
	"github.com/yusefshaaban/Ecommerce-Companion/internal/extract"
	"github.com/yusefshaaban/Ecommerce-Companion/internal/store"
	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
)

var itmRe = regexp.MustCompile(`itm/(\d+)`)

// Appraiser prices a lot in place. Implemented by engine.Engine.
type Appraiser interface {
	ProcessLot(ctx context.Context, lot *domain.JobLot) error
}

// Creator orchestrates lot construction: fetch the listing, extract its
// items, appraise, persist.
type Creator struct {
	client    ebay.ItemClient
	conv      currency.Converter
	extractor extract.Extractor
	appraiser Appraiser
	store     store.Store
	limit     int
	log       *slog.Logger
}

// CreatorOption configures a Creator.
type CreatorOption func(*Creator)

// WithSearchLimit caps the number of listings fetched per search.
func WithSearchLimit(n int) CreatorOption {
	return func(c *Creator) {
		c.limit = n
	}
}

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) CreatorOption {
	return func(c *Creator) {
		c.log = l
	}
}

// New creates a Creator.
func New(
	client ebay.ItemClient,
	conv currency.Converter,
	extractor extract.Extractor,
	appraiser Appraiser,
	st store.Store,
	opts ...CreatorOption,
) *Creator {
	c := &Creator{
		client:    client,
		conv:      conv,
		extractor: extractor,
		appraiser: appraiser,
		store:     st,
		limit:     10,
		log:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromSearch appraises every unseen listing a search returns.
func (c *Creator) FromSearch(ctx context.Context, query string) error {
	resp, err := c.client.Search(ctx, ebay.SearchRequest{
		Query:     query,
		Limit:     c.limit,
		Condition: ebay.ConditionNew,
	})
	if err != nil {
		return fmt.Errorf("searching lots: %w", err)
	}

	for _, summary := range resp.Items {
		if err := ctx.Err(); err != nil {
			return err
		}
		buyPrice, postage := c.convertPrices(ctx, summary)
		seen, err := c.store.LotExists(ctx, summary.ItemID, round2(buyPrice+postage), round2(postage))
		if err != nil {
			return err
		}
		if seen {
			c.log.Debug("lot already appraised", "id", summary.ItemID)
			continue
		}
		if err := c.appraiseListing(ctx, summary.ItemID); err != nil {
			c.log.Error("appraising lot failed", "id", summary.ItemID, "error", err)
		}
	}
	return nil
}

// FromAutoSearches clears the working set and runs every saved search.
func (c *Creator) FromAutoSearches(ctx context.Context) error {
	searches, err := c.store.AutoSearches(ctx)
	if err != nil {
		return err
	}
	if len(searches) == 0 {
		return fmt.Errorf("no saved searches")
	}
	if err := c.store.RefreshWorking(ctx); err != nil {
		return err
	}
	for _, query := range searches {
		if err := c.FromSearch(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// FromLink appraises a single listing given its eBay URL.
func (c *Creator) FromLink(ctx context.Context, link string) error {
	m := itmRe.FindStringSubmatch(strings.TrimSpace(link))
	if m == nil {
		return fmt.Errorf("no eBay item id in link %q", link)
	}
	return c.appraiseListing(ctx, "v1|"+m[1]+"|0")
}

// FromImage appraises a lot photographed locally. The purchase cost is
// unknown, so the lot carries no profit or rating.
func (c *Creator) FromImage(ctx context.Context, imagePath string) error {
	items, err := c.extractor.FromImage(ctx, imagePath)
	if err != nil {
		return fmt.Errorf("extracting items from image: %w", err)
	}

	name := strings.TrimSuffix(filepath.Base(imagePath), filepath.Ext(imagePath))
	lot := &domain.JobLot{
		Source:    "image",
		ID:        uuid.NewString(),
		Name:      name,
		Condition: ebay.ConditionNew,
		Items:     items,
	}
	return c.finish(ctx, lot)
}

func (c *Creator) appraiseListing(ctx context.Context, itemID string) error {
	detail, err := c.client.GetItem(ctx, itemID)
	if err != nil {
		return fmt.Errorf("fetching listing: %w", err)
	}

	lot, err := c.buildLot(ctx, detail)
	if err != nil {
		return err
	}
	return c.finish(ctx, lot)
}

func (c *Creator) buildLot(ctx context.Context, detail *ebay.ItemDetail) (*domain.JobLot, error) {
	buyPrice, postage := c.convertPrices(ctx, detail.ItemSummary)

	lot := &domain.JobLot{
		Source:          "ebay",
		ID:              detail.ItemID,
		Name:            detail.Title,
		WebURL:          detail.ItemWebURL,
		Description:     detail.PlainDescription(),
		Condition:       normalizeCondition(detail.Condition),
		BuyPrice:        round2(buyPrice),
		BuyPostagePrice: round2(postage),
		BuyListingPrice: round2(buyPrice + postage),
	}
	c.log.Info("processing job lot", "lot", lot.Name, "id", lot.ID)

	source := lot.Description
	if source == "" {
		source = lot.Name
	}
	items, err := c.extractor.FromDescription(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("extracting items: %w", err)
	}
	lot.Items = items
	return lot, nil
}

func (c *Creator) finish(ctx context.Context, lot *domain.JobLot) error {
	if err := c.appraiser.ProcessLot(ctx, lot); err != nil {
		return fmt.Errorf("appraising lot: %w", err)
	}
	return c.store.SaveLot(ctx, lot)
}

// convertPrices turns the listing and postage prices into the base
// currency. Missing or unparsable prices come back as zero, which the
// rating treats as an unknown cost.
func (c *Creator) convertPrices(ctx context.Context, s ebay.ItemSummary) (buyPrice, postage float64) {
	buyPrice = c.convertPrice(ctx, &s.Price)
	if len(s.ShippingOptions) > 0 {
		postage = c.convertPrice(ctx, s.ShippingOptions[0].ShippingCost)
	}
	return buyPrice, postage
}

func (c *Creator) convertPrice(ctx context.Context, p *ebay.ItemPrice) float64 {
	if p == nil || p.Value == "" || p.Currency == "" {
		return 0
	}
	v, err := strconv.ParseFloat(p.Value, 64)
	if err != nil {
		return 0
	}
	converted, err := c.conv.Convert(ctx, v, p.Currency)
	if err != nil {
		c.log.Warn("currency conversion failed", "currency", p.Currency, "error", err)
		return 0
	}
	return converted
}

func normalizeCondition(condition string) string {
	if strings.Contains(strings.ToUpper(condition), "NEW") {
		return ebay.ConditionNew
	}
	if condition == "" {
		return ebay.ConditionNew
	}
	return ebay.ConditionUsed
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
