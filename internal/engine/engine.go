// Package engine orchestrates the appraisal pipeline: candidate search,
// cleaning, filtered-view match scoring, price aggregation, and job lot
// rollup.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/yusefshaaban/Ecommerce-Companion/internal/currency"
	"github.com/yusefshaaban/Ecommerce-Companion/internal/ebay"
	"github.com/yusefshaaban/Ecommerce-Companion/internal/metrics"
	"github.com/yusefshaaban/Ecommerce-Companion/pkg/clean"
	"github.com/yusefshaaban/Ecommerce-Companion/pkg/match"
	"github.com/yusefshaaban/Ecommerce-Companion/pkg/pricing"
	"github.com/yusefshaaban/Ecommerce-Companion/pkg/tokenset"
	domain "github.com/yusefshaaban/Ecommerce-Companion/pkg/types"
	"github.com/yusefshaaban/Ecommerce-Companion/pkg/units"
	"github.com/yusefshaaban/Ecommerce-Companion/pkg/words"
)

// Searcher finds comparable listings for a query, widening as needed.
type Searcher interface {
	Search(ctx context.Context, query, condition string) ([]ebay.Found, error)
}

// Engine runs items and job lots through the appraisal pipeline.
type Engine struct {
	searcher Searcher
	currency currency.Converter
	items    *clean.Cleaner
	products *clean.ProductCleaner
	filter   *words.Filterer
	scorer   *match.Scorer
	schemes  []words.Scheme
	cfg      pricing.Config
	log      *slog.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.log = l
	}
}

// WithPricingConfig overrides the aggregation tuning.
func WithPricingConfig(cfg pricing.Config) Option {
	return func(e *Engine) {
		e.cfg = cfg
	}
}

// WithSchemes overrides the filter views used for scoring.
func WithSchemes(schemes []words.Scheme) Option {
	return func(e *Engine) {
		e.schemes = schemes
	}
}

// New creates an Engine with injected dependencies. The tagger drives the
// part-of-speech filtering that both the views and the match scorer use.
func New(
	searcher Searcher,
	conv currency.Converter,
	tagger words.Tagger,
	opts ...Option,
) *Engine {
	filter := words.NewFilterer(tagger)
	eng := &Engine{
		searcher: searcher,
		currency: conv,
		items:    clean.New(),
		products: clean.NewProduct(),
		filter:   filter,
		scorer:   match.NewScorer(filter),
		schemes:  words.DefaultSchemes(),
		cfg:      pricing.DefaultConfig(),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// ProcessItem appraises a single item in place: sell price, postage, fee,
// confidence, and the scored candidate list. Search failures degrade the
// item to a zero-confidence estimate rather than erroring, so one bad item
// never sinks a lot.
func (e *Engine) ProcessItem(ctx context.Context, item *domain.Item, condition string) error {
	start := time.Now()
	defer func() {
		metrics.ItemsAppraisedTotal.Inc()
		metrics.AppraisalDuration.Observe(time.Since(start).Seconds())
	}()

	e.log.Info("appraising item", "name", item.Name)

	found, err := e.searcher.Search(ctx, item.Name, condition)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("searching for %q: %w", item.Name, err)
		}
		e.log.Warn("search degraded", "item", item.Name, "error", err, "found", len(found))
	}

	e.items.CleanItem(item)
	e.setMeasurements(item)
	views := e.filterViews(item)

	for _, f := range found {
		base := ebay.ToProduct(ctx, e.currency, f)
		item.AddProduct(e.scoreCandidate(item, views, base))
	}
	item.SortProductsByAccuracy()

	e.estimate(item)
	if item.SellPrice > 0 {
		pricing.ApplyBuyerProtectionFee(item)
		pricing.EstimatePostage(item)
		item.TotalPrice = round2(item.SellPrice + item.PostagePrice + item.BuyerProtectionFee)
	}
	pricing.SetScores(item)
	metrics.ItemConfidenceDistribution.Observe(item.AccuracyScore)

	return nil
}

// view is a filtered copy of the target item plus its averaging weight.
type view struct {
	item   *domain.Item
	weight float64
}

func (e *Engine) filterViews(item *domain.Item) []view {
	views := make([]view, 0, len(e.schemes))
	for _, scheme := range e.schemes {
		v := item.Clone()
		e.filter.FilterItem(v, scheme.Roles)
		views = append(views, view{item: v, weight: scheme.Weight})
	}
	return views
}

// scoreCandidate scores one candidate against every filtered view of the
// target and averages the results by view weight. The same clone of the
// candidate is paired with the same view throughout, so the average never
// mixes scores belonging to different candidates.
func (e *Engine) scoreCandidate(item *domain.Item, views []view, base *domain.Product) *domain.Product {
	main := base.Clone()
	if base.Unavailable {
		main.AccuracyScore = 0
		return main
	}

	e.scoreProduct(item, main)

	var weighted, totalWeight float64
	for _, v := range views {
		vp := base.Clone()
		e.scoreProduct(v.item, vp)
		weighted += vp.AccuracyScore * v.weight
		totalWeight += v.weight
	}
	main.AccuracyScore = round2(weighted / totalWeight)
	mapAccuracyToQuality(main)

	return main
}

// scoreProduct cleans the candidate against one target view, scores each
// filtered view of the candidate's own name, and stores the weighted
// average on the candidate.
func (e *Engine) scoreProduct(target *domain.Item, p *domain.Product) {
	e.products.Clean(target, p)

	var weighted, totalWeight float64
	for _, scheme := range e.schemes {
		fp := p.Clone()
		e.filter.FilterProduct(target, fp, scheme.Roles)
		e.scorer.Score(target, fp)
		weighted += fp.AccuracyScore * scheme.Weight
		totalWeight += scheme.Weight
	}
	p.AccuracyScore = round2(weighted / totalWeight)
}

// setMeasurements extracts the first "integer unit" pair from the variant
// name as the item's canonical measurement and strips any further pairs
// from the display text.
func (e *Engine) setMeasurements(item *domain.Item) {
	set := tokenset.Split(item.VariantName)
	var kept []domain.Measurement

	for i, norm := range set.Normalized {
		if !tokenset.IsInteger(norm) || i+1 >= len(set.Normalized) {
			continue
		}
		unit := set.Normalized[i+1]
		if !units.IsUnit(unit) {
			continue
		}
		if len(kept) == 0 {
			kept = append(kept, domain.Measurement{Value: mustParseFloat(norm), Unit: unit})
			continue
		}
		item.VariantName = removePair(item.VariantName, norm, unit)
	}

	item.Measurements = kept
}

var spaceRe = regexp.MustCompile(`\s{2,}`)

// removePair deletes the first occurrence of "number unit" (with optional
// whitespace between) from the text.
func removePair(text, number, unit string) string {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(number) + `\s*` + regexp.QuoteMeta(unit) + `\b`)
	out := re.ReplaceAllString(text, "")
	return strings.TrimSpace(spaceRe.ReplaceAllString(out, " "))
}

// estimate aggregates candidate evidence into the item's price fields.
// Confidence bands run from 90 down to 0 in steps of 5; the rich regime
// short-circuits when the top band alone is enough.
func (e *Engine) estimate(item *domain.Item) {
	if len(item.Products) == 0 {
		item.AccuracyScore = 0
		return
	}

	bands := make([][]*domain.Product, 0, 19)
	for score := 90; score >= 0; score -= 5 {
		bands = append(bands, e.bandAbove(item, float64(score)))
	}

	if len(bands[0]) >= e.cfg.RichSetMin {
		pricing.RichEstimate(item, bands[0], e.cfg)
		return
	}

	for i := 0; i+1 < len(bands); i++ {
		pricing.BandEstimate(item, bands[i], &bands[i+1], float64(90-5*i), e.cfg)
		if item.SellPrice > 0 {
			return
		}
	}

	// Floor pass: commit whatever evidence remains, zeros included.
	var floor []*domain.Product
	pricing.BandEstimate(item, bands[len(bands)-1], &floor, 0, e.cfg)
}

// bandAbove returns priceable candidates at or above the threshold,
// cheapest first.
func (e *Engine) bandAbove(item *domain.Item, score float64) []*domain.Product {
	var band []*domain.Product
	for _, p := range item.Products {
		if !p.Unavailable && p.AccuracyScore >= score {
			band = append(band, p)
		}
	}
	stableSortByTotal(band)
	return band
}

// mapAccuracyToQuality maps confidence to the stepped buy-quality scale.
// The steps are deliberately top-heavy so near-exact matches dominate.
func mapAccuracyToQuality(p *domain.Product) {
	s := p.AccuracyScore
	switch {
	case s >= 100:
		p.BuyQualityScore = 1000
	case s >= 95:
		p.BuyQualityScore = 970
	case s >= 90:
		p.BuyQualityScore = 930
	case s >= 85:
		p.BuyQualityScore = 890
	case s >= 80:
		p.BuyQualityScore = 850
	case s >= 75:
		p.BuyQualityScore = 810
	case s >= 70:
		p.BuyQualityScore = 760
	case s >= 65:
		p.BuyQualityScore = 710
	case s >= 60:
		p.BuyQualityScore = 660
	case s >= 55:
		p.BuyQualityScore = 600
	case s >= 50:
		p.BuyQualityScore = 540
	case s >= 45:
		p.BuyQualityScore = 480
	case s >= 40:
		p.BuyQualityScore = 410
	case s >= 30:
		p.BuyQualityScore = 260
	case s >= 20:
		p.BuyQualityScore = 110
	case s >= 10:
		p.BuyQualityScore = 10
	case s >= 5:
		p.BuyQualityScore = 3
	case s >= 3:
		p.BuyQualityScore = 1
	case s >= 1:
		p.BuyQualityScore = 0.1
	}
}

func stableSortByTotal(products []*domain.Product) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].TotalPrice < products[j].TotalPrice
	})
}

func mustParseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
