package ebay

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yusefshaaban/Ecommerce-Companion/internal/metrics"
)

// Found pairs a search hit with the confidence and price penalties earned
// by the widening stage that produced it. Stage-zero hits carry none.
type Found struct {
	Summary         ItemSummary
	AccuracyPenalty float64
	PricePenalty    float64
}

// Widening penalties. Relaxing the delivery country is mild; flipping the
// listing condition distorts price comparisons, much more so when used
// prices stand in for new ones.
const (
	minComparables = 3

	globalPenalty      = 0.1
	newToUsedPenalty   = 0.1
	usedToNewPenalty   = 0.6
	globalFlipAddition = 0.1
)

// Widener searches with progressively relaxed constraints until enough
// comparable listings are found. Each relaxation taints its results with
// penalties instead of discarding them.
type Widener struct {
	client Client
	limit  int
	log    *slog.Logger
}

// NewWidener creates a Widener over the given search client.
func NewWidener(client Client, log *slog.Logger) *Widener {
	if log == nil {
		log = slog.Default()
	}
	return &Widener{client: client, limit: defaultLimit, log: log}
}

// Search runs the widening ladder for a query: strict GB-only search,
// then without the country restriction, then GB-only with the condition
// flipped, then global with the condition flipped. It stops as soon as
// the pool holds at least three results. Pools accumulate across stages.
func (w *Widener) Search(ctx context.Context, query, condition string) ([]Found, error) {
	var pool []Found

	resp, err := w.client.Search(ctx, SearchRequest{
		Query:     query,
		Limit:     w.limit,
		Condition: condition,
		LocalOnly: true,
	})
	if err != nil {
		return nil, fmt.Errorf("strict search: %w", err)
	}
	pool = appendFound(pool, resp.Items, 0, 0)
	if len(pool) >= minComparables {
		return pool, nil
	}

	metrics.SearchWideningTotal.WithLabelValues("global").Inc()
	w.log.Debug("widening search to global delivery", "query", query)
	resp, err = w.client.Search(ctx, SearchRequest{
		Query:     query,
		Limit:     w.limit,
		Condition: condition,
	})
	if err != nil {
		return pool, fmt.Errorf("global search: %w", err)
	}
	pool = appendFound(pool, resp.Items, globalPenalty, 0)
	if len(pool) >= minComparables {
		return pool, nil
	}

	flipped, flipPenalty := flipCondition(condition)

	metrics.SearchWideningTotal.WithLabelValues("condition_flip").Inc()
	w.log.Debug("widening search to flipped condition",
		"query", query, "condition", flipped)
	resp, err = w.client.Search(ctx, SearchRequest{
		Query:     query,
		Limit:     w.limit,
		Condition: flipped,
		LocalOnly: true,
	})
	if err != nil {
		return pool, fmt.Errorf("condition-flip search: %w", err)
	}
	pool = appendFound(pool, resp.Items, flipPenalty, flipPenalty)
	if len(pool) >= minComparables {
		return pool, nil
	}

	metrics.SearchWideningTotal.WithLabelValues("global_flip").Inc()
	w.log.Debug("widening search to global flipped condition", "query", query)
	resp, err = w.client.Search(ctx, SearchRequest{
		Query:     query,
		Limit:     w.limit,
		Condition: flipped,
	})
	if err != nil {
		return pool, fmt.Errorf("global condition-flip search: %w", err)
	}
	pool = appendFound(pool, resp.Items, flipPenalty+globalFlipAddition, flipPenalty)

	return pool, nil
}

func appendFound(pool []Found, items []ItemSummary, accPenalty, pricePenalty float64) []Found {
	for _, it := range items {
		pool = append(pool, Found{
			Summary:         it,
			AccuracyPenalty: accPenalty,
			PricePenalty:    pricePenalty,
		})
	}
	return pool
}

func flipCondition(condition string) (string, float64) {
	if condition == ConditionUsed {
		return ConditionNew, usedToNewPenalty
	}
	return ConditionUsed, newToUsedPenalty
}
