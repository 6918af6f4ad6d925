// Package metrics defines Prometheus metrics for the appraisal pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "ecomp"

// Appraisal metrics.
var (
	ItemsAppraisedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "items_appraised_total",
		Help:      "Total number of items run through the appraisal pipeline.",
	})

	LotsAppraisedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lots_appraised_total",
		Help:      "Total number of job lots appraised.",
	})

	AppraisalDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "appraisal_duration_seconds",
		Help:      "Duration of single-item appraisals in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	ItemConfidenceDistribution = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "item_confidence_distribution",
		Help:      "Distribution of final item confidence scores.",
		Buckets:   prometheus.LinearBuckets(0, 10, 11), // 0, 10, 20, ..., 100
	})

	LotRatingDistribution = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "lot_rating_distribution",
		Help:      "Distribution of final job lot ratings.",
		Buckets:   prometheus.ExponentialBucketsRange(1, 10000, 9),
	})
)

// eBay API metrics.
var (
	EbayAPICallsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ebay_api_calls_total",
		Help:      "Total cumulative eBay API calls.",
	})

	EbayDailyUsage = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "ebay_daily_usage",
		Help:      "Current daily eBay API call count within the rolling 24-hour window.",
	})

	EbayDailyLimitHits = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "ebay_daily_limit_hits_total",
		Help:      "Total number of times the daily eBay API limit was reached.",
	})

	SearchWideningTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "search_widening_total",
		Help:      "Total number of widened search passes, by stage.",
	}, []string{"stage"})
)

// Extraction metrics.
var (
	ExtractionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "extraction_duration_seconds",
		Help:      "Duration of LLM extraction calls in seconds.",
		Buckets:   prometheus.DefBuckets,
	})

	ExtractionFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "extraction_failures_total",
		Help:      "Total number of extraction failures.",
	})
)

// Currency metrics.
var (
	CurrencyConversionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "currency_conversions_total",
		Help:      "Total number of currency conversions performed.",
	})

	CurrencyCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "currency_cache_hits_total",
		Help:      "Total number of conversions served from the rate cache.",
	})
)
