package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, ItemsAppraisedTotal)
	assert.NotNil(t, LotsAppraisedTotal)
	assert.NotNil(t, AppraisalDuration)
	assert.NotNil(t, ItemConfidenceDistribution)
	assert.NotNil(t, LotRatingDistribution)
	assert.NotNil(t, EbayAPICallsTotal)
	assert.NotNil(t, EbayDailyUsage)
	assert.NotNil(t, EbayDailyLimitHits)
	assert.NotNil(t, SearchWideningTotal)
	assert.NotNil(t, ExtractionDuration)
	assert.NotNil(t, ExtractionFailuresTotal)
	assert.NotNil(t, CurrencyConversionsTotal)
	assert.NotNil(t, CurrencyCacheHitsTotal)
}
