package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistered(t *testing.T) {
	t.Parallel()

	// Verify all metrics are non-nil (registered via promauto on package init).
	assert.NotNil(t, HTTPRequestDuration)
	assert.NotNil(t, HTTPRequestsTotal)
	assert.NotNil(t, GenerationAttemptsTotal)
	assert.NotNil(t, GenerationFailuresTotal)
	assert.NotNil(t, GenerationDuration)
	assert.NotNil(t, BatchDuration)
	assert.NotNil(t, VisionCallsTotal)
	assert.NotNil(t, VisionCallDuration)
	assert.NotNil(t, VisionDailyUsage)
	assert.NotNil(t, VisionDailyLimitHits)
	assert.NotNil(t, SweepDemotionsTotal)
	assert.NotNil(t, SweepRunsTotal)
}
