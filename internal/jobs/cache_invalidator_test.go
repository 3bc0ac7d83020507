package jobs

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/commerce-core/internal/events"
)

func TestCacheKeyFormats(t *testing.T) {
	assert.Equal(t, "stats:daily:2026-08-10", cacheKey(events.GranularityDaily, "2026-08-10"))
	assert.Equal(t, "stats:monthly:2026-08", cacheKey(events.GranularityMonthly, "2026-08"))
}

func TestPeriodFormatPerGranularity(t *testing.T) {
	day := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "2026-08-10", day.Format(periodFormat(events.GranularityDaily)))
	assert.Equal(t, "2026-08-10", day.Format(periodFormat(events.GranularityWeekly)))
	assert.Equal(t, "2026-08", day.Format(periodFormat(events.GranularityMonthly)))
}

func TestHandleStatsRebuiltIgnoresForeignPayloads(t *testing.T) {
	invalidator := NewCacheInvalidator(nil, zap.NewNop())

	err := invalidator.HandleStatsRebuilt(context.Background(), events.Event{
		Type:    events.EventStatsRebuilt,
		Payload: "not a stats payload",
	})
	require.NoError(t, err)
}

func TestHandleStatsRebuiltTolerantOfMissingRedis(t *testing.T) {
	invalidator := NewCacheInvalidator(nil, zap.NewNop())

	err := invalidator.HandleStatsRebuilt(context.Background(), events.Event{
		Type: events.EventStatsRebuilt,
		Payload: events.StatsRebuiltPayload{
			Granularity: events.GranularityDaily,
			Periods:     []time.Time{time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)},
			Rows:        1,
		},
	})
	require.NoError(t, err)
}
