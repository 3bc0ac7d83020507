package jobs

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/commerce-core/internal/events"
	"github.com/spec-kit/commerce-core/internal/persistence"
)

// CacheInvalidator drops cached dashboard rollups whenever a stats rebuild
// lands, so dashboard endpoints never serve stale aggregates.
type CacheInvalidator struct {
	redis  *persistence.Redis
	logger *zap.Logger
}

// NewCacheInvalidator constructs the subscriber.
func NewCacheInvalidator(redis *persistence.Redis, logger *zap.Logger) *CacheInvalidator {
	return &CacheInvalidator{redis: redis, logger: logger}
}

// HandleStatsRebuilt is the events.EventHandler for stats_rebuilt.
func (c *CacheInvalidator) HandleStatsRebuilt(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StatsRebuiltPayload)
	if !ok {
		return nil
	}

	keys := make([]string, 0, len(payload.Periods))
	for _, period := range payload.Periods {
		keys = append(keys, cacheKey(payload.Granularity, period.Format(periodFormat(payload.Granularity))))
	}
	if err := c.redis.DeleteKeys(ctx, keys...); err != nil {
		// Stale cache entries expire on their own; log and move on.
		c.logger.Warn("rollup cache invalidation failed",
			zap.String("granularity", string(payload.Granularity)),
			zap.Error(err),
		)
		return nil
	}
	return nil
}

func cacheKey(granularity events.StatsGranularity, period string) string {
	return fmt.Sprintf("stats:%s:%s", granularity, period)
}

func periodFormat(granularity events.StatsGranularity) string {
	if granularity == events.GranularityMonthly {
		return "2006-01"
	}
	return "2006-01-02"
}
