package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/VladanMarkovic1/dental-ai-platform/pkg/logging"
)

const counterTTL = 90 * 24 * time.Hour

// RedisRecorder keeps daily per-business event counters in Redis hashes.
// Keys look like "analytics:{businessID}:{2006-01-02}" with one hash field
// per event type.
type RedisRecorder struct {
	client *redis.Client
	logger *logging.Logger
	now    func() time.Time
}

// NewRedisRecorder creates a recorder backed by the given client.
func NewRedisRecorder(client *redis.Client, logger *logging.Logger) *RedisRecorder {
	if client == nil {
		panic("analytics: redis client cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RedisRecorder{
		client: client,
		logger: logger,
		now:    time.Now,
	}
}

// RecordEvent increments the daily counter for the event type. Errors are
// logged and swallowed.
func (r *RedisRecorder) RecordEvent(ctx context.Context, businessID, eventType string, payload map[string]string) {
	key := counterKey(businessID, r.now().UTC())

	pipe := r.client.TxPipeline()
	pipe.HIncrBy(ctx, key, eventType, 1)
	pipe.Expire(ctx, key, counterTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Warn("analytics: failed to record event",
			"error", err,
			"business_id", businessID,
			"event_type", eventType,
		)
	}
}

// DailyCounts returns the counters recorded for a business on the given day.
func (r *RedisRecorder) DailyCounts(ctx context.Context, businessID string, day time.Time) (map[string]int64, error) {
	raw, err := r.client.HGetAll(ctx, counterKey(businessID, day.UTC())).Result()
	if err != nil {
		return nil, fmt.Errorf("analytics: failed to read counters: %w", err)
	}
	counts := make(map[string]int64, len(raw))
	for field, val := range raw {
		var n int64
		if _, err := fmt.Sscanf(val, "%d", &n); err == nil {
			counts[field] = n
		}
	}
	return counts, nil
}

func counterKey(businessID string, day time.Time) string {
	return fmt.Sprintf("analytics:%s:%s", businessID, day.Format("2006-01-02"))
}
