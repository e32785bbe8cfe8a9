package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecorder(t *testing.T) (*RedisRecorder, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	rec := NewRedisRecorder(client, nil)
	rec.now = func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }
	return rec, mr
}

func TestRecordEventIncrementsDailyCounter(t *testing.T) {
	rec, _ := newTestRecorder(t)
	ctx := context.Background()

	rec.RecordEvent(ctx, "biz-1", EventLeadCreated, nil)
	rec.RecordEvent(ctx, "biz-1", EventLeadCreated, nil)
	rec.RecordEvent(ctx, "biz-1", EventMessageProcessed, map[string]string{"intent": "GREETING"})

	counts, err := rec.DailyCounts(ctx, "biz-1", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts[EventLeadCreated])
	assert.Equal(t, int64(1), counts[EventMessageProcessed])
}

func TestRecordEventScopedPerBusiness(t *testing.T) {
	rec, _ := newTestRecorder(t)
	ctx := context.Background()

	rec.RecordEvent(ctx, "biz-1", EventFallbackUsed, nil)
	rec.RecordEvent(ctx, "biz-2", EventFallbackUsed, nil)

	counts, err := rec.DailyCounts(ctx, "biz-2", time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[EventFallbackUsed])
}

func TestRecordEventSwallowsErrors(t *testing.T) {
	rec, mr := newTestRecorder(t)
	mr.Close()

	// Must not panic or return an error path to the caller.
	rec.RecordEvent(context.Background(), "biz-1", EventLeadCreated, nil)
}
