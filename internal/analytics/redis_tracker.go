package analytics

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"valentine/pkg/domain"
)

const analyticsKeyPrefix = "analytics:"

// RedisTracker keeps per-user counters in a Redis hash so they survive
// restarts and can be shared across instances.
type RedisTracker struct {
	client *redis.Client
}

func NewRedisTracker(client *redis.Client) *RedisTracker {
	return &RedisTracker{client: client}
}

func (t *RedisTracker) Incr(username, counter string) {
	ctx := context.Background()
	if err := t.client.HIncrBy(ctx, analyticsKeyPrefix+username, counter, 1).Err(); err != nil {
		slog.Warn("analytics increment failed", "user", username, "counter", counter, "error", err)
	}
}

func (t *RedisTracker) Summary(username string) (domain.AnalyticsSummary, error) {
	ctx := context.Background()
	fields, err := t.client.HGetAll(ctx, analyticsKeyPrefix+username).Result()
	if err != nil {
		return domain.AnalyticsSummary{}, err
	}
	counters := make(map[string]int64, len(fields))
	for name, raw := range fields {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		counters[name] = v
	}
	return summaryFrom(counters), nil
}
