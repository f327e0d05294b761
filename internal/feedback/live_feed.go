package feedback

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const liveFeedKey = "feedback:live"

// LiveFeed keeps the most recent feedback entries in a capped redis list so
// practitioner dashboards can show what patients report without hitting
// postgres on every poll.
type LiveFeed struct {
	redis  *redis.Client
	tracer trace.Tracer
	max    int64
}

// NewLiveFeed creates a live feed. A nil client disables the feed; all
// methods become no-ops so callers need no nil checks.
func NewLiveFeed(redisClient *redis.Client, max int64) *LiveFeed {
	if redisClient == nil {
		return nil
	}
	if max <= 0 {
		max = 5
	}
	return &LiveFeed{
		redis:  redisClient,
		tracer: otel.Tracer("ayursutra.internal.feedback.live_feed"),
		max:    max,
	}
}

// Push appends an entry and trims the list to the cap.
func (f *LiveFeed) Push(ctx context.Context, e Entry) error {
	if f == nil || f.redis == nil {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("feedback: marshal live entry: %w", err)
	}

	ctx, span := f.tracer.Start(ctx, "feedback.live_feed.push")
	defer span.End()

	pipe := f.redis.TxPipeline()
	pipe.RPush(ctx, liveFeedKey, data)
	pipe.LTrim(ctx, liveFeedKey, -f.max, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("feedback: push live entry: %w", err)
	}
	return nil
}

// Recent returns the capped feed, oldest first.
func (f *LiveFeed) Recent(ctx context.Context) ([]Entry, error) {
	if f == nil || f.redis == nil {
		return nil, nil
	}

	ctx, span := f.tracer.Start(ctx, "feedback.live_feed.recent")
	defer span.End()

	raw, err := f.redis.LRange(ctx, liveFeedKey, 0, -1).Result()
	if err != nil {
		span.RecordError(err)
		if err == redis.Nil {
			return []Entry{}, nil
		}
		return nil, fmt.Errorf("feedback: read live feed: %w", err)
	}

	out := make([]Entry, 0, len(raw))
	for _, item := range raw {
		var e Entry
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
