package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultStreamMaxLen caps the change feed; trimming is approximate.
const defaultStreamMaxLen = 10000

// NewRedisClient builds a client from a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// RedisStreamPublisher appends every event it handles to a Redis stream as
// name/occurred_at/data fields, data being the JSON encoding of the event.
type RedisStreamPublisher struct {
	client redis.Cmdable
	stream string
	maxLen int64
}

// NewRedisStreamPublisher creates a publisher writing to stream.
func NewRedisStreamPublisher(client redis.Cmdable, stream string) *RedisStreamPublisher {
	return &RedisStreamPublisher{client: client, stream: stream, maxLen: defaultStreamMaxLen}
}

// Handle implements Handler.
func (p *RedisStreamPublisher) Handle(ctx context.Context, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.EventName(), err)
	}

	err = p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"name":        event.EventName(),
			"occurred_at": event.OccurredAt().UTC().Format(time.RFC3339Nano),
			"data":        string(data),
		},
	}).Err()
	if err != nil {
		return fmt.Errorf("append to stream %s: %w", p.stream, err)
	}
	return nil
}
