package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisRecorder keeps events in a capped Redis list, newest at the head
type RedisRecorder struct {
	client   *redis.Client
	key      string
	capacity int64
}

// NewRedisRecorder stores events under prefix+"events"
func NewRedisRecorder(client *redis.Client, prefix string, capacity int) *RedisRecorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RedisRecorder{
		client:   client,
		key:      prefix + "events",
		capacity: int64(capacity),
	}
}

func (r *RedisRecorder) Record(ctx context.Context, e Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, r.key, data)
	pipe.LTrim(ctx, r.key, 0, r.capacity-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("record event: %w", err)
	}
	return nil
}

func (r *RedisRecorder) Recent(ctx context.Context, n int) ([]Event, error) {
	if n <= 0 || int64(n) > r.capacity {
		n = int(r.capacity)
	}

	items, err := r.client.LRange(ctx, r.key, 0, int64(n-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}

	out := make([]Event, 0, len(items))
	for _, item := range items {
		var e Event
		if err := json.Unmarshal([]byte(item), &e); err != nil {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}
