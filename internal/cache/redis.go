// internal/cache/redis.go
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// DefaultQueueName is the Redis list that receives match action records.
const DefaultQueueName = "sanctum_actions"

// ActionRecord is one applied player action, in application order.
type ActionRecord struct {
	MatchID       uuid.UUID              `json:"match_id"`
	ActionIndex   int                    `json:"action_index"`
	ActorID       uuid.UUID              `json:"actor_id"`
	Faction       string                 `json:"faction"`
	ActionType    string                 `json:"action_type"`
	ActionPayload map[string]interface{} `json:"action_payload"`
	Timestamp     int64                  `json:"timestamp"`
}

// RedisJournal appends action records to a Redis list for offline consumers.
type RedisJournal struct {
	rdb   *redis.Client
	queue string
}

// NewRedisJournal connects to Redis and verifies the connection with a ping.
func NewRedisJournal(ctx context.Context, addr string, db int, queue string) (*RedisJournal, error) {
	if queue == "" {
		queue = DefaultQueueName
	}
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return NewRedisJournalFromClient(rdb, queue), nil
}

// NewRedisJournalFromClient wraps an existing client without pinging it.
func NewRedisJournalFromClient(rdb *redis.Client, queue string) *RedisJournal {
	if queue == "" {
		queue = DefaultQueueName
	}
	return &RedisJournal{rdb: rdb, queue: queue}
}

// Publish serializes the record to JSON and pushes it onto the queue.
func (j *RedisJournal) Publish(ctx context.Context, record ActionRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal ActionRecord: %w", err)
	}
	if err := j.rdb.RPush(ctx, j.queue, data).Err(); err != nil {
		return fmt.Errorf("failed to RPush to Redis list '%s': %w", j.queue, err)
	}
	return nil
}

// Pop blocks up to timeout for the next record. ok is false when the queue
// stayed empty.
func (j *RedisJournal) Pop(ctx context.Context, timeout time.Duration) (record ActionRecord, ok bool, err error) {
	res, err := j.rdb.BLPop(ctx, timeout, j.queue).Result()
	if errors.Is(err, redis.Nil) {
		return ActionRecord{}, false, nil
	}
	if err != nil {
		return ActionRecord{}, false, fmt.Errorf("BLPop %s: %w", j.queue, err)
	}
	// res[0] is the queue name and res[1] the payload.
	if len(res) < 2 {
		return ActionRecord{}, false, nil
	}
	if err := json.Unmarshal([]byte(res[1]), &record); err != nil {
		return ActionRecord{}, false, fmt.Errorf("invalid action record: %w", err)
	}
	return record, true, nil
}

func (j *RedisJournal) Close() error {
	return j.rdb.Close()
}
