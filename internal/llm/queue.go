package llm

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const inboundQueueKey = "crm:inbound"

// QueueMessage is one inbound message awaiting automated handling.
type QueueMessage struct {
	LeadID    int64     `json:"lead_id"`
	MessageID int64     `json:"message_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// Queue is the Redis-backed hand-off between message intake and the
// worker. Intake must never block on AI latency, so it only enqueues.
type Queue struct {
	client *redis.Client
}

func NewQueue(redisURL string) (*Queue, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return &Queue{client: redis.NewClient(opts)}, nil
}

func (q *Queue) Enqueue(ctx context.Context, msg QueueMessage) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return q.client.LPush(ctx, inboundQueueKey, payload).Err()
}

// Dequeue blocks up to timeout for the next message. A nil message with
// a nil error means the wait timed out.
func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (*QueueMessage, error) {
	result, err := q.client.BRPop(ctx, timeout, inboundQueueKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(result) < 2 {
		return nil, nil
	}
	var msg QueueMessage
	if err := json.Unmarshal([]byte(result[1]), &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

func (q *Queue) Depth(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, inboundQueueKey).Result()
}

func (q *Queue) Close() error {
	return q.client.Close()
}
