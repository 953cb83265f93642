// Package outbox decouples email delivery from the request that triggered it.
// Delivery is best effort: a lost message is logged and counted, never retried.
package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/careerhub-backend/internal/mailer"
	"github.com/redis/go-redis/v9"
)

const KeyEmailQueue = "careerhub:outbox:email"

var (
	ErrEmpty = errors.New("outbox empty")
	ErrFull  = errors.New("outbox full")
)

type Queue interface {
	Enqueue(ctx context.Context, e mailer.Email) error
	// Dequeue waits up to timeout for a message and returns ErrEmpty if none arrived.
	Dequeue(ctx context.Context, timeout time.Duration) (mailer.Email, error)
}

// MemoryQueue is an in-process bounded queue. Messages are lost on restart.
type MemoryQueue struct {
	ch chan mailer.Email
}

func NewMemoryQueue(size int) *MemoryQueue {
	if size <= 0 {
		size = 256
	}
	return &MemoryQueue{ch: make(chan mailer.Email, size)}
}

func (q *MemoryQueue) Enqueue(ctx context.Context, e mailer.Email) error {
	select {
	case q.ch <- e:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return ErrFull
	}
}

func (q *MemoryQueue) Dequeue(ctx context.Context, timeout time.Duration) (mailer.Email, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case e := <-q.ch:
		return e, nil
	case <-timer.C:
		return mailer.Email{}, ErrEmpty
	case <-ctx.Done():
		return mailer.Email{}, ctx.Err()
	}
}

func (q *MemoryQueue) Len() int { return len(q.ch) }

// RedisQueue is a Redis list shared by every process: LPUSH in, BRPOP out.
type RedisQueue struct {
	rdb *redis.Client
	key string
}

func NewRedisQueue(rdb *redis.Client) (*RedisQueue, error) {
	if rdb == nil {
		return nil, errors.New("redis client is nil")
	}
	return &RedisQueue{rdb: rdb, key: KeyEmailQueue}, nil
}

func (q *RedisQueue) Enqueue(ctx context.Context, e mailer.Email) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}
	if err := q.rdb.LPush(ctx, q.key, data).Err(); err != nil {
		return fmt.Errorf("lpush email: %w", err)
	}
	return nil
}

func (q *RedisQueue) Dequeue(ctx context.Context, timeout time.Duration) (mailer.Email, error) {
	res, err := q.rdb.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, redis.Nil) {
		return mailer.Email{}, ErrEmpty
	}
	if err != nil {
		return mailer.Email{}, fmt.Errorf("brpop email: %w", err)
	}

	// res is [key, value]
	var e mailer.Email
	if err := json.Unmarshal([]byte(res[1]), &e); err != nil {
		return mailer.Email{}, fmt.Errorf("unmarshal email: %w", err)
	}
	return e, nil
}

// Depth reports how many messages are waiting.
func (q *RedisQueue) Depth(ctx context.Context) (int64, error) {
	return q.rdb.LLen(ctx, q.key).Result()
}
