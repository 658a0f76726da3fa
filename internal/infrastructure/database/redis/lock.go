package redis

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
	"github.com/opengov-in/rti-sahayak/pkg/errors"
)

const lockKeyPrefix = "rti:lock:request:"

// unlockScript releases the lock only when this holder still owns it, so a
// slow holder can never delete a lock the TTL already handed to someone else.
var unlockScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// RequestLocker serialises lifecycle mutations per request reference across
// all apiserver and worker processes. One SetNX key per reference, fenced by
// a random holder value.
type RequestLocker struct {
	client *Client
	log    logging.Logger

	ttl        time.Duration
	retryDelay time.Duration
	retryCount int
}

// NewRequestLocker builds a locker. ttl bounds how long a crashed holder
// can block a reference.
func NewRequestLocker(client *Client, ttl time.Duration, log logging.Logger) *RequestLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RequestLocker{
		client:     client,
		log:        log,
		ttl:        ttl,
		retryDelay: 100 * time.Millisecond,
		retryCount: 30,
	}
}

// Acquire blocks until the lock for key is held, ctx ends, or the retry
// budget runs out. The returned release function is safe to call once.
func (l *RequestLocker) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := lockKeyPrefix + key
	holder := uuid.New().String()

	for i := 0; i < l.retryCount; i++ {
		ok, err := l.client.Underlying().SetNX(ctx, redisKey, holder, l.ttl).Result()
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeCacheError, "failed to acquire request lock")
		}
		if ok {
			return func() { l.release(redisKey, holder) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, errors.Wrap(ctx.Err(), errors.ErrCodeLockHeld, "context ended waiting for request lock")
		case <-time.After(l.retryDelay):
		}
	}
	return nil, errors.Newf(errors.ErrCodeLockHeld, "request %s is locked by another worker", key)
}

func (l *RequestLocker) release(redisKey, holder string) {
	// Release uses its own timeout: the caller's ctx may already be done
	// and the lock must still be freed.
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	res, err := unlockScript.Run(ctx, l.client.Underlying(), []string{redisKey}, holder).Result()
	if err != nil {
		l.log.Warn("failed to release request lock", logging.String("key", redisKey), logging.Err(err))
		return
	}
	if v, ok := res.(int64); ok && v == 0 {
		l.log.Warn("request lock expired before release", logging.String("key", redisKey))
	}
}
