package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	defaultLockTTL   = 10 * time.Second
	defaultLockWait  = 5 * time.Second
	lockRetryBackoff = 50 * time.Millisecond
	lockKeyPrefix    = "lock:"
)

// releaseScript deletes the lock only while it still holds our token, so an
// expired lock re-acquired by another instance is never released by us.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// InvoiceLocker is a distributed mutex shared by every API instance.
// Key format: lock:<key>, e.g. lock:invoice:<id> or lock:client:<id>
type InvoiceLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	logger zerolog.Logger
}

// NewInvoiceLocker wraps client. ttl bounds how long a crashed holder can
// keep a lock; wait bounds how long Lock polls before giving up.
func NewInvoiceLocker(client *redis.Client, ttl, wait time.Duration, logger zerolog.Logger) *InvoiceLocker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if wait <= 0 {
		wait = defaultLockWait
	}
	return &InvoiceLocker{client: client, ttl: ttl, wait: wait, logger: logger}
}

// Lock polls SET NX until the key is held or the wait budget runs out. On
// timeout the returned error wraps context.DeadlineExceeded.
func (l *InvoiceLocker) Lock(ctx context.Context, key string) (func(), error) {
	ctx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	redisKey := lockKeyPrefix + key
	token := uuid.NewString()

	ticker := time.NewTicker(lockRetryBackoff)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.ttl).Result()
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			return nil, fmt.Errorf("acquire %s: %w", redisKey, err)
		}
		if ok {
			return func() { l.release(redisKey, token) }, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *InvoiceLocker) release(redisKey, token string) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	if err := releaseScript.Run(ctx, l.client, []string{redisKey}, token).Err(); err != nil {
		l.logger.Warn().Err(err).Str("key", redisKey).Msg("failed to release lock, it will expire")
	}
}
