package redisadapter

import (
	"context"
	"errors"
	"log/slog"
	"time"

	domainerrors "deliverables/contexts/campaign-editorial/deliverable-review-service/domain/errors"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	defaultLockTTL   = 30 * time.Second
	defaultLockWait  = 5 * time.Second
	lockPollInterval = 50 * time.Millisecond
)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Locker serializes submission mutations across API replicas with
// SET NX PX locks. Release only deletes the key while the token still matches.
type Locker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	logger *slog.Logger
}

func NewLocker(client *redis.Client, ttl time.Duration, wait time.Duration, logger *slog.Logger) *Locker {
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	if wait <= 0 {
		wait = defaultLockWait
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Locker{client: client, ttl: ttl, wait: wait, logger: logger}
}

func (l *Locker) Lock(ctx context.Context, key string) (func(), error) {
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)
	for {
		acquired, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if acquired {
			break
		}
		if time.Now().After(deadline) {
			return nil, domainerrors.ErrLockNotAcquired
		}
		select {
		case <-ctx.Done():
			return nil, domainerrors.ErrLockNotAcquired
		case <-time.After(lockPollInterval):
		}
	}

	return func() {
		releaseCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(releaseCtx, l.client, []string{key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			l.logger.Warn("deliverable lock release failed",
				"event", "deliverable_lock_release_failed",
				"module", "campaign-editorial/deliverable-review-service",
				"layer", "adapter",
				"lock_key", key,
				"error", err.Error(),
			)
		}
	}, nil
}
