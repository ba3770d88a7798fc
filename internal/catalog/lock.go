package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const syncLockKey = "myworkout-catalog-sync-lock"

// release only when the lock is still ours
var releaseLockScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLock is a single-holder lock shared by every core instance and the sync CLI.
type RedisLock struct {
	redisClient *redis.Client
	key         string
	ttl         time.Duration
	newToken    func() string
}

func NewRedisLock(redisClient *redis.Client, ttl time.Duration) *RedisLock {
	return &RedisLock{
		redisClient: redisClient,
		key:         syncLockKey,
		ttl:         ttl,
		newToken:    uuid.NewString,
	}
}

func (l *RedisLock) Acquire(ctx context.Context) (string, bool, error) {
	token := l.newToken()
	ok, err := l.redisClient.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("redis setnx: %w", err)
	}
	if !ok {
		return "", false, nil
	}
	return token, true, nil
}

func (l *RedisLock) Release(ctx context.Context, token string) error {
	if err := releaseLockScript.Run(ctx, l.redisClient, []string{l.key}, token).Err(); err != nil && err != redis.Nil {
		return fmt.Errorf("release lock: %w", err)
	}
	return nil
}
