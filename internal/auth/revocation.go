package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gonzalo9292/myworkout/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
)

const revokedKeyPrefix = "myworkout-revoked||"

// Revoker keeps the ids of logged out tokens until they would have expired.
type Revoker struct {
	redisClient *redis.Client
}

func NewRevoker(redisClient *redis.Client) *Revoker {
	return &Revoker{
		redisClient: redisClient,
	}
}

// Revoke remembers tokenID for ttl, the remaining lifetime of the token.
func (r *Revoker) Revoke(ctx context.Context, tokenID string, ttl time.Duration) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.revoker.revoke")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if tokenID == "" {
		return errors.New("empty token id")
	}

	if ttl <= 0 {
		// already expired, nothing to remember
		return nil
	}

	if err := r.redisClient.Set(ctx, revokedKeyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *Revoker) IsRevoked(ctx context.Context, tokenID string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.revoker.isRevoked")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	n, err := r.redisClient.Exists(ctx, revokedKeyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}
