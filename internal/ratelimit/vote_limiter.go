package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/smallbiznis/beerduel/internal/config"
)

const (
	keyVoteUser     = "vote:user:%s"
	keyRolloverLock = "rollover:lock"

	rolloverLockTTL = 30 * time.Second
)

// VoteLimiter shapes per-user vote traffic and hands out the rollover lock so
// only one instance runs the boundary jobs at a time. It is advisory on both
// counts: vote correctness comes from the unique (user, day) constraint and
// rollover idempotence from the unique week column, so a missing redis just
// means less politeness, never wrong data.
type VoteLimiter struct {
	enabled bool

	bucket *TokenBucket
	locker *Locker
	engine *config.EngineConfigHolder
}

func NewVoteLimiter(cfg config.Config, engine *config.EngineConfigHolder) *VoteLimiter {
	addr := strings.TrimSpace(cfg.RedisAddr)
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(cfg.RedisPassword),
		DB:       cfg.RedisDB,
	})

	return &VoteLimiter{
		enabled: true,
		bucket:  NewTokenBucket(client),
		locker:  NewLocker(client),
		engine:  engine,
	}
}

func (l *VoteLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *VoteLimiter) AllowVote(ctx context.Context, userID string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	engine := l.engine.Get()
	if engine.VoteRatePerMinute <= 0 || engine.VoteBurst <= 0 {
		return true, nil
	}
	return l.bucket.Allow(
		ctx,
		fmt.Sprintf(keyVoteUser, strings.TrimSpace(userID)),
		engine.VoteRatePerMinute/60,
		engine.VoteBurst,
	)
}

func (l *VoteLimiter) TryLockRollover(ctx context.Context) (string, bool, error) {
	if !l.Enabled() {
		return "", true, nil
	}
	return l.locker.TryLock(ctx, keyRolloverLock, rolloverLockTTL)
}

func (l *VoteLimiter) ReleaseRollover(ctx context.Context, token string) error {
	if !l.Enabled() {
		return nil
	}
	return l.locker.Release(ctx, keyRolloverLock, token)
}
