package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	awarddomain "github.com/smallbiznis/beerduel/internal/award/domain"
	battledomain "github.com/smallbiznis/beerduel/internal/battle/domain"
	"github.com/smallbiznis/beerduel/internal/clock"
	"github.com/smallbiznis/beerduel/internal/config"
	obsmetrics "github.com/smallbiznis/beerduel/internal/observability/metrics"
	"github.com/smallbiznis/beerduel/internal/ratelimit"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Cycle     *clock.Cycle
	Engine    *config.EngineConfigHolder
	BattleSvc battledomain.Service
	AwardSvc  awarddomain.Service
	Limiter   *ratelimit.VoteLimiter    `optional:"true"`
	Metrics   *obsmetrics.EngineMetrics `optional:"true"`
}

// Scheduler drives the day and week boundaries: close yesterday's battle,
// open today's, settle the previous week. Every job is idempotent, so the
// loop just runs them all on each tick and lets the database arbitrate.
type Scheduler struct {
	log       *zap.Logger
	cycle     *clock.Cycle
	engine    *config.EngineConfigHolder
	battleSvc battledomain.Service
	awardSvc  awarddomain.Service
	limiter   *ratelimit.VoteLimiter
	metrics   *obsmetrics.EngineMetrics
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Cycle == nil || p.Engine == nil || p.BattleSvc == nil || p.AwardSvc == nil {
		return nil, errors.New("scheduler: missing dependency")
	}
	return &Scheduler{
		log:       p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cycle:     p.Cycle,
		engine:    p.Engine,
		battleSvc: p.BattleSvc,
		awardSvc:  p.AwardSvc,
		limiter:   p.Limiter,
		metrics:   p.Metrics,
	}, nil
}

func (s *Scheduler) runJob(parent context.Context, name string, fn func(ctx context.Context) error) error {
	timeout := s.engine.Get().JobTimeout
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	s.metrics.IncJobRun(name)

	err := fn(ctx)
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		s.metrics.IncJobError(name, "timeout")
		s.log.Warn("job timed out",
			zap.String("job", name),
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		// Soft timeout; the next tick retries.
		return nil
	}

	s.metrics.IncJobError(name, "error")
	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	// One instance does boundary work at a time. The lock is advisory: the
	// unique constraints keep concurrent runners correct, the lock just stops
	// them from burning the same work.
	token, acquired, err := s.limiter.TryLockRollover(parent)
	if err != nil {
		s.log.Warn("rollover lock unavailable, proceeding unlocked", zap.Error(err))
	} else if !acquired {
		return nil
	} else {
		defer func() {
			if releaseErr := s.limiter.ReleaseRollover(parent, token); releaseErr != nil {
				s.log.Warn("rollover lock release failed", zap.Error(releaseErr))
			}
		}()
	}

	var runErr error

	runErr = errors.Join(runErr, s.runJob(parent, "close_yesterday", func(ctx context.Context) error {
		return s.battleSvc.CloseBattle(ctx, s.cycle.Yesterday())
	}))

	runErr = errors.Join(runErr, s.runJob(parent, "ensure_today", func(ctx context.Context) error {
		_, err := s.battleSvc.GetOrCreateToday(ctx)
		if errors.Is(err, battledomain.ErrInsufficientCandidates) {
			// Not enough active items is a catalog state, not a fault.
			s.log.Warn("no battle today", zap.Error(err))
			return nil
		}
		return err
	}))

	runErr = errors.Join(runErr, s.runJob(parent, "weekly_rollover", func(ctx context.Context) error {
		_, err := s.awardSvc.RolloverIfWeekClosed(ctx)
		return err
	}))

	return runErr
}

func (s *Scheduler) RunForever(ctx context.Context) {
	interval := s.engine.Get().TickInterval
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
