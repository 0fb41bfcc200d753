package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	awarddomain "github.com/smallbiznis/beerduel/internal/award/domain"
	battledomain "github.com/smallbiznis/beerduel/internal/battle/domain"
	"github.com/smallbiznis/beerduel/internal/clock"
	"github.com/smallbiznis/beerduel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeBattleSvc struct {
	closedDates []clock.Date
	createCalls int
	createErr   error
	closeErr    error
}

func (f *fakeBattleSvc) GetOrCreateToday(ctx context.Context) (*battledomain.Battle, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &battledomain.Battle{ID: 1}, nil
}

func (f *fakeBattleSvc) GetToday(ctx context.Context) (*battledomain.Battle, error) {
	return nil, nil
}

func (f *fakeBattleSvc) CastVote(ctx context.Context, req battledomain.CastVoteRequest) (battledomain.VoteResult, error) {
	return battledomain.VoteResult{}, nil
}

func (f *fakeBattleSvc) CloseBattle(ctx context.Context, date clock.Date) error {
	if f.closeErr != nil {
		return f.closeErr
	}
	f.closedDates = append(f.closedDates, date)
	return nil
}

func (f *fakeBattleSvc) GetByDate(ctx context.Context, date clock.Date) (*battledomain.Battle, error) {
	return nil, nil
}

type fakeAwardSvc struct {
	rolloverCalls int
	rolloverErr   error
}

func (f *fakeAwardSvc) RolloverIfWeekClosed(ctx context.Context) (*awarddomain.WeeklyAward, error) {
	f.rolloverCalls++
	return nil, f.rolloverErr
}

func (f *fakeAwardSvc) GetByWeek(ctx context.Context, week string) (awarddomain.WeeklyAward, error) {
	return awarddomain.WeeklyAward{}, awarddomain.ErrNotFound
}

func newScheduler(t *testing.T, battleSvc battledomain.Service, awardSvc awarddomain.Service) *Scheduler {
	clk := clock.NewFakeClock(time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC))
	sched, err := New(Params{
		Log:       zap.NewNop(),
		Cycle:     clock.NewCycle(clk, time.UTC),
		Engine:    config.NewStaticEngineConfigHolder(config.DefaultEngineConfig()),
		BattleSvc: battleSvc,
		AwardSvc:  awardSvc,
	})
	require.NoError(t, err)
	return sched
}

func TestRunOnce_RunsAllJobs(t *testing.T) {
	battleSvc := &fakeBattleSvc{}
	awardSvc := &fakeAwardSvc{}
	sched := newScheduler(t, battleSvc, awardSvc)

	require.NoError(t, sched.RunOnce(context.Background()))

	assert.Equal(t, []clock.Date{"2025-03-11"}, battleSvc.closedDates)
	assert.Equal(t, 1, battleSvc.createCalls)
	assert.Equal(t, 1, awardSvc.rolloverCalls)
}

func TestRunOnce_InsufficientCandidatesIsNotAFailure(t *testing.T) {
	battleSvc := &fakeBattleSvc{createErr: battledomain.ErrInsufficientCandidates}
	awardSvc := &fakeAwardSvc{}
	sched := newScheduler(t, battleSvc, awardSvc)

	require.NoError(t, sched.RunOnce(context.Background()))
	assert.Equal(t, 1, awardSvc.rolloverCalls)
}

func TestRunOnce_JobFailureDoesNotStopOthers(t *testing.T) {
	battleSvc := &fakeBattleSvc{closeErr: errors.New("db down")}
	awardSvc := &fakeAwardSvc{}
	sched := newScheduler(t, battleSvc, awardSvc)

	err := sched.RunOnce(context.Background())
	require.Error(t, err)

	// close_yesterday failed but the other jobs still ran.
	assert.Equal(t, 1, battleSvc.createCalls)
	assert.Equal(t, 1, awardSvc.rolloverCalls)
}

func TestRunOnce_CollectsAllErrors(t *testing.T) {
	battleSvc := &fakeBattleSvc{closeErr: errors.New("close broken"), createErr: errors.New("create broken")}
	awardSvc := &fakeAwardSvc{rolloverErr: errors.New("rollover broken")}
	sched := newScheduler(t, battleSvc, awardSvc)

	err := sched.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorContains(t, err, "close_yesterday")
	assert.ErrorContains(t, err, "ensure_today")
	assert.ErrorContains(t, err, "weekly_rollover")
}

func TestNew_MissingDependency(t *testing.T) {
	_, err := New(Params{Log: zap.NewNop()})
	assert.Error(t, err)
}
