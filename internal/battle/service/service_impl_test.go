package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	battlerepo "github.com/smallbiznis/beerduel/internal/battle/repository"
	catalogdomain "github.com/smallbiznis/beerduel/internal/catalog/domain"
	catalogrepo "github.com/smallbiznis/beerduel/internal/catalog/repository"
	"github.com/smallbiznis/beerduel/internal/clock"
	"github.com/smallbiznis/beerduel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/smallbiznis/beerduel/internal/battle/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&catalogdomain.Item{},
		&domain.Battle{},
		&domain.DailyVote{},
	))
	// Single connection so concurrent voters serialize on the database
	// instead of tripping sqlite busy errors.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

func newService(t *testing.T, db *gorm.DB, now time.Time) (*Service, *clock.FakeClock) {
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	clk := clock.NewFakeClock(now)
	svc := New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		GenID:       node,
		Clock:       clk,
		Cycle:       clock.NewCycle(clk, time.UTC),
		Repo:        battlerepo.Provide(),
		CatalogRepo: catalogrepo.Provide(),
		Engine:      config.NewStaticEngineConfigHolder(config.DefaultEngineConfig()),
	}).(*Service)
	return svc, clk
}

func seedItems(t *testing.T, db *gorm.DB, ids ...snowflake.ID) {
	for _, id := range ids {
		require.NoError(t, db.Create(&catalogdomain.Item{
			ID:       id,
			Name:     fmt.Sprintf("item-%d", id),
			Active:   true,
			Metadata: datatypes.JSONMap{},
		}).Error)
	}
}

var wednesday = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)

func TestGetOrCreateToday(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db, wednesday)
	seedItems(t, db, 11, 22)

	battle, err := svc.GetOrCreateToday(context.Background())
	require.NoError(t, err)
	require.NotNil(t, battle)
	assert.Equal(t, clock.Date("2025-03-12"), battle.BattleDate)
	assert.Equal(t, "wednesday", battle.DayOfWeek)
	assert.Equal(t, domain.BattleStatusActive, battle.Status)
	assert.NotEqual(t, battle.ItemAID, battle.ItemBID)

	// Second call returns the same battle, no second row.
	again, err := svc.GetOrCreateToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, battle.ID, again.ID)

	var count int64
	db.Model(&domain.Battle{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestGetOrCreateToday_InsufficientCandidates(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db, wednesday)
	seedItems(t, db, 11)

	_, err := svc.GetOrCreateToday(context.Background())
	assert.ErrorIs(t, err, domain.ErrInsufficientCandidates)
}

func TestGetOrCreateToday_NewDayNewBattle(t *testing.T) {
	db := newTestDB(t)
	svc, clk := newService(t, db, wednesday)
	seedItems(t, db, 11, 22, 33)

	first, err := svc.GetOrCreateToday(context.Background())
	require.NoError(t, err)

	clk.Advance(24 * time.Hour)

	second, err := svc.GetOrCreateToday(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, clock.Date("2025-03-13"), second.BattleDate)
}

func TestCastVote(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db, wednesday)
	seedItems(t, db, 11, 22)

	battle, err := svc.GetOrCreateToday(context.Background())
	require.NoError(t, err)

	result, err := svc.CastVote(context.Background(), domain.CastVoteRequest{
		UserID: "9001",
		ItemID: battle.ItemAID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VoteStatusVoted, result.Status)
	assert.Equal(t, battle.ItemAID.String(), result.ItemID)
	require.NotNil(t, result.Battle)
	assert.Equal(t, int64(1), result.Battle.VotesA)
	assert.Equal(t, int64(0), result.Battle.VotesB)
}

func TestCastVote_SecondVoteSameDayRejected(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db, wednesday)
	seedItems(t, db, 11, 22)

	battle, err := svc.GetOrCreateToday(context.Background())
	require.NoError(t, err)

	first, err := svc.CastVote(context.Background(), domain.CastVoteRequest{
		UserID: "9001",
		ItemID: battle.ItemAID.String(),
	})
	require.NoError(t, err)
	require.Equal(t, domain.VoteStatusVoted, first.Status)

	// Same user, other side: rejected, counters untouched, original vote kept.
	second, err := svc.CastVote(context.Background(), domain.CastVoteRequest{
		UserID: "9001",
		ItemID: battle.ItemBID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VoteStatusAlreadyVoted, second.Status)
	assert.Equal(t, battle.ItemAID.String(), second.ItemID)

	fresh, err := svc.GetToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), fresh.VotesA)
	assert.Equal(t, int64(0), fresh.VotesB)

	var votes int64
	db.Model(&domain.DailyVote{}).Count(&votes)
	assert.Equal(t, int64(1), votes)
}

func TestCastVote_NextDayAllowedAgain(t *testing.T) {
	db := newTestDB(t)
	svc, clk := newService(t, db, wednesday)
	seedItems(t, db, 11, 22)

	battle, err := svc.GetOrCreateToday(context.Background())
	require.NoError(t, err)

	_, err = svc.CastVote(context.Background(), domain.CastVoteRequest{
		UserID: "9001",
		ItemID: battle.ItemAID.String(),
	})
	require.NoError(t, err)

	clk.Advance(24 * time.Hour)
	require.NoError(t, svc.CloseBattle(context.Background(), "2025-03-12"))

	next, err := svc.GetOrCreateToday(context.Background())
	require.NoError(t, err)

	result, err := svc.CastVote(context.Background(), domain.CastVoteRequest{
		UserID: "9001",
		ItemID: next.ItemAID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VoteStatusVoted, result.Status)
}

func TestCastVote_NoBattleToday(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db, wednesday)

	result, err := svc.CastVote(context.Background(), domain.CastVoteRequest{
		UserID: "9001",
		ItemID: "11",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VoteStatusNoBattle, result.Status)
}

func TestCastVote_ClosedBattle(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db, wednesday)
	seedItems(t, db, 11, 22)

	battle, err := svc.GetOrCreateToday(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.CloseBattle(context.Background(), battle.BattleDate))

	result, err := svc.CastVote(context.Background(), domain.CastVoteRequest{
		UserID: "9001",
		ItemID: battle.ItemAID.String(),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VoteStatusNoBattle, result.Status)

	var votes int64
	db.Model(&domain.DailyVote{}).Count(&votes)
	assert.Equal(t, int64(0), votes)
}

func TestCastVote_ItemNotInBattle(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db, wednesday)
	seedItems(t, db, 11, 22)

	_, err := svc.GetOrCreateToday(context.Background())
	require.NoError(t, err)

	result, err := svc.CastVote(context.Background(), domain.CastVoteRequest{
		UserID: "9001",
		ItemID: "777",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.VoteStatusInvalidItem, result.Status)
}

func TestCastVote_InvalidUser(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db, wednesday)

	_, err := svc.CastVote(context.Background(), domain.CastVoteRequest{
		UserID: "not-a-user",
		ItemID: "11",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidUser)
}

func TestCastVote_ConcurrentSameUser(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db, wednesday)
	seedItems(t, db, 11, 22)

	battle, err := svc.GetOrCreateToday(context.Background())
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	results := make([]domain.VoteResult, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			itemID := battle.ItemAID
			if i%2 == 1 {
				itemID = battle.ItemBID
			}
			result, err := svc.CastVote(context.Background(), domain.CastVoteRequest{
				UserID: "9001",
				ItemID: itemID.String(),
			})
			assert.NoError(t, err)
			results[i] = result
		}(i)
	}
	wg.Wait()

	voted := 0
	for _, r := range results {
		if r.Status == domain.VoteStatusVoted {
			voted++
		} else {
			assert.Equal(t, domain.VoteStatusAlreadyVoted, r.Status)
		}
	}
	assert.Equal(t, 1, voted, "exactly one attempt may land")

	votes, err := battlerepo.Provide().CountVotes(context.Background(), db, battle.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), votes)

	fresh, err := svc.GetToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, votes, fresh.VotesA+fresh.VotesB, "counters match the vote ledger")
}

func TestCloseBattle_Idempotent(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db, wednesday)
	seedItems(t, db, 11, 22)

	battle, err := svc.GetOrCreateToday(context.Background())
	require.NoError(t, err)

	require.NoError(t, svc.CloseBattle(context.Background(), battle.BattleDate))
	require.NoError(t, svc.CloseBattle(context.Background(), battle.BattleDate))

	fresh, err := svc.GetToday(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.BattleStatusClosed, fresh.Status)
}

func TestCloseBattle_InvalidDate(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db, wednesday)

	err := svc.CloseBattle(context.Background(), "12/03/2025")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}

func TestGetByDate(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newService(t, db, wednesday)
	seedItems(t, db, 11, 22)

	created, err := svc.GetOrCreateToday(context.Background())
	require.NoError(t, err)

	found, err := svc.GetByDate(context.Background(), "2025-03-12")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, created.ID, found.ID)

	missing, err := svc.GetByDate(context.Background(), "2025-03-11")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = svc.GetByDate(context.Background(), "not-a-date")
	assert.ErrorIs(t, err, domain.ErrInvalidDate)
}
