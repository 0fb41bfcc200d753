package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/beerduel/internal/battle/domain"
	"github.com/smallbiznis/beerduel/internal/battle/selector"
	catalogdomain "github.com/smallbiznis/beerduel/internal/catalog/domain"
	"github.com/smallbiznis/beerduel/internal/clock"
	"github.com/smallbiznis/beerduel/internal/config"
	obsmetrics "github.com/smallbiznis/beerduel/internal/observability/metrics"
	"github.com/smallbiznis/beerduel/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	GenID       *snowflake.Node
	Clock       clock.Clock
	Cycle       *clock.Cycle
	Repo        domain.Repository
	CatalogRepo catalogdomain.Repository
	Engine      *config.EngineConfigHolder
	Metrics     *obsmetrics.EngineMetrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	cycle       *clock.Cycle
	repo        domain.Repository
	catalogRepo catalogdomain.Repository
	engine      *config.EngineConfigHolder
	metrics     *obsmetrics.EngineMetrics
	intn        selector.IntN
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("battle.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		cycle:       p.Cycle,
		repo:        p.Repo,
		catalogRepo: p.CatalogRepo,
		engine:      p.Engine,
		metrics:     p.Metrics,
		intn:        rand.Intn,
	}
}

func (s *Service) GetToday(ctx context.Context) (*domain.Battle, error) {
	return s.repo.FindByDate(ctx, s.db, s.cycle.Today())
}

func (s *Service) GetByDate(ctx context.Context, date clock.Date) (*domain.Battle, error) {
	if !date.Valid() {
		return nil, domain.ErrInvalidDate
	}
	return s.repo.FindByDate(ctx, s.db, date)
}

func (s *Service) GetOrCreateToday(ctx context.Context) (*domain.Battle, error) {
	today := s.cycle.Today()

	battle, err := s.repo.FindByDate(ctx, s.db, today)
	if err != nil {
		return nil, err
	}
	if battle != nil {
		return battle, nil
	}

	pool, err := s.catalogRepo.ListActiveIDs(ctx, s.db)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrBattleCreationFailed, err)
	}

	window := s.engine.Get().RecentPairWindowDays
	var recent []domain.Pair
	if window > 0 {
		recent, err = s.repo.RecentPairs(ctx, s.db, s.cycle.DaysAgo(window))
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrBattleCreationFailed, err)
		}
	}

	itemA, itemB, err := selector.Pick(pool, recent, s.intn)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	battle = &domain.Battle{
		ID:         s.genID.Generate(),
		BattleDate: today,
		ItemAID:    itemA,
		ItemBID:    itemB,
		Status:     domain.BattleStatusActive,
		DayOfWeek:  today.Weekday(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, s.db, battle); err != nil {
		if db.IsDuplicateKeyErr(err) {
			// Lost the midnight creation race; the winner's row is ours too.
			existing, findErr := s.repo.FindByDate(ctx, s.db, today)
			if findErr != nil {
				return nil, findErr
			}
			if existing != nil {
				return existing, nil
			}
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrBattleCreationFailed, err)
	}

	s.metrics.IncBattleCreated()
	s.log.Info("battle created",
		zap.String("battle_date", string(today)),
		zap.String("item_a", battle.ItemAID.String()),
		zap.String("item_b", battle.ItemBID.String()),
	)
	return battle, nil
}

func (s *Service) CastVote(ctx context.Context, req domain.CastVoteRequest) (domain.VoteResult, error) {
	userID, err := snowflake.ParseString(strings.TrimSpace(req.UserID))
	if err != nil || userID == 0 {
		return domain.VoteResult{}, domain.ErrInvalidUser
	}

	today := s.cycle.Today()
	battle, err := s.repo.FindByDate(ctx, s.db, today)
	if err != nil {
		return domain.VoteResult{}, err
	}
	if battle == nil || battle.Status != domain.BattleStatusActive {
		return s.voteResult(domain.VoteResult{Status: domain.VoteStatusNoBattle}), nil
	}

	itemID, err := snowflake.ParseString(strings.TrimSpace(req.ItemID))
	if err != nil || battle.SideOf(itemID) == "" {
		return s.voteResult(domain.VoteResult{Status: domain.VoteStatusInvalidItem, Battle: battle}), nil
	}
	side := battle.SideOf(itemID)

	vote := &domain.DailyVote{
		ID:        s.genID.Generate(),
		UserID:    userID,
		VoteDate:  today,
		ItemID:    itemID,
		BattleID:  battle.ID,
		CreatedAt: s.clock.Now(),
	}

	// The vote insert and the counter bump commit together: a duplicate key
	// on (user_id, vote_date) aborts before any increment, and a closed
	// battle rolls the insert back. This keeps votes_a + votes_b equal to
	// the number of vote rows.
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.InsertVote(ctx, tx, vote); err != nil {
			return err
		}
		updated, err := s.repo.IncrementSide(ctx, tx, battle.ID, side)
		if err != nil {
			return err
		}
		if !updated {
			return domain.ErrBattleClosed
		}
		return nil
	})

	if txErr != nil {
		if db.IsDuplicateKeyErr(txErr) {
			previous, findErr := s.repo.FindVote(ctx, s.db, userID, today)
			if findErr != nil {
				return domain.VoteResult{}, findErr
			}
			if previous != nil {
				return s.voteResult(domain.VoteResult{
					Status: domain.VoteStatusAlreadyVoted,
					ItemID: previous.ItemID.String(),
					Battle: battle,
				}), nil
			}
		}
		if errors.Is(txErr, domain.ErrBattleClosed) {
			return s.voteResult(domain.VoteResult{Status: domain.VoteStatusNoBattle}), nil
		}
		return domain.VoteResult{}, txErr
	}

	// Re-read for fresh counters; the vote itself is already durable.
	if fresh, err := s.repo.FindByDate(ctx, s.db, today); err == nil && fresh != nil {
		battle = fresh
	}

	return s.voteResult(domain.VoteResult{
		Status: domain.VoteStatusVoted,
		ItemID: itemID.String(),
		Battle: battle,
	}), nil
}

func (s *Service) CloseBattle(ctx context.Context, date clock.Date) error {
	if !date.Valid() {
		return domain.ErrInvalidDate
	}
	closed, err := s.repo.Close(ctx, s.db, date)
	if err != nil {
		return err
	}
	if closed {
		s.log.Info("battle closed", zap.String("battle_date", string(date)))
	}
	return nil
}

func (s *Service) voteResult(result domain.VoteResult) domain.VoteResult {
	s.metrics.RecordVote(string(result.Status))
	return result
}
