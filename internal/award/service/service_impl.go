package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/beerduel/internal/award/domain"
	battledomain "github.com/smallbiznis/beerduel/internal/battle/domain"
	catalogdomain "github.com/smallbiznis/beerduel/internal/catalog/domain"
	"github.com/smallbiznis/beerduel/internal/clock"
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
	BattleRepo  battledomain.Repository
	CatalogRepo catalogdomain.Repository
	Metrics     *obsmetrics.EngineMetrics `optional:"true"`
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	genID       *snowflake.Node
	clock       clock.Clock
	cycle       *clock.Cycle
	repo        domain.Repository
	battleRepo  battledomain.Repository
	catalogRepo catalogdomain.Repository
	metrics     *obsmetrics.EngineMetrics
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("award.service"),
		genID:       p.GenID,
		clock:       p.Clock,
		cycle:       p.Cycle,
		repo:        p.Repo,
		battleRepo:  p.BattleRepo,
		catalogRepo: p.CatalogRepo,
		metrics:     p.Metrics,
	}
}

func (s *Service) RolloverIfWeekClosed(ctx context.Context) (*domain.WeeklyAward, error) {
	week := s.cycle.PreviousWeek()

	existing, err := s.repo.FindByWeek(ctx, s.db, week)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, nil
	}

	first, last, err := week.Bounds()
	if err != nil {
		return nil, err
	}

	battles, err := s.battleRepo.ListBetween(ctx, s.db, first, last)
	if err != nil {
		return nil, err
	}

	champion, total, ok := pickChampion(battles)
	if !ok {
		// A week without a single vote grants nothing.
		return nil, nil
	}

	award := &domain.WeeklyAward{
		ID:         s.genID.Generate(),
		Week:       week,
		ItemID:     champion,
		TotalVotes: total,
		CreatedAt:  s.clock.Now(),
	}

	// Award row and trophy bump commit or roll back together; a partial
	// state here would break idempotence on the next rollover check.
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, award); err != nil {
			return err
		}
		return s.catalogRepo.IncrementTrophy(ctx, tx, champion)
	})
	if txErr != nil {
		if db.IsDuplicateKeyErr(txErr) {
			// A concurrent runner settled the week first. The unique week
			// column already guarantees a single award, so just stand down.
			s.metrics.IncRolloverConflict()
			s.log.Warn("weekly rollover lost race", zap.String("week", string(week)))
			return nil, nil
		}
		return nil, txErr
	}

	s.metrics.IncAwardGranted()
	s.log.Info("weekly award granted",
		zap.String("week", string(week)),
		zap.String("item_id", champion.String()),
		zap.Int64("total_votes", total),
	)
	return award, nil
}

func (s *Service) GetByWeek(ctx context.Context, week string) (domain.WeeklyAward, error) {
	weekID := clock.WeekID(strings.TrimSpace(week))
	if !weekID.Valid() {
		return domain.WeeklyAward{}, domain.ErrInvalidWeek
	}

	award, err := s.repo.FindByWeek(ctx, s.db, weekID)
	if err != nil {
		return domain.WeeklyAward{}, err
	}
	if award == nil {
		return domain.WeeklyAward{}, domain.ErrNotFound
	}
	return *award, nil
}

// pickChampion sums votes per item across both battle sides and selects the
// winner deterministically: highest total, then earliest battle of the week,
// then lowest item id. Returns ok=false when no vote was cast all week.
func pickChampion(battles []battledomain.Battle) (snowflake.ID, int64, bool) {
	type tally struct {
		votes    int64
		firstIdx int
	}

	totals := make(map[snowflake.ID]*tally)
	record := func(idx int, itemID snowflake.ID, votes int64) {
		t, ok := totals[itemID]
		if !ok {
			totals[itemID] = &tally{votes: votes, firstIdx: idx}
			return
		}
		t.votes += votes
	}

	// battles arrive ordered by date ascending.
	for idx, battle := range battles {
		record(idx, battle.ItemAID, battle.VotesA)
		record(idx, battle.ItemBID, battle.VotesB)
	}

	var (
		champion snowflake.ID
		best     *tally
	)
	for itemID, t := range totals {
		if t.votes <= 0 {
			continue
		}
		if best == nil ||
			t.votes > best.votes ||
			(t.votes == best.votes && t.firstIdx < best.firstIdx) ||
			(t.votes == best.votes && t.firstIdx == best.firstIdx && itemID < champion) {
			champion = itemID
			best = t
		}
	}
	if best == nil {
		return 0, 0, false
	}
	return champion, best.votes, true
}
