package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/beerduel/internal/battle/domain"
	"github.com/smallbiznis/beerduel/internal/clock"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, battle *domain.Battle) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO battles (id, battle_date, item_a_id, item_b_id, votes_a, votes_b, status, day_of_week, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		battle.ID,
		battle.BattleDate,
		battle.ItemAID,
		battle.ItemBID,
		battle.VotesA,
		battle.VotesB,
		battle.Status,
		battle.DayOfWeek,
		battle.CreatedAt,
		battle.UpdatedAt,
	).Error
}

func (r *repo) FindByDate(ctx context.Context, db *gorm.DB, date clock.Date) (*domain.Battle, error) {
	var battle domain.Battle
	err := db.WithContext(ctx).Raw(
		`SELECT id, battle_date, item_a_id, item_b_id, votes_a, votes_b, status, day_of_week, created_at, updated_at
		 FROM battles WHERE battle_date = ?`,
		date,
	).Scan(&battle).Error
	if err != nil {
		return nil, err
	}
	if battle.ID == 0 {
		return nil, nil
	}
	return &battle, nil
}

func (r *repo) ListBetween(ctx context.Context, db *gorm.DB, first, last clock.Date) ([]domain.Battle, error) {
	var battles []domain.Battle
	err := db.WithContext(ctx).
		Model(&domain.Battle{}).
		Where("battle_date >= ? AND battle_date <= ?", first, last).
		Order("battle_date asc").
		Find(&battles).Error
	if err != nil {
		return nil, err
	}
	return battles, nil
}

func (r *repo) RecentPairs(ctx context.Context, db *gorm.DB, since clock.Date) ([]domain.Pair, error) {
	var rows []struct {
		ItemAID snowflake.ID
		ItemBID snowflake.ID
	}
	err := db.WithContext(ctx).Raw(
		`SELECT item_a_id, item_b_id FROM battles WHERE battle_date >= ? ORDER BY battle_date DESC`,
		since,
	).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	pairs := make([]domain.Pair, 0, len(rows))
	for _, row := range rows {
		pairs = append(pairs, domain.Pair{A: row.ItemAID, B: row.ItemBID})
	}
	return pairs, nil
}

func (r *repo) Close(ctx context.Context, db *gorm.DB, date clock.Date) (bool, error) {
	result := db.WithContext(ctx).Exec(
		`UPDATE battles SET status = ?, updated_at = ? WHERE battle_date = ? AND status = ?`,
		domain.BattleStatusClosed,
		time.Now().UTC(),
		date,
		domain.BattleStatusActive,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *repo) InsertVote(ctx context.Context, db *gorm.DB, vote *domain.DailyVote) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO daily_votes (id, user_id, vote_date, item_id, battle_id, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		vote.ID,
		vote.UserID,
		vote.VoteDate,
		vote.ItemID,
		vote.BattleID,
		vote.CreatedAt,
	).Error
}

func (r *repo) FindVote(ctx context.Context, db *gorm.DB, userID snowflake.ID, date clock.Date) (*domain.DailyVote, error) {
	var vote domain.DailyVote
	err := db.WithContext(ctx).Raw(
		`SELECT id, user_id, vote_date, item_id, battle_id, created_at
		 FROM daily_votes WHERE user_id = ? AND vote_date = ?`,
		userID,
		date,
	).Scan(&vote).Error
	if err != nil {
		return nil, err
	}
	if vote.ID == 0 {
		return nil, nil
	}
	return &vote, nil
}

func (r *repo) CountVotes(ctx context.Context, db *gorm.DB, battleID snowflake.ID) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Raw(
		`SELECT COUNT(1) FROM daily_votes WHERE battle_id = ?`,
		battleID,
	).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *repo) IncrementSide(ctx context.Context, db *gorm.DB, battleID snowflake.ID, side domain.Side) (bool, error) {
	column := "votes_a"
	if side == domain.SideB {
		column = "votes_b"
	}

	// Single atomic increment, never read-modify-write; guarded by status so
	// a vote racing the day rollover cannot land on a closed battle.
	result := db.WithContext(ctx).Exec(
		`UPDATE battles SET `+column+` = `+column+` + 1, updated_at = ? WHERE id = ? AND status = ?`,
		time.Now().UTC(),
		battleID,
		domain.BattleStatusActive,
	)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
