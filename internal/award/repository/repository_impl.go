package repository

import (
	"context"

	"github.com/smallbiznis/beerduel/internal/award/domain"
	"github.com/smallbiznis/beerduel/internal/clock"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, award *domain.WeeklyAward) error {
	return db.WithContext(ctx).Exec(
		`INSERT INTO weekly_awards (id, week, item_id, total_votes, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		award.ID,
		award.Week,
		award.ItemID,
		award.TotalVotes,
		award.CreatedAt,
	).Error
}

func (r *repo) FindByWeek(ctx context.Context, db *gorm.DB, week clock.WeekID) (*domain.WeeklyAward, error) {
	var award domain.WeeklyAward
	err := db.WithContext(ctx).Raw(
		`SELECT id, week, item_id, total_votes, created_at FROM weekly_awards WHERE week = ?`,
		week,
	).Scan(&award).Error
	if err != nil {
		return nil, err
	}
	if award.ID == 0 {
		return nil, nil
	}
	return &award, nil
}
