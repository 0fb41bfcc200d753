package domain

import (
	"context"

	"github.com/smallbiznis/beerduel/internal/clock"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, award *WeeklyAward) error
	FindByWeek(ctx context.Context, db *gorm.DB, week clock.WeekID) (*WeeklyAward, error)
}
