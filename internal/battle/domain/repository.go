package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/beerduel/internal/clock"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, battle *Battle) error
	FindByDate(ctx context.Context, db *gorm.DB, date clock.Date) (*Battle, error)
	ListBetween(ctx context.Context, db *gorm.DB, first, last clock.Date) ([]Battle, error)
	// RecentPairs lists the pairings of battles on or after since, newest
	// first. The battles table itself is the pair history; no separate store.
	RecentPairs(ctx context.Context, db *gorm.DB, since clock.Date) ([]Pair, error)
	// Close flips an active battle to closed. Returns false when there was
	// nothing to do (no battle, or already closed).
	Close(ctx context.Context, db *gorm.DB, date clock.Date) (bool, error)

	InsertVote(ctx context.Context, db *gorm.DB, vote *DailyVote) error
	FindVote(ctx context.Context, db *gorm.DB, userID snowflake.ID, date clock.Date) (*DailyVote, error)
	CountVotes(ctx context.Context, db *gorm.DB, battleID snowflake.ID) (int64, error)
	// IncrementSide applies a single atomic counter bump on the given side,
	// guarded by status = active. Returns false when the battle was closed.
	IncrementSide(ctx context.Context, db *gorm.DB, battleID snowflake.ID, side Side) (bool, error)
}
