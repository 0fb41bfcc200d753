package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	ListActiveIDs(ctx context.Context, db *gorm.DB) ([]snowflake.ID, error)
	ListActive(ctx context.Context, db *gorm.DB) ([]Item, error)
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Item, error)
	// IncrementTrophy applies a single atomic trophies = trophies + 1. It is
	// called inside the weekly rollover transaction.
	IncrementTrophy(ctx context.Context, db *gorm.DB, id snowflake.ID) error
}
