package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/beerduel/internal/clock"
)

// WeeklyAward records the item that collected the most votes in one ISO week.
// The unique week column makes the rollover idempotent: settling an already
// settled week is a no-op, never a second trophy.
type WeeklyAward struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	Week       clock.WeekID `gorm:"uniqueIndex;not null" json:"week"`
	ItemID     snowflake.ID `gorm:"not null" json:"item_id"`
	TotalVotes int64        `gorm:"not null" json:"total_votes"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}
