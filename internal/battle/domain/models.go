package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/beerduel/internal/clock"
)

type BattleStatus string

const (
	BattleStatusActive BattleStatus = "active"
	BattleStatusClosed BattleStatus = "closed"
)

// Side identifies which half of a battle a vote lands on.
type Side string

const (
	SideA Side = "a"
	SideB Side = "b"
)

// Battle is the single head-to-head pairing for one calendar day. The
// battle_date unique index is what makes concurrent first-request creation
// races safe; rows are never deleted so weekly aggregation can replay them.
type Battle struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	BattleDate clock.Date   `gorm:"column:battle_date;uniqueIndex;not null" json:"battle_date"`
	ItemAID    snowflake.ID `gorm:"column:item_a_id;not null" json:"item_a_id"`
	ItemBID    snowflake.ID `gorm:"column:item_b_id;not null" json:"item_b_id"`
	VotesA     int64        `gorm:"not null;default:0" json:"votes_a"`
	VotesB     int64        `gorm:"not null;default:0" json:"votes_b"`
	Status     BattleStatus `gorm:"not null;default:'active'" json:"status"`
	DayOfWeek  string       `gorm:"not null" json:"day_of_week"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// SideOf returns which side itemID sits on, or "" if it is not part of the
// battle.
func (b *Battle) SideOf(itemID snowflake.ID) Side {
	switch itemID {
	case b.ItemAID:
		return SideA
	case b.ItemBID:
		return SideB
	default:
		return ""
	}
}

// DailyVote is the immutable record of one user's single vote for one day.
// The (user_id, vote_date) unique index enforces one-vote-per-user-per-day
// transactionally; rows are never updated or deleted.
type DailyVote struct {
	ID       snowflake.ID `gorm:"primaryKey" json:"id"`
	UserID   snowflake.ID `gorm:"not null;uniqueIndex:ux_daily_votes_user_date" json:"user_id"`
	VoteDate clock.Date   `gorm:"column:vote_date;not null;uniqueIndex:ux_daily_votes_user_date" json:"vote_date"`
	ItemID   snowflake.ID `gorm:"not null" json:"item_id"`
	BattleID snowflake.ID `gorm:"not null;index" json:"battle_id"`

	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Pair is an unordered item pairing used for repetition avoidance.
type Pair struct {
	A snowflake.ID
	B snowflake.ID
}
