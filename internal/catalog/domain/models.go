package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Item is a catalog entry. Display attributes and lifecycle belong to the
// catalog collaborator; the aggregate counters below are what the battle and
// ranking engine reads, and Trophies is the one counter it owns.
type Item struct {
	ID       snowflake.ID      `gorm:"primaryKey" json:"id"`
	Name     string            `gorm:"not null" json:"name"`
	Active   bool              `gorm:"not null;default:true;index" json:"active"`
	Metadata datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`

	// Aggregates. AverageRating stays within [0,5]; the counters are
	// non-negative and maintained by the rating/favorite/comment
	// collaborators, except Trophies which only the weekly award rollover
	// increments.
	AverageRating float64 `gorm:"not null;default:0" json:"average_rating"`
	Votes         int64   `gorm:"not null;default:0" json:"votes"`
	Favorites     int64   `gorm:"not null;default:0" json:"favorites"`
	Comments      int64   `gorm:"not null;default:0" json:"comments"`
	Trophies      int64   `gorm:"not null;default:0" json:"trophies"`

	CreatedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	LastActivityAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"last_activity_at"`
}
