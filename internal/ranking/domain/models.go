package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Entry is one leaderboard row, the ranking view over a catalog item.
type Entry struct {
	Rank           int          `json:"rank"`
	ItemID         snowflake.ID `json:"item_id"`
	Name           string       `json:"name"`
	AverageRating  float64      `json:"average_rating"`
	Votes          int64        `json:"votes"`
	Favorites      int64        `json:"favorites"`
	Comments       int64        `json:"comments"`
	Trophies       int64        `json:"trophies"`
	LastActivityAt time.Time    `json:"last_activity_at"`
}
