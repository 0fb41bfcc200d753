package domain

import "context"

type Service interface {
	// Leaderboard returns the top entries ordered by the ranking criteria.
	// limit <= 0 means the configured maximum.
	Leaderboard(ctx context.Context, limit int) ([]Entry, error)
}
