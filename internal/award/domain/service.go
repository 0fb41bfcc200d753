package domain

import (
	"context"
	"errors"
)

type Service interface {
	// RolloverIfWeekClosed settles the previous ISO week. It returns the
	// freshly created award, or nil when the week is already settled or had
	// no votes. Cheap and idempotent, safe to call on every boundary check.
	RolloverIfWeekClosed(ctx context.Context) (*WeeklyAward, error)
	GetByWeek(ctx context.Context, week string) (WeeklyAward, error)
}

var (
	ErrInvalidWeek = errors.New("invalid_week")
	ErrNotFound    = errors.New("not_found")
)
