package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/beerduel/internal/clock"
)

type VoteStatus string

const (
	VoteStatusVoted        VoteStatus = "voted"
	VoteStatusAlreadyVoted VoteStatus = "already_voted_today"
	VoteStatusNoBattle     VoteStatus = "no_battle_today"
	VoteStatusInvalidItem  VoteStatus = "invalid_item"
)

type CastVoteRequest struct {
	UserID string
	ItemID string
}

// VoteResult is the full outcome of a vote attempt. AlreadyVotedToday is a
// normal outcome, not an error: ItemID then carries the item the user chose
// earlier so callers can show "you already picked X".
type VoteResult struct {
	Status VoteStatus `json:"status"`
	ItemID string     `json:"item_id,omitempty"`
	Battle *Battle    `json:"battle,omitempty"`
}

type Service interface {
	// GetOrCreateToday returns today's battle, creating it on first call of
	// the day. Safe under concurrent callers; retries return the same battle.
	GetOrCreateToday(ctx context.Context) (*Battle, error)
	// GetToday returns today's battle without creating one.
	GetToday(ctx context.Context) (*Battle, error)
	CastVote(ctx context.Context, req CastVoteRequest) (VoteResult, error)
	// CloseBattle is idempotent; closing a closed battle is a no-op.
	CloseBattle(ctx context.Context, date clock.Date) error
	GetByDate(ctx context.Context, date clock.Date) (*Battle, error)
}

var (
	ErrInsufficientCandidates = errors.New("insufficient_candidates")
	ErrBattleCreationFailed   = errors.New("battle_creation_failed")
	ErrInvalidUser            = errors.New("invalid_user")
	ErrInvalidDate            = errors.New("invalid_date")

	// ErrBattleClosed aborts the vote transaction when the counter update
	// finds the battle no longer active, rolling back the vote insert.
	ErrBattleClosed = errors.New("battle_closed")
)
