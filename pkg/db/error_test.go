package db

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	assert.False(t, IsDuplicateKeyErr(nil))
	assert.False(t, IsDuplicateKeyErr(errors.New("connection refused")))

	assert.True(t, IsDuplicateKeyErr(gorm.ErrDuplicatedKey))
	assert.True(t, IsDuplicateKeyErr(errors.New(`pq: duplicate key value violates unique constraint "battles_battle_date_key"`)))
	assert.True(t, IsDuplicateKeyErr(errors.New("Error 1062: Duplicate entry '2025-03-10' for key 'battles.battle_date'")))
	assert.True(t, IsDuplicateKeyErr(errors.New("UNIQUE constraint failed: daily_votes.user_id, daily_votes.vote_date")))
}
