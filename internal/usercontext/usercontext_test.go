package usercontext

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
)

func TestUserIDRoundTrip(t *testing.T) {
	ctx := WithUserID(context.Background(), snowflake.ID(42))
	id, ok := UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, snowflake.ID(42), id)
}

func TestUserIDFromContext_Missing(t *testing.T) {
	_, ok := UserIDFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserIDFromContext(nil)
	assert.False(t, ok)
}

func TestUserIDFromContext_StringValue(t *testing.T) {
	ctx := context.WithValue(context.Background(), UserContextKey{}, " 1234 ")
	id, ok := UserIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, snowflake.ID(1234), id)

	ctx = context.WithValue(context.Background(), UserContextKey{}, "abc")
	_, ok = UserIDFromContext(ctx)
	assert.False(t, ok)
}
