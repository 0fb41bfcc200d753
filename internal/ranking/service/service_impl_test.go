package service

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	catalogdomain "github.com/smallbiznis/beerduel/internal/catalog/domain"
	catalogrepo "github.com/smallbiznis/beerduel/internal/catalog/repository"
	"github.com/smallbiznis/beerduel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var activityBase = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, items []catalogdomain.Item) *Service {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalogdomain.Item{}))

	for i := range items {
		if items[i].Metadata == nil {
			items[i].Metadata = datatypes.JSONMap{}
		}
		if items[i].LastActivityAt.IsZero() {
			items[i].LastActivityAt = activityBase
		}
		items[i].Active = true
		require.NoError(t, db.Create(&items[i]).Error)
	}

	return New(Params{
		DB:          db,
		Log:         zap.NewNop(),
		CatalogRepo: catalogrepo.Provide(),
		Engine:      config.NewStaticEngineConfigHolder(config.DefaultEngineConfig()),
	}).(*Service)
}

func TestLeaderboard_Ordering(t *testing.T) {
	svc := newTestService(t, []catalogdomain.Item{
		{ID: 1, Name: "low rating", AverageRating: 3.2, Votes: 900},
		{ID: 2, Name: "top rating", AverageRating: 4.8, Votes: 10},
		{ID: 3, Name: "rating tie, more votes", AverageRating: 4.8, Votes: 50},
		{ID: 4, Name: "votes tie, more favorites", AverageRating: 4.8, Votes: 50, Favorites: 7},
		{ID: 5, Name: "favorites tie, more comments", AverageRating: 4.8, Votes: 50, Favorites: 7, Comments: 3},
		{ID: 6, Name: "comments tie, fresher", AverageRating: 4.8, Votes: 50, Favorites: 7, Comments: 3,
			LastActivityAt: activityBase.Add(time.Hour)},
	})

	entries, err := svc.Leaderboard(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 6)

	ids := make([]snowflake.ID, len(entries))
	for i, e := range entries {
		ids[i] = e.ItemID
		assert.Equal(t, i+1, e.Rank)
	}
	assert.Equal(t, []snowflake.ID{6, 5, 4, 3, 2, 1}, ids)
}

func TestLeaderboard_EqualItemsOrderByID(t *testing.T) {
	svc := newTestService(t, []catalogdomain.Item{
		{ID: 30, Name: "c", AverageRating: 4.0, Votes: 5},
		{ID: 10, Name: "a", AverageRating: 4.0, Votes: 5},
		{ID: 20, Name: "b", AverageRating: 4.0, Votes: 5},
	})

	entries, err := svc.Leaderboard(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, snowflake.ID(10), entries[0].ItemID)
	assert.Equal(t, snowflake.ID(20), entries[1].ItemID)
	assert.Equal(t, snowflake.ID(30), entries[2].ItemID)
}

func TestLeaderboard_Limit(t *testing.T) {
	items := make([]catalogdomain.Item, 10)
	for i := range items {
		items[i] = catalogdomain.Item{
			ID:            snowflake.ID(i + 1),
			Name:          fmt.Sprintf("item-%d", i+1),
			AverageRating: float64(i),
		}
	}
	svc := newTestService(t, items)

	entries, err := svc.Leaderboard(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, snowflake.ID(10), entries[0].ItemID)

	// Over the cap falls back to the configured maximum.
	entries, err = svc.Leaderboard(context.Background(), 100000)
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}

func TestLeaderboard_ZeroStatsItems(t *testing.T) {
	svc := newTestService(t, []catalogdomain.Item{
		{ID: 1, Name: "untouched"},
		{ID: 2, Name: "rated", AverageRating: 1.5},
	})

	entries, err := svc.Leaderboard(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, snowflake.ID(2), entries[0].ItemID)
	assert.Equal(t, snowflake.ID(1), entries[1].ItemID)
}

func TestSortItems_PermutationStable(t *testing.T) {
	base := []catalogdomain.Item{
		{ID: 1, AverageRating: 4.5, Votes: 10, LastActivityAt: activityBase},
		{ID: 2, AverageRating: 4.5, Votes: 10, LastActivityAt: activityBase},
		{ID: 3, AverageRating: 4.5, Votes: 3, LastActivityAt: activityBase},
		{ID: 4, AverageRating: 2.0, Votes: 99, LastActivityAt: activityBase},
		{ID: 5, AverageRating: 4.5, Votes: 10, Favorites: 1, LastActivityAt: activityBase},
	}

	SortItems(base)
	want := make([]snowflake.ID, len(base))
	for i, item := range base {
		want[i] = item.ID
	}

	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		shuffled := make([]catalogdomain.Item, len(base))
		copy(shuffled, base)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		SortItems(shuffled)
		for i, item := range shuffled {
			assert.Equal(t, want[i], item.ID, "trial %d position %d", trial, i)
		}
	}
}
