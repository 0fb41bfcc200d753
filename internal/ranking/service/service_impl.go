package service

import (
	"context"
	"sort"

	catalogdomain "github.com/smallbiznis/beerduel/internal/catalog/domain"
	"github.com/smallbiznis/beerduel/internal/config"
	"github.com/smallbiznis/beerduel/internal/ranking/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB          *gorm.DB
	Log         *zap.Logger
	CatalogRepo catalogdomain.Repository
	Engine      *config.EngineConfigHolder
}

type Service struct {
	db          *gorm.DB
	log         *zap.Logger
	catalogRepo catalogdomain.Repository
	engine      *config.EngineConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:          p.DB,
		log:         p.Log.Named("ranking.service"),
		catalogRepo: p.CatalogRepo,
		engine:      p.Engine,
	}
}

func (s *Service) Leaderboard(ctx context.Context, limit int) ([]domain.Entry, error) {
	maxLimit := s.engine.Get().LeaderboardMaxLimit
	if limit <= 0 || limit > maxLimit {
		limit = maxLimit
	}

	items, err := s.catalogRepo.ListActive(ctx, s.db)
	if err != nil {
		return nil, err
	}

	SortItems(items)

	if len(items) > limit {
		items = items[:limit]
	}

	entries := make([]domain.Entry, 0, len(items))
	for i, item := range items {
		entries = append(entries, domain.Entry{
			Rank:           i + 1,
			ItemID:         item.ID,
			Name:           item.Name,
			AverageRating:  item.AverageRating,
			Votes:          item.Votes,
			Favorites:      item.Favorites,
			Comments:       item.Comments,
			Trophies:       item.Trophies,
			LastActivityAt: item.LastActivityAt,
		})
	}
	return entries, nil
}

// SortItems orders items best first: rating, then votes, favorites, comments,
// most recent activity, and finally item id so equal items always land in the
// same order.
func SortItems(items []catalogdomain.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.AverageRating != b.AverageRating {
			return a.AverageRating > b.AverageRating
		}
		if a.Votes != b.Votes {
			return a.Votes > b.Votes
		}
		if a.Favorites != b.Favorites {
			return a.Favorites > b.Favorites
		}
		if a.Comments != b.Comments {
			return a.Comments > b.Comments
		}
		if !a.LastActivityAt.Equal(b.LastActivityAt) {
			return a.LastActivityAt.After(b.LastActivityAt)
		}
		return a.ID < b.ID
	})
}
