package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	battledomain "github.com/smallbiznis/beerduel/internal/battle/domain"
	"github.com/smallbiznis/beerduel/internal/clock"
	"github.com/smallbiznis/beerduel/internal/usercontext"
)

type battleResponse struct {
	Battle *battledomain.Battle `json:"battle"`
	Status string               `json:"status"`
}

// GetTodayBattle returns today's matchup, creating it on the first request of
// the day. A catalog with fewer than two active items degrades to a
// no_battle_today body instead of an error.
func (s *Server) GetTodayBattle(c *gin.Context) {
	battle, err := s.battleSvc.GetOrCreateToday(c.Request.Context())
	if err != nil {
		if errors.Is(err, battledomain.ErrInsufficientCandidates) {
			c.JSON(http.StatusOK, battleResponse{Status: string(battledomain.VoteStatusNoBattle)})
			return
		}
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, battleResponse{Battle: battle, Status: "ok"})
}

func (s *Server) GetBattleByDate(c *gin.Context) {
	date := clock.Date(strings.TrimSpace(c.Param("date")))

	battle, err := s.battleSvc.GetByDate(c.Request.Context(), date)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if battle == nil {
		AbortWithError(c, ErrNotFound)
		return
	}

	c.JSON(http.StatusOK, battleResponse{Battle: battle, Status: "ok"})
}

type castVoteRequest struct {
	UserID string `json:"user_id"`
	ItemID string `json:"item_id"`
}

// CastVote records the caller's single daily vote. Duplicate votes and a
// missing battle come back as 200 with an explanatory status; only an item
// outside today's pairing is a request error.
func (s *Server) CastVote(c *gin.Context) {
	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, newValidationError("request", "invalid_request", "invalid request body"))
		return
	}

	userID := resolveUserID(c, req.UserID)
	if userID == "" {
		AbortWithError(c, battledomain.ErrInvalidUser)
		return
	}

	result, err := s.battleSvc.CastVote(c.Request.Context(), battledomain.CastVoteRequest{
		UserID: userID,
		ItemID: req.ItemID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if result.Status == battledomain.VoteStatusInvalidItem {
		c.JSON(http.StatusBadRequest, result)
		return
	}
	c.JSON(http.StatusOK, result)
}

// VoteRateLimit shapes per-user vote traffic. Redis being down fails open:
// the unique vote constraint still holds the line.
func (s *Server) VoteRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !s.limiter.Enabled() {
			c.Next()
			return
		}

		userID := strings.TrimSpace(c.GetHeader("X-User-Id"))
		if userID == "" {
			c.Next()
			return
		}

		allowed, err := s.limiter.AllowVote(c.Request.Context(), userID)
		if err != nil {
			c.Next()
			return
		}
		if !allowed {
			AbortWithError(c, ErrTooManyRequests)
			return
		}
		c.Next()
	}
}

// resolveUserID prefers the authenticated identity, then the X-User-Id
// header, then the request body.
func resolveUserID(c *gin.Context, bodyUserID string) string {
	if id, ok := usercontext.UserIDFromContext(c.Request.Context()); ok {
		return id.String()
	}
	if header := strings.TrimSpace(c.GetHeader("X-User-Id")); header != "" {
		return header
	}
	return strings.TrimSpace(bodyUserID)
}
