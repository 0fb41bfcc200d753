package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	rankingdomain "github.com/smallbiznis/beerduel/internal/ranking/domain"
)

type leaderboardResponse struct {
	Entries []rankingdomain.Entry `json:"entries"`
}

func (s *Server) GetLeaderboard(c *gin.Context) {
	limit := 0
	if raw := strings.TrimSpace(c.Query("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			AbortWithError(c, newValidationError("limit", "invalid_limit", "limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries, err := s.rankingSvc.Leaderboard(c.Request.Context(), limit)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, leaderboardResponse{Entries: entries})
}
