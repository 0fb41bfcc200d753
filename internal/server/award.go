package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	awarddomain "github.com/smallbiznis/beerduel/internal/award/domain"
)

type awardResponse struct {
	Award awarddomain.WeeklyAward `json:"award"`
}

func (s *Server) GetAwardByWeek(c *gin.Context) {
	award, err := s.awardSvc.GetByWeek(c.Request.Context(), c.Param("week"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, awardResponse{Award: award})
}

// GetCurrentAward returns the most recently settled week's award.
func (s *Server) GetCurrentAward(c *gin.Context) {
	week := s.cycle.PreviousWeek()

	award, err := s.awardSvc.GetByWeek(c.Request.Context(), string(week))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, awardResponse{Award: award})
}
