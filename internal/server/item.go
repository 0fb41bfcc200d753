package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	catalogdomain "github.com/smallbiznis/beerduel/internal/catalog/domain"
)

func (s *Server) ListItems(c *gin.Context) {
	items, err := s.catalogSvc.ListActive(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, items)
}

type itemResponse struct {
	Item catalogdomain.Item `json:"item"`
}

func (s *Server) GetItemByID(c *gin.Context) {
	item, err := s.catalogSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, itemResponse{Item: item})
}
