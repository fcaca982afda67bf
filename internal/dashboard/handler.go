package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"

	httperr "github.com/shopcore-lab/shopcore/internal/core/errors"
)

// RegisterRoutes registers the four analytics views, all admin only.
func (s *Service) RegisterRoutes(r gin.IRouter, adminOnly gin.HandlerFunc) {
	r.GET("/v1/dashboard/stats", adminOnly, s.HandleStats)
	r.GET("/v1/dashboard/pie", adminOnly, s.HandlePie)
	r.GET("/v1/dashboard/bar", adminOnly, s.HandleBar)
	r.GET("/v1/dashboard/line", adminOnly, s.HandleLine)
}

// HandleStats handles GET /v1/dashboard/stats
func (s *Service) HandleStats(c *gin.Context) {
	stats, err := s.Stats(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

// HandlePie handles GET /v1/dashboard/pie
func (s *Service) HandlePie(c *gin.Context) {
	charts, err := s.Pie(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "charts": charts})
}

// HandleBar handles GET /v1/dashboard/bar
func (s *Service) HandleBar(c *gin.Context) {
	charts, err := s.Bar(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "charts": charts})
}

// HandleLine handles GET /v1/dashboard/line
func (s *Service) HandleLine(c *gin.Context) {
	charts, err := s.Line(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "charts": charts})
}

func (s *Service) renderError(c *gin.Context, err error) {
	c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
		ErrorType: httperr.HttpInternalError,
		Message:   "Failed to compute dashboard view",
		Details:   err.Error(),
	})
}
