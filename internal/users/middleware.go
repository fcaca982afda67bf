package users

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	httperr "github.com/shopcore-lab/shopcore/internal/core/errors"
)

// AdminOnly rejects requests whose ?id= query parameter does not resolve to
// an admin account. Identity comes from the external auth provider; this
// layer only checks the stored role.
func (s *Service) AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.Authorize(c.Request.Context(), c.Query("id"))
		if err != nil {
			if errors.Is(err, httperr.ErrUnauthorized) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, httperr.ErrorResponse{
					ErrorType: httperr.HttpUnauthorizedError,
					Message:   "You are not authorized to use this route",
					Details:   err.Error(),
				})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, httperr.ErrorResponse{
				ErrorType: httperr.HttpInternalError,
				Message:   "Failed to authorize request",
				Details:   err.Error(),
			})
			return
		}

		c.Set("admin_user_id", user.ID)
		c.Next()
	}
}
