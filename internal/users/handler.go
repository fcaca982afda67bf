package users

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	httperr "github.com/shopcore-lab/shopcore/internal/core/errors"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
)

// RegisterRoutes registers all account API routes on the given router.
func (s *Service) RegisterRoutes(r gin.IRouter) {
	r.POST("/v1/user/new", s.HandleSignup)
	r.GET("/v1/user/all", s.AdminOnly(), s.HandleListUsers)
	r.GET("/v1/user/:id", s.HandleGetUser)
	r.DELETE("/v1/user/:id", s.AdminOnly(), s.HandleDeleteUser)
}

// HandleSignup handles POST /v1/user/new
func (s *Service) HandleSignup(c *gin.Context) {
	var user v1.User
	if err := c.ShouldBindJSON(&user); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid request body",
			Details:   err.Error(),
		})
		return
	}

	created, err := s.Signup(c.Request.Context(), &user)
	if err != nil {
		if errors.Is(err, httperr.ErrValidation) {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpValidationError,
				Message:   "Invalid signup payload",
				Details:   err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to register user",
			Details:   err.Error(),
		})
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"success": true,
		"message": fmt.Sprintf("Welcome %s", user.Name),
	})
}

// HandleListUsers handles GET /v1/user/all (admin only)
func (s *Service) HandleListUsers(c *gin.Context) {
	users, err := s.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to list users",
			Details:   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "users": users})
}

// HandleGetUser handles GET /v1/user/:id
func (s *Service) HandleGetUser(c *gin.Context) {
	user, err := s.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, httperr.ErrNotFound) {
			c.JSON(http.StatusNotFound, httperr.ErrorResponse{
				ErrorType: httperr.HttpNotFoundError,
				Message:   "User not found",
				Details:   err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to get user",
			Details:   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// HandleDeleteUser handles DELETE /v1/user/:id (admin only)
func (s *Service) HandleDeleteUser(c *gin.Context) {
	if err := s.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, httperr.ErrNotFound) {
			c.JSON(http.StatusNotFound, httperr.ErrorResponse{
				ErrorType: httperr.HttpNotFoundError,
				Message:   "User not found",
				Details:   err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to delete user",
			Details:   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "User deleted"})
}
