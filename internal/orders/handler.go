package orders

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	httperr "github.com/shopcore-lab/shopcore/internal/core/errors"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
)

// RegisterRoutes registers order routes. Listing all orders and fulfillment
// mutations are admin only; placement and own-history lookups are not.
func (s *Service) RegisterRoutes(r gin.IRouter, adminOnly gin.HandlerFunc) {
	r.POST("/v1/order/new", s.HandleNewOrder)
	r.GET("/v1/order/my", s.HandleMyOrders)
	r.GET("/v1/order/all", adminOnly, s.HandleAllOrders)

	r.GET("/v1/order/:id", s.HandleGetOrder)
	r.PUT("/v1/order/:id", adminOnly, s.HandleProcessOrder)
	r.DELETE("/v1/order/:id", adminOnly, s.HandleDeleteOrder)
}

// HandleNewOrder handles POST /v1/order/new
func (s *Service) HandleNewOrder(c *gin.Context) {
	var order v1.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid request body",
			Details:   err.Error(),
		})
		return
	}

	placed, err := s.Create(c.Request.Context(), &order)
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Your order has been placed",
		"order":   placed,
	})
}

// HandleMyOrders handles GET /v1/order/my?id=userID
func (s *Service) HandleMyOrders(c *gin.Context) {
	userID := c.Query("id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpValidationError,
			Message:   "Missing user id",
		})
		return
	}

	orders, err := s.My(c.Request.Context(), userID)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// HandleAllOrders handles GET /v1/order/all (admin only)
func (s *Service) HandleAllOrders(c *gin.Context) {
	orders, err := s.All(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
}

// HandleGetOrder handles GET /v1/order/:id
func (s *Service) HandleGetOrder(c *gin.Context) {
	order, err := s.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// HandleProcessOrder handles PUT /v1/order/:id (admin only)
func (s *Service) HandleProcessOrder(c *gin.Context) {
	order, err := s.Process(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order processed",
		"status":  order.Status,
	})
}

// HandleDeleteOrder handles DELETE /v1/order/:id (admin only)
func (s *Service) HandleDeleteOrder(c *gin.Context) {
	if err := s.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Order deleted"})
}

func (s *Service) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, httperr.ErrValidation):
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpValidationError,
			Message:   "Invalid request",
			Details:   err.Error(),
		})
	case errors.Is(err, httperr.ErrNotFound):
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpNotFoundError,
			Message:   "Order not found",
			Details:   err.Error(),
		})
	default:
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Internal error",
			Details:   err.Error(),
		})
	}
}
