package payments

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	httperr "github.com/shopcore-lab/shopcore/internal/core/errors"
)

// RegisterRoutes registers payment and coupon routes. Coupon management is
// admin only; intent creation and discount lookup serve the checkout flow.
func (s *Service) RegisterRoutes(r gin.IRouter, adminOnly gin.HandlerFunc) {
	r.POST("/v1/payment/create", s.HandleCreateIntent)
	r.GET("/v1/payment/discount", s.HandleApplyDiscount)

	r.POST("/v1/payment/coupon/new", adminOnly, s.HandleNewCoupon)
	r.GET("/v1/payment/coupon/all", adminOnly, s.HandleListCoupons)
	r.GET("/v1/payment/coupon/:id", adminOnly, s.HandleGetCoupon)
	r.PUT("/v1/payment/coupon/:id", adminOnly, s.HandleUpdateCoupon)
	r.DELETE("/v1/payment/coupon/:id", adminOnly, s.HandleDeleteCoupon)
}

// HandleCreateIntent handles POST /v1/payment/create
func (s *Service) HandleCreateIntent(c *gin.Context) {
	var body struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid request body",
			Details:   err.Error(),
		})
		return
	}

	secret, err := s.CreateIntent(c.Request.Context(), body.Amount)
	if err != nil {
		switch {
		case errors.Is(err, httperr.ErrValidation):
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpValidationError,
				Message:   "Please enter a valid amount",
				Details:   err.Error(),
			})
		case errors.Is(err, httperr.ErrUpstream):
			c.JSON(http.StatusBadGateway, httperr.ErrorResponse{
				ErrorType: httperr.HttpUpstreamError,
				Message:   "Payment processor unavailable",
				Details:   err.Error(),
			})
		default:
			c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
				ErrorType: httperr.HttpInternalError,
				Message:   "Failed to create payment intent",
				Details:   err.Error(),
			})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "clientSecret": secret})
}

// HandleApplyDiscount handles GET /v1/payment/discount?coupon=CODE
func (s *Service) HandleApplyDiscount(c *gin.Context) {
	amount, err := s.ApplyDiscount(c.Request.Context(), c.Query("coupon"))
	if err != nil {
		if errors.Is(err, httperr.ErrNotFound) {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpValidationError,
				Message:   "Invalid coupon code",
				Details:   err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to apply discount",
			Details:   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "discount": amount})
}

// HandleNewCoupon handles POST /v1/payment/coupon/new (admin only)
func (s *Service) HandleNewCoupon(c *gin.Context) {
	var body struct {
		Code   string          `json:"coupon"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid request body",
			Details:   err.Error(),
		})
		return
	}

	coupon, err := s.NewCoupon(c.Request.Context(), body.Code, body.Amount)
	if err != nil {
		if errors.Is(err, httperr.ErrValidation) {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpValidationError,
				Message:   "Please enter both coupon and amount",
				Details:   err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to create coupon",
			Details:   err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": fmt.Sprintf("Coupon %s created", coupon.Code),
	})
}

// HandleListCoupons handles GET /v1/payment/coupon/all (admin only)
func (s *Service) HandleListCoupons(c *gin.Context) {
	coupons, err := s.ListCoupons(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
			ErrorType: httperr.HttpInternalError,
			Message:   "Failed to list coupons",
			Details:   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "coupons": coupons})
}

// HandleGetCoupon handles GET /v1/payment/coupon/:id (admin only)
func (s *Service) HandleGetCoupon(c *gin.Context) {
	coupon, err := s.GetCoupon(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderCouponError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "coupon": coupon})
}

// HandleUpdateCoupon handles PUT /v1/payment/coupon/:id (admin only)
func (s *Service) HandleUpdateCoupon(c *gin.Context) {
	var body struct {
		Code   string          `json:"coupon"`
		Amount decimal.Decimal `json:"amount"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid request body",
			Details:   err.Error(),
		})
		return
	}

	if _, err := s.UpdateCoupon(c.Request.Context(), c.Param("id"), body.Code, body.Amount); err != nil {
		s.renderCouponError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Coupon updated"})
}

// HandleDeleteCoupon handles DELETE /v1/payment/coupon/:id (admin only)
func (s *Service) HandleDeleteCoupon(c *gin.Context) {
	if err := s.DeleteCoupon(c.Request.Context(), c.Param("id")); err != nil {
		s.renderCouponError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Coupon deleted"})
}

func (s *Service) renderCouponError(c *gin.Context, err error) {
	if errors.Is(err, httperr.ErrNotFound) {
		c.JSON(http.StatusNotFound, httperr.ErrorResponse{
			ErrorType: httperr.HttpNotFoundError,
			Message:   "Coupon not found",
			Details:   err.Error(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, httperr.ErrorResponse{
		ErrorType: httperr.HttpInternalError,
		Message:   "Coupon operation failed",
		Details:   err.Error(),
	})
}
