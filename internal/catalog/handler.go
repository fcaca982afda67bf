package catalog

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	httperr "github.com/shopcore-lab/shopcore/internal/core/errors"
	"github.com/shopcore-lab/shopcore/internal/media"
)

// RegisterRoutes registers catalog and review routes.
func (s *Service) RegisterRoutes(r gin.IRouter, adminOnly gin.HandlerFunc) {
	r.POST("/v1/product/new", adminOnly, s.HandleNewProduct)
	r.GET("/v1/product/all", s.HandleSearch)
	r.GET("/v1/product/categories", s.HandleCategories)
	r.GET("/v1/product/latest", s.HandleLatest)
	r.GET("/v1/product/admin-products", adminOnly, s.HandleAdminProducts)

	r.GET("/v1/product/reviews/:id", s.HandleReviews)
	r.POST("/v1/product/review/new/:id", s.HandleNewReview)
	r.DELETE("/v1/product/review/:id", s.HandleDeleteReview)

	r.GET("/v1/product/:id", s.HandleGetProduct)
	r.PUT("/v1/product/:id", adminOnly, s.HandleUpdateProduct)
	r.DELETE("/v1/product/:id", adminOnly, s.HandleDeleteProduct)
}

// HandleNewProduct handles POST /v1/product/new (admin only, multipart)
func (s *Service) HandleNewProduct(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid multipart form",
			Details:   err.Error(),
		})
		return
	}

	price, _ := decimal.NewFromString(c.PostForm("price"))
	stock, _ := strconv.ParseInt(c.PostForm("stock"), 10, 64)

	uploads, closeFiles, err := openUploads(form.File["photos"])
	if err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpValidationError,
			Message:   "Failed to read uploaded photos",
			Details:   err.Error(),
		})
		return
	}
	defer closeFiles()

	product, err := s.Create(c.Request.Context(), NewProductInput{
		Name:        c.PostForm("name"),
		Price:       price,
		Stock:       stock,
		Category:    c.PostForm("category"),
		Description: c.PostForm("description"),
		Photos:      uploads,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Product created",
		"product": product,
	})
}

// HandleSearch handles GET /v1/product/all with search/sort/category/price/page
func (s *Service) HandleSearch(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))

	result, err := s.Search(c.Request.Context(), ListingQuery{
		Search:   c.Query("search"),
		Sort:     c.Query("sort"),
		Category: c.Query("category"),
		Price:    c.Query("price"),
		Page:     page,
	})
	if err != nil {
		s.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"products":  result.Products,
		"totalPage": result.TotalPage,
	})
}

// HandleCategories handles GET /v1/product/categories
func (s *Service) HandleCategories(c *gin.Context) {
	categories, err := s.Categories(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "categories": categories})
}

// HandleLatest handles GET /v1/product/latest
func (s *Service) HandleLatest(c *gin.Context) {
	products, err := s.Latest(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

// HandleAdminProducts handles GET /v1/product/admin-products (admin only)
func (s *Service) HandleAdminProducts(c *gin.Context) {
	products, err := s.AdminList(c.Request.Context())
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
}

// HandleGetProduct handles GET /v1/product/:id
func (s *Service) HandleGetProduct(c *gin.Context) {
	product, err := s.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}

// HandleUpdateProduct handles PUT /v1/product/:id (admin only, multipart)
func (s *Service) HandleUpdateProduct(c *gin.Context) {
	input := UpdateProductInput{
		Name:        c.PostForm("name"),
		Category:    c.PostForm("category"),
		Description: c.PostForm("description"),
	}
	if v := c.PostForm("price"); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpValidationError,
				Message:   "Invalid price",
				Details:   err.Error(),
			})
			return
		}
		input.Price = price
	}
	if v := c.PostForm("stock"); v != "" {
		stock, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpValidationError,
				Message:   "Invalid stock",
				Details:   err.Error(),
			})
			return
		}
		input.Stock = &stock
	}

	if form, err := c.MultipartForm(); err == nil {
		uploads, closeFiles, err := openUploads(form.File["photos"])
		if err != nil {
			c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
				ErrorType: httperr.HttpValidationError,
				Message:   "Failed to read uploaded photos",
				Details:   err.Error(),
			})
			return
		}
		defer closeFiles()
		input.Photos = uploads
	}

	product, err := s.Update(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product updated",
		"product": product,
	})
}

// HandleDeleteProduct handles DELETE /v1/product/:id (admin only)
func (s *Service) HandleDeleteProduct(c *gin.Context) {
	if err := s.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Product deleted"})
}

// HandleReviews handles GET /v1/product/reviews/:id
func (s *Service) HandleReviews(c *gin.Context) {
	reviews, err := s.Reviews(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "reviews": reviews})
}

// HandleNewReview handles POST /v1/product/review/new/:id where :id is the
// product. The caller identifies itself with the ?id= query parameter.
func (s *Service) HandleNewReview(c *gin.Context) {
	var input ReviewInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, httperr.ErrorResponse{
			ErrorType: httperr.HttpInvalidJsonError,
			Message:   "Invalid request body",
			Details:   err.Error(),
		})
		return
	}

	created, err := s.UpsertReview(c.Request.Context(), c.Query("id"), c.Param("id"), input)
	if err != nil {
		s.renderError(c, err)
		return
	}

	status := http.StatusOK
	message := "Review updated"
	if created {
		status = http.StatusCreated
		message = "Review added"
	}
	c.JSON(status, gin.H{"success": true, "message": message})
}

// HandleDeleteReview handles DELETE /v1/product/review/:id where :id is the
// review. Only the review's author may delete it.
func (s *Service) HandleDeleteReview(c *gin.Context) {
	if err := s.DeleteReview(c.Request.Context(), c.Query("id"), c.Param("id")); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Review deleted"})
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
			Message:   "Not found",
			Details:   err.Error(),
		})
	case errors.Is(err, httperr.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, httperr.ErrorResponse{
			ErrorType: httperr.HttpUnauthorizedError,
			Message:   "Not authorized",
			Details:   err.Error(),
		})
	case errors.Is(err, httperr.ErrUpstream):
		c.JSON(http.StatusBadGateway, httperr.ErrorResponse{
			ErrorType: httperr.HttpUpstreamError,
			Message:   "Upstream dependency failed",
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

func openUploads(files []*multipart.FileHeader) ([]media.Upload, func(), error) {
	uploads := make([]media.Upload, 0, len(files))
	var opened []multipart.File

	closeFiles := func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for _, header := range files {
		f, err := header.Open()
		if err != nil {
			closeFiles()
			return nil, nil, err
		}
		opened = append(opened, f)
		uploads = append(uploads, media.Upload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Body:        f,
		})
	}
	return uploads, closeFiles, nil
}
