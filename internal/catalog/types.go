package catalog

import (
	"github.com/shopspring/decimal"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
	"github.com/shopcore-lab/shopcore/internal/media"
)

// NewProductInput is the payload of a product creation.
type NewProductInput struct {
	Name        string
	Price       decimal.Decimal
	Stock       int64
	Category    string
	Description string
	Photos      []media.Upload
}

// UpdateProductInput patches a product; empty fields are left unchanged.
// A non-empty Photos slice replaces the stored photo set.
type UpdateProductInput struct {
	Name        string
	Price       decimal.Decimal
	Stock       *int64
	Category    string
	Description string
	Photos      []media.Upload
}

// ListingQuery carries the raw search parameters. The zero-value strings are
// part of the cache key, so "" and an absent parameter are the same listing.
type ListingQuery struct {
	Search   string
	Sort     string
	Category string
	Price    string
	Page     int
}

// ListingResult is the cached value of one listing page.
type ListingResult struct {
	Products  []*v1.Product `json:"products"`
	TotalPage int64         `json:"totalPage"`
}

// ReviewInput is the payload of a review submission.
type ReviewInput struct {
	Comment string `json:"comment"`
	Rating  int64  `json:"rating"`
}
