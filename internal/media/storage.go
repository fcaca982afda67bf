// Package media stores product photos in an object store and hands back
// the (id, url) pairs the catalog embeds in product records.
package media

import (
	"context"
	"io"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
)

// Upload is one photo to store.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// Storage abstracts the object store holding product photos.
type Storage interface {
	// Upload stores each photo and returns its stored identity, in input order.
	Upload(ctx context.Context, uploads []Upload) ([]v1.Photo, error)

	// Delete removes the photos with the given ids. Missing ids are not an error.
	Delete(ctx context.Context, ids []string) error
}
