package media

import (
	"context"
	"errors"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
)

// ErrNotConfigured is returned when no object store bucket is configured.
var ErrNotConfigured = errors.New("media storage not configured")

// Disabled is the Storage used when no bucket is configured: uploads fail,
// deletes are no-ops so product deletion still works.
type Disabled struct{}

func (Disabled) Upload(context.Context, []Upload) ([]v1.Photo, error) {
	return nil, ErrNotConfigured
}

func (Disabled) Delete(context.Context, []string) error {
	return nil
}
