package media

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	v1 "github.com/shopcore-lab/shopcore/internal/api/v1"
)

// S3Storage stores photos as objects under products/ in one bucket.
// The object key doubles as the photo id so deletion needs no lookup.
type S3Storage struct {
	client    *s3.Client
	bucket    string
	urlPrefix string
}

// NewS3Storage builds a Storage backed by the given bucket. Credentials come
// from the default AWS chain (env, shared config, instance role).
func NewS3Storage(ctx context.Context, bucket, region, urlPrefix string) (*S3Storage, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	if urlPrefix == "" {
		urlPrefix = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	return &S3Storage{
		client:    s3.NewFromConfig(awsCfg),
		bucket:    bucket,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}, nil
}

func (s *S3Storage) Upload(ctx context.Context, uploads []Upload) ([]v1.Photo, error) {
	photos := make([]v1.Photo, 0, len(uploads))
	for _, up := range uploads {
		key := "products/" + uuid.NewString() + path.Ext(up.Filename)

		_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.bucket),
			Key:         aws.String(key),
			Body:        up.Body,
			ContentType: aws.String(up.ContentType),
		})
		if err != nil {
			// Orphans from earlier iterations are cleaned up so a half-failed
			// upload leaves no unreferenced objects behind.
			if len(photos) > 0 {
				ids := make([]string, len(photos))
				for i, p := range photos {
					ids[i] = p.ID
				}
				if delErr := s.Delete(ctx, ids); delErr != nil {
					slog.Warn("[Media] Failed to clean up partial upload", "error", delErr)
				}
			}
			return nil, fmt.Errorf("failed to upload %q: %w", up.Filename, err)
		}

		photos = append(photos, v1.Photo{
			ID:  key,
			URL: s.urlPrefix + "/" + key,
		})
	}
	return photos, nil
}

func (s *S3Storage) Delete(ctx context.Context, ids []string) error {
	for _, id := range ids {
		_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(id),
		})
		if err != nil {
			return fmt.Errorf("failed to delete %q: %w", id, err)
		}
	}
	return nil
}
