package s3

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/shaymaabd/AMPA/internal/app/config"
	"github.com/shaymaabd/AMPA/internal/platform/logger"
	"github.com/shaymaabd/AMPA/internal/repository"
)

type Archive struct {
	client *minio.Client
	bucket string
	log    logger.Logger
}

var _ repository.DocumentArchive = (*Archive)(nil)

// NewArchive connects to the object store and makes sure the bucket exists.
func NewArchive(ctx context.Context, cfg config.S3Config, log logger.Logger) (*Archive, error) {
	log.Infof("Initializing document archive at %s, bucket %s (ssl=%t)", cfg.Endpoint, cfg.Bucket, cfg.UseSSL)

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to make bucket %s: %w", cfg.Bucket, err)
		}
		log.Infof("Created bucket %s", cfg.Bucket)
	}

	return &Archive{client: client, bucket: cfg.Bucket, log: log}, nil
}

// Upload stores data under objectName and returns its URL.
func (a *Archive) Upload(ctx context.Context, objectName string, data []byte, contentType string) (string, error) {
	info, err := a.client.PutObject(ctx, a.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", objectName, a.bucket, err)
	}
	a.log.Debugf("Archived %s/%s (%d bytes, etag %s)", info.Bucket, info.Key, info.Size, info.ETag)

	return fmt.Sprintf("%s/%s/%s", a.client.EndpointURL().String(), a.bucket, objectName), nil
}
