package utils

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ahmadqo/campus-console/internal/config"
)

// StorageService archives exported documents in a MinIO bucket.
type StorageService struct {
	client   *minio.Client
	bucket   string
	endpoint string
}

const MaxArchiveSize = 20 * 1024 * 1024

func NewStorageService(ctx context.Context, cfg *config.MinIOConfig) (*StorageService, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.User, cfg.Password, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	scheme := "http"
	if cfg.UseSSL {
		scheme = "https"
	}

	return &StorageService{
		client:   client,
		bucket:   cfg.Bucket,
		endpoint: fmt.Sprintf("%s://%s", scheme, cfg.Endpoint),
	}, nil
}

// ArchiveName builds "<folder>/<yyyymmdd>/<name>-<8 hex>.<ext>" with name
// made path safe.
func ArchiveName(folder, name, ext string, now time.Time) string {
	name = strings.NewReplacer(" ", "-", "/", "-", "\\", "-").Replace(strings.TrimSpace(name))
	if name == "" {
		name = "document"
	}
	return fmt.Sprintf("%s/%s/%s-%s.%s",
		strings.Trim(folder, "/"),
		now.Format("20060102"),
		name,
		uuid.New().String()[:8],
		strings.TrimPrefix(ext, "."),
	)
}

// Archive stores data and returns its object URL.
func (s *StorageService) Archive(ctx context.Context, folder, name string, data []byte, contentType string) (string, error) {
	if len(data) > MaxArchiveSize {
		return "", fmt.Errorf("archive %s: %d bytes exceeds limit", name, len(data))
	}

	ext := "bin"
	if contentType == "application/pdf" {
		ext = "pdf"
	}
	objectName := ArchiveName(folder, name, ext, time.Now())

	_, err := s.client.PutObject(ctx, s.bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to archive %s: %w", objectName, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, objectName), nil
}

