package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"xplore/pkg/logger"
	"xplore/pkg/utils"
)

type GCSStore struct {
	client *gcs.Client
	bucket string
	cdn    string
	log    *logger.Logger
}

func NewGCSStore(ctx context.Context, bucket, cdnDomain string, log *logger.Logger) (*GCSStore, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, fmt.Errorf("missing env var GCS_BUCKET")
	}
	opts := append(utils.GCPClientOptions(), option.WithScopes(gcs.ScopeReadWrite))
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &GCSStore{
		client: client,
		bucket: bucket,
		cdn:    strings.TrimRight(cdnDomain, "/"),
		log:    log.With("service", "storage.GCS"),
	}, nil
}

func (s *GCSStore) Put(ctx context.Context, key, contentType string, data []byte) error {
	if err := validKey(key); err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (s *GCSStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil && !errors.Is(err, gcs.ErrObjectNotExist) {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, s.bucket, err)
	}
	return nil
}

func (s *GCSStore) PublicURL(key string) string {
	if s.cdn != "" {
		if strings.HasPrefix(s.cdn, "http://") || strings.HasPrefix(s.cdn, "https://") {
			return s.cdn + "/" + key
		}
		return fmt.Sprintf("https://%s/%s", s.cdn, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, key)
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}
