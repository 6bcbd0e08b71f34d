// Package storage keeps uploaded images in an S3-compatible object store.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/snackparty/catering-api/internal/config"
)

// KeyPrefix groups every uploaded object under one folder.
const KeyPrefix = "snack-party"

var (
	ErrNotImage       = errors.New("solo se permiten archivos de imagen")
	ErrFileTooLarge   = errors.New("el archivo excede el tamaño máximo permitido")
	ErrObjectNotFound = errors.New("imagen no encontrada")
)

// UploadInput describes one image to store.
type UploadInput struct {
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// StoredImage is the public handle of an uploaded image.
type StoredImage struct {
	URL      string
	PublicID string
}

// ImageStore uploads and deletes images.
type ImageStore interface {
	Upload(ctx context.Context, in UploadInput) (*StoredImage, error)
	Delete(ctx context.Context, publicID string) error
	MaxFileSize() int64
}

// MinIOImageStore implements ImageStore using MinIO.
type MinIOImageStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	maxSize   int64
}

// NewMinIOImageStore creates the store. It fails when storage is not configured.
func NewMinIOImageStore(cfg config.StorageConfig) (*MinIOImageStore, error) {
	if !cfg.Enabled() {
		return nil, errors.New("object storage is not configured")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	publicURL := strings.TrimRight(cfg.PublicURL, "/")
	if publicURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.Endpoint, cfg.Bucket)
	}

	return &MinIOImageStore{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: publicURL,
		maxSize:   cfg.MaxFileSize(),
	}, nil
}

// EnsureBucket creates the bucket if it doesn't exist.
func (s *MinIOImageStore) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}
	return nil
}

// Upload validates and stores the image under a fresh key.
func (s *MinIOImageStore) Upload(ctx context.Context, in UploadInput) (*StoredImage, error) {
	if err := ValidateImage(in.ContentType, in.Size, s.maxSize); err != nil {
		return nil, err
	}
	key := ObjectKey(in.FileName)
	_, err := s.client.PutObject(ctx, s.bucket, key, in.Body, in.Size, minio.PutObjectOptions{
		ContentType: in.ContentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file %s: %w", key, err)
	}
	return &StoredImage{URL: s.publicURL + "/" + key, PublicID: key}, nil
}

// Delete removes an object, returning ErrObjectNotFound when it is absent.
func (s *MinIOImageStore) Delete(ctx context.Context, publicID string) error {
	if _, err := s.client.StatObject(ctx, s.bucket, publicID, minio.StatObjectOptions{}); err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to stat object %s: %w", publicID, err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", publicID, err)
	}
	return nil
}

// MaxFileSize returns the configured upload limit in bytes.
func (s *MinIOImageStore) MaxFileSize() int64 {
	return s.maxSize
}

// ValidateImage checks the content type and size of an upload.
func ValidateImage(contentType string, size, maxSize int64) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return ErrNotImage
	}
	if maxSize > 0 && size > maxSize {
		return ErrFileTooLarge
	}
	return nil
}

// ObjectKey builds a unique key that keeps the original extension.
func ObjectKey(fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return path.Join(KeyPrefix, uuid.NewString()+ext)
}
