package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/snackparty/catering-api/internal/storage"
	apperrors "github.com/snackparty/catering-api/pkg/util/errorutil"
)

const (
	msgNoFile             = "No se proporcionó ningún archivo"
	msgPublicIDRequired   = "public_id es requerido"
	msgImageNotFound      = "Imagen no encontrada"
	msgOnlyImages         = "Solo se permiten archivos de imagen"
	msgFileTooLarge       = "El archivo excede el tamaño máximo de %d MB"
	msgStorageUnavailable = "Almacenamiento de imágenes no configurado"
)

// UploadService stores images for the catalog and the gallery.
type UploadService struct {
	store  storage.ImageStore
	logger *zap.Logger
}

// NewUploadService creates the service. A nil store makes every call return 503.
func NewUploadService(store storage.ImageStore, logger *zap.Logger) *UploadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadService{store: store, logger: logger}
}

// Upload validates and stores one image.
func (s *UploadService) Upload(ctx context.Context, in *storage.UploadInput) (*storage.StoredImage, error) {
	if s.store == nil {
		return nil, apperrors.NewUnavailable(msgStorageUnavailable, nil)
	}
	if in == nil || in.Body == nil {
		return nil, apperrors.NewValidationError(msgNoFile, nil)
	}
	img, err := s.store.Upload(ctx, *in)
	switch {
	case errors.Is(err, storage.ErrNotImage):
		return nil, apperrors.NewValidationError(msgOnlyImages, nil)
	case errors.Is(err, storage.ErrFileTooLarge):
		return nil, apperrors.NewValidationError(fmt.Sprintf(msgFileTooLarge, s.store.MaxFileSize()>>20), nil)
	case err != nil:
		return nil, err
	}
	s.logger.Info("image uploaded", zap.String("public_id", img.PublicID), zap.Int64("size", in.Size))
	return img, nil
}

// Delete removes a stored image.
func (s *UploadService) Delete(ctx context.Context, publicID string) error {
	if s.store == nil {
		return apperrors.NewUnavailable(msgStorageUnavailable, nil)
	}
	id := strings.TrimSpace(publicID)
	if id == "" {
		return apperrors.NewValidationError(msgPublicIDRequired, nil)
	}
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return apperrors.NewNotFound(msgImageNotFound, nil)
		}
		return err
	}
	return nil
}
