package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/snackparty/catering-api/internal/api/dto"
	"github.com/snackparty/catering-api/internal/service"
	"github.com/snackparty/catering-api/internal/storage"
)

const uploadField = "imagen"

// UploadHandler stores images for the catalog and the gallery.
type UploadHandler struct {
	service *service.UploadService
}

// NewUploadHandler constructs handler.
func NewUploadHandler(uploadService *service.UploadService) *UploadHandler {
	return &UploadHandler{service: uploadService}
}

// Upload POST /upload/image. A missing file part is reported by the service.
func (h *UploadHandler) Upload(c *fiber.Ctx) error {
	var in *storage.UploadInput
	if fh, err := c.FormFile(uploadField); err == nil {
		f, err := fh.Open()
		if err != nil {
			return err
		}
		defer f.Close()
		in = &storage.UploadInput{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
			Body:        f,
		}
	}
	img, err := h.service.Upload(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Imagen subida exitosamente",
		"data":    dto.ImageResponse{URL: img.URL, PublicID: img.PublicID},
	})
}

// Delete DELETE /upload/image.
func (h *UploadHandler) Delete(c *fiber.Ctx) error {
	var req dto.DeleteImageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), req.PublicID); err != nil {
		return err
	}
	return message(c, "Imagen eliminada exitosamente")
}
