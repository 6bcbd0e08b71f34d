package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/snackparty/catering-api/internal/api/dto"
	"github.com/snackparty/catering-api/internal/repository"
	"github.com/snackparty/catering-api/internal/service"
	apperrors "github.com/snackparty/catering-api/pkg/util/errorutil"
)

const (
	msgGalleryNotFound = "Evento no encontrado"
	msgGalleryDate     = "fecha_evento debe tener formato YYYY-MM-DD"
)

// GalleryHandler serves showcased events.
type GalleryHandler struct {
	service *service.GalleryService
}

// NewGalleryHandler constructs handler.
func NewGalleryHandler(galleryService *service.GalleryService) *GalleryHandler {
	return &GalleryHandler{service: galleryService}
}

// List GET /gallery.
func (h *GalleryHandler) List(c *fiber.Ctx) error {
	items, meta, err := h.service.List(c.UserContext(), c.Query("tipo_evento"), pageFrom(c))
	if err != nil {
		return err
	}
	return paginated(c, galleryList(items), meta)
}

// Search GET /gallery/search.
func (h *GalleryHandler) Search(c *fiber.Ctx) error {
	items, meta, err := h.service.Search(c.UserContext(), c.Query("q"), c.Query("tipo_evento"), pageFrom(c))
	if err != nil {
		return err
	}
	return paginated(c, galleryList(items), meta)
}

// Featured GET /gallery/featured.
func (h *GalleryHandler) Featured(c *fiber.Ctx) error {
	items, err := h.service.Featured(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": galleryList(items)})
}

// EventTypes GET /gallery/types.
func (h *GalleryHandler) EventTypes(c *fiber.Ctx) error {
	types, err := h.service.EventTypes(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": eventTypeCounts(types)})
}

// Get GET /gallery/:id.
func (h *GalleryHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id", msgGalleryNotFound)
	if err != nil {
		return err
	}
	e, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": galleryEventResponse(e)})
}

// Create POST /gallery.
func (h *GalleryHandler) Create(c *fiber.Ctx) error {
	var req dto.GalleryEventRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	date, err := parseEventDate(req.EventDate)
	if err != nil {
		return err
	}
	e, err := h.service.Create(c.UserContext(), service.GalleryInput{
		Title:       firstOrEmpty(req.Title),
		EventType:   firstOrEmpty(req.EventType),
		EventDate:   date,
		Description: req.Description,
		ClientName:  req.ClientName,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Evento creado exitosamente",
		"data":    galleryEventResponse(e),
	})
}

// Update PUT /gallery/:id.
func (h *GalleryHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id", msgGalleryNotFound)
	if err != nil {
		return err
	}
	var req dto.GalleryEventRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	date, err := parseEventDate(req.EventDate)
	if err != nil {
		return err
	}
	err = h.service.Update(c.UserContext(), id, repository.GalleryPatch{
		Title:       req.Title,
		EventType:   req.EventType,
		EventDate:   date,
		Description: req.Description,
		ClientName:  req.ClientName,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return err
	}
	return message(c, "Evento actualizado exitosamente")
}

// Delete DELETE /gallery/:id.
func (h *GalleryHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id", msgGalleryNotFound)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Evento eliminado exitosamente")
}

// Stats GET /gallery/admin/stats.
func (h *GalleryHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.GalleryStatsResponse{
		Total:     stats.Total,
		ByType:    eventTypeCounts(stats.ByType),
		LastMonth: stats.LastMonth,
	}})
}

// parseEventDate accepts YYYY-MM-DD or a full RFC 3339 timestamp.
func parseEventDate(raw *string) (*time.Time, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	v := strings.TrimSpace(*raw)
	if d, err := time.Parse(time.DateOnly, v); err == nil {
		return &d, nil
	}
	if ts, err := time.Parse(time.RFC3339, v); err == nil {
		d := time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, time.UTC)
		return &d, nil
	}
	return nil, apperrors.NewValidationError(msgGalleryDate, nil)
}

func firstOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
