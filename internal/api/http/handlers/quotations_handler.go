package handlers

import (
	"fmt"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/snackparty/catering-api/internal/api/dto"
	"github.com/snackparty/catering-api/internal/domain"
	"github.com/snackparty/catering-api/internal/service"
)

const msgQuotationNotFound = "Cotización no encontrada"

// QuotationsHandler exposes the quotation workflow.
type QuotationsHandler struct {
	service *service.QuotationService
}

// NewQuotationsHandler constructs handler.
func NewQuotationsHandler(quotationService *service.QuotationService) *QuotationsHandler {
	return &QuotationsHandler{service: quotationService}
}

// Create POST /quotations.
func (h *QuotationsHandler) Create(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.CreateQuotationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	lines := make([]domain.QuotationLine, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, domain.QuotationLine{CatalogItemID: it.ItemID, Quantity: it.Quantity})
	}
	q, err := h.service.Create(c.UserContext(), actor, service.CreateQuotationInput{
		EventAddress:       req.EventAddress,
		EventDate:          req.EventDate,
		EventTime:          req.EventTime,
		EventType:          req.EventType,
		GuestCount:         req.GuestCount,
		SpecialRequests:    req.SpecialRequests,
		Items:              lines,
		HasPersonalization: req.HasPersonalization(),
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Cotización creada exitosamente",
		"data":    quotationResponse(q),
	})
}

// ListMine GET /quotations/mine.
func (h *QuotationsHandler) ListMine(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	items, meta, err := h.service.ListMine(c.UserContext(), actor, listInput(c))
	if err != nil {
		return err
	}
	return paginated(c, quotationList(items), meta)
}

// ListAll GET /quotations/admin/all.
func (h *QuotationsHandler) ListAll(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	items, meta, err := h.service.ListAll(c.UserContext(), actor, listInput(c))
	if err != nil {
		return err
	}
	return paginated(c, quotationList(items), meta)
}

// Get GET /quotations/:id.
func (h *QuotationsHandler) Get(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", msgQuotationNotFound)
	if err != nil {
		return err
	}
	q, err := h.service.Get(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": quotationResponse(q)})
}

// UpdateStatus PUT /quotations/:id/status.
func (h *QuotationsHandler) UpdateStatus(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", msgQuotationNotFound)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	q, err := h.service.UpdateStatus(c.UserContext(), actor, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Estado actualizado exitosamente",
		"data":    quotationResponse(q),
	})
}

// Delete DELETE /quotations/:id.
func (h *QuotationsHandler) Delete(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", msgQuotationNotFound)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), actor, id); err != nil {
		return err
	}
	return message(c, "Cotización eliminada exitosamente")
}

// SavePersonalization PUT /quotations/:id/personalization.
func (h *QuotationsHandler) SavePersonalization(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", msgQuotationNotFound)
	if err != nil {
		return err
	}
	var req dto.PersonalizationRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := h.service.SavePersonalization(c.UserContext(), actor, id, service.PersonalizationInput{
		Fruits:   req.Fruits,
		Chips:    req.Chips,
		Toppings: req.Toppings,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Personalización guardada exitosamente",
		"data":    personalizationResponse(p),
	})
}

// GetPersonalization GET /quotations/:id/personalization.
func (h *QuotationsHandler) GetPersonalization(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", msgQuotationNotFound)
	if err != nil {
		return err
	}
	p, err := h.service.GetPersonalization(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": personalizationResponse(p)})
}

// Stats GET /quotations/admin/stats.
func (h *QuotationsHandler) Stats(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	stats, err := h.service.Stats(c.UserContext(), actor)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": quotationStatsResponse(stats)})
}

// PDF GET /quotations/:id/pdf.
func (h *QuotationsHandler) PDF(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id", msgQuotationNotFound)
	if err != nil {
		return err
	}
	doc, err := h.service.PDF(c.UserContext(), actor, id)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`inline; filename="cotizacion-%d.pdf"`, id))
	return c.Send(doc)
}

func listInput(c *fiber.Ctx) service.QuotationListInput {
	return service.QuotationListInput{Status: c.Query("estado"), Page: pageFrom(c)}
}
