package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/snackparty/catering-api/internal/api/dto"
	"github.com/snackparty/catering-api/internal/service"
)

const msgProductNotFound = "Producto no encontrado"

// InventoryHandler serves stock-tracked products.
type InventoryHandler struct {
	service *service.InventoryService
}

// NewInventoryHandler constructs handler.
func NewInventoryHandler(inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{service: inventoryService}
}

// List GET /inventory.
func (h *InventoryHandler) List(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext(), service.InventoryListInput{
		Category: c.Query("categoria"),
		Search:   c.Query("search"),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productList(items)})
}

// LowStock GET /inventory/low-stock.
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	items, err := h.service.LowStock(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productList(items)})
}

// Stats GET /inventory/stats.
func (h *InventoryHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.InventoryStatsResponse{
		TotalProducts: stats.TotalProducts,
		LowStock:      stats.LowStock,
		TotalUnits:    stats.TotalUnits.InexactFloat64(),
	}})
}

// Get GET /inventory/:id.
func (h *InventoryHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id", msgProductNotFound)
	if err != nil {
		return err
	}
	p, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": productResponse(p)})
}

// Create POST /inventory.
func (h *InventoryHandler) Create(c *fiber.Ctx) error {
	var req dto.InventoryProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := h.service.Create(c.UserContext(), inventoryInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Producto creado exitosamente",
		"data":    productResponse(p),
	})
}

// Update PUT /inventory/:id.
func (h *InventoryHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id", msgProductNotFound)
	if err != nil {
		return err
	}
	var req dto.InventoryProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := h.service.Update(c.UserContext(), id, inventoryInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Producto actualizado exitosamente",
		"data":    productResponse(p),
	})
}

// UpdateStock PUT /inventory/:id/stock.
func (h *InventoryHandler) UpdateStock(c *fiber.Ctx) error {
	id, err := paramID(c, "id", msgProductNotFound)
	if err != nil {
		return err
	}
	var req dto.UpdateStockRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.service.UpdateStock(c.UserContext(), id, req.Resolved()); err != nil {
		return err
	}
	return message(c, "Stock actualizado exitosamente")
}

// Delete DELETE /inventory/:id.
func (h *InventoryHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id", msgProductNotFound)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Producto eliminado exitosamente")
}

func inventoryInput(req dto.InventoryProductRequest) service.InventoryInput {
	return service.InventoryInput{
		Name:         req.ResolvedName(),
		Category:     req.ResolvedCategory(),
		CurrentStock: req.ResolvedStock(),
		MinStock:     req.ResolvedMinStock(),
		Unit:         req.ResolvedUnit(),
	}
}
