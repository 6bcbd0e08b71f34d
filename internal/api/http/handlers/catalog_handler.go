package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/snackparty/catering-api/internal/api/dto"
	"github.com/snackparty/catering-api/internal/service"
	"github.com/snackparty/catering-api/pkg/util/validation"
)

const (
	msgCatalogNotFound  = "Item no encontrado"
	msgRelationNotFound = "Relación no encontrada"
)

// CatalogHandler serves catalog items and their product recipes.
type CatalogHandler struct {
	service   *service.CatalogService
	validator *validation.Validator
}

// NewCatalogHandler constructs handler.
func NewCatalogHandler(catalogService *service.CatalogService, validator *validation.Validator) *CatalogHandler {
	return &CatalogHandler{service: catalogService, validator: validator}
}

// List GET /catalog.
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext(), service.CatalogListInput{
		Type:    c.Query("tipo"),
		Popular: c.Query("es_popular"),
		Status:  c.Query("estado"),
	})
	if err != nil {
		return err
	}
	out := make([]dto.CatalogItemResponse, 0, len(items))
	for i := range items {
		out = append(out, catalogItemResponse(&items[i]))
	}
	return c.JSON(fiber.Map{"data": out})
}

// Get GET /catalog/:id.
func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id", msgCatalogNotFound)
	if err != nil {
		return err
	}
	item, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": catalogItemResponse(item)})
}

// Create POST /catalog.
func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCatalogItemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	products := make([]service.CatalogProductInput, 0, len(req.Products))
	for _, p := range req.Products {
		products = append(products, service.CatalogProductInput{ProductID: p.ProductID, Quantity: p.Quantity})
	}
	item, err := h.service.Create(c.UserContext(), service.CreateCatalogInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		IsPopular:   req.IsPopular,
		Details:     req.Details,
		Products:    products,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "Item creado exitosamente",
		"data":    catalogItemResponse(item),
	})
}

// Update PUT /catalog/:id.
func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id", msgCatalogNotFound)
	if err != nil {
		return err
	}
	var req dto.UpdateCatalogItemRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	err = h.service.Update(c.UserContext(), id, service.UpdateCatalogInput{
		Name:        req.Name,
		Description: req.Description,
		Type:        req.Type,
		IsPopular:   req.IsPopular,
		Details:     req.Details,
		Status:      req.Status,
	})
	if err != nil {
		return err
	}
	return message(c, "Item actualizado exitosamente")
}

// Delete DELETE /catalog/:id.
func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id", msgCatalogNotFound)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return message(c, "Item eliminado exitosamente")
}

// AddProduct POST /catalog/:id/products.
func (h *CatalogHandler) AddProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id", msgCatalogNotFound)
	if err != nil {
		return err
	}
	var req dto.CatalogItemProductRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validateBody(h.validator, req); err != nil {
		return err
	}
	err = h.service.AddProduct(c.UserContext(), id, service.CatalogProductInput{
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"message": "Producto agregado al item exitosamente"})
}

// RemoveProduct DELETE /catalog/:id/products/:productId.
func (h *CatalogHandler) RemoveProduct(c *fiber.Ctx) error {
	id, err := paramID(c, "id", msgRelationNotFound)
	if err != nil {
		return err
	}
	productID, err := paramID(c, "productId", msgRelationNotFound)
	if err != nil {
		return err
	}
	if err := h.service.RemoveProduct(c.UserContext(), id, productID); err != nil {
		return err
	}
	return message(c, "Producto removido del item exitosamente")
}

// SetImage PUT /catalog/:id/image.
func (h *CatalogHandler) SetImage(c *fiber.Ctx) error {
	id, err := paramID(c, "id", msgCatalogNotFound)
	if err != nil {
		return err
	}
	var req dto.CatalogImageRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.service.SetImage(c.UserContext(), id, req.ImageURL); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Imagen actualizada exitosamente",
		"data":    fiber.Map{"imagen_url": req.ImageURL},
	})
}
