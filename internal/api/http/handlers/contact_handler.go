package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/snackparty/catering-api/internal/api/dto"
	"github.com/snackparty/catering-api/internal/mailer"
	"github.com/snackparty/catering-api/internal/service"
	"github.com/snackparty/catering-api/pkg/util/validation"
)

// ContactHandler forwards contact-form messages.
type ContactHandler struct {
	service   *service.ContactService
	validator *validation.Validator
}

// NewContactHandler constructs handler.
func NewContactHandler(contactService *service.ContactService, validator *validation.Validator) *ContactHandler {
	return &ContactHandler{service: contactService, validator: validator}
}

// Submit POST /contact.
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req dto.ContactRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validateBody(h.validator, req); err != nil {
		return err
	}
	result, err := h.service.Submit(c.UserContext(), mailer.ContactForm{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": result.Message, "emailSent": result.EmailSent})
}

// EmailDebug GET /contact/email-debug.
func (h *ContactHandler) EmailDebug(c *fiber.Ctx) error {
	diag, err := h.service.Diagnostics(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"debug": diag.Debug, "verify": diag.Verify})
}
