package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/snackparty/catering-api/internal/auth"
	"github.com/snackparty/catering-api/internal/domain"
	apperrors "github.com/snackparty/catering-api/pkg/util/errorutil"
	"github.com/snackparty/catering-api/pkg/util/pagination"
	"github.com/snackparty/catering-api/pkg/util/validation"
)

const msgInvalidPayload = "Datos inválidos"

func actorFrom(c *fiber.Ctx) (domain.Actor, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.Actor{}, apperrors.NewUnauthorized("Token de acceso requerido")
	}
	return principal.Actor(), nil
}

// paramID parses a positive integer route parameter. Anything else is
// reported as notFoundMsg, the same as a missing row.
func paramID(c *fiber.Ctx, name, notFoundMsg string) (int64, error) {
	// Ids are int4 columns; anything wider cannot exist.
	id, err := strconv.ParseInt(c.Params(name), 10, 32)
	if err != nil || id <= 0 {
		return 0, apperrors.NewNotFound(notFoundMsg, nil)
	}
	return id, nil
}

func pageFrom(c *fiber.Ctx) pagination.Params {
	return pagination.FromQuery(c.Query("page"), c.Query("limit"))
}

func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError(msgInvalidPayload, nil)
	}
	return nil
}

func paginated(c *fiber.Ctx, data any, meta pagination.Meta) error {
	return c.JSON(fiber.Map{"data": data, "pagination": meta})
}

func message(c *fiber.Ctx, text string) error {
	return c.JSON(fiber.Map{"message": text})
}

func validateBody(v *validation.Validator, req any) error {
	if err := v.Struct(req); err != nil {
		return apperrors.NewValidationError(validation.Message(err), nil)
	}
	return nil
}
