package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/snackparty/catering-api/internal/domain"
	apperrors "github.com/snackparty/catering-api/pkg/util/errorutil"
)

// RequireRoles ensures the principal holds one of the allowed roles.
func RequireRoles(message string, allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("Token de acceso requerido")
		}
		if _, exists := allowedSet[principal.Role]; !exists {
			return apperrors.NewForbidden(message)
		}
		return c.Next()
	}
}

// RequireAdmin gates administrator-only routes.
func RequireAdmin() fiber.Handler {
	return RequireRoles("Se requieren permisos de administrador", domain.RoleAdmin)
}

// RequireStaffOrAdmin gates back-office routes.
func RequireStaffOrAdmin() fiber.Handler {
	return RequireRoles("Se requieren permisos de staff o administrador", domain.RoleStaff, domain.RoleAdmin)
}
