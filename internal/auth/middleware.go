package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/snackparty/catering-api/internal/domain"
	"github.com/snackparty/catering-api/internal/repository"
	apperrors "github.com/snackparty/catering-api/pkg/util/errorutil"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	UserID int64
	Role   domain.Role
}

// Actor converts the principal into the service-level caller identity.
func (p *Principal) Actor() domain.Actor {
	return domain.Actor{UserID: p.UserID, Role: p.Role}
}

// AuthMiddleware validates bearer tokens and loads principals.
type AuthMiddleware struct {
	tokens *TokenManager
	users  repository.UserRepository
}

// NewAuthMiddleware constructs middleware. When users is set the current
// role is read from the store instead of trusting the token claim.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token := bearerToken(c)
	if token == "" {
		return apperrors.NewUnauthorized("Token de acceso requerido")
	}

	principal, err := m.authenticate(c, token)
	if err != nil {
		return err
	}
	c.Locals(principalKey, principal)
	return c.Next()
}

func (m *AuthMiddleware) authenticate(c *fiber.Ctx, token string) (*Principal, error) {
	claims, err := m.tokens.ParseToken(token)
	if err != nil {
		if IsExpired(err) {
			return nil, apperrors.NewForbidden("Token expirado")
		}
		return nil, apperrors.NewForbidden("Token inválido")
	}

	principal := &Principal{UserID: claims.UserID, Role: claims.Role}
	if m.users != nil {
		user, err := m.users.GetByID(c.UserContext(), claims.UserID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, apperrors.NewForbidden("Token inválido")
			}
			return nil, apperrors.NewInternalError(err)
		}
		principal.Role = user.Role
	}
	if _, ok := domain.ParseRole(string(principal.Role)); !ok {
		return nil, apperrors.NewForbidden("Token inválido")
	}
	return principal, nil
}

func bearerToken(c *fiber.Ctx) string {
	header := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
