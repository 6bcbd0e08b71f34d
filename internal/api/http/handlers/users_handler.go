package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/snackparty/catering-api/internal/api/dto"
	"github.com/snackparty/catering-api/internal/service"
	"github.com/snackparty/catering-api/pkg/util/validation"
)

// UsersHandler exposes account endpoints.
type UsersHandler struct {
	auth      *service.AuthService
	validator *validation.Validator
}

// NewUsersHandler constructs handler.
func NewUsersHandler(authService *service.AuthService, validator *validation.Validator) *UsersHandler {
	return &UsersHandler{auth: authService, validator: validator}
}

// Register handles POST /users/register.
func (h *UsersHandler) Register(c *fiber.Ctx) error {
	var req dto.UserRegisterRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validateBody(h.validator, &req); err != nil {
		return err
	}
	result, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(authResponse("Usuario registrado exitosamente", result))
}

// Login handles POST /users/login.
func (h *UsersHandler) Login(c *fiber.Ctx) error {
	var req dto.UserLoginRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := validateBody(h.validator, &req); err != nil {
		return err
	}
	result, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(authResponse("Inicio de sesión exitoso", result))
}

// Profile handles GET /users/profile.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	user, err := h.auth.Profile(c.UserContext(), actor.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": userResponse(user)})
}

// UpdateProfile handles PUT /users/profile.
func (h *UsersHandler) UpdateProfile(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	user, err := h.auth.UpdateProfile(c.UserContext(), actor.UserID, service.ProfileInput{
		FullName: req.FullName,
		Phone:    req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "Perfil actualizado exitosamente",
		"data":    userResponse(user),
	})
}

// ChangePassword handles PUT /users/password.
func (h *UsersHandler) ChangePassword(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	var req dto.ChangePasswordRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	if err := h.auth.ChangePassword(c.UserContext(), actor.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return message(c, "Contraseña actualizada exitosamente")
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	actor, err := actorFrom(c)
	if err != nil {
		return err
	}
	users, meta, err := h.auth.ListUsers(c.UserContext(), actor, c.Query("rol"), pageFrom(c))
	if err != nil {
		return err
	}
	out := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		out = append(out, userResponse(&users[i]))
	}
	return paginated(c, out, meta)
}

func authResponse(msg string, result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{
		Message:   msg,
		Token:     result.Token,
		ExpiresAt: result.ExpiresAt,
		User:      userResponse(result.User),
	}
}
