package dto

import (
	"time"

	"github.com/snackparty/catering-api/internal/domain"
)

// UserRegisterRequest payload for new users.
type UserRegisterRequest struct {
	FullName string  `json:"nombre_completo"`
	Email    string  `json:"correo" validate:"omitempty,snackemail"`
	Phone    *string `json:"telefono"`
	Password string  `json:"contrasena"`
}

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"correo" validate:"omitempty,snackemail"`
	Password string `json:"contrasena"`
}

// UpdateProfileRequest payload for PUT /users/profile.
type UpdateProfileRequest struct {
	FullName *string `json:"nombre_completo"`
	Phone    *string `json:"telefono"`
}

// ChangePasswordRequest payload for PUT /users/password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"contrasena_actual"`
	NewPassword     string `json:"nueva_contrasena"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        int64       `json:"id_usuario"`
	FullName  string      `json:"nombre_completo"`
	Email     string      `json:"correo"`
	Phone     *string     `json:"telefono"`
	Role      domain.Role `json:"rol"`
	CreatedAt *time.Time  `json:"fecha_registro,omitempty"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Message   string       `json:"message"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}
