package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/snackparty/catering-api/internal/auth"
	"github.com/snackparty/catering-api/internal/config"
	"github.com/snackparty/catering-api/internal/domain"
	"github.com/snackparty/catering-api/internal/repository"
	apperrors "github.com/snackparty/catering-api/pkg/util/errorutil"
	"github.com/snackparty/catering-api/pkg/util/pagination"
	"github.com/snackparty/catering-api/pkg/util/phone"
	"github.com/snackparty/catering-api/pkg/util/validation"
)

const (
	msgRegisterFields     = "Faltan campos obligatorios: nombre_completo, correo, contrasena"
	msgLoginFields        = "Correo y contraseña son obligatorios"
	msgEmailDomain        = "El correo debe ser válido y terminar en gmail.com, hotmail.com, yahoo.com o outlook.com"
	msgEmailTaken         = "El correo ya está registrado"
	msgBadCredentials     = "Credenciales inválidas"
	msgLoginLocked        = "Demasiados intentos fallidos. Intenta de nuevo más tarde"
	msgUserNotFound       = "Usuario no encontrado"
	msgNothingToUpdate    = "No hay campos para actualizar"
	msgPasswordFields     = "Contraseña actual y nueva contraseña son obligatorias"
	msgPasswordTooShort   = "La nueva contraseña debe tener al menos 6 caracteres"
	msgWrongPassword      = "Contraseña actual incorrecta"
	msgAdminNeeded        = "Se requieren permisos de administrador"
	msgInvalidRole        = "Rol debe ser: Cliente, Staff o Admin"
	minPasswordLength     = 6
)

// AuthService coordinates registration, login and profile flows.
type AuthService struct {
	users       repository.UserRepository
	hasher      *auth.PasswordHasher
	tokenMgr    *auth.TokenManager
	guard       auth.LoginGuard
	phoneRegion string
	logger      *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo repository.UserRepository
	Guard    auth.LoginGuard
	Logger   *zap.Logger
}

// RegisterInput describes a new client account.
type RegisterInput struct {
	FullName string
	Email    string
	Password string
	Phone    *string
}

// ProfileInput carries the self-editable profile fields.
type ProfileInput struct {
	FullName *string
	Phone    *string
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User      *domain.User
	Token     string
	ExpiresAt time.Time
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	guard := deps.Guard
	if guard == nil {
		guard = auth.NewLoginGuard(nil, 0, 0)
	}
	return &AuthService{
		users:       deps.UserRepo,
		hasher:      auth.NewPasswordHasher(cfg.Auth.BcryptCost),
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		guard:       guard,
		phoneRegion: cfg.App.PhoneRegion,
		logger:      logger,
	}
}

// Register creates a client account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	name := strings.TrimSpace(in.FullName)
	email := normalizeEmail(in.Email)
	if name == "" || email == "" || in.Password == "" {
		return nil, apperrors.NewValidationError(msgRegisterFields, nil)
	}
	if !validation.IsAllowedEmail(email) {
		return nil, apperrors.NewValidationError(msgEmailDomain, nil)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		FullName:     name,
		Email:        email,
		Phone:        s.normalizePhone(in.Phone),
		PasswordHash: hash,
		Role:         domain.RoleClient,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflict(msgEmailTaken, nil)
		}
		return nil, err
	}

	s.logger.Info("user registered", zap.Int64("user_id", user.ID))
	return s.issue(user)
}

// Login authenticates by email and password. Legacy hashes are upgraded on success.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, apperrors.NewValidationError(msgLoginFields, nil)
	}
	if !validation.IsAllowedEmail(email) {
		return nil, apperrors.NewValidationError(msgEmailDomain, nil)
	}

	locked, err := s.guard.Locked(ctx, email)
	if err != nil {
		s.logger.Warn("login guard unavailable", zap.Error(err))
	}
	if locked {
		return nil, apperrors.NewTooManyRequests(msgLoginLocked)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.recordFailure(ctx, email)
			return nil, apperrors.NewUnauthorized(msgBadCredentials)
		}
		return nil, err
	}

	ok, needsRehash := s.hasher.Verify(user.PasswordHash, password)
	if !ok {
		s.recordFailure(ctx, email)
		return nil, apperrors.NewUnauthorized(msgBadCredentials)
	}
	if err := s.guard.Reset(ctx, email); err != nil {
		s.logger.Warn("login guard reset failed", zap.Error(err))
	}
	if needsRehash {
		s.upgradeHash(ctx, user, password)
	}
	return s.issue(user)
}

func (s *AuthService) upgradeHash(ctx context.Context, user *domain.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Warn("rehash failed", zap.Int64("user_id", user.ID), zap.Error(err))
		return
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		s.logger.Warn("store upgraded hash failed", zap.Int64("user_id", user.ID), zap.Error(err))
		return
	}
	user.PasswordHash = hash
	s.logger.Info("legacy password hash upgraded", zap.Int64("user_id", user.ID))
}

func (s *AuthService) recordFailure(ctx context.Context, email string) {
	if err := s.guard.RecordFailure(ctx, email); err != nil {
		s.logger.Warn("login guard record failed", zap.Error(err))
	}
}

// Profile returns the caller's account.
func (s *AuthService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, apperrors.MapError(err, msgUserNotFound)
	}
	return user, nil
}

// UpdateProfile changes the name and/or phone. Phones are stored in E.164 when parseable.
func (s *AuthService) UpdateProfile(ctx context.Context, userID int64, in ProfileInput) (*domain.User, error) {
	patch := repository.ProfilePatch{}
	if in.FullName != nil {
		if name := strings.TrimSpace(*in.FullName); name != "" {
			patch.FullName = &name
		}
	}
	if in.Phone != nil {
		normalized := phone.NormalizeE164(*in.Phone, s.phoneRegion)
		patch.Phone = &normalized
	}
	if patch.FullName == nil && patch.Phone == nil {
		return nil, apperrors.NewValidationError(msgNothingToUpdate, nil)
	}
	if err := s.users.UpdateProfile(ctx, userID, patch); err != nil {
		return nil, apperrors.MapError(err, msgUserNotFound)
	}
	return s.Profile(ctx, userID)
}

// ChangePassword verifies the current password before storing the new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, current, next string) error {
	if current == "" || next == "" {
		return apperrors.NewValidationError(msgPasswordFields, nil)
	}
	if len([]rune(next)) < minPasswordLength {
		return apperrors.NewValidationError(msgPasswordTooShort, nil)
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return apperrors.MapError(err, msgUserNotFound)
	}
	if ok, _ := s.hasher.Verify(user.PasswordHash, current); !ok {
		return apperrors.NewUnauthorized(msgWrongPassword)
	}
	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	return apperrors.MapError(s.users.UpdatePassword(ctx, userID, hash), msgUserNotFound)
}

// ListUsers pages through accounts. Admin only.
func (s *AuthService) ListUsers(ctx context.Context, actor domain.Actor, role string, page pagination.Params) ([]domain.User, pagination.Meta, error) {
	if !actor.IsAdmin() {
		return nil, pagination.Meta{}, apperrors.NewForbidden(msgAdminNeeded)
	}
	filter := repository.UserFilter{Limit: page.Limit, Offset: page.Offset()}
	if raw := strings.TrimSpace(role); raw != "" {
		r, ok := domain.ParseRole(raw)
		if !ok {
			return nil, pagination.Meta{}, apperrors.NewValidationError(msgInvalidRole, nil)
		}
		filter.Role = &r
	}
	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return users, page.MetaFor(total), nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) issue(user *domain.User) (*AuthResult, error) {
	token, exp, err := s.tokenMgr.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}

func (s *AuthService) normalizePhone(raw *string) *string {
	if raw == nil {
		return nil
	}
	normalized := phone.NormalizeE164(*raw, s.phoneRegion)
	if normalized == "" {
		return nil
	}
	return &normalized
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
