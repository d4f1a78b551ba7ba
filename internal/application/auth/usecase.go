// Package auth login, logout (denylist de jti) y perfil del usuario autenticado.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/vendofy-api/internal/application/access"
	"github.com/jhoicas/vendofy-api/internal/application/dto"
	"github.com/jhoicas/vendofy-api/internal/application/usecase"
	"github.com/jhoicas/vendofy-api/internal/domain"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	"github.com/jhoicas/vendofy-api/internal/domain/repository"
	"github.com/jhoicas/vendofy-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación.
type AuthUseCase struct {
	userRepo        repository.UserRepository
	denylist        repository.TokenDenylist
	jwtCfg          JWTConfig
	superAdminEmail string
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, denylist repository.TokenDenylist, jwtCfg JWTConfig, superAdminEmail string) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, denylist: denylist, jwtCfg: jwtCfg, superAdminEmail: strings.ToLower(superAdminEmail)}
}

// Login verifica email/password y emite un JWT con rol e indicador de super-admin.
// Email desconocido y password incorrecto devuelven el mismo error.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	super := user.IsAdminRole() && uc.superAdminEmail != "" && strings.EqualFold(user.Email, uc.superAdminEmail)
	token, err := jwt.Generate(uc.jwtCfg.Secret, uc.jwtCfg.Issuer, jwt.Subject{
		UserID:       user.ID,
		Role:         user.Role,
		IsSuperAdmin: super,
	}, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, fmt.Errorf("login: firmar token: %w", err)
	}
	return &dto.LoginResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(time.Duration(uc.jwtCfg.ExpMinutes) * time.Minute),
		User:      *usecase.ToUserResponse(user, nil, super),
	}, nil
}

// Logout revoca el token hasta su expiración original.
func (uc *AuthUseCase) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil || claims.ID == "" {
		return domain.ErrUnauthorized
	}
	expiresAt := claims.ExpiresAtTime()
	if expiresAt.IsZero() || expiresAt.Before(time.Now()) {
		return nil
	}
	return uc.denylist.Revoke(ctx, claims.ID, expiresAt)
}

// Me perfil del usuario autenticado.
func (uc *AuthUseCase) Me(ctx context.Context, caller access.Caller) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	var parent *entity.User
	if user.ParentID != "" {
		if parent, err = uc.userRepo.GetByID(ctx, user.ParentID); err != nil {
			return nil, err
		}
	}
	return usecase.ToUserResponse(user, parent, caller.IsSuperAdmin), nil
}
