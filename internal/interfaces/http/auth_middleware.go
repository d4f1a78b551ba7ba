package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/vendofy-api/internal/application/access"
	"github.com/jhoicas/vendofy-api/internal/application/dto"
	"github.com/jhoicas/vendofy-api/internal/domain/entity"
	"github.com/jhoicas/vendofy-api/internal/domain/repository"
	"github.com/jhoicas/vendofy-api/pkg/jwt"
)

// Locals keys para la identidad autenticada en Fiber.
const (
	LocalUserID       = "user_id"
	LocalRole         = "role"
	LocalIsSuperAdmin = "is_super_admin"
	LocalClaims       = "claims"
)

// AuthMiddleware valida el Bearer Token JWT, consulta la denylist (logout) y carga
// los claims en c.Locals. Cualquier fallo es 401.
func AuthMiddleware(jwtSecret string, denylist repository.TokenDenylist) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		if claims.UserID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token sin usuario"})
		}
		if denylist != nil && claims.ID != "" {
			revoked, err := denylist.IsRevoked(c.UserContext(), claims.ID)
			if err != nil || revoked {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "REVOKED_TOKEN", Message: "sesión cerrada, inicia sesión de nuevo"})
			}
		}
		c.Locals(LocalUserID, claims.UserID)
		c.Locals(LocalRole, claims.Role)
		c.Locals(LocalIsSuperAdmin, claims.IsSuperAdmin)
		c.Locals(LocalClaims, claims)
		return c.Next()
	}
}

// RequireRole permite el paso solo a los roles indicados. "super-admin" exige el flag
// del token; "admin" también admite al super-admin.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if GetRole(c) == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_ROLE", Message: "el token no incluye rol"})
		}
		if !GetCaller(c).Is(roles...) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "tu rol no tiene acceso a este recurso"})
		}
		return c.Next()
	}
}

// RequireSuperAdmin atajo de RequireRole(super-admin).
func RequireSuperAdmin() fiber.Handler {
	return RequireRole(entity.RoleSuperAdmin)
}

// GetUserID devuelve el UserID del contexto (después del middleware de auth).
func GetUserID(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalUserID).(string)
	return s
}

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string {
	s, _ := c.Locals(LocalRole).(string)
	return s
}

// GetClaims devuelve los claims completos (logout necesita jti y exp).
func GetClaims(c *fiber.Ctx) *jwt.Claims {
	claims, _ := c.Locals(LocalClaims).(*jwt.Claims)
	return claims
}

// GetCaller identidad para los casos de uso.
func GetCaller(c *fiber.Ctx) access.Caller {
	super, _ := c.Locals(LocalIsSuperAdmin).(bool)
	return access.Caller{UserID: GetUserID(c), Role: GetRole(c), IsSuperAdmin: super}
}
