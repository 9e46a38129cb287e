package middleware

import (
	"strings"

	"go-bookkeeping/internal/repository"
	"go-bookkeeping/pkg/jwt"
	"go-bookkeeping/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// RequireTenant validates the provider-issued bearer token and sets the
// tenant identity in the request context. The token subject is trusted
// as-is; identity verification itself belongs to the provider.
func RequireTenant(tenantRepo repository.TenantRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, ok := parseBearer(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing or invalid authorization token"})
		}

		// Accounts exist from their first sign-in onwards; make sure the row
		// is there even if the provider webhook never arrived.
		if err := tenantRepo.Ensure(claims.TenantID(), claims.Name); err != nil {
			logger.L().Error("failed to ensure tenant", zap.String("tenant_id", claims.TenantID()), zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
		}

		c.Locals("tenant_id", claims.TenantID())
		c.Locals("tenant_name", claims.Name)
		return c.Next()
	}
}

// OptionalTenant sets the tenant identity when a valid token is present and
// lets the request through as a guest otherwise. Used by the catalog read
// path, which degrades to global items with zero stock.
func OptionalTenant(tenantRepo repository.TenantRepository) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if claims, ok := parseBearer(c); ok {
			if err := tenantRepo.Ensure(claims.TenantID(), claims.Name); err != nil {
				logger.L().Error("failed to ensure tenant", zap.String("tenant_id", claims.TenantID()), zap.Error(err))
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
			}
			c.Locals("tenant_id", claims.TenantID())
			c.Locals("tenant_name", claims.Name)
		}
		return c.Next()
	}
}

func parseBearer(c *fiber.Ctx) (*jwt.Claims, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return nil, false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return nil, false
	}
	claims, err := jwt.ValidateToken(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}
