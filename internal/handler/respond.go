package handler

import (
	"errors"

	"go-bookkeeping/internal/apperr"
	"go-bookkeeping/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// fail maps a service error onto its HTTP status. Store-level failures are
// logged with detail server-side and surfaced opaque.
func fail(c *fiber.Ctx, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) && ae.Kind != apperr.KindPersistenceFailure && ae.Kind != apperr.KindUnknown {
		return c.Status(ae.Kind.Status()).JSON(fiber.Map{"error": ae.Message})
	}
	logger.L().Error("request failed",
		zap.String("path", c.Path()),
		zap.Error(err),
	)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
}

// tenantID reads the identity set by the auth middleware; empty for guests
// on optional-auth routes.
func tenantID(c *fiber.Ctx) string {
	if v, ok := c.Locals("tenant_id").(string); ok {
		return v
	}
	return ""
}
