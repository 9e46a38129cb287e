package handler

import (
	"go-bookkeeping/internal/repository"
	"go-bookkeeping/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// identityEvent is the shape of the identity provider's webhook payload.
type identityEvent struct {
	Type string `json:"type"`
	Data struct {
		ID             string `json:"id"`
		FirstName      string `json:"first_name"`
		EmailAddresses []struct {
			EmailAddress string `json:"email_address"`
		} `json:"email_addresses"`
	} `json:"data"`
}

type WebhookHandler struct {
	tenantRepo repository.TenantRepository
}

func NewWebhookHandler(tenantRepo repository.TenantRepository) *WebhookHandler {
	return &WebhookHandler{tenantRepo: tenantRepo}
}

// HandleIdentityEvent creates the tenant row on the provider's user.created
// event. Idempotent; other event types are acknowledged and ignored.
func (h *WebhookHandler) HandleIdentityEvent(c *fiber.Ctx) error {
	var event identityEvent
	if err := c.BodyParser(&event); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if event.Type != "user.created" {
		return c.SendStatus(fiber.StatusOK)
	}
	if event.Data.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing user id"})
	}

	name := event.Data.FirstName
	if name == "" && len(event.Data.EmailAddresses) > 0 {
		name = event.Data.EmailAddresses[0].EmailAddress
	}

	if err := h.tenantRepo.Ensure(event.Data.ID, name); err != nil {
		logger.L().Error("webhook: failed to create tenant", zap.String("tenant_id", event.Data.ID), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal Server Error"})
	}

	return c.SendStatus(fiber.StatusOK)
}
