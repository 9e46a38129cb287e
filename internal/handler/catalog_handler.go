package handler

import (
	"go-bookkeeping/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	service service.CatalogService
}

func NewCatalogHandler(s service.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: s}
}

// GetCatalog lists visible items joined with current stock. Works without an
// identity: guests get global items with zero stock.
func (h *CatalogHandler) GetCatalog(c *fiber.Ctx) error {
	entries, err := h.service.ListCatalog(tenantID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(entries)
}

func (h *CatalogHandler) CreateItem(c *fiber.Ctx) error {
	var req service.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	item, err := h.service.CreateItem(tenantID(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Item added successfully", "data": item})
}

func (h *CatalogHandler) DeleteItem(c *fiber.Ctx) error {
	itemID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid item ID"})
	}

	if err := h.service.DeleteItem(tenantID(c), itemID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Item deleted successfully", "deletedItemId": itemID})
}

func (h *CatalogHandler) GetSuppliers(c *fiber.Ctx) error {
	suppliers, err := h.service.ListSuppliers(tenantID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(suppliers)
}

func (h *CatalogHandler) CreateSupplier(c *fiber.Ctx) error {
	var req service.CreateSupplierRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	supplier, err := h.service.CreateSupplier(tenantID(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(supplier)
}
