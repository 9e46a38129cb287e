package handler

import (
	"go-bookkeeping/internal/model"
	"go-bookkeeping/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type TransactionHandler struct {
	service service.TransactionService
}

func NewTransactionHandler(s service.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

func (h *TransactionHandler) CreateTransaction(c *fiber.Ctx) error {
	var req service.RecordTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	transaction, err := h.service.RecordTransaction(tenantID(c), &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Transaction saved successfully",
		"transactionId": transaction.ID,
	})
}

func (h *TransactionHandler) GetTransaction(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction ID"})
	}

	detail, err := h.service.GetTransaction(tenantID(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(detail)
}

// GetTransactions lists transactions with optional type and date filters.
// Query params: type=sale|expense, stock_related=true, scope=all|year|month|date
// plus year, month, date as the scope demands.
func (h *TransactionHandler) GetTransactions(c *fiber.Ctx) error {
	filter := service.ListTransactionsFilter{
		Type:             model.TransactionType(c.Query("type")),
		StockRelatedOnly: c.QueryBool("stock_related"),
		Scope:            c.Query("scope", "all"),
		Year:             c.QueryInt("year"),
		Month:            c.QueryInt("month"),
		Date:             c.Query("date"),
	}
	if filter.Type != "" && !filter.Type.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "type must be 'sale' or 'expense'"})
	}

	transactions, err := h.service.ListTransactions(tenantID(c), filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(transactions)
}
