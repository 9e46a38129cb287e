package handler

import (
	"go-bookkeeping/internal/repository"
	"go-bookkeeping/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type DashboardHandler struct {
	service service.DashboardService
}

func NewDashboardHandler(s service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: s}
}

// GetDashboardStats returns income/expense/net totals.
// Query params: type=all|year|month|date, year, month, date.
func (h *DashboardHandler) GetDashboardStats(c *fiber.Ctx) error {
	tenant := tenantID(c)
	if tenant == "" {
		// Guests get zeroed cards instead of an error
		return c.JSON(repository.DashboardStats{
			TotalIncome:   decimal.Zero,
			TotalExpenses: decimal.Zero,
			NetIncome:     decimal.Zero,
		})
	}

	filter := service.StatsFilter{
		Scope: c.Query("type", "all"),
		Year:  c.QueryInt("year"),
		Month: c.QueryInt("month"),
		Date:  c.Query("date"),
	}

	stats, err := h.service.GetDashboardStats(tenant, filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}

// GetDailySummary returns per-day income/expense buckets for the bar chart.
// Query params: filterType=last10days|monthYear, days, month, year.
func (h *DashboardHandler) GetDailySummary(c *fiber.Ctx) error {
	filter := service.DailyFilter{}
	if c.Query("filterType") == "monthYear" {
		filter.Year = c.QueryInt("year")
		filter.Month = c.QueryInt("month")
		if filter.Year <= 0 || filter.Month < 1 || filter.Month > 12 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Month and year are required for this filter type"})
		}
	} else {
		filter.Days = c.QueryInt("days", 10)
	}

	summary, err := h.service.GetDailySummary(tenantID(c), filter)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(summary)
}

func (h *DashboardHandler) GetRecentTransactions(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)

	transactions, err := h.service.GetRecentTransactions(tenantID(c), limit)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(transactions)
}
