package repository

import (
	"time"

	"go-bookkeeping/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionFilter narrows List results. Start/End form a half-open
// [Start, End) range over the transaction date; nil means unbounded.
type TransactionFilter struct {
	Type             model.TransactionType
	StockRelatedOnly bool
	Start            *time.Time
	End              *time.Time
}

// DashboardStats holds the conditional aggregates for the dashboard cards.
type DashboardStats struct {
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetIncome     decimal.Decimal `json:"netIncome"`
}

type TransactionRepository interface {
	FindByID(tenantID string, id uuid.UUID) (*model.Transaction, error)
	List(tenantID string, filter TransactionFilter) ([]model.Transaction, error)
	Recent(tenantID string, limit int) ([]model.Transaction, error)
	Stats(tenantID string, start, end *time.Time) (*DashboardStats, error)
	FindInRange(tenantID string, start, end time.Time) ([]model.Transaction, error)
}

type transactionRepo struct {
	db *gorm.DB
}

func NewTransactionRepo(db *gorm.DB) TransactionRepository {
	return &transactionRepo{db}
}

// FindByID is owner-scoped: a transaction belonging to another tenant is
// indistinguishable from a missing one.
func (r *transactionRepo) FindByID(tenantID string, id uuid.UUID) (*model.Transaction, error) {
	var transaction model.Transaction
	err := r.db.
		Preload("Supplier").
		Preload("Items").
		Preload("Items.Item").
		First(&transaction, "id = ? AND owner_id = ?", id, tenantID).Error
	if err != nil {
		return nil, err
	}
	return &transaction, nil
}

func (r *transactionRepo) List(tenantID string, filter TransactionFilter) ([]model.Transaction, error) {
	q := r.db.
		Preload("Supplier").
		Where("owner_id = ?", tenantID)

	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.StockRelatedOnly {
		q = q.Where("is_stock_related = ?", true)
	}
	if filter.Start != nil {
		q = q.Where("date >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("date < ?", *filter.End)
	}

	var transactions []model.Transaction
	err := q.Order("date DESC").Order("created_at DESC").Find(&transactions).Error
	return transactions, err
}

// Recent returns the newest transactions by date, created_at as tie-break.
func (r *transactionRepo) Recent(tenantID string, limit int) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.
		Where("owner_id = ?", tenantID).
		Order("date DESC").Order("created_at DESC").
		Limit(limit).
		Find(&transactions).Error
	return transactions, err
}

// Stats computes income and expense totals in a single conditional
// aggregation over the date range; nil bounds mean all time.
func (r *transactionRepo) Stats(tenantID string, start, end *time.Time) (*DashboardStats, error) {
	q := r.db.Model(&model.Transaction{}).Where("owner_id = ?", tenantID)
	if start != nil {
		q = q.Where("date >= ?", *start)
	}
	if end != nil {
		q = q.Where("date < ?", *end)
	}

	var row struct {
		TotalIncome   decimal.Decimal
		TotalExpenses decimal.Decimal
	}
	err := q.Select(`
		COALESCE(SUM(CASE WHEN type = 'sale' THEN total_amount ELSE 0 END), 0) AS total_income,
		COALESCE(SUM(CASE WHEN type = 'expense' THEN total_amount ELSE 0 END), 0) AS total_expenses
	`).Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalIncome:   row.TotalIncome,
		TotalExpenses: row.TotalExpenses,
		NetIncome:     row.TotalIncome.Sub(row.TotalExpenses),
	}, nil
}

// FindInRange fetches the rows for per-day bucketing. Aggregation happens in
// the service so the query stays portable across dialects.
func (r *transactionRepo) FindInRange(tenantID string, start, end time.Time) ([]model.Transaction, error) {
	var transactions []model.Transaction
	err := r.db.
		Where("owner_id = ? AND date >= ? AND date < ?", tenantID, start, end).
		Order("date ASC").
		Find(&transactions).Error
	return transactions, err
}
