package service

import (
	"sort"
	"time"

	"go-bookkeeping/internal/apperr"
	"go-bookkeeping/internal/model"
	"go-bookkeeping/internal/repository"

	"github.com/shopspring/decimal"
)

// StatsFilter scopes the dashboard totals. Scope is one of "all", "year",
// "month", "date".
type StatsFilter struct {
	Scope string
	Year  int
	Month int
	Date  string
}

// DailyFilter selects the daily-summary window: either the last Days days
// (default 10) or a whole month.
type DailyFilter struct {
	Days  int
	Year  int
	Month int
}

type DailyBucket struct {
	Date          string          `json:"date"`
	TotalIncome   decimal.Decimal `json:"totalIncome"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
}

type DashboardService interface {
	GetDashboardStats(tenantID string, filter StatsFilter) (*repository.DashboardStats, error)
	GetDailySummary(tenantID string, filter DailyFilter) ([]DailyBucket, error)
	GetRecentTransactions(tenantID string, limit int) ([]model.Transaction, error)
}

type dashboardService struct {
	txRepo repository.TransactionRepository
}

func NewDashboardService(txRepo repository.TransactionRepository) DashboardService {
	return &dashboardService{txRepo: txRepo}
}

func (s *dashboardService) GetDashboardStats(tenantID string, filter StatsFilter) (*repository.DashboardStats, error) {
	var start, end *time.Time

	switch filter.Scope {
	case "", "all":
	case "year":
		if filter.Year <= 0 {
			return nil, apperr.New(apperr.KindInvalidInput, "year is required for the year filter")
		}
		s0, e0 := yearRange(filter.Year)
		start, end = &s0, &e0
	case "month":
		if filter.Year <= 0 || filter.Month < 1 || filter.Month > 12 {
			return nil, apperr.New(apperr.KindInvalidInput, "month and year are required for the month filter")
		}
		s0, e0 := monthRange(filter.Year, time.Month(filter.Month))
		start, end = &s0, &e0
	case "date":
		day, err := time.Parse("2006-01-02", filter.Date)
		if err != nil {
			return nil, apperr.New(apperr.KindInvalidInput, "date must be formatted as YYYY-MM-DD")
		}
		s0, e0 := dayRange(day)
		start, end = &s0, &e0
	default:
		return nil, apperr.New(apperr.KindInvalidInput, "unknown filter scope")
	}

	stats, err := s.txRepo.Stats(tenantID, start, end)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistenceFailure, "failed to compute dashboard stats", err)
	}
	return stats, nil
}

// GetDailySummary buckets income and expense totals per day for the chart.
func (s *dashboardService) GetDailySummary(tenantID string, filter DailyFilter) ([]DailyBucket, error) {
	var start, end time.Time
	if filter.Year > 0 && filter.Month >= 1 && filter.Month <= 12 {
		start, end = monthRange(filter.Year, time.Month(filter.Month))
	} else {
		days := filter.Days
		if days <= 0 {
			days = 10
		}
		start, end = lastDaysRange(days, time.Now().UTC())
	}

	transactions, err := s.txRepo.FindInRange(tenantID, start, end)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistenceFailure, "failed to load daily summary", err)
	}

	buckets := make(map[string]*DailyBucket)
	for _, transaction := range transactions {
		key := transaction.Date.Format("2006-01-02")
		bucket, ok := buckets[key]
		if !ok {
			bucket = &DailyBucket{
				Date:          key,
				TotalIncome:   decimal.Zero,
				TotalExpenses: decimal.Zero,
			}
			buckets[key] = bucket
		}
		switch transaction.Type {
		case model.TxSale:
			bucket.TotalIncome = bucket.TotalIncome.Add(transaction.TotalAmount)
		case model.TxExpense:
			bucket.TotalExpenses = bucket.TotalExpenses.Add(transaction.TotalAmount)
		}
	}

	summary := make([]DailyBucket, 0, len(buckets))
	for _, bucket := range buckets {
		summary = append(summary, *bucket)
	}
	sort.Slice(summary, func(i, j int) bool { return summary[i].Date < summary[j].Date })
	return summary, nil
}

func (s *dashboardService) GetRecentTransactions(tenantID string, limit int) ([]model.Transaction, error) {
	if limit <= 0 {
		limit = 10
	}
	transactions, err := s.txRepo.Recent(tenantID, limit)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistenceFailure, "failed to load recent transactions", err)
	}
	return transactions, nil
}
