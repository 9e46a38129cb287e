package service_test

import (
	"testing"
	"time"

	"go-bookkeeping/internal/apperr"
	"go-bookkeeping/internal/model"
	"go-bookkeeping/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordOn(t *testing.T, env *testEnv, tenantID, name, date string, txType model.TransactionType, unitPrice int64, qty int) *model.Transaction {
	t.Helper()
	var widget model.Item
	require.NoError(t, env.db.First(&widget).Error)
	transaction, err := env.transactions.RecordTransaction(tenantID, &service.RecordTransactionRequest{
		Name: name, Date: date, Type: txType,
		Items: []service.RecordTransactionLine{
			{ItemID: widget.ID, Quantity: qty, UnitPrice: dec(unitPrice)},
		},
	})
	require.NoError(t, err)
	return transaction
}

func TestGetDashboardStats_TotalsAndNet(t *testing.T) {
	env := newTestEnv(t)
	seedTenant(t, env.db, "t1", "Alice")
	seedTenant(t, env.db, "t2", "Bob")

	// Global so both tenants can record against it
	_, err := env.catalog.CreateItem("t1", &service.CreateItemRequest{
		SKU: "ABC1", Name: "Widget", CostPrice: dec(1000), SalePrice: dec(1500), MakeGlobal: true,
	})
	require.NoError(t, err)

	recordOn(t, env, "t1", "july sale", "2026-07-15", model.TxSale, 1500, 2)    // 3000
	recordOn(t, env, "t1", "august sale", "2026-08-10", model.TxSale, 1500, 1)  // 1500
	recordOn(t, env, "t1", "restock", "2026-08-12", model.TxExpense, 1000, 3)   // 3000
	recordOn(t, env, "t2", "bob's sale", "2026-08-10", model.TxSale, 9999, 1)   // other tenant

	all, err := env.dashboard.GetDashboardStats("t1", service.StatsFilter{Scope: "all"})
	require.NoError(t, err)
	assert.True(t, all.TotalIncome.Equal(decimal.NewFromInt(4500)), "income %s", all.TotalIncome)
	assert.True(t, all.TotalExpenses.Equal(decimal.NewFromInt(3000)), "expenses %s", all.TotalExpenses)
	assert.True(t, all.NetIncome.Equal(decimal.NewFromInt(1500)), "net %s", all.NetIncome)

	august, err := env.dashboard.GetDashboardStats("t1", service.StatsFilter{Scope: "month", Year: 2026, Month: 8})
	require.NoError(t, err)
	assert.True(t, august.TotalIncome.Equal(decimal.NewFromInt(1500)))
	assert.True(t, august.TotalExpenses.Equal(decimal.NewFromInt(3000)))
	assert.True(t, august.NetIncome.Equal(decimal.NewFromInt(-1500)))

	year, err := env.dashboard.GetDashboardStats("t1", service.StatsFilter{Scope: "year", Year: 2026})
	require.NoError(t, err)
	assert.True(t, year.TotalIncome.Equal(decimal.NewFromInt(4500)))

	empty, err := env.dashboard.GetDashboardStats("t1", service.StatsFilter{Scope: "year", Year: 2020})
	require.NoError(t, err)
	assert.True(t, empty.TotalIncome.IsZero())
	assert.True(t, empty.TotalExpenses.IsZero())
	assert.True(t, empty.NetIncome.IsZero())

	_, err = env.dashboard.GetDashboardStats("t1", service.StatsFilter{Scope: "year"})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
}

func TestGetDailySummary_BucketsPerDay(t *testing.T) {
	env := newTestEnv(t)
	seedTenant(t, env.db, "t1", "Alice")
	env.createItem(t, "t1", "ABC1", "Widget", 100)

	recordOn(t, env, "t1", "sale one", "2026-08-10", model.TxSale, 1500, 1)   // 1500
	recordOn(t, env, "t1", "sale two", "2026-08-10", model.TxSale, 1500, 2)   // 3000
	recordOn(t, env, "t1", "restock", "2026-08-10", model.TxExpense, 1000, 1) // 1000
	recordOn(t, env, "t1", "later sale", "2026-08-12", model.TxSale, 1500, 1) // 1500

	summary, err := env.dashboard.GetDailySummary("t1", service.DailyFilter{Year: 2026, Month: 8})
	require.NoError(t, err)
	require.Len(t, summary, 2)

	// Sorted ascending by date
	assert.Equal(t, "2026-08-10", summary[0].Date)
	assert.True(t, summary[0].TotalIncome.Equal(decimal.NewFromInt(4500)), "income %s", summary[0].TotalIncome)
	assert.True(t, summary[0].TotalExpenses.Equal(decimal.NewFromInt(1000)))

	assert.Equal(t, "2026-08-12", summary[1].Date)
	assert.True(t, summary[1].TotalIncome.Equal(decimal.NewFromInt(1500)))
	assert.True(t, summary[1].TotalExpenses.IsZero())
}

func TestGetDailySummary_LastDaysWindow(t *testing.T) {
	env := newTestEnv(t)
	seedTenant(t, env.db, "t1", "Alice")
	env.createItem(t, "t1", "ABC1", "Widget", 100)

	today := time.Now().UTC().Format("2006-01-02")
	longAgo := time.Now().UTC().AddDate(0, 0, -30).Format("2006-01-02")

	recordOn(t, env, "t1", "fresh sale", today, model.TxSale, 1500, 1)
	recordOn(t, env, "t1", "stale sale", longAgo, model.TxSale, 1500, 1)

	summary, err := env.dashboard.GetDailySummary("t1", service.DailyFilter{Days: 10})
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, today, summary[0].Date)
}

func TestGetRecentTransactions_OrderingAndLimit(t *testing.T) {
	env := newTestEnv(t)
	seedTenant(t, env.db, "t1", "Alice")
	env.createItem(t, "t1", "ABC1", "Widget", 100)

	older := recordOn(t, env, "t1", "first of the day", "2026-08-10", model.TxSale, 1000, 1)
	newer := recordOn(t, env, "t1", "second of the day", "2026-08-10", model.TxSale, 1000, 1)
	recordOn(t, env, "t1", "previous day", "2026-08-09", model.TxSale, 1000, 1)

	// Force a clear created_at gap for the same-date tie-break
	base := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	require.NoError(t, env.db.Model(&model.Transaction{}).Where("id = ?", older.ID).
		Update("created_at", base).Error)
	require.NoError(t, env.db.Model(&model.Transaction{}).Where("id = ?", newer.ID).
		Update("created_at", base.Add(time.Hour)).Error)

	recent, err := env.dashboard.GetRecentTransactions("t1", 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "second of the day", recent[0].Name)
	assert.Equal(t, "first of the day", recent[1].Name)
}
