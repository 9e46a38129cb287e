package service_test

import (
	"testing"

	"go-bookkeeping/internal/model"
	"go-bookkeeping/internal/repository"
	"go-bookkeeping/internal/service"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type testEnv struct {
	db           *gorm.DB
	catalog      service.CatalogService
	transactions service.TransactionService
	dashboard    service.DashboardService
	movements    repository.MovementRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Tenant{},
		&model.Item{},
		&model.Supplier{},
		&model.Transaction{},
		&model.TransactionItem{},
		&model.StockMovement{},
	))

	itemRepo := repository.NewItemRepo(db)
	supplierRepo := repository.NewSupplierRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	txRepo := repository.NewTransactionRepo(db)

	return &testEnv{
		db:           db,
		catalog:      service.NewCatalogService(itemRepo, supplierRepo, movementRepo, db, nil),
		transactions: service.NewTransactionService(txRepo, itemRepo, supplierRepo, movementRepo, db, nil),
		dashboard:    service.NewDashboardService(txRepo),
		movements:    movementRepo,
	}
}

func seedTenant(t *testing.T, db *gorm.DB, id, name string) {
	t.Helper()
	require.NoError(t, db.Create(&model.Tenant{ID: id, Name: name}).Error)
}

func dec(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func intp(v int) *int {
	return &v
}

func (e *testEnv) createItem(t *testing.T, tenantID, sku, name string, initialStock int) *model.Item {
	t.Helper()
	req := &service.CreateItemRequest{
		SKU:       sku,
		Name:      name,
		CostPrice: dec(1000),
		SalePrice: dec(1500),
	}
	if initialStock > 0 {
		req.InitialStock = intp(initialStock)
	}
	item, err := e.catalog.CreateItem(tenantID, req)
	require.NoError(t, err)
	return item
}

func (e *testEnv) countRows(t *testing.T, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, e.db.Model(model).Count(&count).Error)
	return count
}
