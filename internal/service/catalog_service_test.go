package service_test

import (
	"testing"

	"go-bookkeeping/internal/apperr"
	"go-bookkeeping/internal/model"
	"go-bookkeeping/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateItem_InitialStockSeedsLedger(t *testing.T) {
	env := newTestEnv(t)
	seedTenant(t, env.db, "t1", "Alice")

	item := env.createItem(t, "t1", "ABC1", "Widget", 20)

	stock, err := env.movements.CurrentStock("t1", item.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, stock)

	var movement model.StockMovement
	require.NoError(t, env.db.First(&movement, "item_id = ?", item.ID).Error)
	assert.Equal(t, model.ReasonInitialStock, movement.Reason)
	assert.Equal(t, 20, movement.ChangeQty)
	assert.Equal(t, "t1", movement.OwnerID)
}

func TestCreateItem_NoInitialStockNoMovement(t *testing.T) {
	env := newTestEnv(t)
	seedTenant(t, env.db, "t1", "Alice")

	item := env.createItem(t, "t1", "ABC2", "Gadget", 0)

	assert.EqualValues(t, 0, env.countRows(t, &model.StockMovement{}))
	stock, err := env.movements.CurrentStock("t1", item.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, stock)
}

func TestCreateItem_DuplicateSKUPersistsNothing(t *testing.T) {
	env := newTestEnv(t)
	seedTenant(t, env.db, "t1", "Alice")
	seedTenant(t, env.db, "t2", "Bob")
	env.createItem(t, "t1", "ABC1", "Widget", 0)

	// SKU uniqueness is global, even across owners
	_, err := env.catalog.CreateItem("t2", &service.CreateItemRequest{
		SKU:          "ABC1",
		Name:         "Impostor",
		CostPrice:    dec(10),
		SalePrice:    dec(20),
		InitialStock: intp(5),
	})
	require.Error(t, err)
	assert.Equal(t, apperr.KindDuplicateSKU, apperr.KindOf(err))

	assert.EqualValues(t, 1, env.countRows(t, &model.Item{}))
	assert.EqualValues(t, 0, env.countRows(t, &model.StockMovement{}))
}

func TestCreateItem_InvalidInput(t *testing.T) {
	env := newTestEnv(t)
	seedTenant(t, env.db, "t1", "Alice")

	tests := []struct {
		name string
		req  *service.CreateItemRequest
	}{
		{"missing sku", &service.CreateItemRequest{Name: "X", CostPrice: dec(1), SalePrice: dec(2)}},
		{"missing cost price", &service.CreateItemRequest{SKU: "S1", Name: "X", SalePrice: dec(2)}},
		{"missing sale price", &service.CreateItemRequest{SKU: "S2", Name: "X", CostPrice: dec(1)}},
		{"negative initial stock", &service.CreateItemRequest{SKU: "S3", Name: "X", CostPrice: dec(1), SalePrice: dec(2), InitialStock: intp(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.catalog.CreateItem("t1", tt.req)
			require.Error(t, err)
			assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))
		})
	}
	assert.EqualValues(t, 0, env.countRows(t, &model.Item{}))
}

func TestListCatalog_VisibilityScoping(t *testing.T) {
	env := newTestEnv(t)
	seedTenant(t, env.db, "t1", "Alice")
	seedTenant(t, env.db, "t2", "Bob")

	env.createItem(t, "t1", "OWN1", "Alice Only", 3)
	globalItem, err := env.catalog.CreateItem("t1", &service.CreateItemRequest{
		SKU:        "GLB1",
		Name:       "Shared",
		CostPrice:  dec(100),
		SalePrice:  dec(150),
		MakeGlobal: true,
	})
	require.NoError(t, err)
	require.Nil(t, globalItem.OwnerID)

	aliceView, err := env.catalog.ListCatalog("t1")
	require.NoError(t, err)
	assert.Len(t, aliceView, 2)

	bobView, err := env.catalog.ListCatalog("t2")
	require.NoError(t, err)
	require.Len(t, bobView, 1)
	assert.Equal(t, "GLB1", bobView[0].SKU)

	guestView, err := env.catalog.ListCatalog("")
	require.NoError(t, err)
	require.Len(t, guestView, 1)
	assert.Equal(t, "GLB1", guestView[0].SKU)
	assert.Equal(t, 0, guestView[0].CurrentStock)
}

func TestGlobalItemStockIsTenantScoped(t *testing.T) {
	env := newTestEnv(t)
	seedTenant(t, env.db, "t1", "Alice")
	seedTenant(t, env.db, "t2", "Bob")

	globalItem, err := env.catalog.CreateItem("t1", &service.CreateItemRequest{
		SKU:          "GLB2",
		Name:         "Shared",
		CostPrice:    dec(100),
		SalePrice:    dec(150),
		MakeGlobal:   true,
		InitialStock: intp(10),
	})
	require.NoError(t, err)

	// The initial stock belongs to the creating tenant only
	aliceStock, err := env.movements.CurrentStock("t1", globalItem.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, aliceStock)

	bobStock, err := env.movements.CurrentStock("t2", globalItem.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, bobStock)

	bobView, err := env.catalog.ListCatalog("t2")
	require.NoError(t, err)
	require.Len(t, bobView, 1)
	assert.Equal(t, 0, bobView[0].CurrentStock)
}

func TestDeleteItem_OwnershipRules(t *testing.T) {
	env := newTestEnv(t)
	seedTenant(t, env.db, "t1", "Alice")
	seedTenant(t, env.db, "t2", "Bob")

	owned := env.createItem(t, "t1", "OWN2", "Alice Thing", 0)
	globalItem, err := env.catalog.CreateItem("t1", &service.CreateItemRequest{
		SKU:        "GLB3",
		Name:       "Shared",
		CostPrice:  dec(1),
		SalePrice:  dec(2),
		MakeGlobal: true,
	})
	require.NoError(t, err)

	err = env.catalog.DeleteItem("t2", owned.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	// Global items are not deletable by anyone through this path
	err = env.catalog.DeleteItem("t1", globalItem.ID)
	assert.Equal(t, apperr.KindForbidden, apperr.KindOf(err))

	err = env.catalog.DeleteItem("t1", owned.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, env.countRows(t, &model.Item{}))
}

func TestDeleteItem_ReferencedByTransactionConflicts(t *testing.T) {
	env := newTestEnv(t)
	seedTenant(t, env.db, "t1", "Alice")
	item := env.createItem(t, "t1", "REF1", "Widget", 10)

	_, err := env.transactions.RecordTransaction("t1", &service.RecordTransactionRequest{
		Name:           "sale to walk-in",
		Date:           "2026-08-30",
		Type:           model.TxSale,
		IsStockRelated: true,
		Items: []service.RecordTransactionLine{
			{ItemID: item.ID, Quantity: 2, UnitPrice: dec(1500)},
		},
	})
	require.NoError(t, err)

	err = env.catalog.DeleteItem("t1", item.ID)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.EqualValues(t, 1, env.countRows(t, &model.Item{}))
}

func TestDeleteItem_RemovesLedgerRows(t *testing.T) {
	env := newTestEnv(t)
	seedTenant(t, env.db, "t1", "Alice")
	item := env.createItem(t, "t1", "DEL1", "Widget", 7)

	require.NoError(t, env.catalog.DeleteItem("t1", item.ID))

	assert.EqualValues(t, 0, env.countRows(t, &model.Item{}))
	assert.EqualValues(t, 0, env.countRows(t, &model.StockMovement{}))
}

func TestDeleteItem_NotFound(t *testing.T) {
	env := newTestEnv(t)
	seedTenant(t, env.db, "t1", "Alice")

	item := env.createItem(t, "t1", "GONE1", "Widget", 0)
	require.NoError(t, env.catalog.DeleteItem("t1", item.ID))

	err := env.catalog.DeleteItem("t1", item.ID)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestSuppliers_CreateAndVisibility(t *testing.T) {
	env := newTestEnv(t)
	seedTenant(t, env.db, "t1", "Alice")
	seedTenant(t, env.db, "t2", "Bob")

	_, err := env.catalog.CreateSupplier("t1", &service.CreateSupplierRequest{Name: "Acme", City: "Bandung"})
	require.NoError(t, err)
	_, err = env.catalog.CreateSupplier("t1", &service.CreateSupplierRequest{Name: "Everywhere Co", MakeGlobal: true})
	require.NoError(t, err)

	// Duplicate names are fine for suppliers
	_, err = env.catalog.CreateSupplier("t2", &service.CreateSupplierRequest{Name: "Acme"})
	require.NoError(t, err)

	_, err = env.catalog.CreateSupplier("t1", &service.CreateSupplierRequest{City: "No Name"})
	assert.Equal(t, apperr.KindInvalidInput, apperr.KindOf(err))

	bobView, err := env.catalog.ListSuppliers("t2")
	require.NoError(t, err)
	require.Len(t, bobView, 2) // own Acme + global Everywhere Co
	assert.Equal(t, "Acme", bobView[0].Name)
	assert.Equal(t, "Everywhere Co", bobView[1].Name)
}
