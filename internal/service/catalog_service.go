package service

import (
	"errors"
	"fmt"

	"go-bookkeeping/internal/apperr"
	"go-bookkeeping/internal/model"
	"go-bookkeeping/internal/repository"
	"go-bookkeeping/internal/ws"
	"go-bookkeeping/pkg/metrics"
	"go-bookkeeping/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateItemRequest struct {
	SKU          string           `json:"sku" validate:"required"`
	Name         string           `json:"name" validate:"required"`
	CostPrice    *decimal.Decimal `json:"cost_price" validate:"required"`
	SalePrice    *decimal.Decimal `json:"sale_price" validate:"required"`
	InitialStock *int             `json:"initial_stock"`
	MakeGlobal   bool             `json:"is_global_item"`
}

type CreateSupplierRequest struct {
	Name       string `json:"name" validate:"required"`
	City       string `json:"city"`
	Phone      string `json:"phone"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	Notes      string `json:"notes"`
	MakeGlobal bool   `json:"is_global_supplier"`
}

// CatalogEntry is one row of the joined catalog + current-stock view.
type CatalogEntry struct {
	model.Item
	CurrentStock int `json:"current_stock"`
}

type CatalogService interface {
	CreateItem(tenantID string, req *CreateItemRequest) (*model.Item, error)
	DeleteItem(tenantID string, itemID uuid.UUID) error
	// ListCatalog with an empty tenantID degrades to global items with zero
	// stock (unauthenticated read path).
	ListCatalog(tenantID string) ([]CatalogEntry, error)
	CreateSupplier(tenantID string, req *CreateSupplierRequest) (*model.Supplier, error)
	ListSuppliers(tenantID string) ([]model.Supplier, error)
}

type catalogService struct {
	itemRepo     repository.ItemRepository
	supplierRepo repository.SupplierRepository
	movementRepo repository.MovementRepository
	db           *gorm.DB
	wsHub        *ws.Hub
}

func NewCatalogService(
	itemRepo repository.ItemRepository,
	supplierRepo repository.SupplierRepository,
	movementRepo repository.MovementRepository,
	db *gorm.DB,
	hub *ws.Hub,
) CatalogService {
	return &catalogService{
		itemRepo:     itemRepo,
		supplierRepo: supplierRepo,
		movementRepo: movementRepo,
		db:           db,
		wsHub:        hub,
	}
}

func (s *catalogService) CreateItem(tenantID string, req *CreateItemRequest) (*model.Item, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.New(apperr.KindInvalidInput,
			fmt.Sprintf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag))
	}

	initialStock := 0
	if req.InitialStock != nil {
		if *req.InitialStock < 0 {
			return nil, apperr.New(apperr.KindInvalidInput, "initial stock must not be negative")
		}
		initialStock = *req.InitialStock
	}

	// SKU is unique across all owners, global items included
	existing, err := s.itemRepo.FindBySKU(req.SKU)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.Wrap(apperr.KindPersistenceFailure, "failed to check sku", err)
	}
	if existing != nil {
		return nil, apperr.New(apperr.KindDuplicateSKU, "sku already exists")
	}

	item := &model.Item{
		SKU:       req.SKU,
		Name:      req.Name,
		CostPrice: *req.CostPrice,
		SalePrice: *req.SalePrice,
	}
	if !req.MakeGlobal {
		item.OwnerID = &tenantID
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.itemRepo.Create(tx, item); err != nil {
			return err
		}
		if initialStock > 0 {
			// Initial stock is attributed to the creating tenant even for a
			// global item; stock for global items is tenant-relative.
			movement := &model.StockMovement{
				OwnerID:   tenantID,
				ItemID:    item.ID,
				ChangeQty: initialStock,
				Reason:    model.ReasonInitialStock,
			}
			if err := s.movementRepo.Append(tx, movement); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistenceFailure, "failed to create item", err)
	}

	metrics.ItemsCreated.Inc()
	if initialStock > 0 {
		metrics.StockMovements.WithLabelValues(string(model.ReasonInitialStock)).Inc()
	}

	s.wsHub.Publish(map[string]interface{}{
		"type":   "stock_update",
		"action": "item_created",
		"item": map[string]interface{}{
			"id":    item.ID,
			"sku":   item.SKU,
			"name":  item.Name,
			"stock": initialStock,
		},
		"tenant_id": tenantID,
	})

	return item, nil
}

func (s *catalogService) DeleteItem(tenantID string, itemID uuid.UUID) error {
	item, err := s.itemRepo.FindByID(itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperr.New(apperr.KindNotFound, "item not found")
		}
		return apperr.Wrap(apperr.KindPersistenceFailure, "failed to load item", err)
	}

	// Only the exact owner may delete; global items are not deletable
	// through this path by anyone.
	if item.OwnerID == nil || *item.OwnerID != tenantID {
		return apperr.New(apperr.KindForbidden, "you do not own this item")
	}

	refs, err := s.itemRepo.CountTransactionRefs(itemID)
	if err != nil {
		return apperr.Wrap(apperr.KindPersistenceFailure, "failed to check item references", err)
	}
	if refs > 0 {
		return apperr.New(apperr.KindConflict, "item is referenced by recorded transactions")
	}

	if err := s.itemRepo.DeleteWithMovements(itemID); err != nil {
		return apperr.Wrap(apperr.KindPersistenceFailure, "failed to delete item", err)
	}

	s.wsHub.Publish(map[string]interface{}{
		"type":      "stock_update",
		"action":    "item_deleted",
		"item_id":   itemID,
		"tenant_id": tenantID,
	})

	return nil
}

func (s *catalogService) ListCatalog(tenantID string) ([]CatalogEntry, error) {
	if tenantID == "" {
		items, err := s.itemRepo.FindGlobal()
		if err != nil {
			return nil, apperr.Wrap(apperr.KindPersistenceFailure, "failed to list catalog", err)
		}
		entries := make([]CatalogEntry, len(items))
		for i, item := range items {
			entries[i] = CatalogEntry{Item: item}
		}
		return entries, nil
	}

	items, err := s.itemRepo.FindVisible(tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistenceFailure, "failed to list catalog", err)
	}
	stocks, err := s.movementRepo.StockByItem(tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistenceFailure, "failed to aggregate stock", err)
	}

	entries := make([]CatalogEntry, len(items))
	for i, item := range items {
		entries[i] = CatalogEntry{Item: item, CurrentStock: stocks[item.ID]}
	}
	return entries, nil
}

func (s *catalogService) CreateSupplier(tenantID string, req *CreateSupplierRequest) (*model.Supplier, error) {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		first := errs[0]
		return nil, apperr.New(apperr.KindInvalidInput,
			fmt.Sprintf("validation failed: field '%s' failed on tag '%s'", first.FailedField, first.Tag))
	}

	supplier := &model.Supplier{
		Name:    req.Name,
		City:    req.City,
		Phone:   req.Phone,
		Email:   req.Email,
		Address: req.Address,
		Notes:   req.Notes,
	}
	if !req.MakeGlobal {
		supplier.OwnerID = &tenantID
	}

	if err := s.supplierRepo.Create(supplier); err != nil {
		return nil, apperr.Wrap(apperr.KindPersistenceFailure, "failed to create supplier", err)
	}
	return supplier, nil
}

func (s *catalogService) ListSuppliers(tenantID string) ([]model.Supplier, error) {
	suppliers, err := s.supplierRepo.FindVisible(tenantID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindPersistenceFailure, "failed to list suppliers", err)
	}
	return suppliers, nil
}
