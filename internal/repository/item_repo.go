package repository

import (
	"go-bookkeeping/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ItemRepository interface {
	Create(tx *gorm.DB, item *model.Item) error
	FindVisible(tenantID string) ([]model.Item, error)
	FindGlobal() ([]model.Item, error)
	FindByID(id uuid.UUID) (*model.Item, error)
	FindBySKU(sku string) (*model.Item, error)
	CountTransactionRefs(itemID uuid.UUID) (int64, error)
	DeleteWithMovements(itemID uuid.UUID) error
}

type itemRepo struct {
	db *gorm.DB
}

func NewItemRepo(db *gorm.DB) ItemRepository {
	return &itemRepo{db}
}

// Create accepts the surrounding tx so the item and its initial-stock
// movement land atomically.
func (r *itemRepo) Create(tx *gorm.DB, item *model.Item) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(item).Error
}

// FindVisible returns the tenant's own items plus global items, newest first.
func (r *itemRepo) FindVisible(tenantID string) ([]model.Item, error) {
	var items []model.Item
	err := r.db.
		Where("owner_id = ? OR owner_id IS NULL", tenantID).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) FindGlobal() ([]model.Item, error) {
	var items []model.Item
	err := r.db.
		Where("owner_id IS NULL").
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (r *itemRepo) FindByID(id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := r.db.First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepo) FindBySKU(sku string) (*model.Item, error) {
	var item model.Item
	if err := r.db.First(&item, "sku = ?", sku).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// CountTransactionRefs reports how many transaction lines reference the item.
// Deletion is blocked while this is non-zero: transactions are immutable
// history and must never lose their lines.
func (r *itemRepo) CountTransactionRefs(itemID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.TransactionItem{}).
		Where("item_id = ?", itemID).
		Count(&count).Error
	return count, err
}

// DeleteWithMovements removes the item together with its ledger rows. The
// movements are derived stock data, so they go with the item; transaction
// lines are checked by the caller beforehand.
func (r *itemRepo) DeleteWithMovements(itemID uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("item_id = ?", itemID).Delete(&model.StockMovement{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Item{}, "id = ?", itemID).Error
	})
}
