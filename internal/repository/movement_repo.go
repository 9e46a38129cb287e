package repository

import (
	"go-bookkeeping/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementRepository interface {
	Append(tx *gorm.DB, movement *model.StockMovement) error
	CurrentStock(tenantID string, itemID uuid.UUID) (int, error)
	StockByItem(tenantID string) (map[uuid.UUID]int, error)
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

// Append inserts one ledger row. Ledger rows are never updated or deleted
// afterwards; corrections are new rows with reason "adjustment".
func (r *movementRepo) Append(tx *gorm.DB, movement *model.StockMovement) error {
	if tx == nil {
		tx = r.db
	}
	return tx.Create(movement).Error
}

// CurrentStock is the signed sum of the tenant's own movements for the item.
// No movements means zero; other tenants' movements against the same (global)
// item never contribute.
func (r *movementRepo) CurrentStock(tenantID string, itemID uuid.UUID) (int, error) {
	var total int
	err := r.db.Model(&model.StockMovement{}).
		Where("owner_id = ? AND item_id = ?", tenantID, itemID).
		Select("COALESCE(SUM(change_qty), 0)").
		Scan(&total).Error
	return total, err
}

// StockByItem aggregates the tenant's on-hand quantity for every item that
// has at least one movement. Items missing from the map hold zero stock.
func (r *movementRepo) StockByItem(tenantID string) (map[uuid.UUID]int, error) {
	rows, err := r.db.Model(&model.StockMovement{}).
		Select("item_id, COALESCE(SUM(change_qty), 0) AS stock").
		Where("owner_id = ?", tenantID).
		Group("item_id").
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stocks := make(map[uuid.UUID]int)
	for rows.Next() {
		var itemID uuid.UUID
		var stock int
		if err := rows.Scan(&itemID, &stock); err != nil {
			return nil, err
		}
		stocks[itemID] = stock
	}
	return stocks, rows.Err()
}
