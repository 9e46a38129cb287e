package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementReason string

const (
	ReasonPurchase     MovementReason = "purchase"
	ReasonSale         MovementReason = "sale"
	ReasonInitialStock MovementReason = "initial_stock"
	ReasonAdjustment   MovementReason = "adjustment"
)

// StockMovement is one entry of the append-only stock ledger. The signed sum
// of ChangeQty over all movements for a (tenant, item) pair is that tenant's
// current on-hand quantity; there is no stored stock counter anywhere else.
// Movements are never updated or deleted in normal operation.
type StockMovement struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	OwnerID    string         `gorm:"type:varchar(255);not null;index:idx_movements_owner_item" json:"owner_id"`
	ItemID     uuid.UUID      `gorm:"type:uuid;not null;index:idx_movements_owner_item" json:"item_id"`
	ChangeQty  int            `gorm:"not null" json:"change_qty"`
	Reason     MovementReason `gorm:"type:varchar(20);not null" json:"reason"`
	MovementAt time.Time      `gorm:"not null" json:"movement_at"`

	// Provenance link back to the line item that produced this movement.
	// Nil for initial-stock and manual adjustments.
	TransactionItemID *uuid.UUID `gorm:"type:uuid" json:"transaction_item_id,omitempty"`
}

func (m *StockMovement) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.MovementAt.IsZero() {
		m.MovementAt = time.Now()
	}
	return
}

func (StockMovement) TableName() string {
	return "stock_movements"
}
