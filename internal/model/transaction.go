package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TxSale    TransactionType = "sale"
	TxExpense TransactionType = "expense"
)

// Valid reports whether t is one of the two canonical transaction types.
// The legacy "income" literal is a migration concern and is not accepted.
func (t TransactionType) Valid() bool {
	return t == TxSale || t == TxExpense
}

// Transaction is the immutable financial header. TotalAmount is always
// recomputed server-side from the line items, never taken from the caller.
type Transaction struct {
	BaseModel
	OwnerID        string          `gorm:"type:varchar(255);not null;index" json:"owner_id"`
	Name           string          `gorm:"type:varchar(200)" json:"name"`
	SupplierID     *uuid.UUID      `gorm:"type:uuid" json:"supplier_id,omitempty"`
	Supplier       *Supplier       `json:"supplier,omitempty"`
	Date           time.Time       `gorm:"type:date;not null;index" json:"date"`
	Type           TransactionType `gorm:"type:varchar(10);not null" json:"type"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	PaymentMethod  string          `gorm:"type:varchar(50)" json:"payment_method"`
	Notes          string          `gorm:"type:text" json:"notes"`
	IsStockRelated bool            `gorm:"not null;default:false" json:"is_stock_related"`

	Items []TransactionItem `json:"items,omitempty"`
}

// TransactionItem is a line of its parent transaction. Immutable; only
// removed if the whole transaction is removed, which this service never does.
type TransactionItem struct {
	BaseModel
	TransactionID uuid.UUID       `gorm:"type:uuid;not null;index" json:"transaction_id"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"item_id"`
	Item          *Item           `json:"item,omitempty"`
	Quantity      int             `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	UnitPrice     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"unit_price"`
}
