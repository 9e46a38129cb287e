package model

import "github.com/shopspring/decimal"

// Item is a catalog entry. OwnerID is NULL for global items, which every
// tenant can see; stock for a global item is still tracked per tenant via
// the movement ledger.
type Item struct {
	BaseModel
	SKU       string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name      string          `gorm:"type:varchar(150);not null" json:"name" validate:"required"`
	CostPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"cost_price"`
	SalePrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"sale_price"`

	OwnerID *string `gorm:"type:varchar(255);index" json:"owner_id"`
	Owner   *Tenant `gorm:"foreignKey:OwnerID" json:"-"`
}

func (i *Item) IsGlobal() bool {
	return i.OwnerID == nil
}
