package model

// Supplier follows the same ownership model as Item: OwnerID NULL means a
// global supplier visible to all tenants. Names are not unique.
type Supplier struct {
	BaseModel
	Name    string `gorm:"type:varchar(200);not null" json:"name" validate:"required"`
	City    string `gorm:"type:varchar(100)" json:"city"`
	Phone   string `gorm:"type:varchar(50)" json:"phone"`
	Email   string `gorm:"type:varchar(100)" json:"email"`
	Address string `gorm:"type:text" json:"address"`
	Notes   string `gorm:"type:text" json:"notes"`

	OwnerID *string `gorm:"type:varchar(255);index" json:"owner_id"`
	Owner   *Tenant `gorm:"foreignKey:OwnerID" json:"-"`
}

func (s *Supplier) IsGlobal() bool {
	return s.OwnerID == nil
}
