package model

import "time"

// Tenant is an authenticated account, identified by the opaque ID the
// external identity provider hands us. It is created the first time we see
// the identity (webhook or first authenticated request) and never mutated.
type Tenant struct {
	ID        string    `gorm:"type:varchar(255);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100)" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

func (Tenant) TableName() string {
	return "tenants"
}
