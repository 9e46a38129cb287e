package repository

import (
	"go-bookkeeping/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TenantRepository interface {
	Ensure(id, name string) error
	FindByID(id string) (*model.Tenant, error)
}

type tenantRepo struct {
	db *gorm.DB
}

func NewTenantRepo(db *gorm.DB) TenantRepository {
	return &tenantRepo{db}
}

// Ensure creates the tenant row the first time the identity is seen, from
// either the provider webhook or an authenticated request. Idempotent.
func (r *tenantRepo) Ensure(id, name string) error {
	tenant := model.Tenant{ID: id, Name: name}
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&tenant).Error
}

func (r *tenantRepo) FindByID(id string) (*model.Tenant, error) {
	var tenant model.Tenant
	if err := r.db.First(&tenant, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &tenant, nil
}
