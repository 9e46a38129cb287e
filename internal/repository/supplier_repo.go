package repository

import (
	"go-bookkeeping/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SupplierRepository interface {
	Create(supplier *model.Supplier) error
	FindVisible(tenantID string) ([]model.Supplier, error)
	FindByID(id uuid.UUID) (*model.Supplier, error)
}

type supplierRepo struct {
	db *gorm.DB
}

func NewSupplierRepo(db *gorm.DB) SupplierRepository {
	return &supplierRepo{db}
}

func (r *supplierRepo) Create(supplier *model.Supplier) error {
	return r.db.Create(supplier).Error
}

// FindVisible returns own plus global suppliers, ordered by name for
// dropdown rendering.
func (r *supplierRepo) FindVisible(tenantID string) ([]model.Supplier, error) {
	var suppliers []model.Supplier
	err := r.db.
		Where("owner_id = ? OR owner_id IS NULL", tenantID).
		Order("name ASC").
		Find(&suppliers).Error
	return suppliers, err
}

func (r *supplierRepo) FindByID(id uuid.UUID) (*model.Supplier, error) {
	var supplier model.Supplier
	if err := r.db.First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}
