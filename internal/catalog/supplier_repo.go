package catalog

import (
	"context"

	"github.com/angelmondragon/storewise-backend/pkg/db/models"
	"gorm.io/gorm"
)

// SupplierRepository persists supplier reference data.
type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

func (r *SupplierRepository) WithTx(tx *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: tx}
}

func (r *SupplierRepository) List(ctx context.Context) ([]models.Supplier, error) {
	var suppliers []models.Supplier
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *SupplierRepository) FindByID(ctx context.Context, id string) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *SupplierRepository) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.Supplier{}).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *SupplierRepository) NextPosition(ctx context.Context) (int64, error) {
	var max int64
	if err := r.db.WithContext(ctx).
		Model(&models.Supplier{}).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (r *SupplierRepository) Create(ctx context.Context, supplier *models.Supplier) error {
	return r.db.WithContext(ctx).Create(supplier).Error
}

// ReplaceAll swaps every supplier for the given list, keeping its order.
func (r *SupplierRepository) ReplaceAll(ctx context.Context, suppliers []models.Supplier) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Supplier{}).Error; err != nil {
		return err
	}
	if len(suppliers) == 0 {
		return nil
	}
	rows := make([]models.Supplier, len(suppliers))
	for i := range suppliers {
		rows[i] = suppliers[i]
		rows[i].Position = int64(i + 1)
	}
	return tx.CreateInBatches(&rows, 100).Error
}
