package catalog

import (
	"context"

	"github.com/angelmondragon/storewise-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository persists products.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// List returns every product in catalog order.
func (r *Repository) List(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ListByCategory returns the products of a single category in catalog order.
func (r *Repository) ListByCategory(ctx context.Context, category string) ([]models.Product, error) {
	var products []models.Product
	if err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("position ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByID loads a product by id.
func (r *Repository) FindByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// FindByBarcode loads a product by its exact barcode.
func (r *Repository) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "barcode = ?", barcode).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// IDs returns every product id.
func (r *Repository) IDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// NextPosition returns the position after the last product.
func (r *Repository) NextPosition(ctx context.Context) (int64, error) {
	var max int64
	if err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("COALESCE(MAX(position), 0)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	return max + 1, nil
}

// Create inserts a new product row.
func (r *Repository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

// Save writes every column of an existing product.
func (r *Repository) Save(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// SetStock overwrites the stock level of a product.
func (r *Repository) SetStock(ctx context.Context, id string, stock int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("stock", stock).Error
}

// ReplaceAll swaps the whole catalog for products, keeping their order.
func (r *Repository) ReplaceAll(ctx context.Context, products []models.Product) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Product{}).Error; err != nil {
		return err
	}
	if len(products) == 0 {
		return nil
	}
	rows := make([]models.Product, len(products))
	for i := range products {
		rows[i] = products[i]
		rows[i].Position = int64(i + 1)
	}
	return tx.CreateInBatches(&rows, 100).Error
}
