package settings

import (
	"context"

	"github.com/angelmondragon/storewise-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads and writes the single settings row.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

func (r *Repository) Get(ctx context.Context) (*models.Settings, error) {
	var s models.Settings
	if err := r.db.WithContext(ctx).First(&s, models.SettingsID).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *Repository) Save(ctx context.Context, s *models.Settings) error {
	s.ID = models.SettingsID
	return r.db.WithContext(ctx).Save(s).Error
}
