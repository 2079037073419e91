package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/angelmondragon/storewise-backend/internal/snapshot"
	"github.com/angelmondragon/storewise-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/angelmondragon/storewise-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes the store profile.
type Service interface {
	Get(ctx context.Context) (*models.Settings, error)
	Update(ctx context.Context, patch snapshot.SettingsPatch) (*models.Settings, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo *Repository
	tx   txRunner
	logg *logger.Logger
}

func NewService(repo *Repository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, tx: tx, logg: logg}, nil
}

func (s *service) Get(ctx context.Context) (*models.Settings, error) {
	current, err := s.repo.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load settings")
	}
	return current, nil
}

// Update merges the present keys of patch onto the stored settings.
func (s *service) Update(ctx context.Context, patch snapshot.SettingsPatch) (*models.Settings, error) {
	var updated *models.Settings
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		current, err := repo.Get(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load settings")
		}
		patch.Apply(current)
		if err := Validate(current); err != nil {
			return err
		}
		if err := repo.Save(ctx, current); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save settings")
		}
		updated = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logg.Info(ctx, "settings.updated")
	return updated, nil
}

// Validate checks the settings invariants.
func Validate(s *models.Settings) error {
	details := map[string]string{}
	if s.TaxRate.IsNegative() || s.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		details["tax_rate"] = "tax_rate must be a fraction between 0 and 1"
	}
	if s.LowStockThreshold < 0 {
		details["low_stock_threshold"] = "low_stock_threshold must be non-negative"
	}
	if strings.TrimSpace(s.Currency) == "" {
		details["currency"] = "currency is required"
	}
	if len(details) > 0 {
		return pkgerrors.InvalidInput("invalid settings").WithDetails(details)
	}
	return nil
}
