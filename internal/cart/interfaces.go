package cart

import (
	"context"

	"github.com/angelmondragon/storewise-backend/pkg/db/models"
)

// productFinder resolves the catalog entry a new line snapshots.
type productFinder interface {
	FindProduct(ctx context.Context, id string) (*models.Product, error)
}

// settingsReader supplies the tax rate used for cart totals.
type settingsReader interface {
	Get(ctx context.Context) (*models.Settings, error)
}
