// Package app assembles one store instance over its own in-memory database.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/angelmondragon/storewise-backend/internal/backup"
	"github.com/angelmondragon/storewise-backend/internal/cart"
	"github.com/angelmondragon/storewise-backend/internal/catalog"
	"github.com/angelmondragon/storewise-backend/internal/checkout"
	"github.com/angelmondragon/storewise-backend/internal/dashboard"
	"github.com/angelmondragon/storewise-backend/internal/intents"
	"github.com/angelmondragon/storewise-backend/internal/ledger"
	"github.com/angelmondragon/storewise-backend/internal/seed"
	"github.com/angelmondragon/storewise-backend/internal/settings"
	"github.com/angelmondragon/storewise-backend/internal/snapshot"
	"github.com/angelmondragon/storewise-backend/pkg/config"
	"github.com/angelmondragon/storewise-backend/pkg/db"
	"github.com/angelmondragon/storewise-backend/pkg/enums"
	"github.com/angelmondragon/storewise-backend/pkg/logger"
	"github.com/angelmondragon/storewise-backend/pkg/metrics"
	"github.com/angelmondragon/storewise-backend/pkg/migrate"
	"github.com/prometheus/client_golang/prometheus"
)

// Options override the clock and seed of a store instance.
type Options struct {
	// Seed replaces the configured seed source when set.
	Seed *snapshot.Document
	// Clock stamps sales and anchors "today". Defaults to time.Now.
	Clock func() time.Time
	// Registry receives store metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry
}

// Store is a fully wired store instance.
type Store struct {
	DB       *db.Client
	Location *time.Location
	Clock    func() time.Time
	Registry *prometheus.Registry
	Metrics  *metrics.StoreMetrics
	HTTP     *metrics.HTTPMetrics

	Catalog   catalog.Service
	Settings  settings.Service
	Cart      cart.Service
	Checkout  checkout.Service
	Ledger    ledger.Service
	Dashboard dashboard.Service
	Backup    backup.Service
	Intents   *intents.Dispatcher
}

// New opens a database, wires the services and loads the seed document.
func New(ctx context.Context, cfg *config.Config, logg *logger.Logger, opts Options) (*Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	loc, err := cfg.App.Location()
	if err != nil {
		return nil, err
	}
	policy, err := enums.ParseStockPolicy(cfg.Store.StockPolicy)
	if err != nil {
		return nil, err
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	reg := opts.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	storeMetrics := metrics.NewStoreMetrics(nil, "")
	httpMetrics := metrics.NewHTTPMetrics(nil, "")
	if cfg.Metrics.Enabled {
		storeMetrics = metrics.NewStoreMetrics(reg, cfg.Metrics.Namespace)
		httpMetrics = metrics.NewHTTPMetrics(reg, cfg.Metrics.Namespace)
	}

	client, err := db.New(ctx, db.Options{Migrate: migrate.Up}, logg)
	if err != nil {
		return nil, err
	}
	store, err := wire(client, cfg, logg, loc, clock, policy, storeMetrics)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	store.Registry = reg
	store.HTTP = httpMetrics

	doc, err := seedDocument(cfg, opts)
	if err != nil {
		_ = client.Close()
		return nil, err
	}
	if doc != nil {
		if _, err := store.Backup.Restore(ctx, doc); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("load seed: %w", err)
		}
	}
	logg.Info(logg.WithFields(ctx, map[string]any{
		"db_name":      client.Name(),
		"stock_policy": policy.String(),
		"seeded":       doc != nil,
	}), "store.ready")
	return store, nil
}

func wire(client *db.Client, cfg *config.Config, logg *logger.Logger, loc *time.Location, clock func() time.Time, policy enums.StockPolicy, storeMetrics *metrics.StoreMetrics) (*Store, error) {
	conn := client.DB()
	productRepo := catalog.NewRepository(conn)
	supplierRepo := catalog.NewSupplierRepository(conn)
	ledgerRepo := ledger.NewRepository(conn)
	settingsRepo := settings.NewRepository(conn)

	catalogSvc, err := catalog.NewService(productRepo, supplierRepo, client, logg)
	if err != nil {
		return nil, err
	}
	settingsSvc, err := settings.NewService(settingsRepo, client, logg)
	if err != nil {
		return nil, err
	}
	cartSvc, err := cart.NewService(catalogSvc, settingsSvc, logg)
	if err != nil {
		return nil, err
	}
	checkoutSvc, err := checkout.NewService(client, cartSvc.Cart(), settingsRepo, productRepo, ledgerRepo, logg, checkout.Options{
		Policy:   policy,
		Location: loc,
		Clock:    clock,
		Metrics:  storeMetrics,
	})
	if err != nil {
		return nil, err
	}
	ledgerSvc, err := ledger.NewService(ledgerRepo)
	if err != nil {
		return nil, err
	}
	dashboardSvc, err := dashboard.NewService(productRepo, ledgerRepo, settingsRepo, dashboard.Options{
		Location: loc,
		Clock:    clock,
		Defaults: dashboard.ChartParams{
			Days:  cfg.Store.ChartDays,
			Weeks: cfg.Store.ChartWeeks,
			Top:   cfg.Store.TopProductsN,
		},
		Metrics: storeMetrics,
	})
	if err != nil {
		return nil, err
	}
	backupSvc, err := backup.NewService(backup.Repositories{
		Products:  productRepo,
		Suppliers: supplierRepo,
		Ledger:    ledgerRepo,
		Settings:  settingsRepo,
	}, client, loc, logg)
	if err != nil {
		return nil, err
	}

	dispatcher, err := intents.NewDefault(intents.Services{
		Catalog:   catalogSvc,
		Cart:      cartSvc,
		Checkout:  checkoutSvc,
		Ledger:    ledgerSvc,
		Dashboard: dashboardSvc,
		Settings:  settingsSvc,
	}, intents.NewDispatcher(logg))
	if err != nil {
		return nil, err
	}

	return &Store{
		DB:        client,
		Location:  loc,
		Clock:     clock,
		Metrics:   storeMetrics,
		Catalog:   catalogSvc,
		Settings:  settingsSvc,
		Cart:      cartSvc,
		Checkout:  checkoutSvc,
		Ledger:    ledgerSvc,
		Dashboard: dashboardSvc,
		Backup:    backupSvc,
		Intents:   dispatcher,
	}, nil
}

func seedDocument(cfg *config.Config, opts Options) (*snapshot.Document, error) {
	switch {
	case opts.Seed != nil:
		return opts.Seed, nil
	case cfg.Store.SeedFile != "":
		return seed.Load(cfg.Store.SeedFile)
	case cfg.Store.SeedSample:
		return seed.Sample(), nil
	}
	return nil, nil
}

// Now returns the store clock in the store's timezone.
func (s *Store) Now() time.Time {
	return s.Clock().In(s.Location)
}

// Ping checks the backing database.
func (s *Store) Ping(ctx context.Context) error {
	return s.DB.Ping(ctx)
}

// Close releases the in-memory database and everything in it.
func (s *Store) Close() error {
	return s.DB.Close()
}
