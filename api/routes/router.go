package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storewise-backend/api/controllers"
	"github.com/angelmondragon/storewise-backend/api/middleware"
	"github.com/angelmondragon/storewise-backend/internal/app"
	"github.com/angelmondragon/storewise-backend/pkg/config"
	"github.com/angelmondragon/storewise-backend/pkg/logger"
	"github.com/angelmondragon/storewise-backend/pkg/redis"
)

// Deps are the collaborators the router needs beyond the store itself.
// Idempotency and Redis stay nil when no redis is configured.
type Deps struct {
	Store       *app.Store
	Idempotency redis.IdempotencyStore
	Redis       controllers.Pinger
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Deps) http.Handler {
	store := deps.Store
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.CORS.AllowedOrigins),
		middleware.Metrics(store.HTTP),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": store,
			"redis":    deps.Redis,
		}))
	})

	if cfg.Metrics.Enabled && store.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(store.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Idempotency(deps.Idempotency, cfg.Redis.IdempotencyTTL, cfg.Store.MaxImportBytes(), logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductSearch(store.Catalog, logg))
			r.Post("/", controllers.ProductCreate(store.Catalog, logg))
			r.Get("/lookup", controllers.ProductLookup(store.Catalog, logg))
			r.Get("/{productId}", controllers.ProductFind(store.Catalog, logg))
			r.Patch("/{productId}", controllers.ProductUpdate(store.Catalog, logg))
		})
		r.Get("/categories", controllers.CategoryList(store.Catalog))
		r.Route("/suppliers", func(r chi.Router) {
			r.Get("/", controllers.SupplierList(store.Catalog, logg))
			r.Post("/", controllers.SupplierCreate(store.Catalog, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartView(store.Cart, logg))
			r.Delete("/", controllers.CartClear(store.Cart, logg))
			r.Post("/items", controllers.CartAdd(store.Cart, logg))
			r.Put("/items/{index}", controllers.CartSetQuantity(store.Cart, logg))
			r.Post("/items/{index}/adjust", controllers.CartAdjust(store.Cart, logg))
			r.Delete("/items/{index}", controllers.CartRemove(store.Cart, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/", controllers.CheckoutStatus(store.Checkout))
			r.Post("/review", controllers.CheckoutReview(store.Checkout, logg))
			r.Post("/payment", controllers.CheckoutPayment(store.Checkout, logg))
			r.Post("/cancel", controllers.CheckoutCancel(store.Checkout, logg))
			r.Post("/confirm", controllers.CheckoutConfirm(store.Checkout, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.TransactionsRecent(store.Ledger, cfg.Store.RecentLimit, logg))
			r.Get("/sales", controllers.TransactionSales(store.Ledger, store.Now, logg))
			r.Get("/{transactionId}", controllers.TransactionFind(store.Ledger, logg))
		})

		r.Get("/dashboard", controllers.DashboardSummary(store.Dashboard, logg))
		r.Get("/dashboard/charts", controllers.DashboardCharts(store.Dashboard, logg))

		r.Get("/settings", controllers.SettingsGet(store.Settings, logg))
		r.Patch("/settings", controllers.SettingsUpdate(store.Settings, logg))

		r.Get("/backup/export", controllers.BackupExport(store.Backup, store.Now, logg))
		r.Post("/backup/import", controllers.BackupImport(store.Backup, cfg.Store.MaxImportBytes(), logg))

		r.Post("/intents", controllers.IntentDispatch(store.Intents, logg))
	})

	return r
}
