package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/angelmondragon/storewise-backend/internal/catalog"
	"github.com/angelmondragon/storewise-backend/internal/ledger"
	"github.com/angelmondragon/storewise-backend/internal/settings"
	"github.com/angelmondragon/storewise-backend/internal/storetest"
	"github.com/angelmondragon/storewise-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/angelmondragon/storewise-backend/pkg/metrics"
	"github.com/angelmondragon/storewise-backend/pkg/money"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-08-21 is a Wednesday and the date of both sample sales.
var sampleDay = time.Date(2024, 8, 21, 18, 0, 0, 0, time.UTC)

func newSampleService(t *testing.T, reg prometheus.Registerer) Service {
	t.Helper()
	client := storetest.NewSampleClient(t)
	svc, err := NewService(
		catalog.NewRepository(client.DB()),
		ledger.NewRepository(client.DB()),
		settings.NewRepository(client.DB()),
		Options{
			Clock:   func() time.Time { return sampleDay },
			Metrics: metrics.NewStoreMetrics(reg, "test"),
		},
	)
	require.NoError(t, err)
	return svc
}

func TestSummary(t *testing.T) {
	reg := prometheus.NewRegistry()
	svc := newSampleService(t, reg)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "2024-08-21", summary.Date)
	assert.Equal(t, 5, summary.TotalProducts)
	assert.Equal(t, "467.49", summary.InventoryValue.StringFixed(2))
	assert.Equal(t, "$467.49", summary.InventoryDisplay)
	assert.Equal(t, 2, summary.LowStockCount)
	require.Len(t, summary.LowStockAlerts, 2)
	assert.Equal(t, "P002", summary.LowStockAlerts[0].ProductID)
	assert.Equal(t, "P005", summary.LowStockAlerts[1].ProductID)
	assert.Equal(t, "22.84", summary.TodaySales.StringFixed(2))
	assert.Equal(t, 2, summary.TodayTransactions)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, mf := range mfs {
		if mf.GetName() == "test_low_stock_products" {
			found = true
			assert.Equal(t, float64(2), mf.GetMetric()[0].GetGauge().GetValue())
		}
	}
	assert.True(t, found, "low stock gauge exported")
}

func TestSummaryOnAnotherDay(t *testing.T) {
	client := storetest.NewSampleClient(t)
	svc, err := NewService(catalog.NewRepository(client.DB()), ledger.NewRepository(client.DB()), settings.NewRepository(client.DB()), Options{
		Clock: func() time.Time { return sampleDay.AddDate(0, 0, 1) },
	})
	require.NoError(t, err)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.TodaySales.IsZero())
	assert.Zero(t, summary.TodayTransactions)
}

func TestCharts(t *testing.T) {
	svc := newSampleService(t, nil)

	charts, err := svc.Charts(context.Background(), ChartParams{Top: 3})
	require.NoError(t, err)

	require.Len(t, charts.DailySales, 7)
	assert.Equal(t, "Thu", charts.DailySales[0].Label)
	assert.Equal(t, "Wed", charts.DailySales[6].Label)
	assert.Equal(t, "2024-08-21", charts.DailySales[6].From)
	assert.Equal(t, "22.84", charts.DailySales[6].Value.StringFixed(2))
	assert.True(t, charts.DailySales[0].Value.IsZero())

	require.Len(t, charts.WeeklySales, 4)
	assert.Equal(t, "Week 1", charts.WeeklySales[0].Label)
	assert.Equal(t, "Week 4", charts.WeeklySales[3].Label)
	assert.Equal(t, "2024-08-15", charts.WeeklySales[3].From)
	assert.Equal(t, "2024-08-21", charts.WeeklySales[3].To)
	assert.Equal(t, "22.84", charts.WeeklySales[3].Value.StringFixed(2))

	require.Len(t, charts.TopProducts, 3)
	assert.Equal(t, ProductUnits{ProductID: "P001", Name: "Organic Bananas", Units: 2}, charts.TopProducts[0])
	assert.Equal(t, "P004", charts.TopProducts[1].ProductID)
	assert.Equal(t, "P002", charts.TopProducts[2].ProductID)
}

func TestChartsRejectsHugeRange(t *testing.T) {
	svc := newSampleService(t, nil)
	_, err := svc.Charts(context.Background(), ChartParams{Days: 5000})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestTopProductsFallsBackToSnapshotName(t *testing.T) {
	txns := []models.Transaction{{Items: []models.TransactionItem{
		{ProductID: "P009", Name: "Retired Item", Quantity: 4},
		{ProductID: "P001", Name: "Old Name", Quantity: 1},
	}}}
	products := []models.Product{{ID: "P001", Name: "Organic Bananas"}}

	ranked := TopProducts(txns, products, 0)
	require.Len(t, ranked, 2)
	assert.Equal(t, "Retired Item", ranked[0].Name)
	assert.Equal(t, "Organic Bananas", ranked[1].Name)
}

func TestInventoryValueAndAlerts(t *testing.T) {
	products := []models.Product{
		{ID: "P001", Price: money.MustParse("1.50"), Stock: 4, MinStock: 2},
		{ID: "P002", Price: money.MustParse("2.00"), Stock: 2, MinStock: 2},
		{ID: "P003", Price: money.MustParse("3.00"), Stock: -1, MinStock: 0},
	}
	assert.True(t, InventoryValue(products).Equal(decimal.RequireFromString("7")))
	alerts := LowStockAlerts(products)
	require.Len(t, alerts, 2)
	assert.Equal(t, "P002", alerts[0].ProductID)
	assert.Equal(t, "P003", alerts[1].ProductID)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	client := storetest.NewClient(t)
	_, err := NewService(nil, ledger.NewRepository(client.DB()), settings.NewRepository(client.DB()), Options{})
	assert.Error(t, err)
	_, err = NewService(catalog.NewRepository(client.DB()), nil, settings.NewRepository(client.DB()), Options{})
	assert.Error(t, err)
	_, err = NewService(catalog.NewRepository(client.DB()), ledger.NewRepository(client.DB()), nil, Options{})
	assert.Error(t, err)
}
