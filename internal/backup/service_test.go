package backup

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/angelmondragon/storewise-backend/internal/catalog"
	"github.com/angelmondragon/storewise-backend/internal/ledger"
	"github.com/angelmondragon/storewise-backend/internal/seed"
	"github.com/angelmondragon/storewise-backend/internal/settings"
	"github.com/angelmondragon/storewise-backend/internal/storetest"
	"github.com/angelmondragon/storewise-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/angelmondragon/storewise-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var exportTime = time.Date(2024, 8, 22, 9, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, client *db.Client) (Service, Repositories) {
	t.Helper()
	repos := Repositories{
		Products:  catalog.NewRepository(client.DB()),
		Suppliers: catalog.NewSupplierRepository(client.DB()),
		Ledger:    ledger.NewRepository(client.DB()),
		Settings:  settings.NewRepository(client.DB()),
	}
	svc, err := NewService(repos, client, time.UTC, logger.Nop())
	require.NoError(t, err)
	return svc, repos
}

func TestExportDocument(t *testing.T) {
	svc, _ := newTestService(t, storetest.NewSampleClient(t))

	out, err := svc.Export(context.Background(), exportTime)
	require.NoError(t, err)
	assert.Equal(t, "storewise-backup-2024-08-22.json", out.FileName)
	assert.Equal(t, "2024-08-22T09:30:00Z", out.Document.ExportDate)
	assert.Len(t, out.Document.Products, 5)
	assert.Len(t, out.Document.Transactions, 2)
	assert.Len(t, out.Document.Suppliers, 5)

	var generic map[string]any
	require.NoError(t, json.Unmarshal(out.Body, &generic))
	for _, key := range []string{"products", "transactions", "suppliers", "settings", "exportDate"} {
		assert.Contains(t, generic, key)
	}
	assert.Contains(t, string(out.Body), "\n  \"products\": [", "two space indentation")
	assert.Contains(t, string(out.Body), `"price": 2.99`, "amounts are bare numbers")
}

func TestExportImportRoundTrip(t *testing.T) {
	source, _ := newTestService(t, storetest.NewSampleClient(t))
	out, err := source.Export(context.Background(), exportTime)
	require.NoError(t, err)

	target, repos := newTestService(t, storetest.NewClient(t))
	ctx := context.Background()
	result, err := target.Import(ctx, out.Body, true)
	require.NoError(t, err)
	assert.Equal(t, &Result{Products: 5, Transactions: 2, Suppliers: 5, SettingsUpdated: true}, result)

	again, err := target.Export(ctx, exportTime)
	require.NoError(t, err)
	assert.JSONEq(t, string(out.Body), string(again.Body))

	txn, err := repos.Ledger.FindByID(ctx, "T002")
	require.NoError(t, err)
	require.Len(t, txn.Items, 2)
	assert.Equal(t, "Wonder Bread", txn.Items[1].Name)
}

func TestImportRequiresConfirmation(t *testing.T) {
	svc, repos := newTestService(t, storetest.NewSampleClient(t))
	ctx := context.Background()

	_, err := svc.Import(ctx, []byte(`{"products": []}`), false)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeConfirmationRequired))

	products, err := repos.Products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5, "unconfirmed import changes nothing")
}

func TestImportRejectsBadFormats(t *testing.T) {
	svc, repos := newTestService(t, storetest.NewSampleClient(t))
	ctx := context.Background()

	cases := map[string][]byte{
		"binary":     {0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00},
		"not json":   []byte("hello there"),
		"array":      []byte(`[1, 2, 3]`),
		"truncated":  []byte(`{"products": [`),
		"empty":      {},
		"bad record": []byte(`{"products": [{"id": "P001", "name": "", "category": "Produce", "barcode": "1", "price": -1, "cost": 0, "stock": 1, "min_stock": 0}]}`),
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Import(ctx, raw, true)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeImportFormat, typed.Code())
			assert.Equal(t, "invalid file format", typed.Message())
		})
	}

	products, err := repos.Products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5)
}

func TestImportMissingArraysMeanEmptyAndSettingsMerge(t *testing.T) {
	svc, repos := newTestService(t, storetest.NewSampleClient(t))
	ctx := context.Background()

	result, err := svc.Import(ctx, []byte(`{"settings": {"store_name": "Night Owl Mart"}}`), true)
	require.NoError(t, err)
	assert.Zero(t, result.Products)

	products, err := repos.Products.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products)
	txns, err := repos.Ledger.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, txns)

	current, err := repos.Settings.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Night Owl Mart", current.StoreName)
	assert.Equal(t, "0.0875", current.TaxRate.String(), "absent keys keep their values")
}

func TestImportResetsIDSequenceToImportedData(t *testing.T) {
	svc, repos := newTestService(t, storetest.NewSampleClient(t))
	ctx := context.Background()

	before, err := ledger.Allocate(ctx, repos.Ledger)
	require.NoError(t, err)
	assert.Equal(t, "T003", before.ID)

	_, err = svc.Import(ctx, []byte(`{"products": [], "transactions": [], "suppliers": []}`), true)
	require.NoError(t, err)

	after, err := ledger.Allocate(ctx, repos.Ledger)
	require.NoError(t, err)
	assert.Equal(t, "T001", after.ID, "allocation follows the ids present after the import")
}

func TestImportInvalidSettingsRollsBack(t *testing.T) {
	svc, repos := newTestService(t, storetest.NewSampleClient(t))
	ctx := context.Background()

	_, err := svc.Import(ctx, []byte(`{"products": [], "settings": {"tax_rate": 4}}`), true)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeImportFormat))

	products, err := repos.Products.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5, "failed import leaves the catalog untouched")
}

func TestValidateReportsEveryProblem(t *testing.T) {
	doc := seed.Sample()
	doc.Products[1].Barcode = doc.Products[0].Barcode
	doc.Products[2].ID = doc.Products[0].ID
	doc.Transactions[0].Items[0].Quantity = 0
	doc.Transactions[1].PaymentMethod = "barter"
	doc.Suppliers[0].Name = ""

	err := Validate(doc)
	require.Error(t, err)
	problems := Problems(err)
	assert.Len(t, problems, 5)
	assert.Contains(t, problems, "transactions[0].items[0].quantity must be at least 1")
	assert.Contains(t, problems, "suppliers[0].name is required")
}

func TestRestoreFillsMissingGlyphs(t *testing.T) {
	svc, repos := newTestService(t, storetest.NewClient(t))
	ctx := context.Background()
	doc := seed.Sample()
	doc.Products[0].ImageURL = ""

	_, err := svc.Restore(ctx, doc)
	require.NoError(t, err)
	p, err := repos.Products.FindByID(ctx, "P001")
	require.NoError(t, err)
	assert.Equal(t, "🥬", p.ImageURL)
}
