package seed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/angelmondragon/storewise-backend/internal/snapshot"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSampleMatchesDemoStore(t *testing.T) {
	doc := Sample()
	require.Len(t, doc.Products, 5)
	require.Len(t, doc.Transactions, 2)
	require.Len(t, doc.Suppliers, 5)

	assert.Equal(t, "Organic Bananas", doc.Products[0].Name)
	assert.Equal(t, "🍌", doc.Products[0].ImageURL)
	assert.Equal(t, "10.27", doc.Transactions[0].Total.String())
	assert.Equal(t, "John Smith", *doc.Transactions[0].CustomerName)
	require.NotNil(t, doc.Settings.TaxRate)
	assert.Equal(t, "0.0875", doc.Settings.TaxRate.String())
	assert.Equal(t, "Sunny Corner Market", *doc.Settings.StoreName)
}

func TestLoadJSONRoundTripsSample(t *testing.T) {
	raw, err := snapshot.Encode(Sample())
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "store.json")
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	doc, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, doc.Products, 5)
	assert.Equal(t, "2.99", doc.Products[0].Price.String())
	assert.Equal(t, "P002", doc.Transactions[0].Items[1].ProductID)
}

func TestLoadYAML(t *testing.T) {
	const body = `
products:
  - id: P010
    name: Frozen Peas
    category: Frozen
    barcode: "999000111222"
    price: 1.49
    cost: 0.80
    stock: 40
    min_stock: 12
    supplier: Cold Chain Foods
settings:
  store_name: Harbor Mart
  tax_rate: 0.07
`
	path := filepath.Join(t.TempDir(), "store.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	doc, err := Load(path)
	require.NoError(t, err)
	require.Len(t, doc.Products, 1)
	assert.Equal(t, "Frozen Peas", doc.Products[0].Name)
	assert.Equal(t, "1.49", doc.Products[0].Price.String())
	assert.Equal(t, "999000111222", doc.Products[0].Barcode)
	assert.Empty(t, doc.Transactions)
	assert.Equal(t, "Harbor Mart", *doc.Settings.StoreName)
	assert.Nil(t, doc.Settings.Currency)
}

func TestLoadRejectsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.csv")
	require.NoError(t, os.WriteFile(path, []byte("id,name"), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}
