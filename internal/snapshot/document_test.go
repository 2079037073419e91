package snapshot

import (
	"testing"

	"github.com/angelmondragon/storewise-backend/pkg/db/models"
	"github.com/angelmondragon/storewise-backend/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMissingArraysAreEmpty(t *testing.T) {
	doc, err := Decode([]byte(`{"settings": {"store_name": "Corner"}}`))
	require.NoError(t, err)
	assert.NotNil(t, doc.Products)
	assert.Empty(t, doc.Products)
	assert.Empty(t, doc.Transactions)
	assert.Empty(t, doc.Suppliers)
	require.NotNil(t, doc.Settings)
	require.NotNil(t, doc.Settings.StoreName)
	assert.Nil(t, doc.Settings.TaxRate)
}

func TestDecodeRejectsNonObjects(t *testing.T) {
	for _, raw := range []string{"", "[]", "not json", `{"products": "nope"}`} {
		_, err := Decode([]byte(raw))
		assert.Error(t, err, "input %q", raw)
	}
}

func TestSettingsPatchMergesPresentKeysOnly(t *testing.T) {
	current := models.Settings{
		StoreName:         "Sunny Corner Market",
		Currency:          "USD",
		TaxRate:           money.MustParse("0.0875"),
		LowStockThreshold: 10,
	}
	doc, err := Decode([]byte(`{"settings": {"store_name": "Moonlight Grocer", "tax_rate": 0.05}}`))
	require.NoError(t, err)

	doc.Settings.Apply(&current)
	assert.Equal(t, "Moonlight Grocer", current.StoreName)
	assert.Equal(t, "0.05", current.TaxRate.String())
	assert.Equal(t, "USD", current.Currency)
	assert.Equal(t, 10, current.LowStockThreshold)
}

func TestEncodeIndentsTwoSpaces(t *testing.T) {
	out, err := Encode(&Document{ExportDate: "2024-08-21T14:30:00Z"})
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  \"products\": []")
	assert.Contains(t, string(out), `"settings": null`)
}
