package catalog

import (
	"encoding/json"
	"testing"

	"github.com/angelmondragon/storewise-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductFormInput(t *testing.T) {
	var form ProductForm
	require.NoError(t, json.Unmarshal([]byte(`{
		"name": "Frozen Peas", "category": "Frozen", "barcode": "999",
		"price": 1.49, "cost": "0.80", "stock": 40, "min_stock": 12
	}`), &form))

	input, err := form.Input()
	require.NoError(t, err)
	assert.Equal(t, enums.CategoryFrozen, input.Category)
	assert.Equal(t, "1.49", input.Price.StringFixed(2))
	assert.Equal(t, "0.80", input.Cost.StringFixed(2))
	assert.Equal(t, "", input.Supplier)
}

func TestProductFormInputMissingFields(t *testing.T) {
	name := "Peas"
	_, err := ProductForm{Name: &name}.Input()
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	details, ok := typed.Details().(map[string]string)
	require.True(t, ok)
	assert.Contains(t, details, "barcode")
	assert.NotContains(t, details, "name")
}

func TestProductFormPatch(t *testing.T) {
	bad := "Toys"
	_, err := ProductForm{Category: &bad}.Patch()
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	dairy := "Dairy"
	patch, err := ProductForm{Category: &dairy}.Patch()
	require.NoError(t, err)
	require.NotNil(t, patch.Category)
	assert.Equal(t, enums.CategoryDairy, *patch.Category)
	assert.Nil(t, patch.Price)
}
