package intents_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/angelmondragon/storewise-backend/internal/app"
	"github.com/angelmondragon/storewise-backend/internal/cart"
	"github.com/angelmondragon/storewise-backend/internal/checkout"
	"github.com/angelmondragon/storewise-backend/internal/intents"
	"github.com/angelmondragon/storewise-backend/pkg/config"
	"github.com/angelmondragon/storewise-backend/pkg/db/models"
	"github.com/angelmondragon/storewise-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/angelmondragon/storewise-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *app.Store {
	t.Helper()
	store, err := app.New(context.Background(), config.Default(), logger.Nop(), app.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func dispatch(t *testing.T, store *app.Store, kind enums.IntentKind, payload string) (*intents.Result, error) {
	t.Helper()
	req := intents.Request{Kind: kind}
	if payload != "" {
		req.Payload = json.RawMessage(payload)
	}
	return store.Intents.Dispatch(context.Background(), req)
}

func TestEveryKindIsRegistered(t *testing.T) {
	store := newStore(t)
	assert.ElementsMatch(t, enums.IntentKinds(), store.Intents.Kinds())
}

func TestUnknownIntentRejected(t *testing.T) {
	store := newStore(t)
	_, err := dispatch(t, store, "explode", "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestRegisterValidates(t *testing.T) {
	d := intents.NewDispatcher(nil)
	assert.Error(t, d.Register("explode", func(context.Context, json.RawMessage) (any, error) { return nil, nil }))
	assert.Error(t, d.Register(enums.IntentClearCart, nil))
}

func TestSaleFlowThroughIntents(t *testing.T) {
	store := newStore(t)

	res, err := dispatch(t, store, enums.IntentAddToCart, `{"product_id": "P001"}`)
	require.NoError(t, err)
	view := res.Data.(*cart.View)
	assert.Equal(t, 1, view.ItemCount)

	_, err = dispatch(t, store, enums.IntentSetQuantity, `{"index": 0, "quantity": "3abc"}`)
	require.NoError(t, err)
	res, err = dispatch(t, store, enums.IntentAdjustQuantity, `{"index": 0, "delta": -1}`)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Data.(*cart.View).ItemCount)

	_, err = dispatch(t, store, enums.IntentAddToCart, `{"product_id": "P002", "quantity": 1}`)
	require.NoError(t, err)

	_, err = dispatch(t, store, enums.IntentBeginCheckout, "")
	require.NoError(t, err)
	_, err = dispatch(t, store, enums.IntentProceedToPayment, "")
	require.NoError(t, err)
	res, err = dispatch(t, store, enums.IntentCompletePayment, `{"payment_method": "card", "customer_name": "Lee"}`)
	require.NoError(t, err)

	receipt := res.Data.(*checkout.Receipt)
	assert.Equal(t, "11.17", receipt.Transaction.Total.StringFixed(2))
	assert.Equal(t, enums.PaymentMethodCard, receipt.Transaction.PaymentMethod)
}

func TestCartLineIntents(t *testing.T) {
	store := newStore(t)
	_, err := dispatch(t, store, enums.IntentAddToCart, `{"product_id": "P003"}`)
	require.NoError(t, err)

	_, err = dispatch(t, store, enums.IntentRemoveLine, `{"index": 4}`)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	res, err := dispatch(t, store, enums.IntentRemoveLine, `{"index": 0}`)
	require.NoError(t, err)
	assert.Empty(t, res.Data.(*cart.View).Lines)

	_, err = dispatch(t, store, enums.IntentAddToCart, `{"product_id": "P003"}`)
	require.NoError(t, err)
	res, err = dispatch(t, store, enums.IntentClearCart, "")
	require.NoError(t, err)
	assert.Empty(t, res.Data.(*cart.View).Lines)

	_, err = dispatch(t, store, enums.IntentCancelCheckout, "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeStateConflict))
}

func TestPayloadErrors(t *testing.T) {
	store := newStore(t)
	_, err := dispatch(t, store, enums.IntentAddToCart, `{"product_id": "P001", "colour": "red"}`)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	_, err = dispatch(t, store, enums.IntentAddToCart, `{}`)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestAddToCartRejectsNonPositiveQuantity(t *testing.T) {
	store := newStore(t)
	for _, payload := range []string{
		`{"product_id": "P002", "quantity": 0}`,
		`{"product_id": "P002", "quantity": -2}`,
		`{"product_id": "P002", "quantity": "abc"}`,
	} {
		_, err := dispatch(t, store, enums.IntentAddToCart, payload)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), payload)
	}
}

func TestLineIntentsRequireIndex(t *testing.T) {
	store := newStore(t)
	_, err := dispatch(t, store, enums.IntentAddToCart, `{"product_id": "P003"}`)
	require.NoError(t, err)

	for kind, payload := range map[enums.IntentKind]string{
		enums.IntentRemoveLine:     `{}`,
		enums.IntentSetQuantity:    `{"quantity": 3}`,
		enums.IntentAdjustQuantity: `{"delta": 1}`,
	} {
		_, err := dispatch(t, store, kind, payload)
		assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation), string(kind))
	}
	_, err = dispatch(t, store, enums.IntentRemoveLine, "")
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	res, err := dispatch(t, store, enums.IntentNavigateSection, `{"section": "sales"}`)
	require.NoError(t, err)
	view := res.Data.(*intents.SectionView).View.(*intents.SalesView)
	require.Len(t, view.Cart.Lines, 1)
	assert.Equal(t, 1, view.Cart.Lines[0].Quantity)
}

func TestSaveProductCreatesAndEdits(t *testing.T) {
	store := newStore(t)

	res, err := dispatch(t, store, enums.IntentSaveProduct, `{
		"name": "Frozen Peas", "category": "Frozen", "barcode": "999000111222",
		"price": 1.49, "cost": 0.80, "stock": 40, "min_stock": 12
	}`)
	require.NoError(t, err)
	created := res.Data.(*models.Product)
	assert.Equal(t, "P006", created.ID)

	res, err = dispatch(t, store, enums.IntentSaveProduct, `{"id": "P006", "price": 1.99, "category": "Pantry"}`)
	require.NoError(t, err)
	edited := res.Data.(*models.Product)
	assert.Equal(t, "1.99", edited.Price.StringFixed(2))
	assert.Equal(t, "🥫", edited.ImageURL)

	_, err = dispatch(t, store, enums.IntentSaveProduct, `{"id": "P404", "price": 1}`)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestNavigateSection(t *testing.T) {
	store := newStore(t)

	for _, section := range []enums.Section{
		enums.SectionDashboard, enums.SectionInventory, enums.SectionSales,
		enums.SectionAnalytics, enums.SectionSuppliers, enums.SectionSettings,
	} {
		res, err := dispatch(t, store, enums.IntentNavigateSection, `{"section": "`+section.String()+`"}`)
		require.NoError(t, err, section)
		view := res.Data.(*intents.SectionView)
		assert.Equal(t, section.Title(), view.Title)
		assert.NotNil(t, view.View)
	}

	_, err := dispatch(t, store, enums.IntentNavigateSection, `{"section": "attic"}`)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}
