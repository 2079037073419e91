package catalog

import (
	"context"
	"testing"

	"github.com/angelmondragon/storewise-backend/internal/storetest"
	"github.com/angelmondragon/storewise-backend/pkg/db"
	"github.com/angelmondragon/storewise-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/angelmondragon/storewise-backend/pkg/logger"
	"github.com/angelmondragon/storewise-backend/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T, client *db.Client) Service {
	t.Helper()
	svc, err := NewService(NewRepository(client.DB()), NewSupplierRepository(client.DB()), client, logger.Nop())
	require.NoError(t, err)
	return svc
}

func sampleInput() ProductInput {
	return ProductInput{
		Name:     "Frozen Peas",
		Category: enums.CategoryFrozen,
		Barcode:  "999000111222",
		Price:    money.MustParse("1.49"),
		Cost:     money.MustParse("0.80"),
		Stock:    40,
		MinStock: 12,
		Supplier: "Cold Chain Foods",
	}
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	client := storetest.NewClient(t)
	_, err := NewService(nil, NewSupplierRepository(client.DB()), client, logger.Nop())
	require.Error(t, err)
	_, err = NewService(NewRepository(client.DB()), nil, client, logger.Nop())
	require.Error(t, err)
	_, err = NewService(NewRepository(client.DB()), NewSupplierRepository(client.DB()), nil, logger.Nop())
	require.Error(t, err)
}

func TestAddProductAssignsNextIDAndGlyph(t *testing.T) {
	svc := newTestService(t, storetest.NewSampleClient(t))
	ctx := context.Background()

	product, err := svc.AddProduct(ctx, sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "P006", product.ID)
	assert.Equal(t, "🧊", product.ImageURL)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 6)
	assert.Equal(t, "P006", products[5].ID, "new products go to the end of the catalog")
}

func TestAddProductOnEmptyCatalog(t *testing.T) {
	svc := newTestService(t, storetest.NewClient(t))
	product, err := svc.AddProduct(context.Background(), sampleInput())
	require.NoError(t, err)
	assert.Equal(t, "P001", product.ID)
}

func TestAddProductValidation(t *testing.T) {
	svc := newTestService(t, storetest.NewSampleClient(t))
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*ProductInput)
		code   pkgerrors.Code
	}{
		{name: "negative price", mutate: func(in *ProductInput) { in.Price = money.MustParse("-1") }, code: pkgerrors.CodeValidation},
		{name: "negative min stock", mutate: func(in *ProductInput) { in.MinStock = -1 }, code: pkgerrors.CodeValidation},
		{name: "negative stock", mutate: func(in *ProductInput) { in.Stock = -3 }, code: pkgerrors.CodeValidation},
		{name: "unknown category", mutate: func(in *ProductInput) { in.Category = "Garden" }, code: pkgerrors.CodeValidation},
		{name: "missing name", mutate: func(in *ProductInput) { in.Name = "  " }, code: pkgerrors.CodeValidation},
		{name: "duplicate barcode", mutate: func(in *ProductInput) { in.Barcode = "123456789012" }, code: pkgerrors.CodeConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := sampleInput()
			tt.mutate(&input)
			_, err := svc.AddProduct(ctx, input)
			require.Error(t, err)
			assert.Equal(t, tt.code, pkgerrors.As(err).Code())
		})
	}

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5, "failed adds must not change the catalog")
}

func TestUpdateProduct(t *testing.T) {
	svc := newTestService(t, storetest.NewSampleClient(t))
	ctx := context.Background()

	price := money.MustParse("3.19")
	category := enums.CategoryHousehold
	updated, err := svc.UpdateProduct(ctx, "P001", ProductPatch{Price: &price, Category: &category})
	require.NoError(t, err)
	assert.Equal(t, "3.19", updated.Price.String())
	assert.Equal(t, "🧽", updated.ImageURL)
	assert.Equal(t, "Organic Bananas", updated.Name)

	found, err := svc.FindProduct(ctx, "P001")
	require.NoError(t, err)
	assert.Equal(t, "3.19", found.Price.String())
}

func TestUpdateProductErrors(t *testing.T) {
	svc := newTestService(t, storetest.NewSampleClient(t))
	ctx := context.Background()

	name := "Ghost"
	_, err := svc.UpdateProduct(ctx, "P999", ProductPatch{Name: &name})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())

	barcode := "234567890123"
	_, err = svc.UpdateProduct(ctx, "P001", ProductPatch{Barcode: &barcode})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeConflict, pkgerrors.As(err).Code())

	own := "123456789012"
	_, err = svc.UpdateProduct(ctx, "P001", ProductPatch{Barcode: &own})
	require.NoError(t, err, "keeping your own barcode is not a conflict")
}

func TestSearch(t *testing.T) {
	svc := newTestService(t, storetest.NewSampleClient(t))
	ctx := context.Background()

	tests := []struct {
		name     string
		query    string
		category string
		want     []string
	}{
		{name: "empty query", want: []string{"P001", "P002", "P003", "P004", "P005"}},
		{name: "case insensitive name", query: "MILK", want: []string{"P002"}},
		{name: "barcode substring", query: "12345", want: []string{"P001", "P004", "P005"}},
		{name: "category filter", category: "Bakery", want: []string{"P004"}},
		{name: "query and category", query: "fresh", category: "Produce", want: []string{}},
		{name: "unknown category", category: "Garden", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := svc.Search(ctx, tt.query, tt.category)
			require.NoError(t, err)
			got := make([]string, 0, len(products))
			for _, p := range products {
				got = append(got, p.ID)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLookup(t *testing.T) {
	svc := newTestService(t, storetest.NewSampleClient(t))
	ctx := context.Background()

	p, err := svc.Lookup(ctx, "bread")
	require.NoError(t, err)
	assert.Equal(t, "P004", p.ID)

	p, err = svc.Lookup(ctx, "567890123456")
	require.NoError(t, err)
	assert.Equal(t, "P005", p.ID)

	_, err = svc.Lookup(ctx, "b")
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.Lookup(ctx, "67890")
	require.Error(t, err, "barcode lookups need an exact match")
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestFindByBarcode(t *testing.T) {
	svc := newTestService(t, storetest.NewSampleClient(t))
	p, err := svc.FindByBarcode(context.Background(), "345678901234")
	require.NoError(t, err)
	assert.Equal(t, "Coca-Cola 12-pack", p.Name)

	_, err = svc.FindByBarcode(context.Background(), "000")
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestSuppliers(t *testing.T) {
	svc := newTestService(t, storetest.NewSampleClient(t))
	ctx := context.Background()

	supplier, err := svc.AddSupplier(ctx, SupplierInput{Name: "Cold Chain Foods", Contact: "555-0128", Email: "hello@coldchain.com"})
	require.NoError(t, err)
	assert.Equal(t, "S006", supplier.ID)

	suppliers, err := svc.ListSuppliers(ctx)
	require.NoError(t, err)
	require.Len(t, suppliers, 6)
	assert.Equal(t, "Fresh Farms Co", suppliers[0].Name)

	_, err = svc.AddSupplier(ctx, SupplierInput{})
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())

	_, err = svc.FindSupplier(ctx, "S404")
	assert.Equal(t, pkgerrors.CodeNotFound, pkgerrors.As(err).Code())
}

func TestListCategories(t *testing.T) {
	svc := newTestService(t, storetest.NewClient(t))
	categories := svc.ListCategories()
	require.Len(t, categories, 10)
	assert.Equal(t, CategoryView{Name: enums.CategoryProduce, Glyph: "🥬"}, categories[0])
}
