package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	pkgdb "github.com/angelmondragon/storewise-backend/pkg/db"
	"github.com/angelmondragon/storewise-backend/pkg/db/models"
	"github.com/angelmondragon/storewise-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/angelmondragon/storewise-backend/pkg/ids"
	"github.com/angelmondragon/storewise-backend/pkg/logger"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service exposes catalog reads and the product/supplier edit flows.
type Service interface {
	AddProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*models.Product, error)
	FindProduct(ctx context.Context, id string) (*models.Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*models.Product, error)
	Search(ctx context.Context, query, category string) ([]models.Product, error)
	Lookup(ctx context.Context, query string) (*models.Product, error)
	ListProducts(ctx context.Context) ([]models.Product, error)
	ListCategories() []CategoryView

	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	FindSupplier(ctx context.Context, id string) (*models.Supplier, error)
	AddSupplier(ctx context.Context, input SupplierInput) (*models.Supplier, error)
}

// ProductInput holds the validated payload to create a product.
type ProductInput struct {
	Name        string
	Category    enums.Category
	Barcode     string
	Price       decimal.Decimal
	Cost        decimal.Decimal
	Stock       int
	MinStock    int
	Supplier    string
	Description string
}

// ProductPatch holds optional replacement values for a product.
type ProductPatch struct {
	Name        *string
	Category    *enums.Category
	Barcode     *string
	Price       *decimal.Decimal
	Cost        *decimal.Decimal
	Stock       *int
	MinStock    *int
	Supplier    *string
	Description *string
}

// SupplierInput holds the payload to register a supplier.
type SupplierInput struct {
	Name    string
	Contact string
	Email   string
}

// CategoryView pairs a category with its glyph.
type CategoryView struct {
	Name  enums.Category `json:"name"`
	Glyph string         `json:"glyph"`
}

// MinLookupLength is the shortest query the register quick search accepts.
const MinLookupLength = 2

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	repo      *Repository
	suppliers *SupplierRepository
	tx        txRunner
	logg      *logger.Logger
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository, suppliers *SupplierRepository, tx txRunner, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if suppliers == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, suppliers: suppliers, tx: tx, logg: logg}, nil
}

func (s *service) AddProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Category:    input.Category,
		Barcode:     strings.TrimSpace(input.Barcode),
		Price:       input.Price,
		Cost:        input.Cost,
		Stock:       input.Stock,
		MinStock:    input.MinStock,
		Supplier:    strings.TrimSpace(input.Supplier),
		Description: strings.TrimSpace(input.Description),
	}
	if err := validateProduct(product, true); err != nil {
		return nil, err
	}
	product.ImageURL = product.Category.Glyph()

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := ensureBarcodeFree(ctx, repo, product.Barcode, ""); err != nil {
			return err
		}

		existing, err := repo.IDs(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list product ids")
		}
		product.ID, _ = ids.Next(ids.ProductPrefix, existing)

		position, err := repo.NextPosition(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocate product position")
		}
		product.Position = position

		if err := repo.Create(ctx, product); err != nil {
			if pkgdb.IsUniqueViolation(err, "products.barcode") {
				return barcodeConflict(product.Barcode)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create product")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithProductID(ctx, product.ID), "catalog.product_added")
	return product, nil
}

func (s *service) UpdateProduct(ctx context.Context, id string, patch ProductPatch) (*models.Product, error) {
	var updated *models.Product
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		product, err := repo.FindByID(ctx, id)
		if err != nil {
			return mapLookupError(err, "product", id)
		}

		applyPatch(product, patch)
		if err := validateProduct(product, patch.Stock != nil); err != nil {
			return err
		}
		if patch.Category != nil {
			product.ImageURL = product.Category.Glyph()
		}
		if patch.Barcode != nil {
			if err := ensureBarcodeFree(ctx, repo, product.Barcode, product.ID); err != nil {
				return err
			}
		}

		if err := repo.Save(ctx, product); err != nil {
			if pkgdb.IsUniqueViolation(err, "products.barcode") {
				return barcodeConflict(product.Barcode)
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update product")
		}
		updated = product
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithProductID(ctx, id), "catalog.product_updated")
	return updated, nil
}

func (s *service) FindProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "product", id)
	}
	return product, nil
}

func (s *service) FindByBarcode(ctx context.Context, barcode string) (*models.Product, error) {
	product, err := s.repo.FindByBarcode(ctx, strings.TrimSpace(barcode))
	if err != nil {
		return nil, mapLookupError(err, "barcode", barcode)
	}
	return product, nil
}

func (s *service) Search(ctx context.Context, query, category string) ([]models.Product, error) {
	var (
		products []models.Product
		err      error
	)
	if category = strings.TrimSpace(category); category != "" {
		products, err = s.repo.ListByCategory(ctx, category)
	} else {
		products, err = s.repo.List(ctx)
	}
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return Filter(products, query), nil
}

func (s *service) Lookup(ctx context.Context, query string) (*models.Product, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinLookupLength {
		return nil, pkgerrors.InvalidInput(fmt.Sprintf("query must be at least %d characters", MinLookupLength))
	}
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	if product, ok := FirstLookupMatch(products, query); ok {
		return &product, nil
	}
	return nil, pkgerrors.NotFound(fmt.Sprintf("no product matches %q", query))
}

func (s *service) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list products")
	}
	return products, nil
}

func (s *service) ListCategories() []CategoryView {
	categories := enums.Categories()
	out := make([]CategoryView, 0, len(categories))
	for _, c := range categories {
		out = append(out, CategoryView{Name: c, Glyph: c.Glyph()})
	}
	return out
}

func (s *service) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	suppliers, err := s.suppliers.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list suppliers")
	}
	return suppliers, nil
}

func (s *service) FindSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	supplier, err := s.suppliers.FindByID(ctx, id)
	if err != nil {
		return nil, mapLookupError(err, "supplier", id)
	}
	return supplier, nil
}

func (s *service) AddSupplier(ctx context.Context, input SupplierInput) (*models.Supplier, error) {
	supplier := &models.Supplier{
		Name:    strings.TrimSpace(input.Name),
		Contact: strings.TrimSpace(input.Contact),
		Email:   strings.TrimSpace(input.Email),
	}
	if supplier.Name == "" {
		return nil, pkgerrors.InvalidInput("supplier name is required")
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.suppliers.WithTx(tx)
		existing, err := repo.IDs(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list supplier ids")
		}
		supplier.ID, _ = ids.Next(ids.SupplierPrefix, existing)

		position, err := repo.NextPosition(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "allocate supplier position")
		}
		supplier.Position = position

		if err := repo.Create(ctx, supplier); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create supplier")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return supplier, nil
}

func applyPatch(product *models.Product, patch ProductPatch) {
	if patch.Name != nil {
		product.Name = strings.TrimSpace(*patch.Name)
	}
	if patch.Category != nil {
		product.Category = *patch.Category
	}
	if patch.Barcode != nil {
		product.Barcode = strings.TrimSpace(*patch.Barcode)
	}
	if patch.Price != nil {
		product.Price = *patch.Price
	}
	if patch.Cost != nil {
		product.Cost = *patch.Cost
	}
	if patch.Stock != nil {
		product.Stock = *patch.Stock
	}
	if patch.MinStock != nil {
		product.MinStock = *patch.MinStock
	}
	if patch.Supplier != nil {
		product.Supplier = strings.TrimSpace(*patch.Supplier)
	}
	if patch.Description != nil {
		product.Description = strings.TrimSpace(*patch.Description)
	}
}

// ValidateProduct checks the field constraints of an imported product. Stock
// is not checked: oversold products legitimately carry negative stock.
func ValidateProduct(product *models.Product) error {
	return validateProduct(product, false)
}

func validateProduct(product *models.Product, checkStock bool) error {
	details := map[string]string{}
	if product.Name == "" {
		details["name"] = "name is required"
	}
	if !product.Category.IsValid() {
		details["category"] = fmt.Sprintf("unknown category %q", product.Category)
	}
	if product.Barcode == "" {
		details["barcode"] = "barcode is required"
	}
	if product.Price.IsNegative() {
		details["price"] = "price must be non-negative"
	}
	if product.Cost.IsNegative() {
		details["cost"] = "cost must be non-negative"
	}
	if checkStock && product.Stock < 0 {
		details["stock"] = "stock must be non-negative"
	}
	if product.MinStock < 0 {
		details["min_stock"] = "min_stock must be non-negative"
	}
	if len(details) > 0 {
		return pkgerrors.InvalidInput("invalid product").WithDetails(details)
	}
	return nil
}

func ensureBarcodeFree(ctx context.Context, repo *Repository, barcode, selfID string) error {
	existing, err := repo.FindByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check barcode")
	}
	if existing.ID == selfID {
		return nil
	}
	return barcodeConflict(barcode)
}

func barcodeConflict(barcode string) error {
	return pkgerrors.New(pkgerrors.CodeConflict, "barcode already in use").
		WithDetails(map[string]string{"barcode": barcode})
}

func mapLookupError(err error, kind, key string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.NotFound(fmt.Sprintf("%s %s not found", kind, key))
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load "+kind)
}
