package catalog

import (
	"strings"

	"github.com/angelmondragon/storewise-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/storewise-backend/pkg/errors"
	"github.com/shopspring/decimal"
)

// ProductForm is the product editor payload. Every field is optional so the
// same form serves create and edit.
type ProductForm struct {
	Name        *string          `json:"name,omitempty"`
	Category    *string          `json:"category,omitempty"`
	Barcode     *string          `json:"barcode,omitempty"`
	Price       *decimal.Decimal `json:"price,omitempty"`
	Cost        *decimal.Decimal `json:"cost,omitempty"`
	Stock       *int             `json:"stock,omitempty"`
	MinStock    *int             `json:"min_stock,omitempty"`
	Supplier    *string          `json:"supplier,omitempty"`
	Description *string          `json:"description,omitempty"`
}

// Input converts a create form, requiring the fields a new product needs.
func (f ProductForm) Input() (ProductInput, error) {
	details := map[string]string{}
	require := func(field string, present bool) {
		if !present {
			details[field] = "is required"
		}
	}
	require("name", f.Name != nil && strings.TrimSpace(*f.Name) != "")
	require("category", f.Category != nil)
	require("barcode", f.Barcode != nil && strings.TrimSpace(*f.Barcode) != "")
	require("price", f.Price != nil)
	require("cost", f.Cost != nil)
	require("stock", f.Stock != nil)
	require("min_stock", f.MinStock != nil)
	if len(details) > 0 {
		return ProductInput{}, pkgerrors.InvalidInput("invalid product").WithDetails(details)
	}

	category, err := enums.ParseCategory(*f.Category)
	if err != nil {
		return ProductInput{}, pkgerrors.InvalidInput(err.Error())
	}
	return ProductInput{
		Name:        *f.Name,
		Category:    category,
		Barcode:     *f.Barcode,
		Price:       *f.Price,
		Cost:        *f.Cost,
		Stock:       *f.Stock,
		MinStock:    *f.MinStock,
		Supplier:    deref(f.Supplier),
		Description: deref(f.Description),
	}, nil
}

// Patch converts an edit form.
func (f ProductForm) Patch() (ProductPatch, error) {
	patch := ProductPatch{
		Name:        f.Name,
		Barcode:     f.Barcode,
		Price:       f.Price,
		Cost:        f.Cost,
		Stock:       f.Stock,
		MinStock:    f.MinStock,
		Supplier:    f.Supplier,
		Description: f.Description,
	}
	if f.Category != nil {
		category, err := enums.ParseCategory(*f.Category)
		if err != nil {
			return ProductPatch{}, pkgerrors.InvalidInput(err.Error())
		}
		patch.Category = &category
	}
	return patch, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
