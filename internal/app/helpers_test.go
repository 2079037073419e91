package app

import (
	"github.com/angelmondragon/storewise-backend/internal/catalog"
	"github.com/angelmondragon/storewise-backend/pkg/enums"
	"github.com/angelmondragon/storewise-backend/pkg/money"
)

func sampleInput() catalog.ProductInput {
	return catalog.ProductInput{
		Name:     "Frozen Peas",
		Category: enums.CategoryFrozen,
		Barcode:  "999000111222",
		Price:    money.MustParse("1.49"),
		Cost:     money.MustParse("0.80"),
		Stock:    40,
		MinStock: 12,
	}
}
