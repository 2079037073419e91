// Package seed provides the demo store and loads seed documents from disk.
package seed

import (
	"github.com/angelmondragon/storewise-backend/internal/snapshot"
	"github.com/angelmondragon/storewise-backend/pkg/db/models"
	"github.com/angelmondragon/storewise-backend/pkg/enums"
	"github.com/angelmondragon/storewise-backend/pkg/money"
)

// Sample returns the demo data set of Sunny Corner Market.
func Sample() *snapshot.Document {
	johnSmith := "John Smith"
	sarahJohnson := "Sarah Johnson"

	doc := &snapshot.Document{
		Products: []models.Product{
			sampleProduct("P001", "Organic Bananas", enums.CategoryProduce, "123456789012", "2.99", "1.89", 24, 10, "Fresh Farms Co", "Fresh organic bananas", "🍌"),
			sampleProduct("P002", "Whole Milk 1 Gallon", enums.CategoryDairy, "234567890123", "4.29", "3.15", 8, 15, "Local Dairy Farm", "Fresh whole milk", "🥛"),
			sampleProduct("P003", "Coca-Cola 12-pack", enums.CategoryBeverages, "345678901234", "6.99", "4.50", 32, 20, "Beverage Distributors Inc", "12-pack of Coca-Cola cans", "🥤"),
			sampleProduct("P004", "Wonder Bread", enums.CategoryBakery, "456789012345", "2.79", "1.95", 15, 8, "Bakery Supply Co", "Classic white bread loaf", "🍞"),
			sampleProduct("P005", "Ground Beef 1lb", enums.CategoryMeat, "567890123456", "7.99", "5.25", 12, 15, "Local Butcher Shop", "Fresh ground beef 80/20", "🥩"),
		},
		Transactions: []models.Transaction{
			{
				ID:   "T001",
				Date: "2024-08-21",
				Time: "14:30",
				Items: []models.TransactionItem{
					{ProductID: "P001", Quantity: 2, Price: money.MustParse("2.99"), Name: "Organic Bananas"},
					{ProductID: "P002", Quantity: 1, Price: money.MustParse("4.29"), Name: "Whole Milk 1 Gallon"},
				},
				Subtotal:      money.MustParse("10.27"),
				Tax:           money.Zero,
				Total:         money.MustParse("10.27"),
				PaymentMethod: enums.PaymentMethodCash,
				CustomerName:  &johnSmith,
			},
			{
				ID:   "T002",
				Date: "2024-08-21",
				Time: "15:45",
				Items: []models.TransactionItem{
					{ProductID: "P003", Quantity: 1, Price: money.MustParse("6.99"), Name: "Coca-Cola 12-pack"},
					{ProductID: "P004", Quantity: 2, Price: money.MustParse("2.79"), Name: "Wonder Bread"},
				},
				Subtotal:      money.MustParse("12.57"),
				Tax:           money.Zero,
				Total:         money.MustParse("12.57"),
				PaymentMethod: enums.PaymentMethodCard,
				CustomerName:  &sarahJohnson,
			},
		},
		Suppliers: []models.Supplier{
			{ID: "S001", Name: "Fresh Farms Co", Contact: "555-0123", Email: "orders@freshfarms.com"},
			{ID: "S002", Name: "Local Dairy Farm", Contact: "555-0124", Email: "sales@localdairy.com"},
			{ID: "S003", Name: "Beverage Distributors Inc", Contact: "555-0125", Email: "orders@bevdist.com"},
			{ID: "S004", Name: "Bakery Supply Co", Contact: "555-0126", Email: "orders@bakerysupply.com"},
			{ID: "S005", Name: "Local Butcher Shop", Contact: "555-0127", Email: "orders@localbutcher.com"},
		},
		Settings: snapshot.FullPatch(DefaultSettings()),
	}
	return doc
}

// DefaultSettings is the profile of the demo store.
func DefaultSettings() models.Settings {
	return models.Settings{
		ID:                models.SettingsID,
		StoreName:         "Sunny Corner Market",
		Address:           "123 Main Street, Anytown, CA 94102",
		Phone:             "555-0100",
		TaxRate:           money.MustParse("0.0875"),
		Currency:          "USD",
		LowStockThreshold: 10,
	}
}

func sampleProduct(id, name string, category enums.Category, barcode, price, cost string, stock, minStock int, supplier, description, glyph string) models.Product {
	return models.Product{
		ID:          id,
		Name:        name,
		Category:    category,
		Barcode:     barcode,
		Price:       money.MustParse(price),
		Cost:        money.MustParse(cost),
		Stock:       stock,
		MinStock:    minStock,
		Supplier:    supplier,
		Description: description,
		ImageURL:    glyph,
	}
}
