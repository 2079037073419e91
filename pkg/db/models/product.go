package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storewise-backend/pkg/enums"
	"github.com/angelmondragon/storewise-backend/pkg/money"
)

// Product is a sellable catalog entry. Position preserves catalog order.
type Product struct {
	ID          string          `gorm:"column:id;primaryKey" json:"id" validate:"required"`
	Position    int64           `gorm:"column:position;not null" json:"-"`
	Name        string          `gorm:"column:name;not null" json:"name" validate:"required"`
	Category    enums.Category  `gorm:"column:category;not null" json:"category" validate:"required"`
	Barcode     string          `gorm:"column:barcode;not null" json:"barcode" validate:"required"`
	Price       decimal.Decimal `gorm:"column:price;type:text;not null" json:"price" validate:"gte=0"`
	Cost        decimal.Decimal `gorm:"column:cost;type:text;not null" json:"cost" validate:"gte=0"`
	Stock       int             `gorm:"column:stock;not null" json:"stock"`
	MinStock    int             `gorm:"column:min_stock;not null" json:"min_stock" validate:"gte=0"`
	Supplier    string          `gorm:"column:supplier;not null" json:"supplier"`
	Description string          `gorm:"column:description;not null" json:"description"`
	ImageURL    string          `gorm:"column:image_url;not null" json:"image_url"`
	CreatedAt   time.Time       `gorm:"column:created_at;autoCreateTime" json:"-"`
	UpdatedAt   time.Time       `gorm:"column:updated_at;autoUpdateTime" json:"-"`
}

func (Product) TableName() string { return "products" }

// StockValue is price times stock on hand.
func (p Product) StockValue() decimal.Decimal {
	return money.Line(p.Price, p.Stock)
}

// IsLowStock reports whether stock has fallen to the reorder point.
func (p Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}
