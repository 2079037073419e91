package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/storewise-backend/pkg/enums"
)

// Transaction is a posted sale. Rows are only ever inserted.
type Transaction struct {
	ID            string              `gorm:"column:id;primaryKey" json:"id" validate:"required"`
	Seq           int64               `gorm:"column:seq;not null" json:"-"`
	Date          string              `gorm:"column:date;not null" json:"date" validate:"required,datetime=2006-01-02"`
	Time          string              `gorm:"column:time;not null" json:"time" validate:"required,datetime=15:04"`
	Items         []TransactionItem   `gorm:"foreignKey:TransactionID;references:ID" json:"items" validate:"dive"`
	Subtotal      decimal.Decimal     `gorm:"column:subtotal;type:text;not null" json:"subtotal"`
	Tax           decimal.Decimal     `gorm:"column:tax;type:text;not null" json:"tax"`
	Total         decimal.Decimal     `gorm:"column:total;type:text;not null" json:"total"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;not null" json:"payment_method" validate:"oneof=cash card other"`
	CustomerName  *string             `gorm:"column:customer_name" json:"customer_name"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (Transaction) TableName() string { return "transactions" }

// UnitsSold sums quantities across the sale's lines.
func (t Transaction) UnitsSold() int {
	units := 0
	for _, item := range t.Items {
		units += item.Quantity
	}
	return units
}

// TransactionItem is a value snapshot of a cart line at the moment of sale.
type TransactionItem struct {
	ID            uint            `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	TransactionID string          `gorm:"column:transaction_id;not null" json:"-"`
	LineNo        int             `gorm:"column:line_no;not null" json:"-"`
	ProductID     string          `gorm:"column:product_id;not null" json:"product_id" validate:"required"`
	Quantity      int             `gorm:"column:quantity;not null" json:"quantity" validate:"gte=1"`
	Price         decimal.Decimal `gorm:"column:price;type:text;not null" json:"price" validate:"gte=0"`
	Name          string          `gorm:"column:name;not null" json:"name"`
}

func (TransactionItem) TableName() string { return "transaction_items" }
