package models

import "github.com/shopspring/decimal"

// SettingsID is the primary key of the single settings row.
const SettingsID = 1

// Settings is the store profile. One row per store instance.
type Settings struct {
	ID                uint            `gorm:"column:id;primaryKey" json:"-"`
	StoreName         string          `gorm:"column:store_name;not null" json:"store_name"`
	Address           string          `gorm:"column:address;not null" json:"address"`
	Phone             string          `gorm:"column:phone;not null" json:"phone"`
	TaxRate           decimal.Decimal `gorm:"column:tax_rate;type:text;not null" json:"tax_rate"`
	Currency          string          `gorm:"column:currency;not null" json:"currency"`
	LowStockThreshold int             `gorm:"column:low_stock_threshold;not null" json:"low_stock_threshold"`
}

func (Settings) TableName() string { return "settings" }
