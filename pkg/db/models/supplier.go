package models

// Supplier is reference data; products point at it by name only.
type Supplier struct {
	ID       string `gorm:"column:id;primaryKey" json:"id" validate:"required"`
	Position int64  `gorm:"column:position;not null" json:"-"`
	Name     string `gorm:"column:name;not null" json:"name" validate:"required"`
	Contact  string `gorm:"column:contact;not null" json:"contact"`
	Email    string `gorm:"column:email;not null" json:"email" validate:"omitempty,email"`
}

func (Supplier) TableName() string { return "suppliers" }
