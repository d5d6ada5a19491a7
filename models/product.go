package models

import "time"

// ProductCategory groups catalog items for filtering and reporting
type ProductCategory string

const (
	CategoryFood  ProductCategory = "Food"
	CategoryDrink ProductCategory = "Drink"
)

type Product struct {
	ID        uint            `json:"id" gorm:"primaryKey"`
	Name      string          `json:"name" gorm:"not null"`
	Category  ProductCategory `json:"category" gorm:"not null"`
	Price     float64         `json:"price" gorm:"not null"`
	Stock     int             `json:"stock" gorm:"not null"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
