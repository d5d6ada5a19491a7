package models

import "time"

type Order struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	SessionID   uint      `json:"session_id" gorm:"not null;index"`
	Session     Session   `json:"session,omitempty" gorm:"foreignKey:SessionID"`
	ProductID   uint      `json:"product_id" gorm:"not null"`
	Product     Product   `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Quantity    int       `json:"quantity" gorm:"not null"`
	UnitPrice   float64   `json:"unit_price" gorm:"not null"` // snapshot price at time of order
	Amount      float64   `json:"amount" gorm:"not null"`     // unit price * quantity at order time
	ProductName string    `json:"product_name"`               // snapshot name
	PlacedBy    uint      `json:"placed_by"`
	CreatedAt   time.Time `json:"created_at"`
}
