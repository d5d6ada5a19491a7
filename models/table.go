package models

import "time"

// TableKind distinguishes the two tiers of gaming stations
type TableKind string

const (
	KindVIP      TableKind = "VIP"
	KindStandard TableKind = "Standard"
)

// TableStatus represents all possible states of a café table
type TableStatus string

const (
	StatusEmpty      TableStatus = "Empty"
	StatusOccupied   TableStatus = "Occupied"
	StatusReserved   TableStatus = "Reserved"
	StatusOutOfOrder TableStatus = "OutOfOrder"
)

type Table struct {
	ID            uint                 `json:"id" gorm:"primaryKey"`
	Name          string               `json:"name" gorm:"not null"`
	Kind          TableKind            `json:"kind" gorm:"not null"`
	Status        TableStatus          `json:"status" gorm:"not null;default:'Empty'"`
	Hardware      string               `json:"hardware" gorm:"not null"`
	IsOutOfOrder  bool                 `json:"is_out_of_order" gorm:"default:false"`
	Sessions      []Session            `json:"sessions,omitempty" gorm:"foreignKey:TableID"`
	StatusHistory []TableStatusHistory `json:"status_history,omitempty" gorm:"foreignKey:TableID"`
	CreatedAt     time.Time            `json:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at"`
}

// TableStatusHistory tracks every status change — audit trail
type TableStatusHistory struct {
	ID         uint        `json:"id" gorm:"primaryKey"`
	TableID    uint        `json:"table_id" gorm:"not null"`
	FromStatus TableStatus `json:"from_status"`
	ToStatus   TableStatus `json:"to_status" gorm:"not null"`
	ChangedBy  uint        `json:"changed_by"` // user ID who triggered the transition, 0 for system
	Note       string      `json:"note"`
	CreatedAt  time.Time   `json:"created_at"`
}
