package models

import "time"

// SessionKind determines how the time charge is computed: Timed sessions
// bill the planned duration up front, Unlimited sessions bill elapsed
// wall-clock time at close.
type SessionKind string

const (
	SessionTimed     SessionKind = "Timed"
	SessionUnlimited SessionKind = "Unlimited"
)

type Session struct {
	ID             uint        `json:"id" gorm:"primaryKey"`
	TableID        uint        `json:"table_id" gorm:"not null;index"`
	Table          Table       `json:"table,omitempty" gorm:"foreignKey:TableID"`
	Kind           SessionKind `json:"kind" gorm:"not null"`
	StartedAt      time.Time   `json:"started_at" gorm:"not null"`
	EndedAt        *time.Time  `json:"ended_at"` // nil while the session is running
	PlannedMinutes *int        `json:"planned_minutes"`
	HourlyRate     float64     `json:"hourly_rate" gorm:"not null"` // snapshot rate at session start
	BilledMinutes  int         `json:"billed_minutes"`
	TimeCharge     float64     `json:"time_charge"`
	OrderTotal     float64     `json:"order_total"`
	Total          float64     `json:"total"`
	OpenedBy       uint        `json:"opened_by"`
	Orders         []Order     `json:"orders,omitempty" gorm:"foreignKey:SessionID"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// Active reports whether the session is still running
func (s *Session) Active() bool {
	return s.EndedAt == nil
}
