// Package billing computes time-based charges for café sessions.
//
// Timed sessions bill the planned duration regardless of when the bill is
// closed; Unlimited sessions bill elapsed wall-clock time. Either way the
// charge is hourly rate scaled to billed minutes, rounded to two decimals,
// and no session bills fewer than one minute.
package billing

import (
	"math"
	"time"

	"gaming-cafe-api/models"
)

// Round2 rounds a currency amount to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// BilledMinutes returns how many minutes a session is billed for. Timed
// sessions with a planned duration bill exactly that; everything else bills
// elapsed time between start and end, rounded to the nearest minute with a
// one-minute floor.
func BilledMinutes(s *models.Session, end time.Time) int {
	if s.Kind == models.SessionTimed && s.PlannedMinutes != nil && *s.PlannedMinutes > 0 {
		return *s.PlannedMinutes
	}
	minutes := int(math.Round(end.Sub(s.StartedAt).Seconds() / 60.0))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// TimeCharge converts billed minutes into money at the given hourly rate.
func TimeCharge(hourlyRate float64, minutes int) float64 {
	return Round2(hourlyRate * float64(minutes) / 60.0)
}

// Settle computes the final (charge, minutes) pair for a session ending at
// the given instant. It does not mutate the session.
func Settle(s *models.Session, end time.Time) (float64, int) {
	minutes := BilledMinutes(s, end)
	return TimeCharge(s.HourlyRate, minutes), minutes
}
