package billing

import (
	"testing"
	"time"

	"gaming-cafe-api/models"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func TestTimedSessionBillsPlannedMinutes(t *testing.T) {
	start := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	s := &models.Session{
		Kind:           models.SessionTimed,
		StartedAt:      start,
		PlannedMinutes: intPtr(90),
		HourlyRate:     30.0,
	}
	// Close time is irrelevant for a timed session
	charge, minutes := Settle(s, start.Add(5*time.Minute))
	assert.Equal(t, 90, minutes)
	assert.Equal(t, 45.0, charge)
}

func TestUnlimitedSessionBillsElapsedTime(t *testing.T) {
	start := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	s := &models.Session{
		Kind:       models.SessionUnlimited,
		StartedAt:  start,
		HourlyRate: 20.0,
	}
	charge, minutes := Settle(s, start.Add(2*time.Hour))
	assert.Equal(t, 120, minutes)
	assert.Equal(t, 40.0, charge)
}

func TestElapsedRoundsToNearestMinute(t *testing.T) {
	start := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	s := &models.Session{Kind: models.SessionUnlimited, StartedAt: start, HourlyRate: 20.0}

	// 89.4 minutes rounds down, 89.5 rounds up
	assert.Equal(t, 89, BilledMinutes(s, start.Add(89*time.Minute+24*time.Second)))
	assert.Equal(t, 90, BilledMinutes(s, start.Add(89*time.Minute+30*time.Second)))
}

func TestMinimumOneBilledMinute(t *testing.T) {
	start := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	s := &models.Session{Kind: models.SessionUnlimited, StartedAt: start, HourlyRate: 30.0}

	charge, minutes := Settle(s, start.Add(5*time.Second))
	assert.Equal(t, 1, minutes)
	assert.Equal(t, 0.5, charge)
}

func TestTimedWithoutPlannedMinutesFallsBackToElapsed(t *testing.T) {
	start := time.Date(2024, 3, 14, 12, 0, 0, 0, time.UTC)
	s := &models.Session{Kind: models.SessionTimed, StartedAt: start, HourlyRate: 20.0}

	_, minutes := Settle(s, start.Add(30*time.Minute))
	assert.Equal(t, 30, minutes)
}

func TestChargeRoundsToTwoDecimals(t *testing.T) {
	// 7 minutes at 25/h = 2.9166... → 2.92
	assert.Equal(t, 2.92, TimeCharge(25.0, 7))
}

func TestChargeMonotonicInMinutes(t *testing.T) {
	prev := 0.0
	for minutes := 1; minutes <= 600; minutes++ {
		charge := TimeCharge(30.0, minutes)
		assert.GreaterOrEqual(t, charge, prev, "charge dropped at %d minutes", minutes)
		prev = charge
	}
}
