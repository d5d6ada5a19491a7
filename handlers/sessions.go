package handlers

import (
	"net/http"
	"time"

	"gaming-cafe-api/billing"
	"gaming-cafe-api/config"
	"gaming-cafe-api/middleware"
	"gaming-cafe-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type StartSessionRequest struct {
	Kind           models.SessionKind `json:"kind" binding:"required"`
	PlannedMinutes int                `json:"planned_minutes"`
}

// StartSession opens a billing session on a table and occupies it
func StartSession(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Kind != models.SessionTimed && req.Kind != models.SessionUnlimited {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session kind. Must be: Timed or Unlimited"})
		return
	}
	if req.Kind == models.SessionTimed && req.PlannedMinutes <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Timed sessions require planned_minutes > 0"})
		return
	}

	var table models.Table
	if err := config.DB.First(&table, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}

	var session models.Session
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		// One open session per table
		var active int64
		if err := tx.Model(&models.Session{}).
			Where("table_id = ? AND ended_at IS NULL", table.ID).
			Count(&active).Error; err != nil {
			return err
		}
		if active > 0 {
			return errActiveSession
		}

		if err := applyTransition(tx, &table, models.StatusOccupied, "system", userID, "Session started"); err != nil {
			return err
		}

		session = models.Session{
			TableID:    table.ID,
			Kind:       req.Kind,
			StartedAt:  time.Now(),
			HourlyRate: config.HourlyRate(table.Kind),
			OpenedBy:   userID,
		}
		if req.Kind == models.SessionTimed {
			minutes := req.PlannedMinutes
			session.PlannedMinutes = &minutes
		}
		return tx.Create(&session).Error
	})
	if err == errActiveSession {
		c.JSON(http.StatusConflict, gin.H{"error": "Table already has an active session"})
		return
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         "Cannot start session",
			"reason":        err.Error(),
			"current_state": table.Status,
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Session started",
		"session": session,
		"table":   table,
	})
}

// GetActiveSession returns the running session with line items and a live
// bill preview (orders so far plus the time charge as of now)
func GetActiveSession(c *gin.Context) {
	var table models.Table
	if err := config.DB.First(&table, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}

	var session models.Session
	if err := config.DB.Where("table_id = ? AND ended_at IS NULL", table.ID).First(&session).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active session on this table"})
		return
	}

	items, orderTotal := activeSessionOrders(session.ID)
	charge, minutes := billing.Settle(&session, time.Now())

	c.JSON(http.StatusOK, gin.H{
		"session":             session,
		"orders":              items,
		"order_total":         orderTotal,
		"time_charge_preview": charge,
		"minutes_elapsed":     minutes,
		"total_preview":       billing.Round2(orderTotal + charge),
	})
}

// CloseBill ends the active session: computes the time charge, stamps the end
// time, frees the table (or parks it out of order when flagged), and returns
// the itemized bill
func CloseBill(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var table models.Table
	if err := config.DB.First(&table, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}

	var session models.Session
	if err := config.DB.Where("table_id = ? AND ended_at IS NULL", table.ID).First(&session).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active session on this table"})
		return
	}

	items, orderTotal := activeSessionOrders(session.ID)
	now := time.Now()
	charge, minutes := billing.Settle(&session, now)
	total := billing.Round2(charge + orderTotal)

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"ended_at":       now,
			"billed_minutes": minutes,
			"time_charge":    charge,
			"order_total":    orderTotal,
			"total":          total,
		}
		if err := tx.Model(&session).Updates(updates).Error; err != nil {
			return err
		}

		// A table flagged broken mid-session parks on OutOfOrder at close.
		// When the admin already flipped the visible status, there is no
		// transition left to make.
		target := models.StatusEmpty
		if table.IsOutOfOrder {
			target = models.StatusOutOfOrder
		}
		if table.Status == target {
			return nil
		}
		return applyTransition(tx, &table, target, "system", userID, "Session closed")
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to close session", "reason": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Bill closed",
		"bill": gin.H{
			"table":          table.Name,
			"kind":           table.Kind,
			"billed_minutes": minutes,
			"time_charge":    charge,
			"orders":         items,
			"order_total":    orderTotal,
			"total":          total,
		},
		"session": session,
		"table":   table,
	})
}

// ListSessions returns session history — admin only
func ListSessions(c *gin.Context) {
	var sessions []models.Session
	query := config.DB.Preload("Orders")

	if tableID := c.Query("table_id"); tableID != "" {
		query = query.Where("table_id = ?", tableID)
	}
	if c.Query("active") == "true" {
		query = query.Where("ended_at IS NULL")
	}
	if date := c.Query("date"); date != "" {
		day, err := time.ParseInLocation("2006-01-02", date, time.Local)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		query = query.Where("ended_at >= ? AND ended_at < ?", day, day.AddDate(0, 0, 1))
	}

	query.Order("started_at desc").Find(&sessions)
	c.JSON(http.StatusOK, gin.H{"count": len(sessions), "sessions": sessions})
}
