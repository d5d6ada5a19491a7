package handlers

import (
	"net/http"
	"time"

	"gaming-cafe-api/billing"
	"gaming-cafe-api/config"
	"gaming-cafe-api/middleware"
	"gaming-cafe-api/models"
	"gaming-cafe-api/statemachine"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// applyTransition validates and performs a table status change, recording an
// audit row. Runs inside the caller's transaction.
func applyTransition(tx *gorm.DB, table *models.Table, to models.TableStatus, actor string, changedBy uint, note string) error {
	if err := statemachine.CanTransition(table.Status, to, actor); err != nil {
		return err
	}
	prev := table.Status
	if err := tx.Model(table).Update("status", to).Error; err != nil {
		return err
	}
	history := models.TableStatusHistory{
		TableID:    table.ID,
		FromStatus: prev,
		ToStatus:   to,
		ChangedBy:  changedBy,
		Note:       note,
	}
	return tx.Create(&history).Error
}

// ListTables returns the floor layout, optionally filtered
func ListTables(c *gin.Context) {
	var tables []models.Table
	query := config.DB

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if kind := c.Query("kind"); kind != "" {
		query = query.Where("kind = ?", kind)
	}
	if c.Query("available") == "true" {
		query = query.Where("status = ?", models.StatusEmpty)
	}

	query.Order("id").Find(&tables)
	c.JSON(http.StatusOK, gin.H{"count": len(tables), "tables": tables})
}

// GetTable returns one table with its active session and a running bill preview
func GetTable(c *gin.Context) {
	var table models.Table
	if err := config.DB.First(&table, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}

	resp := gin.H{"table": table}

	var session models.Session
	err := config.DB.Where("table_id = ? AND ended_at IS NULL", table.ID).First(&session).Error
	if err == nil {
		items, orderTotal := activeSessionOrders(session.ID)
		charge, minutes := billing.Settle(&session, time.Now())
		resp["session"] = session
		resp["orders"] = items
		resp["order_total"] = orderTotal
		resp["time_charge_preview"] = charge
		resp["minutes_elapsed"] = minutes
	}

	c.JSON(http.StatusOK, resp)
}

// ReserveTable holds an empty table for a walk-in or phone reservation
func ReserveTable(c *gin.Context) {
	userID := middleware.GetUserID(c)
	actor := string(middleware.GetRole(c))

	var table models.Table
	if err := config.DB.First(&table, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		return applyTransition(tx, &table, models.StatusReserved, actor, userID, "Table reserved")
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         "Cannot reserve table",
			"reason":        err.Error(),
			"current_state": table.Status,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table reserved", "table": table})
}

// UnreserveTable releases a reservation back to Empty
func UnreserveTable(c *gin.Context) {
	userID := middleware.GetUserID(c)
	actor := string(middleware.GetRole(c))

	var table models.Table
	if err := config.DB.First(&table, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		return applyTransition(tx, &table, models.StatusEmpty, actor, userID, "Reservation released")
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":         "Cannot release reservation",
			"reason":        err.Error(),
			"current_state": table.Status,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Reservation released", "table": table})
}

// MarkOutOfOrder flags a broken table — admin only. An occupied table keeps
// its running session; the close lands on OutOfOrder instead of Empty.
func MarkOutOfOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var table models.Table
	if err := config.DB.First(&table, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}
	if table.IsOutOfOrder {
		c.JSON(http.StatusConflict, gin.H{"error": "Table is already out of order"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := applyTransition(tx, &table, models.StatusOutOfOrder, "admin", userID, "Marked out of order"); err != nil {
			return err
		}
		return tx.Model(&table).Update("is_out_of_order", true).Error
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Cannot mark table out of order",
			"reason": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table marked out of order", "table": table})
}

// RepairTable puts a fixed table back in service — admin only
func RepairTable(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var table models.Table
	if err := config.DB.First(&table, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}
	if !table.IsOutOfOrder {
		c.JSON(http.StatusConflict, gin.H{"error": "Table is not out of order"})
		return
	}

	// A flagged table can still carry the session it had when it broke
	var active int64
	config.DB.Model(&models.Session{}).Where("table_id = ? AND ended_at IS NULL", table.ID).Count(&active)
	if active > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Close the running session before repairing the table"})
		return
	}

	err := config.DB.Transaction(func(tx *gorm.DB) error {
		if err := applyTransition(tx, &table, models.StatusEmpty, "admin", userID, "Repaired, back in service"); err != nil {
			return err
		}
		return tx.Model(&table).Update("is_out_of_order", false).Error
	})
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "Cannot repair table",
			"reason": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Table back in service", "table": table})
}
