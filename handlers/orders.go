package handlers

import (
	"errors"
	"net/http"

	"gaming-cafe-api/config"
	"gaming-cafe-api/middleware"
	"gaming-cafe-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	errActiveSession     = errors.New("table already has an active session")
	errInsufficientStock = errors.New("insufficient stock")
)

type PlaceOrderRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

// OrderLine is one aggregated row of a session's bill
type OrderLine struct {
	Name        string  `json:"name"`
	TotalQty    int     `json:"total_qty"`
	TotalAmount float64 `json:"total_amount"`
}

// activeSessionOrders aggregates a session's orders per product name and
// returns the line items with their grand total
func activeSessionOrders(sessionID uint) ([]OrderLine, float64) {
	var lines []OrderLine
	config.DB.Model(&models.Order{}).
		Select("product_name AS name, SUM(quantity) AS total_qty, SUM(amount) AS total_amount").
		Where("session_id = ?", sessionID).
		Group("product_name").
		Order("product_name").
		Scan(&lines)

	var total float64
	for _, l := range lines {
		total += l.TotalAmount
	}
	return lines, total
}

// PlaceOrder adds a product order to the table's active session. Stock is
// decremented with a conditional update so two racing orders can never drive
// it negative; the loser gets a clean rejection.
func PlaceOrder(c *gin.Context) {
	userID := middleware.GetUserID(c)

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var table models.Table
	if err := config.DB.First(&table, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Table not found"})
		return
	}

	var session models.Session
	if err := config.DB.Where("table_id = ? AND ended_at IS NULL", table.ID).First(&session).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No active session; start a session first"})
		return
	}

	var order models.Order
	err := config.DB.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, req.ProductID).Error; err != nil {
			return err
		}

		res := tx.Model(&models.Product{}).
			Where("id = ? AND stock >= ?", product.ID, req.Quantity).
			Update("stock", gorm.Expr("stock - ?", req.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errInsufficientStock
		}

		order = models.Order{
			SessionID:   session.ID,
			ProductID:   product.ID,
			Quantity:    req.Quantity,
			UnitPrice:   product.Price,
			Amount:      product.Price * float64(req.Quantity),
			ProductName: product.Name,
			PlacedBy:    userID,
		}
		return tx.Create(&order).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if errors.Is(err, errInsufficientStock) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Insufficient stock for this product"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Order placed", "order": order})
}

// GetSessionOrders returns the aggregated order list for the active session
func GetSessionOrders(c *gin.Context) {
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

	lines, total := activeSessionOrders(session.ID)
	c.JSON(http.StatusOK, gin.H{
		"count":       len(lines),
		"orders":      lines,
		"order_total": total,
	})
}
