package handlers

import (
	"fmt"
	"net/http"
	"time"

	"gaming-cafe-api/billing"
	"gaming-cafe-api/config"
	"gaming-cafe-api/models"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// CategoryTotal is revenue attributed to one product category
type CategoryTotal struct {
	Category models.ProductCategory `json:"category"`
	Total    float64                `json:"total"`
}

// ProductSale is quantity and revenue for one product over the report day
type ProductSale struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Amount   float64 `json:"amount"`
}

// DailyReport summarizes all sessions closed on one day
type DailyReport struct {
	Date           string          `json:"date"`
	SessionCount   int             `json:"session_count"`
	SessionRevenue float64         `json:"session_revenue"`
	OrderRevenue   float64         `json:"order_revenue"`
	OrderCount     int             `json:"order_count"`
	TotalRevenue   float64         `json:"total_revenue"`
	CategoryTotals []CategoryTotal `json:"category_totals"`
	ProductSales   []ProductSale   `json:"product_sales"`
}

// reportDay resolves the ?date= query (YYYY-MM-DD, default today, local time)
func reportDay(c *gin.Context) (time.Time, error) {
	if date := c.Query("date"); date != "" {
		return time.ParseInLocation("2006-01-02", date, time.Local)
	}
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local), nil
}

// buildDailyReport aggregates revenue for sessions closed within the day.
// Charges come from the columns persisted at close, so the report never
// drifts from what customers were actually billed.
func buildDailyReport(day time.Time) DailyReport {
	from, to := day, day.AddDate(0, 0, 1)

	var sessionAgg struct {
		Count   int
		Revenue float64
	}
	config.DB.Model(&models.Session{}).
		Select("COUNT(*) AS count, COALESCE(SUM(time_charge), 0) AS revenue").
		Where("ended_at >= ? AND ended_at < ?", from, to).
		Scan(&sessionAgg)

	var orderAgg struct {
		Total float64
		Qty   int
	}
	config.DB.Model(&models.Order{}).
		Select("COALESCE(SUM(orders.amount), 0) AS total, COALESCE(SUM(orders.quantity), 0) AS qty").
		Joins("JOIN sessions ON sessions.id = orders.session_id").
		Where("sessions.ended_at >= ? AND sessions.ended_at < ?", from, to).
		Scan(&orderAgg)

	var categories []CategoryTotal
	config.DB.Model(&models.Order{}).
		Select("products.category AS category, COALESCE(SUM(orders.amount), 0) AS total").
		Joins("JOIN sessions ON sessions.id = orders.session_id").
		Joins("JOIN products ON products.id = orders.product_id").
		Where("sessions.ended_at >= ? AND sessions.ended_at < ?", from, to).
		Group("products.category").
		Order("products.category").
		Scan(&categories)

	var sales []ProductSale
	config.DB.Model(&models.Order{}).
		Select("orders.product_name AS name, COALESCE(SUM(orders.quantity), 0) AS quantity, COALESCE(SUM(orders.amount), 0) AS amount").
		Joins("JOIN sessions ON sessions.id = orders.session_id").
		Where("sessions.ended_at >= ? AND sessions.ended_at < ?", from, to).
		Group("orders.product_name").
		Order("orders.product_name").
		Scan(&sales)

	return DailyReport{
		Date:           day.Format("2006-01-02"),
		SessionCount:   sessionAgg.Count,
		SessionRevenue: billing.Round2(sessionAgg.Revenue),
		OrderRevenue:   billing.Round2(orderAgg.Total),
		OrderCount:     orderAgg.Qty,
		TotalRevenue:   billing.Round2(sessionAgg.Revenue + orderAgg.Total),
		CategoryTotals: categories,
		ProductSales:   sales,
	}
}

// GetDailyReport returns the end-of-day revenue report — admin only
func GetDailyReport(c *gin.Context) {
	day, err := reportDay(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"report": buildDailyReport(day)})
}

// ExportDailyReport streams the end-of-day report as an .xlsx download
func ExportDailyReport(c *gin.Context) {
	day, err := reportDay(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}
	report := buildDailyReport(day)

	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report file"})
		return
	}

	rows := [][]interface{}{
		{"End-of-Day Report", report.Date},
		{},
		{"Sessions closed", report.SessionCount},
		{"Session revenue", report.SessionRevenue},
		{"Order revenue", report.OrderRevenue},
		{"Items ordered", report.OrderCount},
		{"TOTAL", report.TotalRevenue},
		{},
		{"Category", "Revenue"},
	}
	for _, ct := range report.CategoryTotals {
		rows = append(rows, []interface{}{string(ct.Category), ct.Total})
	}
	for i, row := range rows {
		for j, val := range row {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+1)
			f.SetCellValue(summary, cell, val)
		}
	}

	const products = "Products"
	if _, err := f.NewSheet(products); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build report file"})
		return
	}
	f.SetCellValue(products, "A1", "Product")
	f.SetCellValue(products, "B1", "Quantity")
	f.SetCellValue(products, "C1", "Amount")
	for i, sale := range report.ProductSales {
		f.SetCellValue(products, fmt.Sprintf("A%d", i+2), sale.Name)
		f.SetCellValue(products, fmt.Sprintf("B%d", i+2), sale.Quantity)
		f.SetCellValue(products, fmt.Sprintf("C%d", i+2), sale.Amount)
	}

	filename := "daily-report-" + report.Date + ".xlsx"
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	if err := f.Write(c.Writer); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to write report file"})
	}
}
