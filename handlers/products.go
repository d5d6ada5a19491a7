package handlers

import (
	"net/http"

	"gaming-cafe-api/config"
	"gaming-cafe-api/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListProducts returns the catalog, optionally filtered
func ListProducts(c *gin.Context) {
	var products []models.Product
	query := config.DB

	if category := c.Query("category"); category != "" {
		query = query.Where("category = ?", category)
	}
	if c.Query("in_stock") == "true" {
		query = query.Where("stock > 0")
	}

	query.Order("name").Find(&products)
	c.JSON(http.StatusOK, gin.H{"count": len(products), "products": products})
}

type CreateProductRequest struct {
	Name     string                 `json:"name" binding:"required"`
	Category models.ProductCategory `json:"category" binding:"required"`
	Price    float64                `json:"price" binding:"required,gt=0"`
	Stock    int                    `json:"stock" binding:"min=0"`
}

// CreateProduct adds a new catalog item — admin only
func CreateProduct(c *gin.Context) {
	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Category != models.CategoryFood && req.Category != models.CategoryDrink {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category. Must be: Food or Drink"})
		return
	}

	product := models.Product{
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
		Stock:    req.Stock,
	}
	if err := config.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Product created", "product": product})
}

// UpdateProduct updates catalog fields — admin only. Price changes never
// rewrite amounts of orders already placed; those carry snapshots.
func UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := config.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var req map[string]interface{}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	// Only allow safe fields
	allowed := map[string]bool{"name": true, "category": true, "price": true, "stock": true}
	update := map[string]interface{}{}
	for k, v := range req {
		if allowed[k] {
			update[k] = v
		}
	}
	config.DB.Model(&product).Updates(update)
	c.JSON(http.StatusOK, gin.H{"message": "Product updated", "product": product})
}

// DeleteProduct removes a catalog item — admin only
func DeleteProduct(c *gin.Context) {
	var product models.Product
	if err := config.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	config.DB.Delete(&product)
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

type RestockRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// RestockProduct adds inventory — admin only
func RestockProduct(c *gin.Context) {
	var product models.Product
	if err := config.DB.First(&product, c.Param("id")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var req RestockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := config.DB.Model(&product).
		Update("stock", gorm.Expr("stock + ?", req.Quantity)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to restock product"})
		return
	}
	config.DB.First(&product, product.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Product restocked", "product": product})
}
