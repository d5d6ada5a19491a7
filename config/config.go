package config

import (
	"log"
	"os"
	"strconv"

	"gaming-cafe-api/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// JWTSecret used to sign tokens — read from env or fallback
var JWTSecret = []byte(getEnv("JWT_SECRET", "gaming_cafe_super_secret_2024"))

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("Invalid %s=%q, using default %.2f", key, v, fallback)
	}
	return fallback
}

// HourlyRate returns the rate charged per hour for a table kind. The rate is
// captured onto the session at start, so changing the env later never
// rewrites charges of sessions already running.
func HourlyRate(kind models.TableKind) float64 {
	if kind == models.KindVIP {
		return getEnvFloat("CAFE_VIP_RATE", 30.0)
	}
	return getEnvFloat("CAFE_STANDARD_RATE", 20.0)
}

func InitDB() {
	var err error
	dsn := getEnv("CAFE_DB", "cafe.db")
	DB, err = gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// An in-memory store vanishes per connection; pin the pool to one.
	if dsn == ":memory:" {
		sqlDB, err := DB.DB()
		if err != nil {
			log.Fatal("Failed to access database pool:", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	// Auto-migrate all models
	err = DB.AutoMigrate(
		&models.User{},
		&models.Table{},
		&models.TableStatusHistory{},
		&models.Session{},
		&models.Product{},
		&models.Order{},
	)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	seedTables()
	seedProducts()

	log.Println("✅ Database connected and migrated successfully")
}

// seedTables creates the floor layout on first run: stations 1-5 are VIP,
// the rest standard.
func seedTables() {
	var count int64
	DB.Model(&models.Table{}).Count(&count)
	if count > 0 {
		return
	}
	for i := 1; i <= 20; i++ {
		kind := models.KindStandard
		hardware := "GTX 1650, 75Hz Monitor"
		if i <= 5 {
			kind = models.KindVIP
			hardware = "RTX 4060 Ti, 165Hz Monitor"
		}
		table := models.Table{
			Name:     "Table " + strconv.Itoa(i),
			Kind:     kind,
			Status:   models.StatusEmpty,
			Hardware: hardware,
		}
		if err := DB.Create(&table).Error; err != nil {
			log.Fatal("Failed to seed tables:", err)
		}
	}
	log.Println("Seeded 20 tables (5 VIP, 15 Standard)")
}

// seedProducts loads the starting catalog on first run.
func seedProducts() {
	var count int64
	DB.Model(&models.Product{}).Count(&count)
	if count > 0 {
		return
	}
	products := []models.Product{
		{Name: "Cheese Toast", Category: models.CategoryFood, Price: 50.0, Stock: 50},
		{Name: "Sausage Toast", Category: models.CategoryFood, Price: 60.0, Stock: 50},
		{Name: "Mixed Toast", Category: models.CategoryFood, Price: 70.0, Stock: 50},
		{Name: "Patso Sandwich", Category: models.CategoryFood, Price: 45.0, Stock: 40},
		{Name: "Pizza", Category: models.CategoryFood, Price: 120.0, Stock: 30},
		{Name: "Water", Category: models.CategoryDrink, Price: 10.0, Stock: 100},
		{Name: "Tea", Category: models.CategoryDrink, Price: 15.0, Stock: 100},
		{Name: "Cola", Category: models.CategoryDrink, Price: 25.0, Stock: 80},
		{Name: "Fanta", Category: models.CategoryDrink, Price: 25.0, Stock: 80},
		{Name: "Sprite", Category: models.CategoryDrink, Price: 25.0, Stock: 80},
	}
	if err := DB.Create(&products).Error; err != nil {
		log.Fatal("Failed to seed products:", err)
	}
	log.Printf("Seeded %d products", len(products))
}
