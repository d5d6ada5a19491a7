package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"gaming-cafe-api/config"
	"gaming-cafe-api/models"
	"gaming-cafe-api/routes"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	router     *gin.Engine
	adminToken string
	staffToken string
)

func TestMain(m *testing.M) {
	os.Setenv("CAFE_DB", ":memory:")
	gin.SetMode(gin.TestMode)
	config.InitDB()

	router = gin.New()
	routes.SetupRoutes(router)

	adminToken = register("admin@cafe.local", models.RoleAdmin)
	staffToken = register("staff@cafe.local", models.RoleStaff)

	os.Exit(m.Run())
}

func register(email string, role models.UserRole) string {
	body, _ := json.Marshal(gin.H{
		"name":     "Test " + string(role),
		"email":    email,
		"password": "secret123",
		"role":     role,
	})
	req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var resp struct {
		Token string `json:"token"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return resp.Token
}

func do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	return m
}

func TestSeededFloorAndCatalog(t *testing.T) {
	w := do(t, http.MethodGet, "/api/tables", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 20, decode(t, w)["count"])

	w = do(t, http.MethodGet, "/api/products", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 10, decode(t, w)["count"])
}

func TestAuthIsRequiredOnFloorRoutes(t *testing.T) {
	w := do(t, http.MethodGet, "/api/tables", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestStaffCannotUseAdminRoutes(t *testing.T) {
	w := do(t, http.MethodGet, "/api/admin/reports/daily", staffToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestStartAndCloseUnlimitedSession(t *testing.T) {
	// Table 1 is VIP, rate 30/h
	w := do(t, http.MethodPost, "/api/tables/1/sessions", staffToken, gin.H{"kind": "Unlimited"})
	require.Equal(t, http.StatusCreated, w.Code)

	var table models.Table
	require.NoError(t, config.DB.First(&table, 1).Error)
	assert.Equal(t, models.StatusOccupied, table.Status)

	// Duplicate start is rejected
	w = do(t, http.MethodPost, "/api/tables/1/sessions", staffToken, gin.H{"kind": "Unlimited"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, http.MethodPost, "/api/tables/1/close", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var session models.Session
	require.NoError(t, config.DB.Where("table_id = ?", 1).Order("id desc").First(&session).Error)
	require.NotNil(t, session.EndedAt, "closed session must carry an end timestamp")
	// Immediate close still bills the one-minute floor
	assert.Equal(t, 1, session.BilledMinutes)
	assert.Equal(t, 0.5, session.TimeCharge)

	require.NoError(t, config.DB.First(&table, 1).Error)
	assert.Equal(t, models.StatusEmpty, table.Status)
}

func TestTimedSessionBillsPlannedDuration(t *testing.T) {
	// Table 6 is Standard, rate 20/h
	w := do(t, http.MethodPost, "/api/tables/6/sessions", staffToken, gin.H{"kind": "Timed", "planned_minutes": 90})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, http.MethodPost, "/api/tables/6/close", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var session models.Session
	require.NoError(t, config.DB.Where("table_id = ?", 6).Order("id desc").First(&session).Error)
	assert.Equal(t, 90, session.BilledMinutes)
	assert.Equal(t, 30.0, session.TimeCharge)
}

func TestTimedSessionRequiresPlannedMinutes(t *testing.T) {
	w := do(t, http.MethodPost, "/api/tables/7/sessions", staffToken, gin.H{"kind": "Timed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderRequiresActiveSession(t *testing.T) {
	w := do(t, http.MethodPost, "/api/tables/8/orders", staffToken, gin.H{"product_id": 1, "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderNeverDrivesStockNegative(t *testing.T) {
	// Dedicated product with tiny stock
	w := do(t, http.MethodPost, "/api/admin/products", adminToken, gin.H{
		"name": "Limited Snack", "category": "Food", "price": 40.0, "stock": 2,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var product models.Product
	require.NoError(t, config.DB.Where("name = ?", "Limited Snack").First(&product).Error)

	w = do(t, http.MethodPost, "/api/tables/9/sessions", staffToken, gin.H{"kind": "Unlimited"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, http.MethodPost, "/api/tables/9/orders", staffToken, gin.H{"product_id": product.ID, "quantity": 2})
	require.Equal(t, http.StatusCreated, w.Code)

	// Stock is exhausted; the next order loses cleanly
	w = do(t, http.MethodPost, "/api/tables/9/orders", staffToken, gin.H{"product_id": product.ID, "quantity": 1})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	require.NoError(t, config.DB.First(&product, product.ID).Error)
	assert.Equal(t, 0, product.Stock)
}

func TestOrderAmountSnapshotsPrice(t *testing.T) {
	w := do(t, http.MethodPost, "/api/tables/10/sessions", staffToken, gin.H{"kind": "Unlimited"})
	require.Equal(t, http.StatusCreated, w.Code)

	var cola models.Product
	require.NoError(t, config.DB.Where("name = ?", "Cola").First(&cola).Error)

	w = do(t, http.MethodPost, "/api/tables/10/orders", staffToken, gin.H{"product_id": cola.ID, "quantity": 3})
	require.Equal(t, http.StatusCreated, w.Code)

	// Raising the price afterwards must not change the placed order
	w = do(t, http.MethodPut, "/api/admin/products/"+itoa(cola.ID), adminToken, gin.H{"price": 99.0})
	require.Equal(t, http.StatusOK, w.Code)

	var order models.Order
	require.NoError(t, config.DB.Where("product_id = ?", cola.ID).Order("id desc").First(&order).Error)
	assert.Equal(t, 25.0, order.UnitPrice)
	assert.Equal(t, 75.0, order.Amount)

	// restore for other tests
	config.DB.Model(&models.Product{}).Where("id = ?", cola.ID).Update("price", 25.0)
	do(t, http.MethodPost, "/api/tables/10/close", staffToken, nil)
}

func TestReserveOccupyReleaseCycle(t *testing.T) {
	w := do(t, http.MethodPut, "/api/tables/11/reserve", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Reserved tables can still start a session
	w = do(t, http.MethodPost, "/api/tables/11/sessions", staffToken, gin.H{"kind": "Unlimited"})
	require.Equal(t, http.StatusCreated, w.Code)

	// But not be re-reserved
	w = do(t, http.MethodPut, "/api/tables/11/reserve", staffToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	do(t, http.MethodPost, "/api/tables/11/close", staffToken, nil)

	w = do(t, http.MethodPut, "/api/tables/12/reserve", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = do(t, http.MethodPut, "/api/tables/12/unreserve", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestOutOfOrderLifecycle(t *testing.T) {
	w := do(t, http.MethodPut, "/api/admin/tables/13/out-of-order", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// No sessions on a broken table
	w = do(t, http.MethodPost, "/api/tables/13/sessions", staffToken, gin.H{"kind": "Unlimited"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, http.MethodPut, "/api/admin/tables/13/repair", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var table models.Table
	require.NoError(t, config.DB.First(&table, 13).Error)
	assert.Equal(t, models.StatusEmpty, table.Status)
	assert.False(t, table.IsOutOfOrder)
}

func TestFlaggedOccupiedTableParksOnClose(t *testing.T) {
	w := do(t, http.MethodPost, "/api/tables/14/sessions", staffToken, gin.H{"kind": "Unlimited"})
	require.Equal(t, http.StatusCreated, w.Code)

	// Admin flags the table mid-session
	w = do(t, http.MethodPut, "/api/admin/tables/14/out-of-order", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Repair is blocked while the session runs
	w = do(t, http.MethodPut, "/api/admin/tables/14/repair", adminToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = do(t, http.MethodPost, "/api/tables/14/close", staffToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var table models.Table
	require.NoError(t, config.DB.First(&table, 14).Error)
	assert.Equal(t, models.StatusOutOfOrder, table.Status)
	assert.True(t, table.IsOutOfOrder)
}

func TestDailyReportAggregatesClosedSessions(t *testing.T) {
	// Seed a past day directly so the report is isolated from other tests
	day := time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local)
	end := day.Add(10 * time.Hour)

	var cola, pizza models.Product
	require.NoError(t, config.DB.Where("name = ?", "Cola").First(&cola).Error)
	require.NoError(t, config.DB.Where("name = ?", "Pizza").First(&pizza).Error)

	s1 := models.Session{TableID: 15, Kind: models.SessionUnlimited, StartedAt: end.Add(-1 * time.Hour), EndedAt: &end, HourlyRate: 30, BilledMinutes: 60, TimeCharge: 30, OrderTotal: 50, Total: 80}
	s2 := models.Session{TableID: 16, Kind: models.SessionTimed, StartedAt: end.Add(-2 * time.Hour), EndedAt: &end, HourlyRate: 20, BilledMinutes: 60, TimeCharge: 20, OrderTotal: 120, Total: 140}
	require.NoError(t, config.DB.Create(&s1).Error)
	require.NoError(t, config.DB.Create(&s2).Error)
	require.NoError(t, config.DB.Create(&models.Order{SessionID: s1.ID, ProductID: cola.ID, Quantity: 2, UnitPrice: 25, Amount: 50, ProductName: "Cola"}).Error)
	require.NoError(t, config.DB.Create(&models.Order{SessionID: s2.ID, ProductID: pizza.ID, Quantity: 1, UnitPrice: 120, Amount: 120, ProductName: "Pizza"}).Error)

	w := do(t, http.MethodGet, "/api/admin/reports/daily?date=2024-01-15", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Report struct {
			SessionCount   int     `json:"session_count"`
			SessionRevenue float64 `json:"session_revenue"`
			OrderRevenue   float64 `json:"order_revenue"`
			OrderCount     int     `json:"order_count"`
			TotalRevenue   float64 `json:"total_revenue"`
			CategoryTotals []struct {
				Category string  `json:"category"`
				Total    float64 `json:"total"`
			} `json:"category_totals"`
			ProductSales []struct {
				Name     string `json:"name"`
				Quantity int    `json:"quantity"`
			} `json:"product_sales"`
		} `json:"report"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, 2, resp.Report.SessionCount)
	assert.Equal(t, 50.0, resp.Report.SessionRevenue)
	assert.Equal(t, 170.0, resp.Report.OrderRevenue)
	assert.Equal(t, 3, resp.Report.OrderCount)
	assert.Equal(t, 220.0, resp.Report.TotalRevenue)

	categories := map[string]float64{}
	for _, ct := range resp.Report.CategoryTotals {
		categories[ct.Category] = ct.Total
	}
	assert.Equal(t, 50.0, categories["Drink"])
	assert.Equal(t, 120.0, categories["Food"])
	require.Len(t, resp.Report.ProductSales, 2)
}

func TestDailyReportExportIsXlsx(t *testing.T) {
	w := do(t, http.MethodGet, "/api/admin/reports/daily/export?date=2024-01-15", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "daily-report-2024-01-15.xlsx")
	// xlsx files are zip archives
	assert.Equal(t, "PK", w.Body.String()[:2])
}

func itoa(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
