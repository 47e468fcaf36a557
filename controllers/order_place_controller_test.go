package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Aravind-508/SpiceRoute/config"
	"github.com/Aravind-508/SpiceRoute/models"
	"github.com/Aravind-508/SpiceRoute/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type noopMailer struct{}

func (noopMailer) Send(to, subject, body string) error { return nil }

// setupTestEnv points the global database at a fresh in-memory instance and
// silences outbound mail
func setupTestEnv(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, config.MigrateDB(db))

	previous := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = previous })

	utils.SetMailer(noopMailer{})
	return db
}

func newOrderRouter(db *gorm.DB, asUser *models.User) *gin.Engine {
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if asUser != nil {
			c.Set("user", *asUser)
		}
	})
	router.POST("/v1/orders", PlaceOrder)
	router.POST("/v1/coupons/validate", ValidateCoupon)
	return router
}

func postJSON(router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func decodeResponse(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &response))
	return response
}

func TestPlaceOrder_GuestWithoutCoupon(t *testing.T) {
	db := setupTestEnv(t)
	router := newOrderRouter(db, nil)

	recorder := postJSON(router, "/v1/orders", gin.H{
		"items": []gin.H{
			{"name": "Paneer Tikka", "unit_price": 240, "quantity": 2},
			{"name": "Garlic Naan", "unit_price": 60, "quantity": 3},
		},
	})

	require.Equal(t, http.StatusCreated, recorder.Code)
	data := decodeResponse(t, recorder)["data"].(map[string]interface{})
	assert.Equal(t, "660.00", data["subtotal"])
	assert.Equal(t, "660.00", data["final_total"])
	assert.Equal(t, models.OrderStatusReceived, data["status"])

	var order models.Order
	require.NoError(t, db.Preload("OrderItems").First(&order).Error)
	assert.Nil(t, order.UserID)
	assert.Len(t, order.OrderItems, 2)
	assert.Equal(t, 660.0, order.Subtotal)
}

func TestPlaceOrder_WithCouponAppliesDiscount(t *testing.T) {
	db := setupTestEnv(t)
	user := models.User{Name: "Priya", Email: "priya@example.com"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Coupon{
		Code: "SAVE10", Type: models.CouponTypePercentage, Value: 10, Active: true, UsageLimit: 5,
	}).Error)
	router := newOrderRouter(db, &user)

	recorder := postJSON(router, "/v1/orders", gin.H{
		"items":       []gin.H{{"name": "Biryani", "unit_price": 300, "quantity": 2}},
		"coupon_code": "save10",
	})

	require.Equal(t, http.StatusCreated, recorder.Code)
	data := decodeResponse(t, recorder)["data"].(map[string]interface{})
	assert.Equal(t, "60.00", data["discount"])
	assert.Equal(t, "540.00", data["final_total"])
	assert.Equal(t, "SAVE10", data["coupon_code"])

	var coupon models.Coupon
	require.NoError(t, db.Where("code = ?", "SAVE10").First(&coupon).Error)
	assert.Equal(t, 1, coupon.TimesUsed)
}

func TestPlaceOrder_ExhaustedCouponLeavesNoOrder(t *testing.T) {
	db := setupTestEnv(t)
	require.NoError(t, db.Create(&models.Coupon{
		Code: "ONCE", Type: models.CouponTypeFlat, Value: 50, Active: true, UsageLimit: 1, TimesUsed: 1,
	}).Error)
	router := newOrderRouter(db, nil)

	recorder := postJSON(router, "/v1/orders", gin.H{
		"items":       []gin.H{{"name": "Dosa", "unit_price": 120, "quantity": 1}},
		"coupon_code": "ONCE",
	})

	require.Equal(t, http.StatusBadRequest, recorder.Code)

	// The reservation failure must abort placement entirely
	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestPlaceOrder_UnknownCoupon(t *testing.T) {
	db := setupTestEnv(t)
	router := newOrderRouter(db, nil)

	recorder := postJSON(router, "/v1/orders", gin.H{
		"items":       []gin.H{{"name": "Dosa", "unit_price": 120, "quantity": 1}},
		"coupon_code": "NOPE",
	})

	require.Equal(t, http.StatusNotFound, recorder.Code)
	var orders int64
	require.NoError(t, db.Model(&models.Order{}).Count(&orders).Error)
	assert.Zero(t, orders)
}

func TestPlaceOrder_CoinCouponRecordsRedeemedCoins(t *testing.T) {
	db := setupTestEnv(t)
	user := models.User{Name: "Priya", Email: "priya@example.com"}
	require.NoError(t, db.Create(&user).Error)
	require.NoError(t, db.Create(&models.Coupon{
		Code: "COIN-AB12CD34", Type: models.CouponTypeFlat, Value: 40,
		Active: true, UsageLimit: 1, OwnerID: &user.ID,
	}).Error)
	router := newOrderRouter(db, &user)

	recorder := postJSON(router, "/v1/orders", gin.H{
		"items":       []gin.H{{"name": "Thali", "unit_price": 250, "quantity": 1}},
		"coupon_code": "COIN-AB12CD34",
	})

	require.Equal(t, http.StatusCreated, recorder.Code)

	var order models.Order
	require.NoError(t, db.First(&order).Error)
	assert.Equal(t, 40, order.RedeemedCoins)
	assert.Equal(t, 210.0, order.FinalTotal)
}

func TestPlaceOrder_InvalidItems(t *testing.T) {
	db := setupTestEnv(t)
	router := newOrderRouter(db, nil)

	recorder := postJSON(router, "/v1/orders", gin.H{
		"items": []gin.H{{"name": "Dosa", "unit_price": 120, "quantity": 0}},
	})

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestValidateCouponEndpoint(t *testing.T) {
	db := setupTestEnv(t)
	require.NoError(t, db.Create(&models.Coupon{
		Code: "SAVE10", Type: models.CouponTypePercentage, Value: 10, Active: true, MinOrder: 500,
	}).Error)
	router := newOrderRouter(db, nil)

	recorder := postJSON(router, "/v1/coupons/validate", gin.H{"code": "NOPE", "subtotal": 600})
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = postJSON(router, "/v1/coupons/validate", gin.H{"code": "SAVE10", "subtotal": 400})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	data := decodeResponse(t, recorder)["data"].(map[string]interface{})
	errData := data["error"].(map[string]interface{})
	assert.Equal(t, false, errData["valid"])
	assert.NotEmpty(t, errData["reason"])

	recorder = postJSON(router, "/v1/coupons/validate", gin.H{"code": "SAVE10", "subtotal": 600})
	require.Equal(t, http.StatusOK, recorder.Code)
	data = decodeResponse(t, recorder)["data"].(map[string]interface{})
	assert.Equal(t, true, data["valid"])
	assert.Equal(t, "60.00", data["discount"])
	assert.Equal(t, "540.00", data["final_total"])

	// Validation never consumes a use
	var coupon models.Coupon
	require.NoError(t, db.Where("code = ?", "SAVE10").First(&coupon).Error)
	assert.Zero(t, coupon.TimesUsed)
}
