package utils

import (
	"fmt"
	"testing"

	"github.com/Aravind-508/SpiceRoute/config"
	"github.com/Aravind-508/SpiceRoute/models"
	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a fresh in-memory database with the full schema migrated
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := config.MigrateDB(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// createTestUser creates a user with a wallet carrying the given balance and
// cumulative spend. The seed balance is backed by an earn ledger row so the
// wallet always reconciles against its ledger.
func createTestUser(t *testing.T, db *gorm.DB, balance int, spend float64) (*models.User, *models.Wallet) {
	t.Helper()

	user := models.User{
		Name:  "Test User",
		Email: fmt.Sprintf("user-%s@example.com", uuid.New().String()[:8]),
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	tier, _ := ComputeTier(spend)
	wallet := models.Wallet{
		UserID:          user.ID,
		Balance:         balance,
		Tier:            tier,
		CumulativeSpend: spend,
	}
	if err := db.Create(&wallet).Error; err != nil {
		t.Fatalf("Failed to create test wallet: %v", err)
	}

	if balance > 0 {
		seed := models.WalletTransaction{
			WalletID:    wallet.ID,
			Type:        models.TransactionTypeEarn,
			Amount:      balance,
			Description: "Seed balance",
		}
		if err := db.Create(&seed).Error; err != nil {
			t.Fatalf("Failed to seed wallet ledger: %v", err)
		}
	}

	return &user, &wallet
}

// createTestOrder creates an order owned by userID (nil for guest orders)
func createTestOrder(t *testing.T, db *gorm.DB, userID *uint, finalTotal float64, redeemedCoins int) *models.Order {
	t.Helper()

	order := models.Order{
		OrderNumber:   GenerateOrderNumber(),
		UserID:        userID,
		Subtotal:      finalTotal + float64(redeemedCoins),
		Discount:      float64(redeemedCoins),
		FinalTotal:    finalTotal,
		RedeemedCoins: redeemedCoins,
		Status:        models.OrderStatusReceived,
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to create test order: %v", err)
	}
	return &order
}
