package utils

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Aravind-508/SpiceRoute/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Coin redemption rules
const (
	MinRedeemCoins         = 10
	CoinCouponValidityDays = 30
)

var (
	// ErrBelowMinimum is returned when a redemption is under the 10 coin minimum
	ErrBelowMinimum = errors.New("minimum 10 coins required")
	// ErrInsufficientBalance is returned when the wallet cannot cover a redemption
	ErrInsufficientBalance = errors.New("insufficient coin balance")
)

// GetOrCreateWallet retrieves or creates a wallet for a user
func GetOrCreateWallet(db *gorm.DB, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			wallet = models.Wallet{
				UserID: userID,
				Tier:   models.TierBronze,
			}
			if err := db.Create(&wallet).Error; err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}
	return &wallet, nil
}

// EarnCoins credits the delivery reward for an order to the wallet: the
// balance and cumulative spend move together with the earn ledger row, and
// the tier is recomputed from the new spend. Must be called inside the same
// transaction that set the order's coins_awarded flag. Returns the coins
// credited; a zero earn is a no-op.
func EarnCoins(tx *gorm.DB, walletID uint, order *models.Order) (int, error) {
	var wallet models.Wallet
	if err := tx.First(&wallet, walletID).Error; err != nil {
		return 0, err
	}

	coins := ComputeEarn(wallet.CumulativeSpend, order.FinalTotal)
	if coins == 0 {
		LogDebug("No coins to earn for order %s (final total %.2f)", order.OrderNumber, order.FinalTotal)
		return 0, nil
	}

	newSpend := wallet.CumulativeSpend + order.FinalTotal
	tier, _ := ComputeTier(newSpend)

	if err := tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).UpdateColumns(map[string]interface{}{
		"balance":          gorm.Expr("balance + ?", coins),
		"cumulative_spend": gorm.Expr("cumulative_spend + ?", order.FinalTotal),
		"tier":             tier,
	}).Error; err != nil {
		return 0, err
	}

	transaction := models.WalletTransaction{
		WalletID:    wallet.ID,
		Type:        models.TransactionTypeEarn,
		Amount:      coins,
		Description: fmt.Sprintf("Coins earned for delivered order %s", order.OrderNumber),
		OrderID:     &order.ID,
	}
	if err := tx.Create(&transaction).Error; err != nil {
		return 0, err
	}

	LogInfo("Credited %d coins to wallet ID: %d for order %s (tier %s)", coins, wallet.ID, order.OrderNumber, tier)
	return coins, nil
}

// RedeemWalletCoins converts coins into a single-use, owner-locked flat
// discount coupon worth the same amount in currency units. The balance
// decrement is conditional on sufficient funds so two concurrent redemptions
// cannot overdraw the wallet. Returns the generated coupon code.
func RedeemWalletCoins(db *gorm.DB, userID uint, coins int) (string, error) {
	if coins < MinRedeemCoins {
		return "", ErrBelowMinimum
	}

	wallet, err := GetOrCreateWallet(db, userID)
	if err != nil {
		return "", err
	}

	code := fmt.Sprintf("COIN-%s", strings.ToUpper(uuid.New().String()[:8]))

	err = RunInTxWithRetry(db, func(tx *gorm.DB) error {
		res := tx.Model(&models.Wallet{}).
			Where("id = ? AND balance >= ?", wallet.ID, coins).
			UpdateColumn("balance", gorm.Expr("balance - ?", coins))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientBalance
		}

		expiry := time.Now().AddDate(0, 0, CoinCouponValidityDays)
		coupon := models.Coupon{
			Code:       code,
			Type:       models.CouponTypeFlat,
			Value:      float64(coins),
			UsageLimit: 1,
			ExpiresAt:  &expiry,
			Active:     true,
			OwnerID:    &userID,
		}
		if err := tx.Create(&coupon).Error; err != nil {
			return err
		}

		transaction := models.WalletTransaction{
			WalletID:    wallet.ID,
			Type:        models.TransactionTypeRedeem,
			Amount:      coins,
			Description: fmt.Sprintf("Coins redeemed for coupon %s", code),
			Reference:   code,
		}
		return tx.Create(&transaction).Error
	})
	if err != nil {
		return "", err
	}

	LogInfo("Redeemed %d coins from wallet ID: %d into coupon %s", coins, wallet.ID, code)
	return code, nil
}

// RefundCoins credits coins back to a wallet with a refund ledger row. The
// primitive is not idempotent; the caller guards it with the order's
// coins_refunded flag.
func RefundCoins(tx *gorm.DB, walletID uint, coins int, order *models.Order) error {
	if err := tx.Model(&models.Wallet{}).Where("id = ?", walletID).
		UpdateColumn("balance", gorm.Expr("balance + ?", coins)).Error; err != nil {
		return err
	}

	transaction := models.WalletTransaction{
		WalletID:    walletID,
		Type:        models.TransactionTypeRefund,
		Amount:      coins,
		Description: fmt.Sprintf("Coins refunded for cancelled order %s", order.OrderNumber),
		OrderID:     &order.ID,
	}
	return tx.Create(&transaction).Error
}

// LedgerBalance sums the signed amounts of a wallet's ledger rows. The cached
// wallet balance must always equal this sum.
func LedgerBalance(db *gorm.DB, walletID uint) (int, error) {
	var transactions []models.WalletTransaction
	if err := db.Where("wallet_id = ?", walletID).Find(&transactions).Error; err != nil {
		return 0, err
	}
	total := 0
	for _, txn := range transactions {
		total += txn.SignedAmount()
	}
	return total, nil
}
