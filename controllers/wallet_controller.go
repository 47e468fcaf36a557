package controllers

import (
	"errors"
	"fmt"

	"github.com/Aravind-508/SpiceRoute/config"
	"github.com/Aravind-508/SpiceRoute/models"
	"github.com/Aravind-508/SpiceRoute/utils"
	"github.com/gin-gonic/gin"
)

// GetWallet returns the user's coin balance, tier and paginated ledger
// history
func GetWallet(c *gin.Context) {
	utils.LogInfo("GetWallet called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)
	utils.LogInfo("Processing wallet request for user ID: %d", user.ID)

	wallet, err := utils.GetOrCreateWallet(config.DB, user.ID)
	if err != nil {
		utils.LogError("Failed to get wallet for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get wallet", nil)
		return
	}

	pagination := utils.NewPagination(c)

	var total int64
	if err := config.DB.Model(&models.WalletTransaction{}).
		Where("wallet_id = ?", wallet.ID).Count(&total).Error; err != nil {
		utils.LogError("Failed to count transactions for wallet ID: %d: %v", wallet.ID, err)
		utils.InternalServerError(c, "Failed to count transactions", nil)
		return
	}

	var transactions []models.WalletTransaction
	if err := config.DB.Where("wallet_id = ?", wallet.ID).
		Order("created_at DESC").Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&transactions).Error; err != nil {
		utils.LogError("Failed to get transactions for wallet ID: %d: %v", wallet.ID, err)
		utils.InternalServerError(c, "Failed to get transactions", nil)
		return
	}
	utils.LogInfo("Retrieved %d transactions for wallet ID: %d", len(transactions), wallet.ID)

	formatted := make([]gin.H, len(transactions))
	for i, txn := range transactions {
		formatted[i] = gin.H{
			"id":          txn.ID,
			"type":        txn.Type,
			"amount":      txn.Amount,
			"description": txn.Description,
			"reference":   txn.Reference,
			"order_id":    txn.OrderID,
			"created_at":  txn.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	utils.SuccessWithPagination(c, "Wallet retrieved successfully", gin.H{
		"wallet": gin.H{
			"balance":          wallet.Balance,
			"tier":             wallet.Tier,
			"cumulative_spend": fmt.Sprintf("%.2f", wallet.CumulativeSpend),
		},
		"transactions": formatted,
	}, total, pagination.Page, pagination.Limit)
}

// RedeemCoinsRequest represents the coin redemption request body
type RedeemCoinsRequest struct {
	Coins int `json:"coins" binding:"required"`
}

// RedeemCoins converts wallet coins into a personal single-use coupon
func RedeemCoins(c *gin.Context) {
	utils.LogInfo("RedeemCoins called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	var req RedeemCoinsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid redeem request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	utils.LogInfo("Processing redemption of %d coins for user ID: %d", req.Coins, user.ID)

	code, err := utils.RedeemWalletCoins(config.DB, user.ID, req.Coins)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrBelowMinimum):
			utils.LogError("Redemption below minimum for user ID: %d", user.ID)
			utils.BadRequest(c, fmt.Sprintf("Minimum %d coins required", utils.MinRedeemCoins), nil)
		case errors.Is(err, utils.ErrInsufficientBalance):
			utils.LogError("Insufficient balance for user ID: %d", user.ID)
			utils.BadRequest(c, "Insufficient coin balance", nil)
		case errors.Is(err, utils.ErrTxConflict):
			utils.LogError("Redemption hit persistent contention for user ID: %d: %v", user.ID, err)
			utils.Conflict(c, "Could not redeem coins, please retry", nil)
		default:
			utils.LogError("Failed to redeem coins for user ID: %d: %v", user.ID, err)
			utils.InternalServerError(c, "Failed to redeem coins", nil)
		}
		return
	}

	wallet, err := utils.GetOrCreateWallet(config.DB, user.ID)
	if err != nil {
		utils.LogError("Failed to reload wallet for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to reload wallet", nil)
		return
	}

	utils.LogInfo("User ID: %d redeemed %d coins into coupon %s", user.ID, req.Coins, code)
	utils.Success(c, "Coins redeemed successfully", gin.H{
		"coupon_code":    code,
		"coupon_value":   req.Coins,
		"expires_in":     fmt.Sprintf("%d days", utils.CoinCouponValidityDays),
		"wallet_balance": wallet.Balance,
	})
}
