package controllers

import (
	"errors"
	"fmt"

	"github.com/Aravind-508/SpiceRoute/config"
	"github.com/Aravind-508/SpiceRoute/models"
	"github.com/Aravind-508/SpiceRoute/utils"
	"github.com/gin-gonic/gin"
)

// ValidateCouponRequest represents the coupon validation request body
type ValidateCouponRequest struct {
	Code     string  `json:"code" binding:"required"`
	Subtotal float64 `json:"subtotal"`
}

// ValidateCoupon checks a coupon against a cart subtotal without consuming a
// use. A failure leaves all state unchanged and carries a specific reason.
func ValidateCoupon(c *gin.Context) {
	utils.LogInfo("ValidateCoupon called")

	var userID *uint
	if userVal, exists := c.Get("user"); exists {
		if user, ok := userVal.(models.User); ok {
			userID = &user.ID
		}
	}

	var req ValidateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid coupon validation request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}
	if req.Subtotal < 0 {
		utils.BadRequest(c, "Subtotal cannot be negative", nil)
		return
	}
	utils.LogInfo("Validating coupon code: %s against subtotal %.2f", req.Code, req.Subtotal)

	discount, coupon, err := utils.ValidateCoupon(config.DB, req.Code, req.Subtotal, userID)
	if err != nil {
		if errors.Is(err, utils.ErrCouponNotFound) {
			utils.LogError("Coupon not found: %s", req.Code)
			utils.NotFound(c, err.Error())
			return
		}
		utils.LogError("Coupon %s rejected: %v", req.Code, err)
		utils.BadRequest(c, err.Error(), gin.H{"valid": false, "reason": err.Error()})
		return
	}

	utils.LogInfo("Coupon %s valid, discount %.2f", coupon.Code, discount)
	utils.Success(c, "Coupon is valid", gin.H{
		"valid":       true,
		"code":        coupon.Code,
		"type":        coupon.Type,
		"discount":    fmt.Sprintf("%.2f", discount),
		"final_total": fmt.Sprintf("%.2f", req.Subtotal-discount),
	})
}
