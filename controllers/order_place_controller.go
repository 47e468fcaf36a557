package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Aravind-508/SpiceRoute/config"
	"github.com/Aravind-508/SpiceRoute/models"
	"github.com/Aravind-508/SpiceRoute/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// PlaceOrderRequest represents the order placement request body
type PlaceOrderRequest struct {
	Items      []utils.OrderItemRequest `json:"items" binding:"required"`
	CouponCode string                   `json:"coupon_code"`
}

// PlaceOrder creates a new order. Coupon validation, the atomic usage
// reservation and the order insert all happen in one transaction, so a
// limited coupon can never be consumed past its limit by concurrent
// placements, and a failed reservation leaves no order behind.
func PlaceOrder(c *gin.Context) {
	utils.LogInfo("PlaceOrder called")

	var userID *uint
	if userVal, exists := c.Get("user"); exists {
		if user, ok := userVal.(models.User); ok {
			userID = &user.ID
		}
	}
	if userID != nil {
		utils.LogInfo("Processing order placement for user ID: %d", *userID)
	} else {
		utils.LogInfo("Processing guest order placement")
	}

	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid order request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	subtotal, err := utils.ValidateOrderItems(req.Items)
	if err != nil {
		utils.LogError("Order item validation failed: %v", err)
		utils.BadRequest(c, err.Error(), nil)
		return
	}
	utils.LogDebug("Order subtotal computed: %.2f over %d items", subtotal, len(req.Items))

	var order models.Order
	err = utils.RunInTxWithRetry(config.DB, func(tx *gorm.DB) error {
		var discount float64
		var couponCode string
		var redeemedCoins int

		if req.CouponCode != "" {
			d, coupon, err := utils.ValidateCoupon(tx, req.CouponCode, subtotal, userID)
			if err != nil {
				return err
			}
			if err := utils.ReserveCoupon(tx, coupon.ID); err != nil {
				return err
			}
			discount = d
			couponCode = coupon.Code
			// Owner-locked coupons are coin-funded; remember the coins so a
			// later cancellation can restore them
			if coupon.OwnerID != nil {
				redeemedCoins = int(coupon.Value)
			}
			utils.LogDebug("Reserved coupon %s for discount %.2f", couponCode, discount)
		}

		finalTotal := subtotal - discount
		if finalTotal < 0 {
			finalTotal = 0
		}

		order = models.Order{
			OrderNumber:   utils.GenerateOrderNumber(),
			UserID:        userID,
			Subtotal:      subtotal,
			Discount:      discount,
			FinalTotal:    finalTotal,
			CouponCode:    couponCode,
			RedeemedCoins: redeemedCoins,
			Status:        models.OrderStatusReceived,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, item := range req.Items {
			orderItem := models.OrderItem{
				OrderID:   order.ID,
				Name:      item.Name,
				UnitPrice: item.UnitPrice,
				Quantity:  item.Quantity,
				Total:     item.UnitPrice * float64(item.Quantity),
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
		}

		if userID != nil {
			if err := utils.QueueNotification(tx,
				strconv.Itoa(int(*userID)),
				"Order received",
				fmt.Sprintf("Your order %s has been received and is being prepared", order.OrderNumber),
				fmt.Sprintf("/orders/%d", order.ID),
			); err != nil {
				return err
			}
		}
		return utils.QueueNotification(tx,
			models.NotificationTargetAdmins,
			"New order placed",
			fmt.Sprintf("Order %s placed for %.2f", order.OrderNumber, order.FinalTotal),
			fmt.Sprintf("/admin/orders/%d", order.ID),
		)
	})
	if err != nil {
		respondOrderPlacementError(c, err)
		return
	}

	go utils.DispatchOutbox(config.DB)

	utils.LogInfo("Order %s placed successfully", order.OrderNumber)
	utils.Created(c, "Order placed successfully", gin.H{
		"order_id":       order.ID,
		"order_number":   order.OrderNumber,
		"subtotal":       fmt.Sprintf("%.2f", order.Subtotal),
		"discount":       fmt.Sprintf("%.2f", order.Discount),
		"final_total":    fmt.Sprintf("%.2f", order.FinalTotal),
		"coupon_code":    order.CouponCode,
		"redeemed_coins": order.RedeemedCoins,
		"status":         order.Status,
	})
}

func respondOrderPlacementError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, utils.ErrCouponNotFound):
		utils.LogError("Order placement failed: %v", err)
		utils.NotFound(c, err.Error())
	case errors.Is(err, utils.ErrCouponNotEligible),
		errors.Is(err, utils.ErrCouponInactive),
		errors.Is(err, utils.ErrCouponNotStarted),
		errors.Is(err, utils.ErrCouponExpired),
		errors.Is(err, utils.ErrCouponExhausted),
		errors.Is(err, utils.ErrCouponMinOrder):
		utils.LogError("Order placement failed: %v", err)
		utils.BadRequest(c, err.Error(), gin.H{"valid": false})
	case errors.Is(err, utils.ErrTxConflict):
		utils.LogError("Order placement hit persistent contention: %v", err)
		utils.Conflict(c, "Could not place order, please retry", nil)
	default:
		utils.LogError("Failed to place order: %v", err)
		utils.InternalServerError(c, "Failed to place order", nil)
	}
}
