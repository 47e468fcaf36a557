package controllers

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/Aravind-508/SpiceRoute/config"
	"github.com/Aravind-508/SpiceRoute/models"
	"github.com/Aravind-508/SpiceRoute/utils"
	"github.com/gin-gonic/gin"
)

// AdminUpdateOrderStatus moves an order to a new status and applies the
// financial side effects for the target status exactly once
func AdminUpdateOrderStatus(c *gin.Context) {
	utils.LogInfo("AdminUpdateOrderStatus called")

	admin, exists := c.Get("admin")
	if !exists {
		utils.LogError("Admin not found in context")
		utils.Unauthorized(c, "Admin not found in context")
		return
	}
	adminModel := admin.(models.User)
	utils.LogDebug("Admin authenticated: %s", adminModel.Email)

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid order ID: %v", err)
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}
	utils.LogDebug("Processing order ID: %d", orderID)

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Status == "" {
		utils.LogError("Invalid status in request: %v", err)
		utils.BadRequest(c, "Status is required", nil)
		return
	}
	utils.LogDebug("Requested status update to: %s", req.Status)

	result, err := utils.ApplyStatusTransition(config.DB, uint(orderID), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrOrderNotFound):
			utils.LogError("Order not found: %d", orderID)
			utils.NotFound(c, "Order not found")
		case errors.Is(err, utils.ErrInvalidOrderStatus):
			utils.LogError("Invalid status requested: %s", req.Status)
			utils.BadRequest(c, "Invalid status", gin.H{
				"valid_statuses": models.OrderStatuses,
			})
		case errors.Is(err, utils.ErrTxConflict):
			utils.LogError("Status transition hit persistent contention for order %d: %v", orderID, err)
			utils.Conflict(c, "Could not update order status, please retry", nil)
		default:
			utils.LogError("Failed to update order status for order %d: %v", orderID, err)
			utils.InternalServerError(c, "Failed to update order status", nil)
		}
		return
	}

	// Notifications were queued inside the transaction; drain after commit
	go utils.DispatchOutbox(config.DB)

	order := result.Order
	utils.LogInfo("Successfully updated order %d status to %s (earned %d, refunded %d)",
		orderID, order.Status, result.CoinsEarned, result.CoinsRefunded)
	utils.Success(c, "Order status updated successfully", gin.H{
		"order": gin.H{
			"id":             order.ID,
			"order_number":   order.OrderNumber,
			"status":         order.Status,
			"final_total":    fmt.Sprintf("%.2f", order.FinalTotal),
			"coins_awarded":  order.CoinsAwarded,
			"coins_refunded": order.CoinsRefunded,
		},
		"coins_earned":   result.CoinsEarned,
		"coins_refunded": result.CoinsRefunded,
	})
}
