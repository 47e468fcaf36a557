package controllers

import (
	"fmt"
	"strconv"

	"github.com/Aravind-508/SpiceRoute/config"
	"github.com/Aravind-508/SpiceRoute/models"
	"github.com/Aravind-508/SpiceRoute/utils"
	"github.com/gin-gonic/gin"
)

// GetOrder returns one of the authenticated user's orders with its items
func GetOrder(c *gin.Context) {
	utils.LogInfo("GetOrder called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	orderID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.LogError("Invalid order ID: %v", err)
		utils.BadRequest(c, "Invalid order ID", nil)
		return
	}

	var order models.Order
	if err := config.DB.Preload("OrderItems").
		Where("id = ? AND user_id = ?", orderID, user.ID).First(&order).Error; err != nil {
		utils.LogError("Order not found - Order ID: %d, User ID: %d", orderID, user.ID)
		utils.NotFound(c, "Order not found")
		return
	}

	utils.Success(c, "Order retrieved successfully", gin.H{
		"order": formatOrder(&order),
	})
}

// ListOrders returns the authenticated user's orders, newest first
func ListOrders(c *gin.Context) {
	utils.LogInfo("ListOrders called")
	userVal, exists := c.Get("user")
	if !exists {
		utils.LogError("User not found in context")
		utils.Unauthorized(c, "User not found")
		return
	}
	user := userVal.(models.User)

	pagination := utils.NewPagination(c)

	var total int64
	if err := config.DB.Model(&models.Order{}).Where("user_id = ?", user.ID).Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to count orders", nil)
		return
	}

	var orders []models.Order
	if err := config.DB.Preload("OrderItems").Where("user_id = ?", user.ID).
		Order("created_at DESC").Limit(pagination.Limit).Offset(pagination.Offset).
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to list orders for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to list orders", nil)
		return
	}
	utils.LogInfo("Retrieved %d orders for user ID: %d", len(orders), user.ID)

	formatted := make([]gin.H, len(orders))
	for i := range orders {
		formatted[i] = formatOrder(&orders[i])
	}

	utils.SuccessWithPagination(c, "Orders retrieved successfully",
		gin.H{"orders": formatted}, total, pagination.Page, pagination.Limit)
}

// AdminListOrders returns all orders for the admin console, optionally
// filtered by status
func AdminListOrders(c *gin.Context) {
	utils.LogInfo("AdminListOrders called")
	if _, exists := c.Get("admin"); !exists {
		utils.LogError("Admin not found in context")
		utils.Unauthorized(c, "Admin not found in context")
		return
	}

	pagination := utils.NewPagination(c)
	query := config.DB.Model(&models.Order{})

	if status := c.Query("status"); status != "" {
		if !models.IsValidOrderStatus(status) {
			utils.BadRequest(c, "Invalid status filter", gin.H{"valid_statuses": models.OrderStatuses})
			return
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.LogError("Failed to count orders: %v", err)
		utils.InternalServerError(c, "Failed to count orders", nil)
		return
	}

	var orders []models.Order
	if err := query.Preload("OrderItems").Order("created_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).Find(&orders).Error; err != nil {
		utils.LogError("Failed to list orders: %v", err)
		utils.InternalServerError(c, "Failed to list orders", nil)
		return
	}
	utils.LogInfo("Retrieved %d orders for admin listing", len(orders))

	formatted := make([]gin.H, len(orders))
	for i := range orders {
		formatted[i] = formatOrder(&orders[i])
	}

	utils.SuccessWithPagination(c, "Orders retrieved successfully",
		gin.H{"orders": formatted}, total, pagination.Page, pagination.Limit)
}

func formatOrder(order *models.Order) gin.H {
	items := make([]gin.H, len(order.OrderItems))
	for i, item := range order.OrderItems {
		items[i] = gin.H{
			"name":       item.Name,
			"unit_price": fmt.Sprintf("%.2f", item.UnitPrice),
			"quantity":   item.Quantity,
			"total":      fmt.Sprintf("%.2f", item.Total),
		}
	}
	return gin.H{
		"id":             order.ID,
		"order_number":   order.OrderNumber,
		"status":         order.Status,
		"subtotal":       fmt.Sprintf("%.2f", order.Subtotal),
		"discount":       fmt.Sprintf("%.2f", order.Discount),
		"final_total":    fmt.Sprintf("%.2f", order.FinalTotal),
		"coupon_code":    order.CouponCode,
		"redeemed_coins": order.RedeemedCoins,
		"created_at":     order.CreatedAt.Format("2006-01-02 15:04:05"),
		"items":          items,
	}
}
