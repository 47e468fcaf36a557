package controllers

import (
	"strconv"
	"time"

	"github.com/Aravind-508/SpiceRoute/config"
	"github.com/Aravind-508/SpiceRoute/models"
	"github.com/Aravind-508/SpiceRoute/utils"
	"github.com/gin-gonic/gin"
)

// CreateCouponRequest represents the admin coupon creation request body
type CreateCouponRequest struct {
	Code       string  `json:"code" binding:"required"`
	Type       string  `json:"type" binding:"required"`
	Value      float64 `json:"value" binding:"required"`
	MinOrder   float64 `json:"min_order"`
	UsageLimit int     `json:"usage_limit"`
	StartsAt   string  `json:"starts_at"`  // YYYY-MM-DD, optional
	ExpiresAt  string  `json:"expires_at"` // YYYY-MM-DD, optional; empty = never expires
	Active     *bool   `json:"active"`
}

// AdminCreateCoupon creates a new discount code
func AdminCreateCoupon(c *gin.Context) {
	utils.LogInfo("AdminCreateCoupon called")

	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid coupon creation request: %v", err)
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	if err := utils.ValidateCouponInput(req.Code, req.Type, req.Value, req.MinOrder, req.UsageLimit); err != nil {
		utils.LogError("Coupon validation failed: %v", err)
		utils.BadRequest(c, err.Error(), nil)
		return
	}

	code := utils.NormalizeCouponCode(req.Code)
	var existing models.Coupon
	if err := config.DB.Where("code = ?", code).First(&existing).Error; err == nil {
		utils.LogError("Coupon code already exists: %s", code)
		utils.Conflict(c, "Coupon code already exists", nil)
		return
	}

	coupon := models.Coupon{
		Code:       code,
		Type:       req.Type,
		Value:      req.Value,
		MinOrder:   req.MinOrder,
		UsageLimit: req.UsageLimit,
		Active:     true,
	}
	if req.Active != nil {
		coupon.Active = *req.Active
	}

	if req.StartsAt != "" {
		starts, err := time.Parse("2006-01-02", req.StartsAt)
		if err != nil {
			utils.BadRequest(c, "Invalid starts_at date, expected YYYY-MM-DD", nil)
			return
		}
		coupon.StartsAt = &starts
	}
	if req.ExpiresAt != "" {
		expires, err := time.Parse("2006-01-02", req.ExpiresAt)
		if err != nil {
			utils.BadRequest(c, "Invalid expires_at date, expected YYYY-MM-DD", nil)
			return
		}
		coupon.ExpiresAt = &expires
	}

	if err := config.DB.Create(&coupon).Error; err != nil {
		utils.LogError("Failed to create coupon: %v", err)
		utils.InternalServerError(c, "Failed to create coupon", nil)
		return
	}

	utils.LogInfo("Created coupon %s", coupon.Code)
	utils.Created(c, "Coupon created successfully", gin.H{"coupon": coupon})
}

// AdminListCoupons returns all coupons, paginated
func AdminListCoupons(c *gin.Context) {
	utils.LogInfo("AdminListCoupons called")

	pagination := utils.NewPagination(c)

	var total int64
	if err := config.DB.Model(&models.Coupon{}).Count(&total).Error; err != nil {
		utils.LogError("Failed to count coupons: %v", err)
		utils.InternalServerError(c, "Failed to count coupons", nil)
		return
	}

	var coupons []models.Coupon
	if err := config.DB.Order("created_at DESC").
		Limit(pagination.Limit).Offset(pagination.Offset).Find(&coupons).Error; err != nil {
		utils.LogError("Failed to list coupons: %v", err)
		utils.InternalServerError(c, "Failed to list coupons", nil)
		return
	}
	utils.LogInfo("Retrieved %d coupons", len(coupons))

	utils.SuccessWithPagination(c, "Coupons retrieved successfully",
		gin.H{"coupons": coupons}, total, pagination.Page, pagination.Limit)
}

// UpdateCouponRequest represents the admin coupon update request body
type UpdateCouponRequest struct {
	Value      *float64 `json:"value"`
	MinOrder   *float64 `json:"min_order"`
	UsageLimit *int     `json:"usage_limit"`
	ExpiresAt  *string  `json:"expires_at"`
	Active     *bool    `json:"active"`
}

// AdminUpdateCoupon updates a coupon's mutable fields. The code, type and
// usage counter are fixed once created.
func AdminUpdateCoupon(c *gin.Context) {
	utils.LogInfo("AdminUpdateCoupon called")

	couponID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid coupon ID", nil)
		return
	}

	var coupon models.Coupon
	if err := config.DB.First(&coupon, couponID).Error; err != nil {
		utils.LogError("Coupon not found: %d", couponID)
		utils.NotFound(c, "Coupon not found")
		return
	}

	var req UpdateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.Value != nil {
		if *req.Value <= 0 || (coupon.Type == models.CouponTypePercentage && *req.Value > 100) {
			utils.BadRequest(c, "Invalid coupon value", nil)
			return
		}
		updates["value"] = *req.Value
	}
	if req.MinOrder != nil {
		if *req.MinOrder < 0 {
			utils.BadRequest(c, "Minimum order value cannot be negative", nil)
			return
		}
		updates["min_order"] = *req.MinOrder
	}
	if req.UsageLimit != nil {
		if *req.UsageLimit < 0 {
			utils.BadRequest(c, "Usage limit cannot be negative", nil)
			return
		}
		updates["usage_limit"] = *req.UsageLimit
	}
	if req.ExpiresAt != nil {
		if *req.ExpiresAt == "" {
			updates["expires_at"] = nil
		} else {
			expires, err := time.Parse("2006-01-02", *req.ExpiresAt)
			if err != nil {
				utils.BadRequest(c, "Invalid expires_at date, expected YYYY-MM-DD", nil)
				return
			}
			updates["expires_at"] = expires
		}
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}

	if len(updates) == 0 {
		utils.BadRequest(c, "No fields to update", nil)
		return
	}

	if err := config.DB.Model(&coupon).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update coupon %d: %v", couponID, err)
		utils.InternalServerError(c, "Failed to update coupon", nil)
		return
	}

	utils.LogInfo("Updated coupon %s", coupon.Code)
	utils.Success(c, "Coupon updated successfully", gin.H{"coupon": coupon})
}

// AdminDeleteCoupon removes an unused coupon. Coupons that have been consumed
// are deactivated instead, keeping the usage trail for orders that reference
// them.
func AdminDeleteCoupon(c *gin.Context) {
	utils.LogInfo("AdminDeleteCoupon called")

	couponID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.BadRequest(c, "Invalid coupon ID", nil)
		return
	}

	var coupon models.Coupon
	if err := config.DB.First(&coupon, couponID).Error; err != nil {
		utils.LogError("Coupon not found: %d", couponID)
		utils.NotFound(c, "Coupon not found")
		return
	}

	if coupon.TimesUsed > 0 {
		if err := config.DB.Model(&coupon).Update("active", false).Error; err != nil {
			utils.LogError("Failed to deactivate coupon %d: %v", couponID, err)
			utils.InternalServerError(c, "Failed to deactivate coupon", nil)
			return
		}
		utils.LogInfo("Deactivated used coupon %s", coupon.Code)
		utils.Success(c, "Coupon has been used and was deactivated instead of deleted", gin.H{
			"coupon": coupon,
		})
		return
	}

	if err := config.DB.Delete(&coupon).Error; err != nil {
		utils.LogError("Failed to delete coupon %d: %v", couponID, err)
		utils.InternalServerError(c, "Failed to delete coupon", nil)
		return
	}

	utils.LogInfo("Deleted coupon %s", coupon.Code)
	utils.Success(c, "Coupon deleted successfully", nil)
}
