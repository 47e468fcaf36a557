package utils

import (
	"fmt"
	"strings"

	"github.com/Aravind-508/SpiceRoute/models"
)

// OrderItemRequest is the boundary shape for one order line. Items are
// captured by value; the catalog is not consulted at placement.
type OrderItemRequest struct {
	Name      string  `json:"name" binding:"required"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
}

// ValidateOrderItems checks line items for shape errors and returns the
// computed subtotal
func ValidateOrderItems(items []OrderItemRequest) (float64, error) {
	if len(items) == 0 {
		return 0, fmt.Errorf("order must contain at least one item")
	}

	var subtotal float64
	for i, item := range items {
		if strings.TrimSpace(item.Name) == "" {
			return 0, fmt.Errorf("item %d: name is required", i+1)
		}
		if item.UnitPrice < 0 {
			return 0, fmt.Errorf("item %d: unit price cannot be negative", i+1)
		}
		if item.Quantity <= 0 {
			return 0, fmt.Errorf("item %d: quantity must be positive", i+1)
		}
		subtotal += item.UnitPrice * float64(item.Quantity)
	}
	return subtotal, nil
}

// ValidateCouponInput checks an admin-supplied coupon definition
func ValidateCouponInput(code, couponType string, value, minOrder float64, usageLimit int) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("code is required")
	}
	if couponType != models.CouponTypePercentage && couponType != models.CouponTypeFlat {
		return fmt.Errorf("type must be %q or %q", models.CouponTypePercentage, models.CouponTypeFlat)
	}
	if value <= 0 {
		return fmt.Errorf("value must be positive")
	}
	if couponType == models.CouponTypePercentage && value > 100 {
		return fmt.Errorf("percentage value cannot exceed 100")
	}
	if minOrder < 0 {
		return fmt.Errorf("minimum order value cannot be negative")
	}
	if usageLimit < 0 {
		return fmt.Errorf("usage limit cannot be negative")
	}
	return nil
}
