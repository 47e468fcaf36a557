package models

import (
	"time"
)

// Order status constants
const (
	OrderStatusReceived       = "Received"
	OrderStatusCooking        = "Cooking"
	OrderStatusOutForDelivery = "Out for Delivery"
	OrderStatusDelivered      = "Delivered"
	OrderStatusCancelled      = "Cancelled"
)

// OrderStatuses lists every status an order may carry
var OrderStatuses = []string{
	OrderStatusReceived,
	OrderStatusCooking,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Order is the durable record of a placed order. Orders are never deleted;
// they are retained as the financial record backing the wallet ledger.
type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	OrderNumber   string      `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID        *uint       `json:"user_id"` // nil for guest orders
	User          User        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Subtotal      float64     `json:"subtotal"`
	Discount      float64     `json:"discount"`
	FinalTotal    float64     `json:"final_total"`
	CouponCode    string      `json:"coupon_code,omitempty"`
	RedeemedCoins int         `json:"redeemed_coins"`
	Status        string      `json:"status"`
	CoinsAwarded  bool        `json:"coins_awarded" gorm:"default:false"`
	CoinsRefunded bool        `json:"coins_refunded" gorm:"default:false"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
	OrderItems    []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
}

// OrderItem is a line item captured by value at placement time. Items carry
// their own name and price so the order stays a faithful record even if the
// menu changes later.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey" json:"id"`
	OrderID   uint    `json:"order_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	Total     float64 `json:"total"`
}

// IsValidOrderStatus reports whether s is one of the known order statuses
func IsValidOrderStatus(s string) bool {
	for _, status := range OrderStatuses {
		if status == s {
			return true
		}
	}
	return false
}
