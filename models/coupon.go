package models

import (
	"time"
)

// Coupon discount type constants
const (
	CouponTypePercentage = "percentage"
	CouponTypeFlat       = "flat"
)

type Coupon struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Code       string     `gorm:"uniqueIndex;not null" json:"code"` // stored uppercase
	Type       string     `json:"type"`                             // "percentage" or "flat"
	Value      float64    `json:"value"`
	MinOrder   float64    `json:"min_order"`
	UsageLimit int        `json:"usage_limit"` // 0 = unlimited
	TimesUsed  int        `json:"times_used"`
	StartsAt   *time.Time `json:"starts_at,omitempty"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"` // nil = never expires
	Active     bool       `json:"active" gorm:"default:true"`
	OwnerID    *uint      `json:"owner_id,omitempty"` // set for coin-redemption coupons
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// OwnedBy reports whether the coupon is locked to the given user. Coupons
// without an owner lock are redeemable by anyone.
func (c *Coupon) OwnedBy(userID *uint) bool {
	if c.OwnerID == nil {
		return true
	}
	return userID != nil && *c.OwnerID == *userID
}
