package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/Aravind-508/SpiceRoute/models"
	"gorm.io/gorm"
)

var (
	// ErrCouponNotFound is returned when no coupon matches the code
	ErrCouponNotFound = errors.New("coupon not found")
	// ErrCouponNotEligible is returned when an owner-locked coupon is used by someone else
	ErrCouponNotEligible = errors.New("coupon is reserved for another account")
	// ErrCouponInactive is returned for deactivated coupons
	ErrCouponInactive = errors.New("coupon is inactive")
	// ErrCouponNotStarted is returned before the coupon's start date
	ErrCouponNotStarted = errors.New("coupon is not valid yet")
	// ErrCouponExpired is returned after the coupon's expiry day has passed
	ErrCouponExpired = errors.New("coupon has expired")
	// ErrCouponExhausted is returned when the usage limit is reached
	ErrCouponExhausted = errors.New("coupon usage limit reached")
	// ErrCouponMinOrder is returned when the cart subtotal is below the coupon minimum
	ErrCouponMinOrder = errors.New("cart subtotal below coupon minimum order value")
)

// NormalizeCouponCode uppercases and trims a code; coupons are stored and
// matched uppercase
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FindCoupon looks up a coupon by code, case-insensitively
func FindCoupon(db *gorm.DB, code string) (*models.Coupon, error) {
	var coupon models.Coupon
	if err := db.Where("code = ?", NormalizeCouponCode(code)).First(&coupon).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCouponNotFound
		}
		return nil, err
	}
	return &coupon, nil
}

// ValidateCoupon checks a code against a cart subtotal and returns the
// discount it would grant. It does not reserve a use; reservation is the
// separate atomic increment in ReserveCoupon.
func ValidateCoupon(db *gorm.DB, code string, subtotal float64, userID *uint) (float64, *models.Coupon, error) {
	coupon, err := FindCoupon(db, code)
	if err != nil {
		return 0, nil, err
	}

	if !coupon.OwnedBy(userID) {
		return 0, nil, ErrCouponNotEligible
	}
	if !coupon.Active {
		return 0, nil, ErrCouponInactive
	}

	today := dateOnly(time.Now())
	if coupon.StartsAt != nil && today.Before(dateOnly(*coupon.StartsAt)) {
		return 0, nil, ErrCouponNotStarted
	}
	// A coupon stays valid through the entirety of its expiry day
	if coupon.ExpiresAt != nil && today.After(dateOnly(*coupon.ExpiresAt)) {
		return 0, nil, ErrCouponExpired
	}

	if coupon.UsageLimit > 0 && coupon.TimesUsed >= coupon.UsageLimit {
		return 0, nil, ErrCouponExhausted
	}
	if subtotal < coupon.MinOrder {
		return 0, nil, ErrCouponMinOrder
	}

	return CouponDiscount(coupon, subtotal), coupon, nil
}

// CouponDiscount computes the discount a coupon grants on a subtotal,
// clamped so it can never make the price negative
func CouponDiscount(coupon *models.Coupon, subtotal float64) float64 {
	var discount float64
	if coupon.Type == models.CouponTypePercentage {
		discount = subtotal * coupon.Value / 100
	} else {
		discount = coupon.Value
	}
	if discount > subtotal {
		discount = subtotal
	}
	if discount < 0 {
		discount = 0
	}
	return discount
}

// ReserveCoupon consumes one use of a coupon with a single conditional
// increment, so concurrent redemptions near the limit cannot both succeed.
// The counter is never decremented.
func ReserveCoupon(tx *gorm.DB, couponID uint) error {
	res := tx.Model(&models.Coupon{}).
		Where("id = ? AND active = ? AND (usage_limit = 0 OR times_used < usage_limit)", couponID, true).
		UpdateColumn("times_used", gorm.Expr("times_used + 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrCouponExhausted
	}
	return nil
}

// dateOnly truncates a time to midnight for date-only comparisons
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
