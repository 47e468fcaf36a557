package utils

import (
	"testing"
	"time"

	"github.com/Aravind-508/SpiceRoute/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createCoupon(t *testing.T, db *gorm.DB, coupon models.Coupon) *models.Coupon {
	t.Helper()
	if coupon.Code == "" {
		coupon.Code = "SAVE10"
	}
	if coupon.Type == "" {
		coupon.Type = models.CouponTypePercentage
	}
	require.NoError(t, db.Create(&coupon).Error)
	return &coupon
}

func TestValidateCoupon_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, _, err := ValidateCoupon(db, "NOPE", 100, nil)
	assert.ErrorIs(t, err, ErrCouponNotFound)
}

func TestValidateCoupon_CaseInsensitiveLookup(t *testing.T) {
	db := newTestDB(t)
	createCoupon(t, db, models.Coupon{Code: "SAVE10", Value: 10, Active: true})

	discount, coupon, err := ValidateCoupon(db, "  save10 ", 200, nil)
	require.NoError(t, err)
	assert.Equal(t, "SAVE10", coupon.Code)
	assert.Equal(t, 20.0, discount)
}

func TestValidateCoupon_Inactive(t *testing.T) {
	db := newTestDB(t)
	createCoupon(t, db, models.Coupon{Code: "OLD", Value: 10, Active: false})

	_, _, err := ValidateCoupon(db, "OLD", 100, nil)
	assert.ErrorIs(t, err, ErrCouponInactive)
}

func TestValidateCoupon_ExpiryBoundary(t *testing.T) {
	db := newTestDB(t)

	today := time.Now()
	createCoupon(t, db, models.Coupon{Code: "TODAY", Value: 10, Active: true, ExpiresAt: &today})
	yesterday := time.Now().AddDate(0, 0, -1)
	createCoupon(t, db, models.Coupon{Code: "GONE", Value: 10, Active: true, ExpiresAt: &yesterday})

	// Valid through the entirety of the expiry day
	_, _, err := ValidateCoupon(db, "TODAY", 100, nil)
	assert.NoError(t, err)

	_, _, err = ValidateCoupon(db, "GONE", 100, nil)
	assert.ErrorIs(t, err, ErrCouponExpired)
}

func TestValidateCoupon_NoExpiryNeverExpires(t *testing.T) {
	db := newTestDB(t)
	createCoupon(t, db, models.Coupon{Code: "FOREVER", Value: 10, Active: true})

	_, _, err := ValidateCoupon(db, "FOREVER", 100, nil)
	assert.NoError(t, err)
}

func TestValidateCoupon_NotStarted(t *testing.T) {
	db := newTestDB(t)
	tomorrow := time.Now().AddDate(0, 0, 1)
	createCoupon(t, db, models.Coupon{Code: "SOON", Value: 10, Active: true, StartsAt: &tomorrow})

	_, _, err := ValidateCoupon(db, "SOON", 100, nil)
	assert.ErrorIs(t, err, ErrCouponNotStarted)
}

func TestValidateCoupon_UsageLimitReached(t *testing.T) {
	db := newTestDB(t)
	createCoupon(t, db, models.Coupon{Code: "ONCE", Value: 10, Active: true, UsageLimit: 1, TimesUsed: 1})

	_, _, err := ValidateCoupon(db, "ONCE", 100, nil)
	assert.ErrorIs(t, err, ErrCouponExhausted)
}

func TestValidateCoupon_ZeroLimitIsUnlimited(t *testing.T) {
	db := newTestDB(t)
	createCoupon(t, db, models.Coupon{Code: "FREEBIE", Value: 10, Active: true, UsageLimit: 0, TimesUsed: 9000})

	_, _, err := ValidateCoupon(db, "FREEBIE", 100, nil)
	assert.NoError(t, err)
}

func TestValidateCoupon_MinimumNotMet(t *testing.T) {
	db := newTestDB(t)
	createCoupon(t, db, models.Coupon{Code: "BIG", Value: 10, Active: true, MinOrder: 500})

	_, _, err := ValidateCoupon(db, "BIG", 499, nil)
	assert.ErrorIs(t, err, ErrCouponMinOrder)

	_, _, err = ValidateCoupon(db, "BIG", 500, nil)
	assert.NoError(t, err)
}

func TestValidateCoupon_OwnerLock(t *testing.T) {
	db := newTestDB(t)
	owner := uint(7)
	stranger := uint(8)
	createCoupon(t, db, models.Coupon{
		Code: "COIN-ABC123", Type: models.CouponTypeFlat, Value: 50, Active: true, OwnerID: &owner,
	})

	_, _, err := ValidateCoupon(db, "COIN-ABC123", 100, &stranger)
	assert.ErrorIs(t, err, ErrCouponNotEligible)

	_, _, err = ValidateCoupon(db, "COIN-ABC123", 100, nil)
	assert.ErrorIs(t, err, ErrCouponNotEligible)

	discount, _, err := ValidateCoupon(db, "COIN-ABC123", 100, &owner)
	require.NoError(t, err)
	assert.Equal(t, 50.0, discount)
}

func TestCouponDiscount_Clamping(t *testing.T) {
	tests := []struct {
		name     string
		coupon   models.Coupon
		subtotal float64
		want     float64
	}{
		{"percentage within subtotal", models.Coupon{Type: models.CouponTypePercentage, Value: 10}, 200, 20},
		{"percentage clamped to subtotal", models.Coupon{Type: models.CouponTypePercentage, Value: 50}, 40, 20},
		{"flat within subtotal", models.Coupon{Type: models.CouponTypeFlat, Value: 50}, 300, 50},
		{"flat clamped to subtotal", models.Coupon{Type: models.CouponTypeFlat, Value: 500}, 300, 300},
		{"zero subtotal yields zero discount", models.Coupon{Type: models.CouponTypeFlat, Value: 50}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CouponDiscount(&tt.coupon, tt.subtotal))
		})
	}
}

func TestReserveCoupon_LastSlot(t *testing.T) {
	db := newTestDB(t)
	coupon := createCoupon(t, db, models.Coupon{Code: "LAST", Value: 10, Active: true, UsageLimit: 1})

	require.NoError(t, ReserveCoupon(db, coupon.ID))
	// Only one slot existed; the second reservation must lose
	assert.ErrorIs(t, ReserveCoupon(db, coupon.ID), ErrCouponExhausted)

	var reloaded models.Coupon
	require.NoError(t, db.First(&reloaded, coupon.ID).Error)
	assert.Equal(t, 1, reloaded.TimesUsed)
}

func TestReserveCoupon_Unlimited(t *testing.T) {
	db := newTestDB(t)
	coupon := createCoupon(t, db, models.Coupon{Code: "MANY", Value: 10, Active: true, UsageLimit: 0})

	for i := 0; i < 5; i++ {
		require.NoError(t, ReserveCoupon(db, coupon.ID))
	}

	var reloaded models.Coupon
	require.NoError(t, db.First(&reloaded, coupon.ID).Error)
	assert.Equal(t, 5, reloaded.TimesUsed)
}

func TestReserveCoupon_InactiveCannotBeReserved(t *testing.T) {
	db := newTestDB(t)
	coupon := createCoupon(t, db, models.Coupon{Code: "DEAD", Value: 10, Active: false})

	assert.ErrorIs(t, ReserveCoupon(db, coupon.ID), ErrCouponExhausted)
}
