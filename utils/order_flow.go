package utils

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Aravind-508/SpiceRoute/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GenerateOrderNumber produces the externally visible, human-readable order
// number
func GenerateOrderNumber() string {
	return fmt.Sprintf("SR-%s", strings.ToUpper(uuid.New().String()[:8]))
}

var (
	// ErrOrderNotFound is returned when the order does not exist
	ErrOrderNotFound = errors.New("order not found")
	// ErrInvalidOrderStatus is returned for a status outside the known set
	ErrInvalidOrderStatus = errors.New("invalid order status")
)

// TransitionResult reports what a status transition did
type TransitionResult struct {
	Order         *models.Order
	CoinsEarned   int
	CoinsRefunded int
}

// ApplyStatusTransition moves an order to the target status and applies the
// financial side effects keyed to it. The status write, the idempotency flag
// flips, the wallet ledger writes and the notification outbox row all land in
// one transaction, or none do.
//
// Any status may move to any other; staff correct statuses freely. Each
// financial side effect fires at most once per order: the guarding flag is
// flipped with a conditional update inside the transaction, so the loser of a
// concurrent double submission sees zero rows affected and performs only the
// status write.
func ApplyStatusTransition(db *gorm.DB, orderID uint, newStatus string) (*TransitionResult, error) {
	if !models.IsValidOrderStatus(newStatus) {
		return nil, ErrInvalidOrderStatus
	}

	result := &TransitionResult{}
	err := RunInTxWithRetry(db, func(tx *gorm.DB) error {
		// Reset side effect tallies; the closure may run again on retry
		result.CoinsEarned = 0
		result.CoinsRefunded = 0

		var order models.Order
		if err := tx.First(&order, orderID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrOrderNotFound
			}
			return err
		}

		previousStatus := order.Status
		order.Status = newStatus
		if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
			Update("status", newStatus).Error; err != nil {
			return err
		}
		LogDebug("Order %s status %s -> %s", order.OrderNumber, previousStatus, newStatus)

		if newStatus == models.OrderStatusDelivered && order.UserID != nil && !order.CoinsAwarded {
			claimed, err := claimOrderFlag(tx, order.ID, "coins_awarded")
			if err != nil {
				return err
			}
			if claimed {
				wallet, err := GetOrCreateWallet(tx, *order.UserID)
				if err != nil {
					return err
				}
				coins, err := EarnCoins(tx, wallet.ID, &order)
				if err != nil {
					return err
				}
				order.CoinsAwarded = true
				result.CoinsEarned = coins
			}
		}

		if newStatus == models.OrderStatusCancelled && order.UserID != nil &&
			order.RedeemedCoins > 0 && !order.CoinsRefunded {
			claimed, err := claimOrderFlag(tx, order.ID, "coins_refunded")
			if err != nil {
				return err
			}
			if claimed {
				wallet, err := GetOrCreateWallet(tx, *order.UserID)
				if err != nil {
					return err
				}
				if err := RefundCoins(tx, wallet.ID, order.RedeemedCoins, &order); err != nil {
					return err
				}
				order.CoinsRefunded = true
				result.CoinsRefunded = order.RedeemedCoins
			}
		}

		if order.UserID != nil {
			if err := QueueNotification(tx,
				strconv.Itoa(int(*order.UserID)),
				"Order status updated",
				fmt.Sprintf("Your order %s is now %s", order.OrderNumber, newStatus),
				fmt.Sprintf("/orders/%d", order.ID),
			); err != nil {
				return err
			}
		}

		result.Order = &order
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// claimOrderFlag flips a boolean idempotency flag from false to true and
// reports whether this caller won the flip. Zero rows affected means another
// transition already claimed the side effect.
func claimOrderFlag(tx *gorm.DB, orderID uint, column string) (bool, error) {
	res := tx.Model(&models.Order{}).
		Where(fmt.Sprintf("id = ? AND %s = ?", column), orderID, false).
		UpdateColumn(column, true)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
