package models

import (
	"time"
)

// Loyalty tier constants
const (
	TierBronze = "Bronze"
	TierSilver = "Silver"
	TierGold   = "Gold"
)

// Wallet holds a user's loyalty coin balance. Balance is a materialized view
// of the transaction ledger and must always equal the signed sum of the
// wallet's transactions.
type Wallet struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	UserID          uint      `json:"user_id" gorm:"uniqueIndex"`
	Balance         int       `json:"balance" gorm:"default:0"`
	Tier            string    `json:"tier" gorm:"default:'Bronze'"`
	CumulativeSpend float64   `json:"cumulative_spend" gorm:"default:0"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// WalletTransaction is one row of the append-only coin ledger. Rows are never
// updated or deleted once written. Amount is stored positive; the sign is
// implied by Type (earn/refund credit, redeem debit).
type WalletTransaction struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	WalletID    uint      `json:"wallet_id"`
	Wallet      Wallet    `json:"-" gorm:"foreignKey:WalletID"`
	Type        string    `json:"type"` // earn, redeem, refund
	Amount      int       `json:"amount"`
	Description string    `json:"description"`
	OrderID     *uint     `json:"order_id,omitempty"`
	Reference   string    `json:"reference,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// TransactionType constants
const (
	TransactionTypeEarn   = "earn"
	TransactionTypeRedeem = "redeem"
	TransactionTypeRefund = "refund"
)

// SignedAmount returns the amount with the sign implied by the type
func (t WalletTransaction) SignedAmount() int {
	if t.Type == TransactionTypeRedeem {
		return -t.Amount
	}
	return t.Amount
}
