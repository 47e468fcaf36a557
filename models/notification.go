package models

import (
	"time"
)

// Notification delivery status constants
const (
	NotificationStatusPending = "pending"
	NotificationStatusSent    = "sent"
	NotificationStatusFailed  = "failed"
)

// Notification target constants for broadcast rows. Any other target value is
// a numeric user ID.
const (
	NotificationTargetAdmins = "admins"
	NotificationTargetAll    = "all"
)

// Notification is an outbox row. Rows are appended inside the same
// transaction as the state change they announce and drained after commit, so
// delivery can never block or roll back a financial write.
type Notification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Target    string    `json:"target"` // user ID, "admins" or "all"
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Link      string    `json:"link"`
	Status    string    `json:"status" gorm:"default:'pending'"`
	CreatedAt time.Time `json:"created_at"`
	SentAt    *time.Time `json:"sent_at,omitempty"`
}
