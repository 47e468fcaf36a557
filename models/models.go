package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a customer account in the system
type User struct {
	gorm.Model
	Name        string    `json:"name"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `json:"-"`
	Phone       string    `json:"phone"`
	IsAdmin     bool      `json:"is_admin" gorm:"default:false"`
	IsBlocked   bool      `json:"is_blocked"`
	LastLoginAt time.Time `json:"last_login_at"`
	Wallet      Wallet    `json:"wallet,omitempty" gorm:"foreignKey:UserID"`
}
