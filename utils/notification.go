package utils

import (
	"strconv"
	"time"

	"github.com/Aravind-508/SpiceRoute/models"
	"gorm.io/gorm"
)

// QueueNotification appends a pending outbox row. Call it inside the same
// transaction as the state change it announces; delivery happens after commit
// and can never roll the change back.
func QueueNotification(tx *gorm.DB, target, title, body, link string) error {
	notification := models.Notification{
		Target: target,
		Title:  title,
		Body:   body,
		Link:   link,
		Status: models.NotificationStatusPending,
	}
	return tx.Create(&notification).Error
}

// DispatchOutbox drains pending notification rows. Delivery failures mark the
// row failed and are logged; they are never surfaced to the caller of the
// operation that queued the row.
func DispatchOutbox(db *gorm.DB) {
	var pending []models.Notification
	if err := db.Where("status = ?", models.NotificationStatusPending).
		Order("id").Limit(100).Find(&pending).Error; err != nil {
		LogError("Failed to load pending notifications: %v", err)
		return
	}

	for _, notification := range pending {
		recipients, err := resolveRecipients(db, notification.Target)
		if err != nil {
			LogError("Failed to resolve recipients for notification %d (target %s): %v",
				notification.ID, notification.Target, err)
			markNotification(db, notification.ID, models.NotificationStatusFailed)
			continue
		}

		delivered := true
		for _, user := range recipients {
			if err := SendNotificationEmail(user.Email, notification.Title, notification.Body, notification.Link); err != nil {
				LogError("Failed to deliver notification %d to %s: %v", notification.ID, user.Email, err)
				delivered = false
			}
		}

		if delivered {
			markNotification(db, notification.ID, models.NotificationStatusSent)
		} else {
			markNotification(db, notification.ID, models.NotificationStatusFailed)
		}
	}
}

// StartOutboxDispatcher drains the outbox on an interval in the background,
// picking up rows left behind if a request crashed between commit and
// dispatch
func StartOutboxDispatcher(db *gorm.DB, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			DispatchOutbox(db)
		}
	}()
}

// resolveRecipients expands a notification target into concrete accounts.
// Broadcast targets are resolved here, inside the dispatcher, so the core
// never performs directory lookups.
func resolveRecipients(db *gorm.DB, target string) ([]models.User, error) {
	var users []models.User
	switch target {
	case models.NotificationTargetAdmins:
		if err := db.Where("is_admin = ?", true).Find(&users).Error; err != nil {
			return nil, err
		}
	case models.NotificationTargetAll:
		if err := db.Where("is_blocked = ?", false).Find(&users).Error; err != nil {
			return nil, err
		}
	default:
		userID, err := strconv.ParseUint(target, 10, 32)
		if err != nil {
			return nil, err
		}
		var user models.User
		if err := db.First(&user, uint(userID)).Error; err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func markNotification(db *gorm.DB, id uint, status string) {
	updates := map[string]interface{}{"status": status}
	if status == models.NotificationStatusSent {
		now := time.Now()
		updates["sent_at"] = &now
	}
	if err := db.Model(&models.Notification{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		LogError("Failed to mark notification %d as %s: %v", id, status, err)
	}
}
