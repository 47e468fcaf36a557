package utils

import (
	"errors"
	"fmt"
	"strconv"
	"testing"

	"github.com/Aravind-508/SpiceRoute/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeMailer struct {
	sent   []string // recipient addresses in delivery order
	failTo string   // address that should fail to deliver
}

func (f *fakeMailer) Send(to, subject, body string) error {
	if to == f.failTo {
		return errors.New("delivery refused")
	}
	f.sent = append(f.sent, to)
	return nil
}

func useFakeMailer(t *testing.T) *fakeMailer {
	t.Helper()
	fake := &fakeMailer{}
	SetMailer(fake)
	t.Cleanup(func() { SetMailer(&smtpMailer{}) })
	return fake
}

func createAdmin(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	admin := models.User{Name: "Admin", Email: email, IsAdmin: true}
	require.NoError(t, db.Create(&admin).Error)
	return &admin
}

func TestDispatchOutbox_UserTarget(t *testing.T) {
	db := newTestDB(t)
	fake := useFakeMailer(t)
	user, _ := createTestUser(t, db, 0, 0)

	require.NoError(t, QueueNotification(db, strconv.Itoa(int(user.ID)),
		"Order status updated", "Your order SR-1 is now Cooking", "/orders/1"))

	DispatchOutbox(db)

	assert.Equal(t, []string{user.Email}, fake.sent)

	var notification models.Notification
	require.NoError(t, db.First(&notification).Error)
	assert.Equal(t, models.NotificationStatusSent, notification.Status)
	assert.NotNil(t, notification.SentAt)
}

func TestDispatchOutbox_AdminsTarget(t *testing.T) {
	db := newTestDB(t)
	fake := useFakeMailer(t)
	createTestUser(t, db, 0, 0) // regular user, must not receive
	createAdmin(t, db, "admin1@example.com")
	createAdmin(t, db, "admin2@example.com")

	require.NoError(t, QueueNotification(db, models.NotificationTargetAdmins,
		"New order placed", "Order SR-1 received", "/admin/orders/1"))

	DispatchOutbox(db)

	assert.ElementsMatch(t, []string{"admin1@example.com", "admin2@example.com"}, fake.sent)
}

func TestDispatchOutbox_AllTargetSkipsBlocked(t *testing.T) {
	db := newTestDB(t)
	fake := useFakeMailer(t)
	user, _ := createTestUser(t, db, 0, 0)
	blocked := models.User{Name: "Blocked", Email: "blocked@example.com", IsBlocked: true}
	require.NoError(t, db.Create(&blocked).Error)

	require.NoError(t, QueueNotification(db, models.NotificationTargetAll,
		"Holiday hours", "We close early today", "/"))

	DispatchOutbox(db)

	assert.Equal(t, []string{user.Email}, fake.sent)
}

func TestDispatchOutbox_DeliveryFailureMarksFailed(t *testing.T) {
	db := newTestDB(t)
	fake := useFakeMailer(t)
	user, _ := createTestUser(t, db, 0, 0)
	fake.failTo = user.Email

	require.NoError(t, QueueNotification(db, strconv.Itoa(int(user.ID)),
		"Order status updated", "Your order SR-1 is now Delivered", "/orders/1"))

	DispatchOutbox(db)

	var notification models.Notification
	require.NoError(t, db.First(&notification).Error)
	assert.Equal(t, models.NotificationStatusFailed, notification.Status)
	assert.Nil(t, notification.SentAt)
}

func TestDispatchOutbox_UnknownTargetMarksFailed(t *testing.T) {
	db := newTestDB(t)
	useFakeMailer(t)

	require.NoError(t, QueueNotification(db, "999", "Hello", "Body", "/"))

	DispatchOutbox(db)

	var notification models.Notification
	require.NoError(t, db.First(&notification).Error)
	assert.Equal(t, models.NotificationStatusFailed, notification.Status)
}

func TestDispatchOutbox_DrainsOnlyPending(t *testing.T) {
	db := newTestDB(t)
	fake := useFakeMailer(t)
	user, _ := createTestUser(t, db, 0, 0)

	for i := 0; i < 3; i++ {
		require.NoError(t, QueueNotification(db, strconv.Itoa(int(user.ID)),
			fmt.Sprintf("Update %d", i), "Body", "/"))
	}

	DispatchOutbox(db)
	assert.Len(t, fake.sent, 3)

	// A second pass finds nothing left to deliver
	DispatchOutbox(db)
	assert.Len(t, fake.sent, 3)
}
