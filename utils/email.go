package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

// Mailer sends a notification email. The default implementation talks SMTP
// via gomail; tests swap in a fake.
type Mailer interface {
	Send(to, subject, body string) error
}

var mailer Mailer = &smtpMailer{}

// SetMailer replaces the outbound mail transport
func SetMailer(m Mailer) {
	mailer = m
}

type smtpMailer struct{}

func (s *smtpMailer) Send(to, subject, body string) error {
	host := os.Getenv("SMTP_HOST")
	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}
	username := os.Getenv("SMTP_USERNAME")
	password := os.Getenv("SMTP_PASSWORD")
	from := os.Getenv("SMTP_FROM")

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(host, port, username, password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}

// SendNotificationEmail delivers one outbox notification to an address
func SendNotificationEmail(to, title, body, link string) error {
	html := fmt.Sprintf(`
		<h2>%s</h2>
		<p>%s</p>
		<p><a href="%s%s">View details</a></p>
	`, title, body, os.Getenv("FRONTEND_URL"), link)

	return mailer.Send(to, title, html)
}
