package notify

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"
	"wallpaper-catalog/internal/models"
)

// Mailer delivers contact submissions to the business inbox over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	to     string
}

func NewMailer(host string, port int, user, pass string, secure bool, to string) *Mailer {
	d := gomail.NewDialer(host, port, user, pass)
	d.SSL = secure
	return &Mailer{dialer: d, from: user, to: to}
}

func (m *Mailer) SendContact(ctx context.Context, msg *models.ContactMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	mail := gomail.NewMessage()
	mail.SetHeader("From", m.from)
	mail.SetHeader("To", m.to)
	mail.SetHeader("Reply-To", msg.Email)
	mail.SetHeader("Subject", ContactSubject(msg))
	mail.SetBody("text/plain", ContactEmailBody(msg))

	if err := m.dialer.DialAndSend(mail); err != nil {
		return fmt.Errorf("failed to send contact email: %w", err)
	}
	return nil
}
