package notify

import (
	"fmt"
	"strings"

	"wallpaper-catalog/internal/models"
)

const smsPreviewLength = 100

func ContactSubject(m *models.ContactMessage) string {
	return "New Contact Form Submission from " + m.Name
}

func ContactEmailBody(m *models.ContactMessage) string {
	var b strings.Builder
	b.WriteString("New Contact Form Submission:\n\n")
	fmt.Fprintf(&b, "Name: %s\nEmail: %s\nPhone: %s\n", m.Name, m.Email, m.Phone)
	if m.PreferredDate != "" {
		fmt.Fprintf(&b, "Preferred Date: %s\n", m.PreferredDate)
	}
	fmt.Fprintf(&b, "\nMessage:\n%s\n", m.Message)
	return b.String()
}

// ContactSMSBody summarises a submission; the message is cut to a short
// preview on a rune boundary.
func ContactSMSBody(m *models.ContactMessage) string {
	preview := m.Message
	if r := []rune(preview); len(r) > smsPreviewLength {
		preview = string(r[:smsPreviewLength]) + "..."
	}
	return fmt.Sprintf("New Contact: %s (%s, %s)\n\nMessage: %s", m.Name, m.Email, m.Phone, preview)
}
