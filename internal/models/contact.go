package models

import "time"

type ContactMessage struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Message       string    `json:"message"`
	PreferredDate string    `json:"preferredDate,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// SMSResult reports the delivery attempt to one business phone.
type SMSResult struct {
	Phone   string `json:"phone"`
	Success bool   `json:"success"`
	SID     string `json:"sid,omitempty"`
	Error   string `json:"error,omitempty"`
}
