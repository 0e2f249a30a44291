package database

import (
	"context"
	"fmt"

	"wallpaper-catalog/internal/models"
)

func (s *Store) CreateContactMessage(ctx context.Context, m *models.ContactMessage) error {
	ts := now()
	err := s.db.QueryRowContext(ctx, s.rebind(`
		INSERT INTO contact_messages (name, email, phone, message, preferred_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
		RETURNING id
	`), m.Name, m.Email, m.Phone, m.Message, nullString(m.PreferredDate), ts).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("failed to save contact message: %w", err)
	}
	m.CreatedAt = ts
	return nil
}

func (s *Store) ListContactMessages(ctx context.Context) ([]models.ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, phone, message, COALESCE(preferred_date, ''), created_at
		FROM contact_messages
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact messages: %w", err)
	}
	defer rows.Close()

	messages := make([]models.ContactMessage, 0)
	for rows.Next() {
		var (
			m         models.ContactMessage
			createdAt dbTime
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Phone, &m.Message, &m.PreferredDate, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		m.CreatedAt = createdAt.Time
		messages = append(messages, m)
	}
	return messages, rows.Err()
}

// DeleteContactMessage returns ErrNotFound when no row matched.
func (s *Store) DeleteContactMessage(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind("DELETE FROM contact_messages WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("failed to delete contact message %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete contact message %d: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) DeleteAllContactMessages(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM contact_messages")
	if err != nil {
		return 0, fmt.Errorf("failed to delete contact messages: %w", err)
	}
	return res.RowsAffected()
}
