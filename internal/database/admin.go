package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const adminRowID = 1

func (s *Store) IsPasswordSet(ctx context.Context) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT COUNT(*) FROM admin_password WHERE id = ?"), adminRowID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check admin password: %w", err)
	}
	return count > 0, nil
}

// GetPasswordHash returns ErrNotFound when no password has been set.
func (s *Store) GetPasswordHash(ctx context.Context) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, s.rebind("SELECT password_hash FROM admin_password WHERE id = ?"), adminRowID).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read admin password: %w", err)
	}
	return hash, nil
}

// CreatePasswordHash stores the first admin password. It returns
// ErrAlreadyExists when one is already stored.
func (s *Store) CreatePasswordHash(ctx context.Context, hash string) error {
	ts := now()
	res, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO admin_password (id, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`), adminRowID, hash, ts, ts)
	if err != nil {
		return fmt.Errorf("failed to store admin password: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to store admin password: %w", err)
	}
	if n == 0 {
		return ErrAlreadyExists
	}
	return nil
}

// SetPasswordHash inserts or overwrites the admin password.
func (s *Store) SetPasswordHash(ctx context.Context, hash string) error {
	ts := now()
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO admin_password (id, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET password_hash = excluded.password_hash, updated_at = excluded.updated_at
	`), adminRowID, hash, ts, ts)
	if err != nil {
		return fmt.Errorf("failed to update admin password: %w", err)
	}
	return nil
}
