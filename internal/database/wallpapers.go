package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"wallpaper-catalog/internal/models"
)

const wallpaperColumns = `id, name, category, color, page_type, image_path, image_url,
	thumbnail_url, medium_url, webp_url, width, height, video_path, video_url,
	created_at, updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWallpaper(row rowScanner) (*models.Wallpaper, error) {
	var (
		w                                                 models.Wallpaper
		imagePath, imageURL, thumbURL, mediumURL, webpURL sql.NullString
		videoPath, videoURL                               sql.NullString
		width, height                                     sql.NullInt64
		createdAt, updatedAt                              dbTime
	)
	err := row.Scan(
		&w.ID, &w.Name, &w.Category, &w.Color, &w.PageType,
		&imagePath, &imageURL, &thumbURL, &mediumURL, &webpURL,
		&width, &height, &videoPath, &videoURL,
		&createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}
	w.ImagePath = imagePath.String
	w.ImageURL = imageURL.String
	w.ThumbnailURL = thumbURL.String
	w.MediumURL = mediumURL.String
	w.WebpURL = webpURL.String
	w.Width = int(width.Int64)
	w.Height = int(height.Int64)
	w.VideoPath = videoPath.String
	w.VideoURL = videoURL.String
	w.CreatedAt = createdAt.Time
	w.UpdatedAt = updatedAt.Time
	return &w, nil
}

func (s *Store) ListWallpapers(ctx context.Context, filter models.WallpaperFilter) ([]models.Wallpaper, error) {
	var (
		where []string
		args  []interface{}
	)
	if filter.PageType != "" && filter.PageType != "all" {
		where = append(where, "page_type = ?")
		args = append(args, filter.PageType)
	}
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Color != "" {
		where = append(where, "color = ?")
		args = append(args, filter.Color)
	}

	query := "SELECT " + wallpaperColumns + " FROM wallpapers"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallpapers: %w", err)
	}
	defer rows.Close()

	wallpapers := make([]models.Wallpaper, 0)
	for rows.Next() {
		w, err := scanWallpaper(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallpaper: %w", err)
		}
		wallpapers = append(wallpapers, *w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list wallpapers: %w", err)
	}
	return wallpapers, nil
}

func (s *Store) GetWallpaper(ctx context.Context, id int64) (*models.Wallpaper, error) {
	return s.getWallpaper(ctx, s.db, id)
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (s *Store) getWallpaper(ctx context.Context, q queryer, id int64) (*models.Wallpaper, error) {
	row := q.QueryRowContext(ctx, s.rebind("SELECT "+wallpaperColumns+" FROM wallpapers WHERE id = ?"), id)
	w, err := scanWallpaper(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallpaper %d: %w", id, err)
	}
	return w, nil
}

// ListCategories returns the distinct non-empty categories in name order.
func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT category FROM wallpapers WHERE category <> '' ORDER BY category")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := make([]string, 0)
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

type execQueryer interface {
	queryer
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// CreateWallpaper inserts w and fills in its id and timestamps.
func (s *Store) CreateWallpaper(ctx context.Context, w *models.Wallpaper) error {
	return s.insertWallpaper(ctx, s.db, w)
}

func (s *Store) insertWallpaper(ctx context.Context, q execQueryer, w *models.Wallpaper) error {
	ts := now()
	err := q.QueryRowContext(ctx, s.rebind(`
		INSERT INTO wallpapers (name, category, color, page_type, image_path, image_url,
			thumbnail_url, medium_url, webp_url, width, height, video_path, video_url,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`),
		w.Name, w.Category, w.Color, w.PageType,
		nullString(w.ImagePath), nullString(w.ImageURL),
		nullString(w.ThumbnailURL), nullString(w.MediumURL), nullString(w.WebpURL),
		nullInt(w.Width), nullInt(w.Height),
		nullString(w.VideoPath), nullString(w.VideoURL),
		ts, ts,
	).Scan(&w.ID)
	if err != nil {
		return fmt.Errorf("failed to insert wallpaper: %w", err)
	}
	w.CreatedAt = ts
	w.UpdatedAt = ts
	return nil
}

// InsertWallpapers inserts a batch inside one transaction. Each row runs under
// its own savepoint so a failed row is rolled back alone; the returned slice
// holds the per-row error (nil on success). The second return value is set
// when the transaction itself could not be opened or committed, in which case
// nothing was stored.
func (s *Store) InsertWallpapers(ctx context.Context, batch []*models.Wallpaper) ([]error, error) {
	results := make([]error, len(batch))
	if len(batch) == 0 {
		return results, nil
	}

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for i, w := range batch {
			sp := fmt.Sprintf("wallpaper_%d", i)
			if _, err := tx.ExecContext(ctx, "SAVEPOINT "+sp); err != nil {
				return fmt.Errorf("failed to create savepoint: %w", err)
			}
			if err := s.insertWallpaper(ctx, tx, w); err != nil {
				results[i] = err
				if _, rbErr := tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+sp); rbErr != nil {
					return fmt.Errorf("failed to roll back savepoint: %w", rbErr)
				}
			}
			if _, err := tx.ExecContext(ctx, "RELEASE SAVEPOINT "+sp); err != nil {
				return fmt.Errorf("failed to release savepoint: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		for _, w := range batch {
			w.ID = 0
		}
		return nil, err
	}
	return results, nil
}

// UpdateWallpaperMetadata applies the non-nil fields of patch. When nothing
// differs from the stored row no write happens and changed is false.
func (s *Store) UpdateWallpaperMetadata(ctx context.Context, id int64, patch models.MetadataPatch) (*models.Wallpaper, bool, error) {
	var (
		result  *models.Wallpaper
		changed bool
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.getWallpaper(ctx, tx, id)
		if err != nil {
			return err
		}

		next := *current
		apply := func(dst *string, v *string) {
			if v != nil && *v != *dst {
				*dst = *v
				changed = true
			}
		}
		apply(&next.Name, patch.Name)
		apply(&next.Category, patch.Category)
		apply(&next.Color, patch.Color)
		apply(&next.PageType, patch.PageType)

		if !changed {
			result = current
			return nil
		}

		next.UpdatedAt = now()
		_, err = tx.ExecContext(ctx, s.rebind(`
			UPDATE wallpapers SET name = ?, category = ?, color = ?, page_type = ?, updated_at = ?
			WHERE id = ?
		`), next.Name, next.Category, next.Color, next.PageType, next.UpdatedAt, id)
		if err != nil {
			return fmt.Errorf("failed to update wallpaper %d: %w", id, err)
		}
		result = &next
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return result, changed, nil
}

// SetWallpaperVideo points an existing row at a new video file and returns
// the updated row plus the path of the video it replaced, if any.
func (s *Store) SetWallpaperVideo(ctx context.Context, id int64, videoPath, videoURL string) (*models.Wallpaper, string, error) {
	var (
		updated  *models.Wallpaper
		previous string
	)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.getWallpaper(ctx, tx, id)
		if err != nil {
			return err
		}
		previous = current.VideoPath

		_, err = tx.ExecContext(ctx, s.rebind(`
			UPDATE wallpapers SET video_path = ?, video_url = ?, updated_at = ? WHERE id = ?
		`), nullString(videoPath), nullString(videoURL), now(), id)
		if err != nil {
			return fmt.Errorf("failed to set video for wallpaper %d: %w", id, err)
		}

		updated, err = s.getWallpaper(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, "", err
	}
	if previous == videoPath {
		previous = ""
	}
	return updated, previous, nil
}

// DeleteWallpaper removes the row and returns it so callers can clean up the
// files it referenced.
func (s *Store) DeleteWallpaper(ctx context.Context, id int64) (*models.Wallpaper, error) {
	var deleted *models.Wallpaper
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		current, err := s.getWallpaper(ctx, tx, id)
		if err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, s.rebind("DELETE FROM wallpapers WHERE id = ?"), id); err != nil {
			return fmt.Errorf("failed to delete wallpaper %d: %w", id, err)
		}
		deleted = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}
