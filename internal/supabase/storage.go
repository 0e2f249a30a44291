package supabase

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	storage "github.com/supabase-community/storage-go"
	localstore "wallpaper-catalog/internal/storage"
)

// Mirror copies committed upload files to a Supabase storage bucket under the
// same relative key they have below the local uploads root.
type Mirror struct {
	client *storage.Client
	bucket string
	local  *localstore.Local
}

func NewMirror(supabaseURL, serviceKey, bucket string, local *localstore.Local) *Mirror {
	client := storage.NewClient(strings.TrimSuffix(supabaseURL, "/")+"/storage/v1", serviceKey, nil)

	return &Mirror{
		client: client,
		bucket: bucket,
		local:  local,
	}
}

// Put uploads the given local files, overwriting existing objects.
func (m *Mirror) Put(ctx context.Context, paths ...string) error {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		key, err := m.local.Rel(p)
		if err != nil {
			return err
		}

		f, err := os.Open(p)
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", p, err)
		}
		contentType := "application/octet-stream"
		if mime, err := mimetype.DetectFile(p); err == nil {
			contentType = mime.String()
		}
		upsert := true
		_, err = m.client.UploadFile(m.bucket, key, f, storage.FileOptions{
			ContentType: &contentType,
			Upsert:      &upsert,
		})
		f.Close()
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", key, err)
		}
		slog.Debug("mirrored file", "bucket", m.bucket, "key", key)
	}
	return nil
}

// Delete removes the objects mirrored for the given local files.
func (m *Mirror) Delete(ctx context.Context, paths ...string) error {
	keys := make([]string, 0, len(paths))
	for _, p := range paths {
		if p == "" {
			continue
		}
		key, err := m.local.Rel(p)
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := m.client.RemoveFile(m.bucket, keys); err != nil {
		return fmt.Errorf("failed to delete mirrored files: %w", err)
	}
	return nil
}
