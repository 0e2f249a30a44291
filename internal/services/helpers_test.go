package services_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"mime/multipart"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"wallpaper-catalog/internal/database"
	"wallpaper-catalog/internal/imageproc"
	"wallpaper-catalog/internal/services"
	"wallpaper-catalog/internal/storage"
)

type fixture struct {
	store   *database.Store
	files   *storage.Local
	service *services.WallpaperService
	mirror  *fakeMirror
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()

	store, err := database.Open(database.DriverSQLite, filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	files, err := storage.NewLocal(filepath.Join(dir, "uploads"), "/uploads", 10<<20, 50<<20)
	require.NoError(t, err)

	mirror := &fakeMirror{}
	svc := services.NewWallpaperService(store, files, imageproc.NewProcessor(files), 5, 2).WithMirror(mirror)
	return &fixture{store: store, files: files, service: svc, mirror: mirror}
}

// uploadedFiles lists every file currently stored under kind.
func (f *fixture) uploadedFiles(t *testing.T, kind storage.Kind) []string {
	t.Helper()
	entries, err := os.ReadDir(f.files.Dir(kind))
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

type fakeMirror struct {
	mu      sync.Mutex
	put     []string
	deleted []string
}

func (m *fakeMirror) Put(_ context.Context, paths ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put = append(m.put, paths...)
	return nil
}

func (m *fakeMirror) Delete(_ context.Context, paths ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, paths...)
	return nil
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x += 7 {
		img.Set(x, x%h, color.RGBA{R: 200, G: 80, B: uint8(x), A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

// corruptGIF passes the content sniffer but cannot be decoded.
func corruptGIF() []byte {
	return append([]byte("GIF89a"), bytes.Repeat([]byte{0xff}, 64)...)
}

// mp4Bytes is a minimal ftyp box that sniffs as video/mp4.
func mp4Bytes() []byte {
	box := []byte{0, 0, 0, 24}
	box = append(box, []byte("ftypmp42")...)
	box = append(box, 0, 0, 0, 0)
	box = append(box, []byte("mp42isom")...)
	return append(box, make([]byte, 64)...)
}

type upload struct {
	filename string
	data     []byte
}

func fileHeaders(t *testing.T, field string, uploads ...upload) []*multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for _, u := range uploads {
		part, err := w.CreateFormFile(field, u.filename)
		require.NoError(t, err)
		_, err = part.Write(u.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File[field]
}

func fileHeader(t *testing.T, filename string, data []byte) *multipart.FileHeader {
	return fileHeaders(t, "file", upload{filename, data})[0]
}
