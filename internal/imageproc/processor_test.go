package imageproc_test

import (
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wallpaper-catalog/internal/imageproc"
	"wallpaper-catalog/internal/storage"
)

func setup(t *testing.T) (*storage.Local, *imageproc.Processor) {
	t.Helper()
	store, err := storage.NewLocal(t.TempDir(), "/uploads", 10<<20, 50<<20)
	require.NoError(t, err)
	return store, imageproc.NewProcessor(store)
}

func writeJPEG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y += 10 {
		for x := 0; x < w; x += 10 {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	path := filepath.Join(dir, "wallpaper-1-1.jpg")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, jpeg.Encode(f, img, nil))
	require.NoError(t, f.Close())
	return path
}

func TestProcess_GeneratesVariants(t *testing.T) {
	store, proc := setup(t)
	original := writeJPEG(t, store.Dir(storage.KindImage), 1200, 1600)

	res, err := proc.Process(context.Background(), original, "Sunset Beach.jpg", storage.KindImage)
	require.NoError(t, err)

	assert.Equal(t, 1200, res.Width)
	assert.Equal(t, 1600, res.Height)
	assert.Equal(t, "/uploads/wallpapers/wallpaper-1-1.jpg", res.Original.URL)
	assert.True(t, strings.HasSuffix(res.Thumbnail.URL, "-thumb.jpg"))
	assert.True(t, strings.HasSuffix(res.Medium.URL, "-medium.jpg"))
	assert.True(t, strings.HasSuffix(res.WebP.URL, ".webp"))
	assert.True(t, strings.HasPrefix(filepath.Base(res.Thumbnail.Path), "Sunset-Beach-"))

	for _, p := range res.Paths() {
		assert.FileExists(t, p)
	}

	thumb, err := imaging.Open(res.Thumbnail.Path)
	require.NoError(t, err)
	assert.Equal(t, imageproc.ThumbnailWidth, thumb.Bounds().Dx())
	assert.Equal(t, 400, thumb.Bounds().Dy())

	medium, err := imaging.Open(res.Medium.Path)
	require.NoError(t, err)
	assert.Equal(t, imageproc.MediumWidth, medium.Bounds().Dx())
}

func TestProcess_SmallImageIsNotEnlarged(t *testing.T) {
	store, proc := setup(t)
	original := writeJPEG(t, store.Dir(storage.KindImage), 200, 100)

	res, err := proc.Process(context.Background(), original, "tiny.jpg", storage.KindImage)
	require.NoError(t, err)

	thumb, err := imaging.Open(res.Thumbnail.Path)
	require.NoError(t, err)
	assert.Equal(t, 200, thumb.Bounds().Dx())
}

func TestProcess_FailureLeavesNoVariants(t *testing.T) {
	store, proc := setup(t)
	dir := store.Dir(storage.KindImage)
	original := filepath.Join(dir, "wallpaper-2-2.jpg")
	require.NoError(t, os.WriteFile(original, []byte("not really a jpeg"), 0o644))

	_, err := proc.Process(context.Background(), original, "broken.jpg", storage.KindImage)
	assert.ErrorIs(t, err, imageproc.ErrProcessingFailed)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "only the staged original remains")
	assert.Equal(t, "wallpaper-2-2.jpg", entries[0].Name())
}

func TestProcess_CancelledContext(t *testing.T) {
	store, proc := setup(t)
	original := writeJPEG(t, store.Dir(storage.KindImage), 400, 300)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := proc.Process(ctx, original, "x.jpg", storage.KindImage)
	assert.ErrorIs(t, err, imageproc.ErrProcessingFailed)

	entries, err := os.ReadDir(store.Dir(storage.KindImage))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
