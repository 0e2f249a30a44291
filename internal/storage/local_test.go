package storage_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wallpaper-catalog/internal/storage"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func fileHeader(t *testing.T, filename string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&body, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func newLocal(t *testing.T) *storage.Local {
	t.Helper()
	l, err := storage.NewLocal(t.TempDir(), "/uploads", 1<<20, 2<<20)
	require.NoError(t, err)
	return l
}

func TestStage_Image(t *testing.T) {
	l := newLocal(t)

	staged, err := l.Stage(fileHeader(t, "Sunset.PNG", pngBytes(t)), storage.KindImage)
	require.NoError(t, err)

	assert.True(t, l.Exists(staged.Path))
	assert.Equal(t, "image/png", staged.ContentType)
	assert.True(t, strings.HasPrefix(staged.URL, "/uploads/wallpapers/wallpaper-"))
	assert.True(t, strings.HasSuffix(staged.URL, ".png"))
	assert.Equal(t, "Sunset.PNG", staged.OriginalName)
}

func TestStage_RejectsWrongExtension(t *testing.T) {
	l := newLocal(t)

	_, err := l.Stage(fileHeader(t, "notes.txt", []byte("hello")), storage.KindImage)
	assert.ErrorIs(t, err, storage.ErrUnsupportedType)
}

func TestStage_RejectsSpoofedContent(t *testing.T) {
	l := newLocal(t)

	_, err := l.Stage(fileHeader(t, "evil.jpg", []byte("#!/bin/sh\necho hi\n")), storage.KindImage)
	assert.ErrorIs(t, err, storage.ErrUnsupportedType)

	entries, err := os.ReadDir(l.Dir(storage.KindImage))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStage_RejectsOversizedFile(t *testing.T) {
	l, err := storage.NewLocal(t.TempDir(), "/uploads", 16, 16)
	require.NoError(t, err)

	_, err = l.Stage(fileHeader(t, "big.png", pngBytes(t)), storage.KindImage)
	assert.ErrorIs(t, err, storage.ErrTooLarge)
}

func TestStage_VideoNeedsVideoContent(t *testing.T) {
	l := newLocal(t)

	_, err := l.Stage(fileHeader(t, "clip.mp4", pngBytes(t)), storage.KindVideo)
	assert.ErrorIs(t, err, storage.ErrUnsupportedType)
}

func TestURLMapping(t *testing.T) {
	l := newLocal(t)

	p := filepath.Join(l.Dir(storage.KindImage), "a-thumb.jpg")
	url, err := l.URLFor(p)
	require.NoError(t, err)
	assert.Equal(t, "/uploads/wallpapers/a-thumb.jpg", url)

	back, err := l.PathForURL(url)
	require.NoError(t, err)
	assert.Equal(t, p, back)

	_, err = l.PathForURL("/uploads/../../etc/passwd")
	assert.ErrorIs(t, err, storage.ErrOutsideRoot)

	_, err = l.PathForURL("https://cdn.example.com/x.jpg")
	assert.ErrorIs(t, err, storage.ErrOutsideRoot)

	_, err = l.URLFor("/etc/passwd")
	assert.ErrorIs(t, err, storage.ErrOutsideRoot)
}

func TestRemove(t *testing.T) {
	l := newLocal(t)

	p := filepath.Join(l.Dir(storage.KindVideo), "clip.mp4")
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))

	outside := filepath.Join(t.TempDir(), "keep.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	l.Remove(p, "", filepath.Join(l.Dir(storage.KindImage), "missing.jpg"), outside)

	assert.False(t, l.Exists(p))
	assert.True(t, l.Exists(outside))
}

func TestUniqueName(t *testing.T) {
	a := storage.UniqueName("wallpaper", ".jpg")
	b := storage.UniqueName("wallpaper", ".jpg")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasPrefix(a, "wallpaper-"))
	assert.True(t, strings.HasSuffix(a, ".jpg"))
}
