package imageproc

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"wallpaper-catalog/internal/storage"
)

const (
	ThumbnailWidth = 300
	MediumWidth    = 1000

	thumbnailQuality = 90
	mediumQuality    = 95
	webpQuality      = 90
)

// ErrProcessingFailed is returned for any decode, resize or encode failure.
// No variant file is left on disk when it is returned.
var ErrProcessingFailed = errors.New("image processing failed")

// Variant is one stored representation of an upload.
type Variant struct {
	Path string
	URL  string
}

type Result struct {
	Original  Variant
	Thumbnail Variant
	Medium    Variant
	WebP      Variant
	Width     int
	Height    int
}

// Paths lists every file the result references, original included.
func (r *Result) Paths() []string {
	return []string{r.Original.Path, r.Thumbnail.Path, r.Medium.Path, r.WebP.Path}
}

type Processor struct {
	store *storage.Local
}

func NewProcessor(store *storage.Local) *Processor {
	return &Processor{store: store}
}

// Process derives the thumbnail, medium and WebP variants of a staged
// original. The original itself is never touched; on failure callers remove
// it.
func (p *Processor) Process(ctx context.Context, originalPath, originalName string, kind storage.Kind) (*Result, error) {
	originalURL, err := p.store.URLFor(originalPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}

	targetDir := p.store.Dir(kind)
	if err := os.MkdirAll(targetDir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}
	base := storage.UniqueName(baseName(originalName), "")

	res := &Result{Original: Variant{Path: originalPath, URL: originalURL}}
	var written []string
	fail := func(step string, err error) (*Result, error) {
		p.store.Remove(written...)
		slog.Error("image processing failed", "file", originalName, "step", step, "error", err)
		return nil, fmt.Errorf("%w: %s: %v", ErrProcessingFailed, step, err)
	}

	img, err := imaging.Open(originalPath, imaging.AutoOrientation(true))
	if err != nil {
		return fail("decode", err)
	}
	bounds := img.Bounds()
	res.Width, res.Height = bounds.Dx(), bounds.Dy()

	steps := []struct {
		name   string
		target *Variant
		file   string
		write  func(path string) error
	}{
		{"thumbnail", &res.Thumbnail, base + "-thumb.jpg", func(path string) error {
			return saveJPEG(fitWidth(img, ThumbnailWidth), path, thumbnailQuality)
		}},
		{"medium", &res.Medium, base + "-medium.jpg", func(path string) error {
			return saveJPEG(fitWidth(img, MediumWidth), path, mediumQuality)
		}},
		{"webp", &res.WebP, base + ".webp", func(path string) error {
			return saveWebP(img, path, webpQuality)
		}},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return fail(step.name, err)
		}
		path := filepath.Join(targetDir, step.file)
		written = append(written, path)
		if err := step.write(path); err != nil {
			return fail(step.name, err)
		}
		url, err := p.store.URLFor(path)
		if err != nil {
			return fail(step.name, err)
		}
		*step.target = Variant{Path: path, URL: url}
	}

	return res, nil
}

// fitWidth scales img down to at most width pixels wide, keeping the aspect
// ratio. Smaller images are returned unchanged.
func fitWidth(img image.Image, width int) image.Image {
	if img.Bounds().Dx() <= width {
		return img
	}
	return imaging.Resize(img, width, 0, imaging.Lanczos)
}

// saveJPEG flattens transparency onto white since JPEG has no alpha.
func saveJPEG(img image.Image, path string, quality int) error {
	b := img.Bounds()
	bg := imaging.New(b.Dx(), b.Dy(), color.White)
	flat := imaging.Overlay(bg, img, image.Pt(0, 0), 1.0)
	return imaging.Save(flat, path, imaging.JPEGQuality(quality))
}

func saveWebP(img image.Image, path string, quality float32) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return webp.Encode(f, img, &webp.Options{Quality: quality})
}

var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// baseName returns a filesystem-safe stem of the client filename.
func baseName(name string) string {
	stem := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	stem = strings.Trim(unsafeChars.ReplaceAllString(stem, "-"), "-")
	if stem == "" {
		return "image"
	}
	return stem
}
