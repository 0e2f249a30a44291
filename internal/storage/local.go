package storage

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

// Kind selects the uploads subdirectory and the accepted file types.
type Kind string

const (
	KindImage Kind = "wallpapers"
	KindVideo Kind = "videos"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
	ErrOutsideRoot     = errors.New("path is outside the uploads directory")
)

var (
	imageExtensions = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".webp": true, ".gif": true}
	videoExtensions = map[string]bool{".mp4": true, ".webm": true, ".mov": true}
	imageMimeTypes  = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}
)

// Local keeps uploaded originals and derived files under one root directory
// and maps them to public URLs below a fixed prefix.
type Local struct {
	root         string
	urlPrefix    string
	maxImageSize int64
	maxVideoSize int64
}

// StagedFile is an upload copied to its final location but not yet
// referenced by any row.
type StagedFile struct {
	Path         string
	URL          string
	OriginalName string
	ContentType  string
	Size         int64
}

func NewLocal(root, urlPrefix string, maxImageSize, maxVideoSize int64) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve uploads directory: %w", err)
	}
	l := &Local{
		root:         abs,
		urlPrefix:    "/" + strings.Trim(urlPrefix, "/"),
		maxImageSize: maxImageSize,
		maxVideoSize: maxVideoSize,
	}
	for _, kind := range []Kind{KindImage, KindVideo} {
		if err := os.MkdirAll(l.Dir(kind), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create uploads directory: %w", err)
		}
	}
	return l, nil
}

func (l *Local) Dir(kind Kind) string {
	return filepath.Join(l.root, string(kind))
}

// Stage validates an uploaded file and copies it into the directory for kind
// under a collision-free name.
func (l *Local) Stage(fh *multipart.FileHeader, kind Kind) (*StagedFile, error) {
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	limit := l.maxImageSize
	prefix := "wallpaper"
	allowed := imageExtensions
	if kind == KindVideo {
		limit = l.maxVideoSize
		prefix = "wallpaper-video"
		allowed = videoExtensions
	}

	if !allowed[ext] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, fh.Filename)
	}
	if limit > 0 && fh.Size > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d MB", ErrTooLarge, fh.Filename, limit>>20)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	mime, err := mimetype.DetectReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to detect content type: %w", err)
	}
	if !acceptsMime(kind, mime.String()) {
		return nil, fmt.Errorf("%w: %s is %s", ErrUnsupportedType, fh.Filename, mime.String())
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind upload: %w", err)
	}

	dest := filepath.Join(l.Dir(kind), UniqueName(prefix, ext))
	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create staged file: %w", err)
	}
	size, copyErr := io.Copy(out, src)
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil {
		os.Remove(dest)
		return nil, fmt.Errorf("failed to write staged file: %w", errors.Join(copyErr, closeErr))
	}

	url, err := l.URLFor(dest)
	if err != nil {
		os.Remove(dest)
		return nil, err
	}

	return &StagedFile{
		Path:         dest,
		URL:          url,
		OriginalName: fh.Filename,
		ContentType:  mime.String(),
		Size:         size,
	}, nil
}

func acceptsMime(kind Kind, contentType string) bool {
	if kind == KindVideo {
		return strings.HasPrefix(contentType, "video/")
	}
	return mimetype.EqualsAny(contentType, imageMimeTypes...)
}

// URLFor returns the public URL of a file below the uploads root.
func (l *Local) URLFor(p string) (string, error) {
	rel, err := l.Rel(p)
	if err != nil {
		return "", err
	}
	return path.Join(l.urlPrefix, rel), nil
}

// Rel returns the slash-separated path of p relative to the uploads root.
func (l *Local) Rel(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", p, err)
	}
	rel, err := filepath.Rel(l.root, abs)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, p)
	}
	return filepath.ToSlash(rel), nil
}

// PathForURL maps a public URL back to the file it serves.
func (l *Local) PathForURL(url string) (string, error) {
	if !strings.HasPrefix(url, l.urlPrefix+"/") {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, url)
	}
	rel := path.Clean(strings.TrimPrefix(url, l.urlPrefix+"/"))
	if rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, url)
	}
	return filepath.Join(l.root, filepath.FromSlash(rel)), nil
}

func (l *Local) Exists(p string) bool {
	if p == "" {
		return false
	}
	_, err := os.Stat(p)
	return err == nil
}

// Remove deletes each path. Missing files and empty paths are skipped and
// other failures are logged, never returned.
func (l *Local) Remove(paths ...string) {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if _, err := l.Rel(p); err != nil {
			slog.Warn("refusing to remove file outside uploads root", "path", p)
			continue
		}
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to remove file", "path", p, "error", err)
		}
	}
}

// UniqueName builds "<prefix>-<unix millis>-<random><suffix>".
func UniqueName(prefix, suffix string) string {
	return fmt.Sprintf("%s-%d-%d%s", prefix, time.Now().UnixMilli(), rand.Int64N(1e9), suffix)
}
