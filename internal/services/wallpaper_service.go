package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
	"wallpaper-catalog/internal/apperrors"
	"wallpaper-catalog/internal/database"
	"wallpaper-catalog/internal/imageproc"
	"wallpaper-catalog/internal/models"
	"wallpaper-catalog/internal/storage"
)

// AssetMirror copies committed files to secondary storage. Failures are
// logged by the caller and never undo a committed change.
type AssetMirror interface {
	Put(ctx context.Context, paths ...string) error
	Delete(ctx context.Context, paths ...string) error
}

// UploadMetadata is the form metadata sent with an upload.
type UploadMetadata struct {
	Name     string
	Category string
	Color    string
	PageType string
}

type BulkResult struct {
	Uploaded int
	Failed   int
	Total    int
	Errors   []models.BulkItemError
}

type WallpaperService struct {
	store       *database.Store
	files       *storage.Local
	processor   *imageproc.Processor
	mirror      AssetMirror
	maxBulk     int
	concurrency int
}

func NewWallpaperService(store *database.Store, files *storage.Local, processor *imageproc.Processor, maxBulk, concurrency int) *WallpaperService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &WallpaperService{
		store:       store,
		files:       files,
		processor:   processor,
		maxBulk:     maxBulk,
		concurrency: concurrency,
	}
}

// WithMirror enables copying committed files to m.
func (s *WallpaperService) WithMirror(m AssetMirror) *WallpaperService {
	s.mirror = m
	return s
}

var errWallpaperNotFound = apperrors.NotFound("Wallpaper not found")

func (s *WallpaperService) List(ctx context.Context, filter models.WallpaperFilter) ([]models.Wallpaper, error) {
	wallpapers, err := s.store.ListWallpapers(ctx, filter)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch wallpapers from database.", err)
	}
	return wallpapers, nil
}

func (s *WallpaperService) Get(ctx context.Context, id int64) (*models.Wallpaper, error) {
	w, err := s.store.GetWallpaper(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, errWallpaperNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch wallpaper.", err)
	}
	return w, nil
}

func (s *WallpaperService) Categories(ctx context.Context) ([]string, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		return nil, apperrors.Internal("Failed to fetch categories.", err)
	}
	return categories, nil
}

// CreateFromUpload stages one image, derives its variants and inserts the
// row. Every file written along the way is removed if a later step fails.
func (s *WallpaperService) CreateFromUpload(ctx context.Context, fh *multipart.FileHeader, meta UploadMetadata) (*models.Wallpaper, error) {
	if fh == nil {
		return nil, apperrors.Validation("No image file provided", nil)
	}
	if missing := missingFields(meta); len(missing) > 0 {
		return nil, apperrors.Validation("Missing required fields", missing)
	}
	meta = normalizeMetadata(meta, models.DefaultName)
	if err := checkPageType(meta.PageType); err != nil {
		return nil, err
	}

	staged, err := s.stage(fh, storage.KindImage)
	if err != nil {
		return nil, err
	}

	res, err := s.processor.Process(ctx, staged.Path, staged.OriginalName, storage.KindImage)
	if err != nil {
		s.files.Remove(staged.Path)
		return nil, apperrors.ProcessingFailed(err)
	}

	w := wallpaperFromResult(meta, res)
	if err := s.store.CreateWallpaper(ctx, w); err != nil {
		s.files.Remove(res.Paths()...)
		return nil, apperrors.Internal("Failed to upload wallpaper.", err)
	}

	s.mirrorPut(ctx, res.Paths()...)
	slog.Info("wallpaper uploaded", "id", w.ID, "url", w.ImageURL)
	return w, nil
}

type bulkItem struct {
	filename  string
	result    *imageproc.Result
	wallpaper *models.Wallpaper
	err       error
}

// CreateBulk processes many images with shared metadata. A file that fails
// processing or insertion is dropped on its own; the rest are committed in
// one transaction.
func (s *WallpaperService) CreateBulk(ctx context.Context, files []*multipart.FileHeader, meta UploadMetadata) (*BulkResult, error) {
	if len(files) == 0 {
		return nil, apperrors.Validation("No image files provided", nil)
	}
	if len(files) > s.maxBulk {
		return nil, apperrors.Validation(fmt.Sprintf("Too many files: at most %d per upload", s.maxBulk), nil)
	}

	if missing := missingBulkFields(meta); len(missing) > 0 {
		return nil, apperrors.Validation("Missing required fields", missing)
	}
	meta.Category = normalize(meta.Category, models.DefaultCategory)
	meta.PageType = normalize(meta.PageType, models.DefaultPageType)
	meta.Color = normalize(meta.Color, models.DefaultColor)
	if err := checkPageType(meta.PageType); err != nil {
		return nil, err
	}

	items := make([]bulkItem, len(files))
	g := new(errgroup.Group)
	g.SetLimit(s.concurrency)
	for i, fh := range files {
		g.Go(func() error {
			items[i] = s.prepareBulkItem(ctx, fh, meta)
			return nil
		})
	}
	g.Wait()

	var (
		batch   []*models.Wallpaper
		indexes []int
	)
	for i := range items {
		if items[i].err == nil {
			batch = append(batch, items[i].wallpaper)
			indexes = append(indexes, i)
		}
	}

	insertErrs, err := s.store.InsertWallpapers(ctx, batch)
	if err != nil {
		for _, i := range indexes {
			s.files.Remove(items[i].result.Paths()...)
		}
		return nil, apperrors.Internal("Failed to commit wallpapers metadata.", err)
	}
	for k, i := range indexes {
		if insertErrs[k] != nil {
			items[i].err = insertErrs[k]
			s.files.Remove(items[i].result.Paths()...)
		}
	}

	result := &BulkResult{Total: len(files)}
	for _, item := range items {
		if item.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, models.BulkItemError{Filename: item.filename, Error: clientMessage(item.err)})
			slog.Warn("bulk item failed", "file", item.filename, "error", item.err)
			continue
		}
		result.Uploaded++
		s.mirrorPut(ctx, item.result.Paths()...)
	}

	slog.Info("bulk upload finished", "total", result.Total, "uploaded", result.Uploaded, "failed", result.Failed)
	return result, nil
}

func (s *WallpaperService) prepareBulkItem(ctx context.Context, fh *multipart.FileHeader, meta UploadMetadata) bulkItem {
	item := bulkItem{filename: fh.Filename}

	staged, err := s.stage(fh, storage.KindImage)
	if err != nil {
		item.err = err
		return item
	}
	res, err := s.processor.Process(ctx, staged.Path, staged.OriginalName, storage.KindImage)
	if err != nil {
		s.files.Remove(staged.Path)
		item.err = apperrors.ProcessingFailed(err)
		return item
	}

	meta.Name = strings.TrimSuffix(filepath.Base(fh.Filename), filepath.Ext(fh.Filename))
	meta.Name = normalize(meta.Name, models.DefaultName)
	item.result = res
	item.wallpaper = wallpaperFromResult(meta, res)
	return item
}

// CreateVideo stores a video as-is in a new row without image fields.
func (s *WallpaperService) CreateVideo(ctx context.Context, fh *multipart.FileHeader, meta UploadMetadata) (*models.Wallpaper, error) {
	if fh == nil {
		return nil, apperrors.Validation("No video file provided", nil)
	}
	meta = normalizeMetadata(meta, models.DefaultVideoName)
	if err := checkPageType(meta.PageType); err != nil {
		return nil, err
	}

	staged, err := s.stage(fh, storage.KindVideo)
	if err != nil {
		return nil, err
	}

	w := &models.Wallpaper{
		Name:      meta.Name,
		Category:  meta.Category,
		Color:     meta.Color,
		PageType:  meta.PageType,
		VideoPath: staged.Path,
		VideoURL:  staged.URL,
	}
	if err := s.store.CreateWallpaper(ctx, w); err != nil {
		s.files.Remove(staged.Path)
		return nil, apperrors.Internal("Failed to upload video wallpaper.", err)
	}

	s.mirrorPut(ctx, staged.Path)
	slog.Info("video wallpaper uploaded", "id", w.ID, "url", w.VideoURL)
	return w, nil
}

// AttachVideo sets or replaces the video of an existing wallpaper. A replaced
// video file is removed.
func (s *WallpaperService) AttachVideo(ctx context.Context, id int64, fh *multipart.FileHeader) (*models.Wallpaper, error) {
	if fh == nil {
		return nil, apperrors.Validation("No video file provided", nil)
	}

	staged, err := s.stage(fh, storage.KindVideo)
	if err != nil {
		return nil, err
	}

	w, previous, err := s.store.SetWallpaperVideo(ctx, id, staged.Path, staged.URL)
	if err != nil {
		s.files.Remove(staged.Path)
		if errors.Is(err, database.ErrNotFound) {
			return nil, errWallpaperNotFound
		}
		return nil, apperrors.Internal("Failed to upload video.", err)
	}

	if previous != "" {
		s.files.Remove(previous)
		s.mirrorDelete(ctx, previous)
	}
	s.mirrorPut(ctx, staged.Path)
	slog.Info("video attached", "id", id, "url", staged.URL)
	return w, nil
}

// Update applies a partial metadata change. Empty and placeholder values keep
// the stored value; an update that changes nothing performs no write.
func (s *WallpaperService) Update(ctx context.Context, id int64, req models.UpdateWallpaperRequest) (*models.Wallpaper, error) {
	patch := models.MetadataPatch{
		Name:     keep(req.Name),
		Category: keep(req.Category),
		Color:    keep(req.Color),
		PageType: keep(req.PageType),
	}
	if patch.PageType != nil {
		if err := checkPageType(*patch.PageType); err != nil {
			return nil, err
		}
	}

	w, changed, err := s.store.UpdateWallpaperMetadata(ctx, id, patch)
	if errors.Is(err, database.ErrNotFound) {
		return nil, errWallpaperNotFound
	}
	if err != nil {
		return nil, apperrors.Internal("Failed to update wallpaper.", err)
	}
	if changed {
		slog.Info("wallpaper updated", "id", id)
	}
	return w, nil
}

// Delete removes the row, then its original, variants and video on a best
// effort basis.
func (s *WallpaperService) Delete(ctx context.Context, id int64) error {
	w, err := s.store.DeleteWallpaper(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return errWallpaperNotFound
	}
	if err != nil {
		return apperrors.Internal("Failed to delete wallpaper.", err)
	}

	paths := s.filesOf(w)
	s.files.Remove(paths...)
	s.mirrorDelete(ctx, paths...)
	slog.Info("wallpaper deleted", "id", id, "files", len(paths))
	return nil
}

// filesOf resolves every local file a row references.
func (s *WallpaperService) filesOf(w *models.Wallpaper) []string {
	paths := []string{w.ImagePath, w.VideoPath}
	for _, url := range []string{w.ImageURL, w.ThumbnailURL, w.MediumURL, w.WebpURL, w.VideoURL} {
		if url == "" {
			continue
		}
		if p, err := s.files.PathForURL(url); err == nil {
			paths = append(paths, p)
		}
	}
	return dedupe(paths)
}

// MissingFiles reports, per wallpaper id, the referenced files that do not
// exist on disk.
func (s *WallpaperService) MissingFiles(ctx context.Context) (map[int64][]string, error) {
	wallpapers, err := s.List(ctx, models.WallpaperFilter{})
	if err != nil {
		return nil, err
	}
	missing := make(map[int64][]string)
	for i := range wallpapers {
		for _, p := range s.filesOf(&wallpapers[i]) {
			if !s.files.Exists(p) {
				missing[wallpapers[i].ID] = append(missing[wallpapers[i].ID], p)
			}
		}
	}
	return missing, nil
}

func (s *WallpaperService) stage(fh *multipart.FileHeader, kind storage.Kind) (*storage.StagedFile, error) {
	staged, err := s.files.Stage(fh, kind)
	switch {
	case errors.Is(err, storage.ErrUnsupportedType):
		if kind == storage.KindVideo {
			return nil, apperrors.Validation("Only video files (mp4, webm, mov) are allowed!", err.Error())
		}
		return nil, apperrors.Validation("Only image files (jpg, jpeg, png, webp, gif) are allowed!", err.Error())
	case errors.Is(err, storage.ErrTooLarge):
		return nil, apperrors.Validation("File too large", err.Error())
	case err != nil:
		return nil, apperrors.Internal("Failed to store upload.", err)
	}
	return staged, nil
}

func (s *WallpaperService) mirrorPut(ctx context.Context, paths ...string) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Put(ctx, paths...); err != nil {
		slog.Warn("asset mirror upload failed", "error", err)
	}
}

func (s *WallpaperService) mirrorDelete(ctx context.Context, paths ...string) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Delete(ctx, paths...); err != nil {
		slog.Warn("asset mirror delete failed", "error", err)
	}
}

func wallpaperFromResult(meta UploadMetadata, res *imageproc.Result) *models.Wallpaper {
	return &models.Wallpaper{
		Name:         meta.Name,
		Category:     meta.Category,
		Color:        meta.Color,
		PageType:     meta.PageType,
		ImagePath:    res.Original.Path,
		ImageURL:     res.Original.URL,
		ThumbnailURL: res.Thumbnail.URL,
		MediumURL:    res.Medium.URL,
		WebpURL:      res.WebP.URL,
		Width:        res.Width,
		Height:       res.Height,
	}
}

type formField struct{ name, value string }

// missingFields reports blank fields. The literal placeholders are not blank;
// they fall back to defaults later.
func missingFields(meta UploadMetadata) []string {
	return blank(
		formField{"name", meta.Name},
		formField{"category", meta.Category},
		formField{"color", meta.Color},
		formField{"pageType", meta.PageType},
	)
}

// missingBulkFields is missingFields for bulk uploads, where names come from
// the filenames and color is optional.
func missingBulkFields(meta UploadMetadata) []string {
	return blank(
		formField{"category", meta.Category},
		formField{"pageType", meta.PageType},
	)
}

func blank(fields ...formField) []string {
	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func normalizeMetadata(meta UploadMetadata, defaultName string) UploadMetadata {
	return UploadMetadata{
		Name:     normalize(meta.Name, defaultName),
		Category: normalize(meta.Category, models.DefaultCategory),
		Color:    normalize(meta.Color, models.DefaultColor),
		PageType: normalize(meta.PageType, models.DefaultPageType),
	}
}

// IsPlaceholder reports values that carry no information: empty strings and
// the literals some clients send for unset fields.
func IsPlaceholder(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "undefined", "null":
		return true
	}
	return false
}

func normalize(v, fallback string) string {
	if IsPlaceholder(v) {
		return fallback
	}
	return strings.TrimSpace(v)
}

func keep(v string) *string {
	if IsPlaceholder(v) {
		return nil
	}
	v = strings.TrimSpace(v)
	return &v
}

func checkPageType(p string) error {
	if !models.ValidPageType(p) {
		return apperrors.Validation("Invalid pageType", fmt.Sprintf("pageType must be one of %s", strings.Join(models.PageTypes, ", ")))
	}
	return nil
}

func clientMessage(err error) string {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.HTTPCode < 500 {
		return appErr.Message
	}
	if errors.Is(err, imageproc.ErrProcessingFailed) {
		return "Failed to process image."
	}
	return "Failed to save wallpaper."
}

func dedupe(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0]
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
