package database_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wallpaper-catalog/internal/database"
	"wallpaper-catalog/internal/models"
)

func newTestStore(t *testing.T) *database.Store {
	t.Helper()
	store, err := database.Open(database.DriverSQLite, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func imageWallpaper(name, category, color, pageType string) *models.Wallpaper {
	return &models.Wallpaper{
		Name:         name,
		Category:     category,
		Color:        color,
		PageType:     pageType,
		ImagePath:    "/tmp/" + name + ".jpg",
		ImageURL:     "/uploads/wallpapers/" + name + ".jpg",
		ThumbnailURL: "/uploads/wallpapers/" + name + "-thumb.jpg",
		MediumURL:    "/uploads/wallpapers/" + name + "-medium.jpg",
		WebpURL:      "/uploads/wallpapers/" + name + ".webp",
		Width:        1200,
		Height:       1600,
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Migrate(ctx))
	require.NoError(t, store.Migrate(ctx))

	applied, err := store.AppliedMigrations(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"0001_init.sql",
		"0002_wallpaper_indexes.sql",
		"0003_normalize_placeholders.sql",
	}, applied)
	assert.Equal(t, database.DriverSQLite, store.Driver())
	assert.NoError(t, store.Ping(ctx))
}

func TestCreateAndGetWallpaper(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	w := imageWallpaper("sunset", "Modern", "Blue", models.PageCollections)
	require.NoError(t, store.CreateWallpaper(ctx, w))
	assert.NotZero(t, w.ID)
	assert.False(t, w.CreatedAt.IsZero())

	got, err := store.GetWallpaper(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "sunset", got.Name)
	assert.Equal(t, 1200, got.Width)
	assert.Equal(t, 1600, got.Height)
	assert.Equal(t, w.ThumbnailURL, got.ThumbnailURL)
	assert.Empty(t, got.VideoURL)

	_, err = store.GetWallpaper(ctx, w.ID+100)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestCreateWallpaper_RejectsRowWithoutMedia(t *testing.T) {
	store := newTestStore(t)

	err := store.CreateWallpaper(context.Background(), &models.Wallpaper{
		Name: "empty", Category: "c", Color: "c", PageType: models.PageCollections,
	})
	assert.Error(t, err)
}

func TestCreateWallpaper_RejectsUnknownPageType(t *testing.T) {
	store := newTestStore(t)

	err := store.CreateWallpaper(context.Background(), imageWallpaper("x", "c", "c", "posters"))
	assert.Error(t, err)
}

func TestVideoOnlyRowStoresNullImageFields(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	w := &models.Wallpaper{
		Name: "clip", Category: "motion", Color: "default", PageType: models.PageVideos,
		VideoPath: "/tmp/clip.mp4", VideoURL: "/uploads/videos/clip.mp4",
	}
	require.NoError(t, store.CreateWallpaper(ctx, w))

	got, err := store.GetWallpaper(ctx, w.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ImageURL)
	assert.Equal(t, "/uploads/videos/clip.mp4", got.VideoURL)
}

func TestListWallpapers_Filters(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateWallpaper(ctx, imageWallpaper("a", "Modern", "Blue", models.PageCollections)))
	require.NoError(t, store.CreateWallpaper(ctx, imageWallpaper("b", "Modern", "Red", models.PageCollections)))
	require.NoError(t, store.CreateWallpaper(ctx, imageWallpaper("c", "Cartoon", "Blue", models.PageKids)))

	all, err := store.ListWallpapers(ctx, models.WallpaperFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].Name, "newest first")

	all, err = store.ListWallpapers(ctx, models.WallpaperFilter{PageType: "all"})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	kids, err := store.ListWallpapers(ctx, models.WallpaperFilter{PageType: models.PageKids})
	require.NoError(t, err)
	require.Len(t, kids, 1)
	assert.Equal(t, "c", kids[0].Name)

	modernBlue, err := store.ListWallpapers(ctx, models.WallpaperFilter{Category: "Modern", Color: "Blue"})
	require.NoError(t, err)
	require.Len(t, modernBlue, 1)
	assert.Equal(t, "a", modernBlue[0].Name)

	categories, err := store.ListCategories(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Cartoon", "Modern"}, categories)
}

func TestInsertWallpapers_FailedRowDoesNotAbortBatch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	batch := []*models.Wallpaper{
		imageWallpaper("one", "Modern", "default", models.PageCollections),
		imageWallpaper("bad", "Modern", "default", "not-a-page"),
		imageWallpaper("three", "Modern", "default", models.PageCollections),
	}

	results, err := store.InsertWallpapers(ctx, batch)
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.NoError(t, results[0])
	assert.Error(t, results[1])
	assert.NoError(t, results[2])

	all, err := store.ListWallpapers(ctx, models.WallpaperFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateWallpaperMetadata(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	w := imageWallpaper("sunset", "Modern", "Blue", models.PageCollections)
	require.NoError(t, store.CreateWallpaper(ctx, w))

	same := "Modern"
	got, changed, err := store.UpdateWallpaperMetadata(ctx, w.ID, models.MetadataPatch{Category: &same})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, w.UpdatedAt.Unix(), got.UpdatedAt.Unix())

	name, color := "Dawn", "Orange"
	got, changed, err = store.UpdateWallpaperMetadata(ctx, w.ID, models.MetadataPatch{Name: &name, Color: &color})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "Dawn", got.Name)
	assert.Equal(t, "Orange", got.Color)
	assert.Equal(t, "Modern", got.Category)

	_, _, err = store.UpdateWallpaperMetadata(ctx, 9999, models.MetadataPatch{Name: &name})
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestSetWallpaperVideo(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	w := imageWallpaper("sunset", "Modern", "Blue", models.PageCollections)
	require.NoError(t, store.CreateWallpaper(ctx, w))

	got, previous, err := store.SetWallpaperVideo(ctx, w.ID, "/tmp/v1.mp4", "/uploads/videos/v1.mp4")
	require.NoError(t, err)
	assert.Empty(t, previous)
	assert.Equal(t, "/uploads/videos/v1.mp4", got.VideoURL)
	assert.Equal(t, w.ImageURL, got.ImageURL)

	_, previous, err = store.SetWallpaperVideo(ctx, w.ID, "/tmp/v2.mp4", "/uploads/videos/v2.mp4")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/v1.mp4", previous)

	_, _, err = store.SetWallpaperVideo(ctx, 9999, "/tmp/v.mp4", "/uploads/videos/v.mp4")
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestDeleteWallpaper(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	w := imageWallpaper("sunset", "Modern", "Blue", models.PageCollections)
	require.NoError(t, store.CreateWallpaper(ctx, w))

	deleted, err := store.DeleteWallpaper(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, w.ImagePath, deleted.ImagePath)

	_, err = store.GetWallpaper(ctx, w.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)

	_, err = store.DeleteWallpaper(ctx, w.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestAdminPassword(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	set, err := store.IsPasswordSet(ctx)
	require.NoError(t, err)
	assert.False(t, set)

	_, err = store.GetPasswordHash(ctx)
	assert.ErrorIs(t, err, database.ErrNotFound)

	require.NoError(t, store.CreatePasswordHash(ctx, "hash-1"))
	assert.ErrorIs(t, store.CreatePasswordHash(ctx, "hash-2"), database.ErrAlreadyExists)

	set, err = store.IsPasswordSet(ctx)
	require.NoError(t, err)
	assert.True(t, set)

	require.NoError(t, store.SetPasswordHash(ctx, "hash-3"))
	hash, err := store.GetPasswordHash(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hash-3", hash)
}

func TestContactMessages(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first := &models.ContactMessage{Name: "Ann", Email: "ann@example.com", Phone: "5550001111", Message: "Please call me back"}
	second := &models.ContactMessage{Name: "Bob", Email: "bob@example.com", Phone: "5550002222", Message: "Need a quote soon", PreferredDate: "2026-11-01"}
	require.NoError(t, store.CreateContactMessage(ctx, first))
	require.NoError(t, store.CreateContactMessage(ctx, second))

	messages, err := store.ListContactMessages(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	assert.Equal(t, "Bob", messages[0].Name)
	assert.Equal(t, "2026-11-01", messages[0].PreferredDate)

	require.NoError(t, store.DeleteContactMessage(ctx, first.ID))
	assert.ErrorIs(t, store.DeleteContactMessage(ctx, first.ID), database.ErrNotFound)

	n, err := store.DeleteAllContactMessages(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
