package routes_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/jpeg"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"wallpaper-catalog/internal/config"
	"wallpaper-catalog/internal/database"
	"wallpaper-catalog/internal/imageproc"
	"wallpaper-catalog/internal/models"
	"wallpaper-catalog/internal/routes"
	"wallpaper-catalog/internal/services"
	"wallpaper-catalog/internal/storage"
)

type testServer struct {
	router *gin.Engine
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	cfg := &config.Config{
		JWTSecret:        "test-secret-key-for-jwt-signing-must-be-long-enough",
		TokenTTL:         time.Hour,
		CORSOrigins:      []string{"http://localhost:3000"},
		UploadsDir:       filepath.Join(dir, "uploads"),
		UploadsURLPrefix: "/uploads",
		MaxBulkFiles:     10,
		BulkConcurrency:  2,
	}

	store, err := database.Open(database.DriverSQLite, filepath.Join(dir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	files, err := storage.NewLocal(cfg.UploadsDir, cfg.UploadsURLPrefix, 10<<20, 50<<20)
	require.NoError(t, err)

	svc := routes.Services{
		Wallpapers: services.NewWallpaperService(store, files, imageproc.NewProcessor(files), cfg.MaxBulkFiles, cfg.BulkConcurrency),
		Auth:       services.NewAuthService(store, cfg.JWTSecret, cfg.TokenTTL),
		Contact:    services.NewContactService(store),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return &testServer{router: routes.New(cfg, svc, logger)}
}

// login sets up the admin password and keeps the issued token.
func (s *testServer) login(t *testing.T) {
	t.Helper()
	w := s.json(t, "POST", "/api/password/setup", `{"password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = s.json(t, "POST", "/api/auth/login", `{"password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	s.token = resp.Token
}

func (s *testServer) do(req *http.Request) *httptest.ResponseRecorder {
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) json(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(method, path, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	return s.do(req)
}

func (s *testServer) multipart(t *testing.T, path, field, filename string, data []byte, fields map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if data != nil {
		part, err := mw.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req, err := http.NewRequest("POST", path, &body)
	require.NoError(t, err)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(req)
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, x%h, color.RGBA{R: 30, G: 90, B: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	return buf.Bytes()
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)

	w := s.json(t, "GET", "/api/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","message":"Server is running"}`, w.Body.String())
}

func TestAuthFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.json(t, "GET", "/api/auth/status", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[models.AuthStatusResponse](t, w).IsPasswordSet)

	w = s.json(t, "POST", "/api/auth/login", `{"password":"secret123"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "No admin password has been set.", decode[models.ErrorResponse](t, w).Error)

	w = s.json(t, "POST", "/api/password/setup", `{"password":"abc"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.json(t, "POST", "/api/password/setup", `{"password":"secret123"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.json(t, "POST", "/api/password/setup", `{"password":"another123"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.json(t, "POST", "/api/auth/status", "")
	assert.True(t, decode[models.AuthStatusResponse](t, w).IsPasswordSet)

	w = s.json(t, "POST", "/api/auth/login", `{"password":"wrong-password"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Invalid password", decode[models.ErrorResponse](t, w).Error)

	w = s.json(t, "POST", "/api/auth/login", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.json(t, "POST", "/api/auth/login", `{"password":"secret123"}`)
	require.Equal(t, http.StatusOK, w.Code)
	login := decode[models.LoginResponse](t, w)
	assert.True(t, login.Success)
	assert.NotEmpty(t, login.Token)
	assert.Greater(t, login.ExpiresAt, time.Now().Unix())

	w = s.json(t, "POST", "/api/auth/logout", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestChangePassword(t *testing.T) {
	s := newTestServer(t)

	w := s.json(t, "POST", "/api/password/change", `{"newPassword":"changed123"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	s.login(t)
	w = s.json(t, "POST", "/api/password/change", `{"currentPassword":"nope-nope","newPassword":"changed123"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.json(t, "POST", "/api/password/change", `{"currentPassword":"secret123","newPassword":"changed123"}`)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.json(t, "POST", "/api/auth/login", `{"password":"changed123"}`)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)

	w := s.multipart(t, "/api/wallpapers/upload", "image", "a.jpg", jpegBytes(t, 10, 10), nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Access denied. No token provided.", decode[models.ErrorResponse](t, w).Error)

	s.token = "not-a-jwt"
	assert.Equal(t, http.StatusForbidden, s.json(t, "DELETE", "/api/wallpapers/1", "").Code)
	assert.Equal(t, http.StatusForbidden, s.json(t, "GET", "/api/messages", "").Code)
}

func TestWallpaperLifecycle(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	w := s.multipart(t, "/api/wallpapers/upload", "image", "sunset.jpg", jpegBytes(t, 1200, 1600), map[string]string{
		"name": "Sunset", "category": "Modern", "color": "Blue", "pageType": "collections",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	created := decode[models.Wallpaper](t, w)
	assert.Equal(t, 1200, created.Width)
	assert.Equal(t, 1600, created.Height)
	assert.True(t, strings.HasSuffix(created.ThumbnailURL, "-thumb.jpg"))

	w = s.json(t, "GET", created.ImageURL, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.json(t, "GET", "/api/wallpapers?pageType=collections&color=Blue", "")
	assert.Len(t, decode[[]models.Wallpaper](t, w), 1)

	w = s.json(t, "GET", "/api/wallpapers?pageType=kids", "")
	assert.Equal(t, "[]", w.Body.String())

	w = s.json(t, "GET", "/api/wallpapers/meta/categories", "")
	assert.Equal(t, []string{"Modern"}, decode[[]string](t, w))

	w = s.json(t, "PUT", "/api/wallpapers/"+itoa(created.ID), `{"name":"Dusk","color":"undefined"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	updated := decode[models.WallpaperResponse](t, w)
	assert.Equal(t, "Wallpaper updated successfully", updated.Message)
	assert.Equal(t, "Dusk", updated.Wallpaper.Name)
	assert.Equal(t, "Blue", updated.Wallpaper.Color)

	w = s.json(t, "DELETE", "/api/wallpapers/"+itoa(created.ID), "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.json(t, "GET", "/api/wallpapers/"+itoa(created.ID), "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Wallpaper not found", decode[models.ErrorResponse](t, w).Error)

	w = s.json(t, "GET", created.ImageURL, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpload_MissingFields(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	w := s.multipart(t, "/api/wallpapers/upload", "image", "a.jpg", jpegBytes(t, 20, 20), map[string]string{"name": "Only name"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.multipart(t, "/api/wallpapers/upload", "image", "", nil, map[string]string{
		"name": "A", "category": "B", "color": "C", "pageType": "collections",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No image file provided", decode[models.ErrorResponse](t, w).Error)
}

func TestBulkUpload(t *testing.T) {
	s := newTestServer(t)
	s.login(t)

	w := s.multipart(t, "/api/wallpapers/bulk", "wallpapers", "forest.jpg", jpegBytes(t, 50, 40), map[string]string{"category": "Nature"})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	assert.Equal(t, "Missing required fields", decode[models.ErrorResponse](t, w).Error)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("category", "Nature"))
	require.NoError(t, mw.WriteField("pageType", "kids"))
	for _, name := range []string{"forest.jpg", "river.jpg", "notes.txt"} {
		part, err := mw.CreateFormFile("wallpapers", name)
		require.NoError(t, err)
		if strings.HasSuffix(name, ".txt") {
			_, err = part.Write([]byte("plain text, not an image"))
		} else {
			_, err = part.Write(jpegBytes(t, 50, 40))
		}
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req, _ := http.NewRequest("POST", "/api/wallpapers/bulk", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w = s.do(req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	resp := decode[models.BulkUploadResponse](t, w)
	assert.Equal(t, "2 wallpaper(s) successfully processed for upload.", resp.Message)
	assert.Equal(t, 2, resp.Uploaded)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, 3, resp.Total)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "notes.txt", resp.Errors[0].Filename)

	w = s.json(t, "GET", "/api/wallpapers?pageType=kids", "")
	assert.Len(t, decode[[]models.Wallpaper](t, w), 2)
}

func TestInvalidID(t *testing.T) {
	s := newTestServer(t)

	w := s.json(t, "GET", "/api/wallpapers/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactAndMessages(t *testing.T) {
	s := newTestServer(t)

	w := s.json(t, "POST", "/api/contact", `{"name":"A","email":"bad","phone":"1","message":"short"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	errResp := decode[models.ErrorResponse](t, w)
	assert.Equal(t, "Validation failed", errResp.Error)
	assert.Len(t, errResp.Details, 4)

	w = s.json(t, "POST", "/api/contact", `{"name":"Jane Doe","email":"jane@example.com","phone":"555-000-1111","message":"Please call me about a mural."}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"message":"Contact form submitted successfully","emailSent":false,"smsSent":null}`, w.Body.String())

	s.login(t)
	w = s.json(t, "GET", "/api/messages", "")
	require.Equal(t, http.StatusOK, w.Code)
	messages := decode[[]models.ContactMessage](t, w)
	require.Len(t, messages, 1)
	assert.Equal(t, "Jane Doe", messages[0].Name)

	w = s.json(t, "DELETE", "/api/messages/999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.json(t, "DELETE", "/api/messages", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1 messages deleted successfully", decode[models.DeleteMessagesResponse](t, w).Message)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
