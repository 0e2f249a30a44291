package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"wallpaper-catalog/internal/apperrors"
	"wallpaper-catalog/internal/models"
	"wallpaper-catalog/internal/services"
)

func uploadMetadata(c *gin.Context) services.UploadMetadata {
	return services.UploadMetadata{
		Name:     c.PostForm("name"),
		Category: c.PostForm("category"),
		Color:    c.PostForm("color"),
		PageType: c.PostForm("pageType"),
	}
}

// Upload godoc
// @Summary     Upload a wallpaper
// @Description Stores the image, generates thumbnail, medium and WebP variants and creates the row.
// @Tags        upload
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       image    formData file   true "Image (jpg, jpeg, png, webp, gif)"
// @Param       name     formData string true "Name"
// @Param       category formData string true "Category"
// @Param       color    formData string true "Color"
// @Param       pageType formData string true "Page type" Enums(collections, kids, 3d, stickers, colors, videos)
// @Success     201 {object} models.Wallpaper
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /wallpapers/upload [post]
func (h *WallpapersHandler) Upload(c *gin.Context) {
	fh, err := formFile(c, "image")
	if err != nil {
		respondError(c, err)
		return
	}

	wallpaper, err := h.wallpapers.CreateFromUpload(c.Request.Context(), fh, uploadMetadata(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, wallpaper)
}

// BulkUpload godoc
// @Summary     Bulk upload wallpapers
// @Description Uploads many images sharing one category, color and page type. Names come from the file names.
// @Description Files that fail are reported and skipped; the rest are committed together.
// @Tags        upload
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       wallpapers formData file   true  "Images (multiple files allowed)"
// @Param       category   formData string true  "Category"
// @Param       pageType   formData string true  "Page type"
// @Param       color      formData string false "Color"
// @Success     200 {object} models.BulkUploadResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /wallpapers/bulk [post]
func (h *WallpapersHandler) BulkUpload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		respondError(c, apperrors.Validation("Invalid multipart form", err.Error()))
		return
	}

	result, err := h.wallpapers.CreateBulk(c.Request.Context(), form.File["wallpapers"], uploadMetadata(c))
	if err != nil {
		respondError(c, err)
		return
	}

	message := "No wallpapers successfully processed for upload."
	if result.Uploaded > 0 {
		message = fmt.Sprintf("%d wallpaper(s) successfully processed for upload.", result.Uploaded)
	}
	c.JSON(http.StatusOK, models.BulkUploadResponse{
		Message:  message,
		Uploaded: result.Uploaded,
		Failed:   result.Failed,
		Total:    result.Total,
		Errors:   result.Errors,
	})
}

// UploadVideo godoc
// @Summary     Upload a video wallpaper
// @Description Stores the video as-is and creates a row without image fields.
// @Tags        upload
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       video    formData file   true  "Video (mp4, webm, mov)"
// @Param       name     formData string false "Name"
// @Param       category formData string false "Category"
// @Param       color    formData string false "Color"
// @Param       pageType formData string false "Page type"
// @Success     201 {object} models.Wallpaper
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /wallpapers/upload-video-wallpaper [post]
func (h *WallpapersHandler) UploadVideo(c *gin.Context) {
	fh, err := formFile(c, "video")
	if err != nil {
		respondError(c, err)
		return
	}

	wallpaper, err := h.wallpapers.CreateVideo(c.Request.Context(), fh, uploadMetadata(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, wallpaper)
}

// AttachVideo godoc
// @Summary     Attach a video to a wallpaper
// @Description Sets or replaces the video of an existing wallpaper.
// @Tags        upload
// @Accept      multipart/form-data
// @Produce     json
// @Security    Bearer
// @Param       id    path     int  true "Wallpaper ID"
// @Param       video formData file true "Video (mp4, webm, mov)"
// @Success     200 {object} models.VideoAttachResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /wallpapers/{id}/video [post]
func (h *WallpapersHandler) AttachVideo(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	fh, err := formFile(c, "video")
	if err != nil {
		respondError(c, err)
		return
	}

	wallpaper, err := h.wallpapers.AttachVideo(c.Request.Context(), id, fh)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.VideoAttachResponse{
		Message:   "Video uploaded successfully",
		VideoURL:  wallpaper.VideoURL,
		Wallpaper: wallpaper,
	})
}
