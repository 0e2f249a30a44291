package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"wallpaper-catalog/internal/apperrors"
	"wallpaper-catalog/internal/logger"
	"wallpaper-catalog/internal/middleware"
	"wallpaper-catalog/internal/models"
)

var errInvalidID = apperrors.Validation("Invalid id", "id must be a positive integer")

// respondError writes err as a JSON error body. Server-side failures are
// logged with their cause; the client only sees the generic message.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.From(err)
	if appErr.HTTPCode >= http.StatusInternalServerError {
		logger.Get().Error("request failed",
			"request_id", c.GetString(middleware.RequestIDKey),
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", appErr,
		)
		_ = c.Error(appErr)
	}
	c.JSON(appErr.HTTPCode, models.ErrorResponse{
		Error:   appErr.Message,
		Code:    string(appErr.Code),
		Details: appErr.Details,
	})
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, errInvalidID)
		return 0, false
	}
	return id, true
}

// formFile returns the named upload, or nil when the field is absent.
func formFile(c *gin.Context, field string) (*multipart.FileHeader, error) {
	fh, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, apperrors.Validation("Invalid multipart form", err.Error())
	}
	return fh, nil
}
