package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"wallpaper-catalog/internal/apperrors"
	"wallpaper-catalog/internal/models"
	"wallpaper-catalog/internal/services"
)

type WallpapersHandler struct {
	wallpapers *services.WallpaperService
}

func NewWallpapersHandler(wallpapers *services.WallpaperService) *WallpapersHandler {
	return &WallpapersHandler{wallpapers: wallpapers}
}

// List godoc
// @Summary     List wallpapers
// @Description Returns wallpapers newest first. Every filter is optional; pageType "all" does not filter.
// @Tags        wallpapers
// @Produce     json
// @Param       pageType query string false "Page type" Enums(collections, kids, 3d, stickers, colors, videos, all)
// @Param       category query string false "Category"
// @Param       color    query string false "Color"
// @Success     200 {array}  models.Wallpaper
// @Failure     500 {object} models.ErrorResponse
// @Router      /wallpapers [get]
func (h *WallpapersHandler) List(c *gin.Context) {
	filter := models.WallpaperFilter{
		PageType: c.Query("pageType"),
		Category: c.Query("category"),
		Color:    c.Query("color"),
	}

	wallpapers, err := h.wallpapers.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	if wallpapers == nil {
		wallpapers = []models.Wallpaper{}
	}
	c.JSON(http.StatusOK, wallpapers)
}

// Get godoc
// @Summary     Get a wallpaper
// @Tags        wallpapers
// @Produce     json
// @Param       id path int true "Wallpaper ID"
// @Success     200 {object} models.Wallpaper
// @Failure     400 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /wallpapers/{id} [get]
func (h *WallpapersHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	wallpaper, err := h.wallpapers.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, wallpaper)
}

// Categories godoc
// @Summary     List categories
// @Description Returns the distinct categories in use
// @Tags        wallpapers
// @Produce     json
// @Success     200 {array}  string
// @Failure     500 {object} models.ErrorResponse
// @Router      /wallpapers/meta/categories [get]
func (h *WallpapersHandler) Categories(c *gin.Context) {
	categories, err := h.wallpapers.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	c.JSON(http.StatusOK, categories)
}

// Update godoc
// @Summary     Update wallpaper metadata
// @Description Partial update. Empty, "undefined" and "null" values keep the stored value.
// @Tags        wallpapers
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       id      path int                           true "Wallpaper ID"
// @Param       request body models.UpdateWallpaperRequest true "Fields to change"
// @Success     200 {object} models.WallpaperResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /wallpapers/{id} [put]
func (h *WallpapersHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req models.UpdateWallpaperRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("Invalid request body", err.Error()))
		return
	}

	wallpaper, err := h.wallpapers.Update(c.Request.Context(), id, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.WallpaperResponse{
		Message:   "Wallpaper updated successfully",
		Wallpaper: wallpaper,
	})
}

// Delete godoc
// @Summary     Delete a wallpaper
// @Description Removes the row and its files
// @Tags        wallpapers
// @Produce     json
// @Security    Bearer
// @Param       id path int true "Wallpaper ID"
// @Success     200 {object} models.MessageResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Failure     404 {object} models.ErrorResponse
// @Router      /wallpapers/{id} [delete]
func (h *WallpapersHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.wallpapers.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.MessageResponse{Message: "Wallpaper deleted successfully"})
}
