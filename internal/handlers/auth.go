package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"wallpaper-catalog/internal/apperrors"
	"wallpaper-catalog/internal/models"
	"wallpaper-catalog/internal/services"
)

var errPasswordRequired = apperrors.Validation("Password is required.", nil)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Status godoc
// @Summary     Admin password status
// @Description Reports whether an admin password has been configured
// @Tags        auth
// @Produce     json
// @Success     200 {object} models.AuthStatusResponse
// @Failure     500 {object} models.ErrorResponse
// @Router      /auth/status [get]
// @Router      /auth/status [post]
func (h *AuthHandler) Status(c *gin.Context) {
	set, err := h.auth.IsPasswordSet(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.AuthStatusResponse{Success: true, IsPasswordSet: set})
}

// Login godoc
// @Summary     Admin login
// @Description Exchanges the admin password for a bearer token
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       request body models.LoginRequest true "Password"
// @Success     200 {object} models.LoginResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errPasswordRequired)
		return
	}

	token, expiresAt, err := h.auth.Login(c.Request.Context(), req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.LoginResponse{
		Success:   true,
		Token:     token,
		ExpiresAt: expiresAt.Unix(),
		Message:   "Login successful",
	})
}

// Logout godoc
// @Summary     Admin logout
// @Description Tokens are stateless; the client discards its copy
// @Tags        auth
// @Produce     json
// @Success     200 {object} models.SuccessResponse
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, models.SuccessResponse{
		Success: true,
		Message: "Logged out successfully. Please clear the token on the client.",
	})
}

// SetupPassword godoc
// @Summary     Set the admin password
// @Description First-time setup. Fails once a password exists.
// @Tags        password
// @Accept      json
// @Produce     json
// @Param       request body models.SetupPasswordRequest true "Password"
// @Success     200 {object} models.SuccessResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     409 {object} models.ErrorResponse
// @Router      /password/setup [post]
func (h *AuthHandler) SetupPassword(c *gin.Context) {
	var req models.SetupPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errPasswordRequired)
		return
	}

	if err := h.auth.SetupPassword(c.Request.Context(), req.Password); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "Admin password set successfully"})
}

// ChangePassword godoc
// @Summary     Change the admin password
// @Description When currentPassword is sent it must match the stored password.
// @Tags        password
// @Accept      json
// @Produce     json
// @Security    Bearer
// @Param       request body models.ChangePasswordRequest true "Passwords"
// @Success     200 {object} models.SuccessResponse
// @Failure     400 {object} models.ErrorResponse
// @Failure     401 {object} models.ErrorResponse
// @Failure     403 {object} models.ErrorResponse
// @Router      /password/change [post]
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req models.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, apperrors.Validation("New password is required.", nil))
		return
	}

	if err := h.auth.ChangePassword(c.Request.Context(), req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.SuccessResponse{Success: true, Message: "Admin password changed successfully"})
}
