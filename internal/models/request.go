package models

// UpdateWallpaperRequest is the body of PUT /api/wallpapers/:id. Absent,
// empty and placeholder values keep what is stored.
type UpdateWallpaperRequest struct {
	Name     string `json:"name" example:"Sunset"`
	Category string `json:"category" example:"Modern"`
	Color    string `json:"color" example:"Blue"`
	PageType string `json:"pageType" example:"collections"`
}

type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

type SetupPasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// ContactRequest is validated after trimming every field.
type ContactRequest struct {
	Name          string `json:"name" validate:"min=2"`
	Email         string `json:"email" validate:"required,contactemail"`
	Phone         string `json:"phone" validate:"min=10"`
	Message       string `json:"message" validate:"min=10"`
	PreferredDate string `json:"preferredDate"`
}
