package models

type ErrorResponse struct {
	Error   string      `json:"error"`
	Code    string      `json:"code,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type WallpaperResponse struct {
	Message   string     `json:"message"`
	Wallpaper *Wallpaper `json:"wallpaper,omitempty"`
}

type VideoAttachResponse struct {
	Message   string     `json:"message"`
	VideoURL  string     `json:"videoUrl"`
	Wallpaper *Wallpaper `json:"wallpaper"`
}

type BulkUploadResponse struct {
	Message  string          `json:"message"`
	Uploaded int             `json:"uploaded"`
	Failed   int             `json:"failed"`
	Total    int             `json:"total"`
	Errors   []BulkItemError `json:"errors,omitempty"`
}

type BulkItemError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

type AuthStatusResponse struct {
	Success       bool `json:"success"`
	IsPasswordSet bool `json:"isPasswordSet"`
}

type LoginResponse struct {
	Success   bool   `json:"success"`
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"`
	Message   string `json:"message"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type ContactResponse struct {
	Message   string      `json:"message"`
	EmailSent bool        `json:"emailSent"`
	SMSSent   []SMSResult `json:"smsSent"`
}

type DeleteMessagesResponse struct {
	Message string `json:"message"`
	Deleted int64  `json:"deleted"`
}
