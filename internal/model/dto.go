package model

// ========== Notification DTOs ==========

type RegisterTokenRequest struct {
	DeviceID string `json:"deviceId" binding:"required"`
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform" binding:"required"`
}

type RegisterTokenResponse struct {
	Success bool              `json:"success"`
	Data    NotificationToken `json:"data"`
}

// ========== Common ==========

type ErrorResponse struct {
	Error string `json:"error"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Database string `json:"database"`
	Time     string `json:"time"`
}
