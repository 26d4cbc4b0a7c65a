package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Supported push platforms
const (
	PlatformIOS     = "ios"
	PlatformAndroid = "android"
)

// NotificationToken is the current push registration of one device installation.
// There is at most one row per DeviceID.
type NotificationToken struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	DeviceID  string    `json:"deviceId" gorm:"column:device_id;not null;uniqueIndex:idx_notification_tokens_device_id"`
	Token     string    `json:"token" gorm:"type:text;not null"`
	Platform  string    `json:"platform" gorm:"size:10;not null"` // ios, android
	CreatedAt time.Time `json:"createdAt" gorm:"not null"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"not null"`
}

func (NotificationToken) TableName() string {
	return "notification_tokens"
}

// BeforeCreate assigns the server-side identifier
func (t *NotificationToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
