package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quocanhngo/pushreg/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicateDevice is returned when an insert collides with an existing device_id
var ErrDuplicateDevice = errors.New("notification token already exists for device")

// NotificationTokenRepository handles database operations for NotificationToken
type NotificationTokenRepository struct {
	db  *gorm.DB
	now func() time.Time
}

// Option configures a NotificationTokenRepository
type Option func(*NotificationTokenRepository)

// WithClock overrides the time source used for created_at / updated_at
func WithClock(now func() time.Time) Option {
	return func(r *NotificationTokenRepository) {
		r.now = now
	}
}

func NewNotificationTokenRepository(db *gorm.DB, opts ...Option) *NotificationTokenRepository {
	r := &NotificationTokenRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FindByDeviceID returns the row registered for a device, or gorm.ErrRecordNotFound
func (r *NotificationTokenRepository) FindByDeviceID(ctx context.Context, deviceID string) (*model.NotificationToken, error) {
	var token model.NotificationToken
	err := r.db.WithContext(ctx).Where("device_id = ?", deviceID).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Create inserts a new row without any conflict handling
func (r *NotificationTokenRepository) Create(ctx context.Context, token *model.NotificationToken) error {
	now := r.now()
	if token.CreatedAt.IsZero() {
		token.CreatedAt = now
	}
	if token.UpdatedAt.IsZero() {
		token.UpdatedAt = token.CreatedAt
	}
	if err := r.db.WithContext(ctx).Create(token).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", ErrDuplicateDevice, token.DeviceID)
		}
		return err
	}
	return nil
}

// Upsert registers a token for a device.
// A new device gets a fresh row; a known device keeps its id and created_at
// while token, platform and updated_at are overwritten.
func (r *NotificationTokenRepository) Upsert(ctx context.Context, deviceID, token, platform string) (*model.NotificationToken, error) {
	now := r.now()
	row := model.NotificationToken{
		DeviceID:  deviceID,
		Token:     token,
		Platform:  platform,
		CreatedAt: now,
		UpdatedAt: now,
	}

	// Atomic upsert: INSERT ... ON CONFLICT (device_id) DO UPDATE
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "device_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"token", "platform", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return nil, fmt.Errorf("upsert notification token: %w", err)
	}

	// The conflict path leaves row.ID / row.CreatedAt describing the discarded insert
	saved, err := r.FindByDeviceID(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("reload notification token: %w", err)
	}
	return saved, nil
}

// Count returns the total number of registered devices
func (r *NotificationTokenRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.NotificationToken{}).Count(&count).Error
	return count, err
}

// CountByDeviceID returns how many rows exist for a device (0 or 1)
func (r *NotificationTokenRepository) CountByDeviceID(ctx context.Context, deviceID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.NotificationToken{}).
		Where("device_id = ?", deviceID).
		Count(&count).Error
	return count, err
}

// Ping checks that the underlying database connection is usable
func (r *NotificationTokenRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
