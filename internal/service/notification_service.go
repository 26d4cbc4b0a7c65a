package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/quocanhngo/pushreg/internal/model"
)

// ErrMissingFields is returned when deviceId, token or platform is empty
var ErrMissingFields = errors.New("missing required fields: deviceId, token, platform")

// TokenStore is the persistence the registration flow depends on
type TokenStore interface {
	Upsert(ctx context.Context, deviceID, token, platform string) (*model.NotificationToken, error)
}

// NotificationService handles push token registration
type NotificationService struct {
	store TokenStore
}

func NewNotificationService(store TokenStore) *NotificationService {
	return &NotificationService{store: store}
}

// RegisterToken validates a registration and records it for the device.
// Invalid input never reaches the store.
func (s *NotificationService) RegisterToken(ctx context.Context, req model.RegisterTokenRequest) (*model.NotificationToken, error) {
	if req.DeviceID == "" || req.Token == "" || req.Platform == "" {
		return nil, ErrMissingFields
	}

	token, err := s.store.Upsert(ctx, req.DeviceID, req.Token, req.Platform)
	if err != nil {
		return nil, fmt.Errorf("register device %s: %w", req.DeviceID, err)
	}
	return token, nil
}
