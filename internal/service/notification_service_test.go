package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/quocanhngo/pushreg/internal/model"
	"github.com/quocanhngo/pushreg/internal/repository"
	"github.com/quocanhngo/pushreg/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	calls int
	err   error
}

func (f *fakeStore) Upsert(ctx context.Context, deviceID, token, platform string) (*model.NotificationToken, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	now := time.Now()
	return &model.NotificationToken{
		ID: uuid.New(), DeviceID: deviceID, Token: token, Platform: platform,
		CreatedAt: now, UpdatedAt: now,
	}, nil
}

func TestRegisterToken_RejectsMissingFields(t *testing.T) {
	cases := map[string]model.RegisterTokenRequest{
		"missing deviceId": {Token: "tok", Platform: model.PlatformIOS},
		"missing token":    {DeviceID: "dev", Platform: model.PlatformIOS},
		"missing platform": {DeviceID: "dev", Token: "tok"},
		"all empty":        {},
	}

	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			store := &fakeStore{}
			svc := NewNotificationService(store)

			_, err := svc.RegisterToken(context.Background(), req)
			assert.ErrorIs(t, err, ErrMissingFields)
			assert.Zero(t, store.calls, "store must not be touched")
		})
	}
}

func TestRegisterToken_WrapsStoreError(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewNotificationService(&fakeStore{err: boom})

	_, err := svc.RegisterToken(context.Background(), model.RegisterTokenRequest{
		DeviceID: "dev-1", Token: "tok-A", Platform: model.PlatformIOS,
	})
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrMissingFields)
}

func TestRegisterToken_ReRegistrationKeepsOneRow(t *testing.T) {
	clock := testutil.NewClock(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	repo := repository.NewNotificationTokenRepository(testutil.NewDB(t), repository.WithClock(clock.Now))
	svc := NewNotificationService(repo)
	ctx := context.Background()

	first, err := svc.RegisterToken(ctx, model.RegisterTokenRequest{DeviceID: "dev-1", Token: "tok-A", Platform: model.PlatformIOS})
	require.NoError(t, err)

	clock.Advance(time.Second)
	second, err := svc.RegisterToken(ctx, model.RegisterTokenRequest{DeviceID: "dev-1", Token: "tok-B", Platform: model.PlatformIOS})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "tok-B", second.Token)
	assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))

	count, err := repo.CountByDeviceID(ctx, "dev-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}
