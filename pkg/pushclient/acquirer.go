// Package pushclient obtains a push token on a device and registers it with the backend.
//
// Registration is a best-effort side channel: every failure is logged and
// swallowed, nothing is retried, and the caller's UI flow is never blocked.
package pushclient

import (
	"context"
	"log"
	"os"
	"sync"
	"time"
)

// Permission is the host OS notification permission state
type Permission string

const (
	PermissionGranted      Permission = "granted"
	PermissionDenied       Permission = "denied"
	PermissionUndetermined Permission = "undetermined"
)

// NotificationService is the host OS push notification service
type NotificationService interface {
	GetPermission(ctx context.Context) (Permission, error)
	RequestPermission(ctx context.Context) (Permission, error)
	GetPushToken(ctx context.Context) (string, error)
}

// Device describes the hardware the app runs on
type Device interface {
	IsPhysicalDevice() bool
	// StableIdentifier returns an identifier that survives restarts, if the platform has one
	StableIdentifier() (string, bool)
	Platform() string
}

// Registrar delivers a registration to the backend
type Registrar interface {
	Register(ctx context.Context, req RegisterRequest) error
}

// Outcome is the result of one acquisition attempt
type Outcome int

const (
	OutcomeAborted Outcome = iota
	OutcomeRegistered
	OutcomeNotPhysicalDevice
	OutcomePermissionDenied
	OutcomeTokenUnavailable
	OutcomeRegistrationFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeRegistered:
		return "registered"
	case OutcomeNotPhysicalDevice:
		return "not_physical_device"
	case OutcomePermissionDenied:
		return "permission_denied"
	case OutcomeTokenUnavailable:
		return "token_unavailable"
	case OutcomeRegistrationFailed:
		return "registration_failed"
	default:
		return "aborted"
	}
}

// Acquirer runs the token acquisition and registration flow
type Acquirer struct {
	notifications NotificationService
	device        Device
	registrar     Registrar
	logger        *log.Logger
	now           func() time.Time

	mu    sync.Mutex
	token string
}

// AcquirerOption configures an Acquirer
type AcquirerOption func(*Acquirer)

func WithLogger(logger *log.Logger) AcquirerOption {
	return func(a *Acquirer) {
		a.logger = logger
	}
}

func WithClock(now func() time.Time) AcquirerOption {
	return func(a *Acquirer) {
		a.now = now
	}
}

func NewAcquirer(notifications NotificationService, device Device, registrar Registrar, opts ...AcquirerOption) *Acquirer {
	a := &Acquirer{
		notifications: notifications,
		device:        device,
		registrar:     registrar,
		logger:        log.New(os.Stderr, "[push] ", log.LstdFlags),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Token returns the push token acquired by the last successful attempt
func (a *Acquirer) Token() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.token
}

// Run performs one acquisition attempt and reports how it ended.
// It never returns an error: unmet preconditions end silently, failures are logged.
func (a *Acquirer) Run(ctx context.Context) Outcome {
	if !a.device.IsPhysicalDevice() {
		return OutcomeNotPhysicalDevice
	}

	if !a.ensurePermission(ctx) {
		return OutcomePermissionDenied
	}

	token, err := a.notifications.GetPushToken(ctx)
	if err != nil {
		a.logger.Printf("⚠️  Failed to get push token: %v", err)
		return OutcomeTokenUnavailable
	}
	if token == "" {
		a.logger.Println("⚠️  Push service returned an empty token")
		return OutcomeTokenUnavailable
	}

	a.mu.Lock()
	a.token = token
	a.mu.Unlock()

	req := RegisterRequest{
		DeviceID: DeviceID(a.device, a.now),
		Token:    token,
		Platform: a.device.Platform(),
	}
	if err := a.registrar.Register(ctx, req); err != nil {
		a.logger.Printf("❌ Failed to register push token for %s: %v", req.DeviceID, err)
		return OutcomeRegistrationFailed
	}

	a.logger.Printf("✅ Push token registered for %s", req.DeviceID)
	return OutcomeRegistered
}

// ensurePermission asks the user at most once per attempt
func (a *Acquirer) ensurePermission(ctx context.Context) bool {
	status, err := a.notifications.GetPermission(ctx)
	if err != nil {
		a.logger.Printf("⚠️  Failed to read notification permission: %v", err)
		return false
	}
	if status == PermissionGranted {
		return true
	}

	status, err = a.notifications.RequestPermission(ctx)
	if err != nil {
		a.logger.Printf("⚠️  Failed to request notification permission: %v", err)
		return false
	}
	return status == PermissionGranted
}

// Start runs one attempt in a detached goroutine.
// The returned channel yields the outcome and is then closed; a panic inside
// the flow is logged and reported as OutcomeAborted.
func (a *Acquirer) Start(ctx context.Context) <-chan Outcome {
	done := make(chan Outcome, 1)
	go func() {
		defer close(done)
		done <- a.runSafely(ctx)
	}()
	return done
}

func (a *Acquirer) runSafely(ctx context.Context) (outcome Outcome) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Printf("❌ Push registration aborted: %v", r)
			outcome = OutcomeAborted
		}
	}()
	return a.Run(ctx)
}

// AppState is the foreground state reported by the app shell
type AppState int

const (
	AppStateBackground AppState = iota
	AppStateActive
)

// LifecycleEvent is emitted by the app shell whenever foreground or network state changes
type LifecycleEvent struct {
	State            AppState
	NetworkAvailable bool
}

// Watch runs one attempt per foreground session, as soon as the app is active
// with network available. Attempts run in their own goroutines so events keep
// being drained while one is in progress. Watch returns when ctx is done or
// events is closed, after any running attempt has finished.
func (a *Acquirer) Watch(ctx context.Context, events <-chan LifecycleEvent) {
	var wg sync.WaitGroup
	defer wg.Wait()

	attempted := false
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.State != AppStateActive {
				attempted = false
				continue
			}
			if attempted || !ev.NetworkAvailable {
				continue
			}
			attempted = true

			wg.Add(1)
			go func() {
				defer wg.Done()
				outcome := a.runSafely(ctx)
				a.logger.Printf("Push registration attempt finished: %s", outcome)
			}()
		}
	}
}
