// Command registrar simulates a device app start: it acquires a push token
// and registers it with the backend the same way the mobile shell does.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/quocanhngo/pushreg/internal/config"
	"github.com/quocanhngo/pushreg/pkg/pushclient"
)

// simulatedNotifications stands in for the OS push service
type simulatedNotifications struct {
	permission pushclient.Permission
	grant      bool
	token      string
}

func (s *simulatedNotifications) GetPermission(ctx context.Context) (pushclient.Permission, error) {
	return s.permission, nil
}

func (s *simulatedNotifications) RequestPermission(ctx context.Context) (pushclient.Permission, error) {
	if s.grant {
		s.permission = pushclient.PermissionGranted
	} else {
		s.permission = pushclient.PermissionDenied
	}
	log.Printf("🔔 Permission prompt answered: %s", s.permission)
	return s.permission, nil
}

func (s *simulatedNotifications) GetPushToken(ctx context.Context) (string, error) {
	if s.token == "" {
		return "", errors.New("push service returned no token")
	}
	return s.token, nil
}

func main() {
	cfg := config.Load()

	server := flag.String("server", cfg.Client.BaseURL, "Backend base URL")
	token := flag.String("token", "", "Push token issued by the notification service")
	platform := flag.String("platform", "android", "Device platform: ios|android")
	simulator := flag.Bool("simulator", false, "Pretend to run on a simulator/emulator")
	permission := flag.String("permission", string(pushclient.PermissionUndetermined), "Current permission: granted|denied|undetermined")
	grant := flag.Bool("grant", true, "Answer to the permission prompt")
	tap := flag.String("tap", "", "JSON data payload of a tapped notification to open after registering")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	acquirer := pushclient.NewAcquirer(
		&simulatedNotifications{
			permission: pushclient.Permission(*permission),
			grant:      *grant,
			token:      *token,
		},
		pushclient.NewHostDevice(*platform, *simulator),
		pushclient.NewClient(*server, pushclient.WithTimeout(cfg.Client.Timeout)),
		pushclient.WithLogger(log.Default()),
	)

	// The content view would keep rendering here; the simulator just waits for the side channel
	outcome := <-acquirer.Start(ctx)
	log.Printf("📱 Registration flow finished: %s", outcome)

	if *tap != "" {
		openTappedNotification(*tap)
	}
}

// openTappedNotification reports the page the content view would navigate to
func openTappedNotification(payload string) {
	var data map[string]any
	if err := json.Unmarshal([]byte(payload), &data); err != nil {
		log.Printf("⚠️  Invalid notification payload: %v", err)
		return
	}
	link, ok := pushclient.DeepLinkFromResponse(data)
	if !ok {
		log.Println("⚠️  Notification carries no openable url")
		return
	}
	log.Printf("🔗 Opening %s", link)
}
