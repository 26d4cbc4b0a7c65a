package main

import (
	"context"
	"fmt"
	"log"

	"github.com/quocanhngo/pushreg/internal/config"
	"github.com/quocanhngo/pushreg/internal/model"
	"github.com/quocanhngo/pushreg/internal/repository"
	"github.com/quocanhngo/pushreg/internal/service"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	cfg := config.Load()
	ctx := context.Background()

	// Force DB logging off to avoid noise
	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to Database")

	repo := repository.NewNotificationTokenRepository(db)
	svc := service.NewNotificationService(repo)

	log.Println("🌱 Seeding 6 demo devices...")

	for i := 1; i <= 6; i++ {
		platform := model.PlatformIOS
		if i%2 == 0 {
			platform = model.PlatformAndroid
		}
		deviceID := fmt.Sprintf("demo-device-%d", i)

		// Register twice: the second call rotates the token on the same row
		for _, suffix := range []string{"initial", "rotated"} {
			req := model.RegisterTokenRequest{
				DeviceID: deviceID,
				Token:    fmt.Sprintf("demo-token-%d-%s", i, suffix),
				Platform: platform,
			}
			token, err := svc.RegisterToken(ctx, req)
			if err != nil {
				log.Printf("❌ Failed to register %s: %v", deviceID, err)
				break
			}
			log.Printf("✅ %s | %s | token=%s | id=%s", deviceID, platform, token.Token, token.ID)
		}
	}

	count, err := repo.Count(ctx)
	if err != nil {
		log.Fatalf("❌ Failed to count registrations: %v", err)
	}
	log.Printf("🎉 Seeding completed! (%d registered devices)", count)
}
