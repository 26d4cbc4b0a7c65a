package main

import (
	"flag"
	"log"

	"github.com/quocanhngo/pushreg/internal/config"
	"github.com/quocanhngo/pushreg/migrations"
)

func main() {
	cmd := flag.String("cmd", "up", "Command: up|down|version")
	flag.Parse()

	cfg := config.Load()
	dbURL := cfg.DB.URL()

	switch *cmd {
	case "up":
		if err := migrations.Run(dbURL); err != nil {
			log.Fatalf("❌ %v", err)
		}
	case "down":
		if err := migrations.Rollback(dbURL); err != nil {
			log.Fatalf("❌ %v", err)
		}
	case "version":
		version, dirty, err := migrations.Version(dbURL)
		if err != nil {
			log.Fatalf("❌ %v", err)
		}
		log.Printf("📦 Schema version: %d (dirty: %v)", version, dirty)
	default:
		log.Fatalf("❌ Unknown command %q", *cmd)
	}
}
