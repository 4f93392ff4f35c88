package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/addalive/admin_console/config"
	"github.com/addalive/admin_console/internal/export"
	"github.com/addalive/admin_console/internal/routes"
	"github.com/addalive/admin_console/internal/session"
)

func main() {
	cfg := config.NewConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	catalog, err := config.LoadCatalog()
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	deps := routes.Deps{Config: cfg, Catalog: catalog}

	switch cfg.SessionStore {
	case config.StoreRedis:
		rdb := config.NewRedisClient(cfg)
		defer rdb.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rdb.Ping(ctx).Err(); err != nil {
			cancel()
			log.Fatalf("Failed to connect to Redis at %s: %v", cfg.RedisAddr, err)
		}
		cancel()
		deps.Store = session.NewRedisStore(rdb)
		log.Printf("✅ Sessions in Redis at %s", cfg.RedisAddr)
	default:
		deps.Store = session.NewMemoryStore()
		log.Println("⚠️ Sessions kept in memory; they are lost on restart")
	}

	if cfg.GoogleCredentialsFile != "" {
		sheets, err := export.NewSheetsFromFile(context.Background(), cfg.GoogleCredentialsFile)
		if err != nil {
			log.Printf("❌ Google Sheets export disabled: %v", err)
		} else {
			deps.Sheets = sheets
		}
	}

	router, err := routes.Setup(deps)
	if err != nil {
		log.Fatalf("Failed to build router: %v", err)
	}

	serverAddress := ":" + cfg.ServerPort
	log.Printf("🚀 Admin console on %s, backend %s", serverAddress, cfg.APIBaseURL)
	log.Fatal(http.ListenAndServe(serverAddress, router))
}
