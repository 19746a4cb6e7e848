package main

import (
	"log"

	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/bootstrap"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/config"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/internal/server"
	"github.com/XYZ1020411/daily-gem-oasis-sub000/pkg/database"
	"github.com/redis/go-redis/v9"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db := database.Connect()

	if err := bootstrap.Migrate(db); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	if err := bootstrap.SeedRoles(db); err != nil {
		log.Fatalf("failed to seed roles: %v", err)
	}

	if cfg.AppEnv == "development" {
		if err := bootstrap.SeedAdminUser(db); err != nil {
			log.Fatalf("failed to seed admin user: %v", err)
		}
		if err := bootstrap.SeedProducts(db); err != nil {
			log.Fatalf("failed to seed products: %v", err)
		}
	}

	// Redis is optional: without it the event stream and game reward
	// rate limits are disabled, everything else keeps working.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			log.Fatalf("invalid REDIS_URL: %v", err)
		}
		redisClient = redis.NewClient(opts)
	} else {
		log.Println("REDIS_URL not set, running without redis")
	}

	srv := server.NewServer(db, redisClient, cfg)

	log.Printf("🚀 Server listening on :%s", cfg.Port)
	if err := srv.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server exited with error: %v", err)
	}
}
