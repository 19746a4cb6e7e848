package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins string

	DatabaseURL string
	RedisURL    string

	MeiliSearchHost string
	MeiliMasterKey  string

	NotifyWebhookURL string

	// Check-in reward: base + vip_level * bonus.
	CheckinBasePoints int
	CheckinVIPBonus   int

	GameRewardPoints   int
	GameRewardCooldown time.Duration

	// Whether rejecting a pending exchange refunds the points and
	// restores the stock.
	ExchangeRefundOnReject bool
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "http://localhost:3000"),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		RedisURL:    os.Getenv("REDIS_URL"),

		MeiliSearchHost: getEnv("MEILISEARCH_HOST", "http://localhost:7700"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		NotifyWebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
	}

	var err error
	cfg.CheckinBasePoints, err = parseInt(getEnv("CHECKIN_BASE_POINTS", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHECKIN_BASE_POINTS: %w", err)
	}
	cfg.CheckinVIPBonus, err = parseInt(getEnv("CHECKIN_VIP_BONUS", "50"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHECKIN_VIP_BONUS: %w", err)
	}
	cfg.GameRewardPoints, err = parseInt(getEnv("GAME_REWARD_POINTS", "20"))
	if err != nil {
		return nil, fmt.Errorf("invalid GAME_REWARD_POINTS: %w", err)
	}
	cfg.GameRewardCooldown, err = time.ParseDuration(getEnv("GAME_REWARD_COOLDOWN", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid GAME_REWARD_COOLDOWN: %w", err)
	}
	cfg.ExchangeRefundOnReject, err = strconv.ParseBool(getEnv("EXCHANGE_REFUND_ON_REJECT", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid EXCHANGE_REFUND_ON_REJECT: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(s)
}
