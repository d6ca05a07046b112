package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	_ "github.com/joho/godotenv/autoload"
)

const (
	EnvLocal = "local"
	EnvProd  = "prod"
)

// Config keeps runtime settings for the service. Values come from the
// environment (a .env file is honored in development).
type Config struct {
	Env           string `env:"ENV" env-default:"local"`
	TelegramToken string `env:"TELEGRAM_TOKEN"`
	DatabaseURL   string `env:"DATABASE_URL" env-default:"reliabot.db"`

	HTTP       HTTPConfig
	Reminder   ReminderConfig
	Completion CompletionPolicy
}

type HTTPConfig struct {
	Host            string        `env:"HTTP_HOST" env-default:"0.0.0.0"`
	Port            string        `env:"HTTP_PORT" env-default:"8080"`
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" env-default:"5s"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:5173"`
	RateLimitRPS    float64       `env:"HTTP_RATE_LIMIT_RPS" env-default:"20"`
	RateLimitBurst  int           `env:"HTTP_RATE_LIMIT_BURST" env-default:"40"`
}

type ReminderConfig struct {
	ScanInterval time.Duration `env:"REMINDER_SCAN_INTERVAL" env-default:"1m"`
	SendTimeout  time.Duration `env:"REMINDER_SEND_TIMEOUT" env-default:"10s"`
}

// CompletionPolicy controls whether completing a task also counts as the
// day's streak check-in. The two legacy surfaces disagreed on this, so it
// is an explicit switch instead of hard-wired behavior.
type CompletionPolicy struct {
	UpdateStreak bool `env:"STREAK_ON_COMPLETE" env-default:"true"`
}

// Load reads configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("read env: %w", err)
	}
	if cfg.Reminder.ScanInterval <= 0 {
		return cfg, fmt.Errorf("REMINDER_SCAN_INTERVAL must be positive")
	}
	return cfg, nil
}
