package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DB       DBConfig
	Telegram TelegramConfig
	Checkout CheckoutConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Enabled reports whether the optional order archive should be wired up.
// Leaving DB_HOST unset keeps the storefront purely in-memory.
func (c DBConfig) Enabled() bool {
	return c.Host != ""
}

type TelegramConfig struct {
	Token string
}

type CheckoutConfig struct {
	SubmitDelay  time.Duration // simulated order submission latency
	PlacedWindow time.Duration // how long the "order placed" state is shown
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	submitMs, _ := strconv.Atoi(getEnv("SUBMIT_DELAY_MS", "1200"))
	placedMs, _ := strconv.Atoi(getEnv("PLACED_BANNER_MS", "3000"))

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", ""),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "foodify"),
		},
		Telegram: TelegramConfig{
			Token: getEnv("TOKEN", ""),
		},
		Checkout: CheckoutConfig{
			SubmitDelay:  time.Duration(submitMs) * time.Millisecond,
			PlacedWindow: time.Duration(placedMs) * time.Millisecond,
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
