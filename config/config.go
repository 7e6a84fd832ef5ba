package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	DB       DBConfig
	Telegram TelegramConfig
	App      AppConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string // empty disables the Postgres order archive
}

type TelegramConfig struct {
	Token string
}

type AppConfig struct {
	DeliveryFee  decimal.Decimal
	SplashDelay  time.Duration
	CourierDelay time.Duration // simulated courier response time
	DropoffLine  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))

	fee, err := decimal.NewFromString(getEnv("DELIVERY_FEE", "2.99"))
	if err != nil {
		return nil, err
	}
	splashSec, _ := strconv.Atoi(getEnv("SPLASH_DELAY_SECONDS", "2"))
	courierSec, _ := strconv.Atoi(getEnv("COURIER_DELAY_SECONDS", "4"))

	return &Config{
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     port,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", ""),
		},
		Telegram: TelegramConfig{
			Token: getEnv("TOKEN", ""),
		},
		App: AppConfig{
			DeliveryFee:  fee,
			SplashDelay:  time.Duration(splashSec) * time.Second,
			CourierDelay: time.Duration(courierSec) * time.Second,
			DropoffLine:  getEnv("DROPOFF_ADDRESS", "22 Borrowdale Road, Harare"),
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
