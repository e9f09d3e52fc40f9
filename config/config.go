package config

import (
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisHoldDB   int    `mapstructure:"REDIS_HOLD_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Payments.
	StripeKey       string  `mapstructure:"STRIPE_KEY"`
	PayoutCurrency  string  `mapstructure:"PAYOUT_CURRENCY"`
	CustomerFeeRate float64 `mapstructure:"CUSTOMER_FEE_RATE"`
	PlatformFeeRate float64 `mapstructure:"PLATFORM_FEE_RATE"`

	// Booking engine.
	HoldTTLMinutes        int    `mapstructure:"HOLD_TTL_MINUTES"`
	LeadTimeHours         int    `mapstructure:"LEAD_TIME_HOURS"`
	Timezone              string `mapstructure:"TIMEZONE"`
	RequestTimeoutSeconds int    `mapstructure:"REQUEST_TIMEOUT_SECONDS"`
	IntegrityScanCron     string `mapstructure:"INTEGRITY_SCAN_CRON"`

	// Firebase service account used for push notifications.
	FirebaseCredentialsFile string `mapstructure:"FIREBASE_CREDENTIALS_FILE"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "carebook")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_HOLD_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("STRIPE_KEY", "")
	viper.SetDefault("PAYOUT_CURRENCY", "eur")
	viper.SetDefault("CUSTOMER_FEE_RATE", 0.10)
	viper.SetDefault("PLATFORM_FEE_RATE", 0.15)
	viper.SetDefault("HOLD_TTL_MINUTES", 15)
	viper.SetDefault("LEAD_TIME_HOURS", 24)
	viper.SetDefault("TIMEZONE", "UTC")
	viper.SetDefault("REQUEST_TIMEOUT_SECONDS", 15)
	viper.SetDefault("INTEGRITY_SCAN_CRON", "@every 1h")
	viper.SetDefault("FIREBASE_CREDENTIALS_FILE", "")
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// Location resolves TIMEZONE, falling back to UTC when it is unknown.
func Location() *time.Location {
	if AppConfig.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(AppConfig.Timezone)
	if err != nil {
		log.Printf("config: unknown TIMEZONE %q, using UTC", AppConfig.Timezone)
		return time.UTC
	}
	return loc
}

func HoldTTL() time.Duration {
	return time.Duration(AppConfig.HoldTTLMinutes) * time.Minute
}

func LeadTime() time.Duration {
	return time.Duration(AppConfig.LeadTimeHours) * time.Hour
}

func RequestTimeout() time.Duration {
	return time.Duration(AppConfig.RequestTimeoutSeconds) * time.Second
}
