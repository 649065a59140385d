package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config carries everything main.go wires together. Values come from the
// environment with sensible defaults for local development.
type Config struct {
	Port           string
	AllowedOrigins []string

	AWSRegion string

	// Geofence radius for event check-ins, in kilometers (1 mile).
	CheckinRadiusKm float64

	// Expiry sweep cadence; the sweep window equals this interval.
	SweepInterval time.Duration

	// Local hour of the daily blanket auto-checkout.
	AutoCheckoutHour int

	SMSOriginationNumber string
	FrontendURL          string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	JWTSecret string
}

// Load reads .env (when present) and the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:                 getEnv("PORT", "8080"),
		AllowedOrigins:       []string{getEnv("ALLOWED_ORIGIN", "*")},
		AWSRegion:            getEnv("AWS_REGION", "us-east-1"),
		CheckinRadiusKm:      getFloat("CHECKIN_RADIUS_KM", 1.60934),
		SweepInterval:        getDuration("SWEEP_INTERVAL", time.Minute),
		AutoCheckoutHour:     getInt("AUTO_CHECKOUT_HOUR", 2),
		SMSOriginationNumber: os.Getenv("SMS_ORIGINATION_NUMBER"),
		FrontendURL:          getEnv("FRONTEND_URL", "https://baequests.com"),
		SMTPHost:             os.Getenv("SMTP_HOST"),
		SMTPPort:             getInt("SMTP_PORT", 587),
		SMTPUsername:         os.Getenv("SMTP_USERNAME"),
		SMTPPassword:         os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:             getEnv("SMTP_FROM", "noreply@baequests.com"),
		JWTSecret:            getEnv("JWT_SECRET", "dev-secret"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
