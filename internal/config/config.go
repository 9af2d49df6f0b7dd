// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/kasho-dev/WorkFlow-Pay/pkg/db"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string
	DB         db.Config

	// WeekStartsOn is the first day of the calendar week used by the
	// weekly summary default range. The reference deployment and its
	// browser client disagreed (Sunday vs Monday), so the convention is
	// an explicit setting rather than a guess.
	WeekStartsOn time.Weekday

	// RateLimitPerMinute caps requests per client IP. Zero disables the limiter.
	RateLimitPerMinute int

	// AllowedOrigins is the CORS allow-list.
	AllowedOrigins []string

	// MaxBodyBytes caps the size of accepted JSON request bodies.
	MaxBodyBytes int64
}

// LoadConfig loads configuration from environment variables, reading an
// optional .env file first. It returns an AppConfig instance or an error
// if any variable is present but invalid.
func LoadConfig() (*AppConfig, error) {
	_ = godotenv.Load() // optional, absent in production

	serverPort := getenv("SERVER_PORT", "8080")

	dbPort, err := strconv.Atoi(getenv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	weekStart, err := ParseWeekday(getenv("WEEK_STARTS_ON", "sunday"))
	if err != nil {
		return nil, fmt.Errorf("invalid WEEK_STARTS_ON: %w", err)
	}

	rateLimit := 0
	if v := os.Getenv("RATE_LIMIT_PER_MINUTE"); v != "" {
		rateLimit, err = strconv.Atoi(v)
		if err != nil || rateLimit < 0 {
			return nil, fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE: %q", v)
		}
	}

	maxBody := int64(10 << 10) // 10 KiB, matching the reference deployment
	if v := os.Getenv("MAX_BODY_BYTES"); v != "" {
		maxBody, err = strconv.ParseInt(v, 10, 64)
		if err != nil || maxBody <= 0 {
			return nil, fmt.Errorf("invalid MAX_BODY_BYTES: %q", v)
		}
	}

	var origins []string
	for _, o := range strings.Split(getenv("ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:3001"), ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}

	return &AppConfig{
		ServerPort: serverPort,
		DB: db.Config{
			Host:     getenv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getenv("DB_USER", "user"),
			Password: getenv("DB_PASSWORD", "password"),
			DBName:   getenv("DB_NAME", "workflowpay"),
			SSLMode:  getenv("DB_SSLMODE", "disable"),
		},
		WeekStartsOn:       weekStart,
		RateLimitPerMinute: rateLimit,
		AllowedOrigins:     origins,
		MaxBodyBytes:       maxBody,
	}, nil
}

// ParseWeekday maps a week-start setting to a time.Weekday.
// Only "sunday" and "monday" are meaningful week starts for this system.
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	default:
		return time.Sunday, fmt.Errorf("unsupported week start %q (want sunday or monday)", s)
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
