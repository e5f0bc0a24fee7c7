package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL     string
	JWTSecret       string
	JWTTTL          time.Duration
	HTTPAddr        string
	Environment     string
	SlotStepMinutes int
}

// Load reads configuration from the environment, optionally seeded from a
// .env file. DATABASE_URL and JWT_SECRET are required.
func Load() (*Config, error) {
	_ = godotenv.Load(".env")

	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		JWTTTL:          24 * time.Hour,
		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		Environment:     os.Getenv("ENV"),
		SlotStepMinutes: 0, // 0 = step equals service duration
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required but not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required but not set")
	}
	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if v := os.Getenv("JWT_TTL_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil || hours <= 0 {
			return nil, fmt.Errorf("JWT_TTL_HOURS must be a positive integer")
		}
		cfg.JWTTTL = time.Duration(hours) * time.Hour
	}

	if v := os.Getenv("SLOT_STEP_MINUTES"); v != "" {
		step, err := strconv.Atoi(v)
		if err != nil || step < 0 {
			return nil, fmt.Errorf("SLOT_STEP_MINUTES must be a non-negative integer")
		}
		cfg.SlotStepMinutes = step
	}

	return cfg, nil
}
