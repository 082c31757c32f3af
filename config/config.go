package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds every deployment-level setting, all read from the environment
type Config struct {
	ListenAddr  string
	Environment string

	// RedisURL is optional. When empty the service runs entirely in memory.
	RedisURL string

	JWTSecret string
	TokenTTL  time.Duration

	RPID          string
	RPDisplayName string
	RPOrigin      string
	ChallengeTTL  time.Duration
}

// Load reads the configuration from the environment. A missing JWT_SECRET is
// a hard error in production and a warned-about fallback everywhere else.
func Load() (Config, error) {
	cfg := Config{
		ListenAddr:  getEnv("LISTEN_ADDR", ":8080"),
		Environment: getEnv("APP_ENV", "development"),
		RedisURL:    os.Getenv("REDIS_URL"),

		JWTSecret: os.Getenv("JWT_SECRET"),
		TokenTTL:  getSeconds("JWT_TTL_SECONDS", 7200),

		RPID:          getEnv("WEBAUTHN_RP_ID", "localhost"),
		RPDisplayName: getEnv("WEBAUTHN_RP_NAME", "Pardee Foods Attendance"),
		RPOrigin:      getEnv("WEBAUTHN_ORIGIN", "http://localhost:3000"),
		ChallengeTTL:  getSeconds("WEBAUTHN_CHALLENGE_TTL_SECONDS", 300),
	}

	if cfg.JWTSecret == "" {
		if cfg.Environment == "production" {
			return Config{}, errors.New("JWT_SECRET must be set in production")
		}
		log.Println("warning: JWT_SECRET not set, using insecure development fallback")
		cfg.JWTSecret = "dev-secret-change-me"
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getSeconds(key string, fallback int64) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return time.Duration(fallback) * time.Second
	}
	seconds, err := strconv.ParseInt(value, 10, 64)
	if err != nil || seconds <= 0 {
		log.Printf("warning: invalid %s=%q, using default %ds", key, value, fallback)
		return time.Duration(fallback) * time.Second
	}
	return time.Duration(seconds) * time.Second
}
