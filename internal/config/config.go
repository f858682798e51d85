package config

import (
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
)

// Config holds runtime configuration values for the quiz API server.
type Config struct {
	DBPath        string
	ServerPort    int
	LogLevel      string
	SentryDSN     string
	Environment   string
	ShutdownGrace time.Duration
	RateLimit     RateLimitConfig
}

// RateLimitConfig tunes the per-client HTTP rate limiter.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

const (
	defaultDBPath         = "./data/quizdesk.db"
	defaultServerPort     = 8080
	defaultLogLevel       = "info"
	defaultShutdownGrace  = 10 * time.Second
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultRateLimitTTL   = 5 * time.Minute
)

// Load reads configuration values from environment variables, applying
// defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		DBPath:        getEnv("DB_PATH", defaultDBPath),
		LogLevel:      getEnv("LOG_LEVEL", defaultLogLevel),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		Environment:   os.Getenv("ENV"),
		ShutdownGrace: defaultShutdownGrace,
		RateLimit: RateLimitConfig{
			RequestsPerSecond: defaultRateLimitRPS,
			Burst:             defaultRateLimitBurst,
			ClientTTL:         defaultRateLimitTTL,
		},
	}

	portValue := getEnv("SERVER_PORT", strconv.Itoa(defaultServerPort))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SERVER_PORT value: %s", portValue)
	}
	cfg.ServerPort = port

	if rpsValue := os.Getenv("RATE_LIMIT_RPS"); rpsValue != "" {
		rps, err := strconv.ParseFloat(rpsValue, 64)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid RATE_LIMIT_RPS value: %s", rpsValue)
		}
		cfg.RateLimit.RequestsPerSecond = rps
	}

	if burstValue := os.Getenv("RATE_LIMIT_BURST"); burstValue != "" {
		burst, err := strconv.Atoi(burstValue)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid RATE_LIMIT_BURST value: %s", burstValue)
		}
		cfg.RateLimit.Burst = burst
	}

	if ttlValue := os.Getenv("RATE_LIMIT_TTL"); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil {
			return nil, eris.Wrapf(err, "invalid RATE_LIMIT_TTL value: %s", ttlValue)
		}
		cfg.RateLimit.ClientTTL = ttl
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
