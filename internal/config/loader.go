package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the booking service.
type Config struct {
	HTTPPort      int
	SQLiteDSN     string
	TokenSecret   string
	TokenTTL      time.Duration
	AuthRateLimit float64
	AuthRateBurst int
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields while validating
// required values and accumulating every missing or invalid entry into a
// single error.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:      8080,
		SQLiteDSN:     "file:roombook.db?_foreign_keys=on",
		TokenTTL:      24 * time.Hour,
		AuthRateLimit: 5,
		AuthRateBurst: 10,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("ROOMBOOK_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "ROOMBOOK_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("ROOMBOOK_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if secret := strings.TrimSpace(os.Getenv("ROOMBOOK_TOKEN_SECRET")); secret == "" {
		missing = append(missing, "ROOMBOOK_TOKEN_SECRET")
	} else {
		cfg.TokenSecret = secret
	}

	if ttlValue := strings.TrimSpace(os.Getenv("ROOMBOOK_TOKEN_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "ROOMBOOK_TOKEN_TTL")
		} else {
			cfg.TokenTTL = ttl
		}
	}

	if limitValue := strings.TrimSpace(os.Getenv("ROOMBOOK_AUTH_RATE_LIMIT")); limitValue != "" {
		limit, err := strconv.ParseFloat(limitValue, 64)
		if err != nil || limit <= 0 {
			invalid = append(invalid, "ROOMBOOK_AUTH_RATE_LIMIT")
		} else {
			cfg.AuthRateLimit = limit
		}
	}

	if burstValue := strings.TrimSpace(os.Getenv("ROOMBOOK_AUTH_RATE_BURST")); burstValue != "" {
		burst, err := strconv.Atoi(burstValue)
		if err != nil || burst <= 0 {
			invalid = append(invalid, "ROOMBOOK_AUTH_RATE_BURST")
		} else {
			cfg.AuthRateBurst = burst
		}
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
