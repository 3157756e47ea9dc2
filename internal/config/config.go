// Package config loads the server configuration from SPLITTER_* environment variables.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "SPLITTER_"

// Config holds the server configuration.
type Config struct {
	Port               int           `validate:"min=1,max=65535"`
	DBPath             string        `validate:"required"`
	SessionTTL         time.Duration `validate:"gt=0"`
	SweepInterval      time.Duration `validate:"gt=0"`
	CORSAllowedOrigins []string      `validate:"min=1,dive,required"`
	LogLevel           string        `validate:"oneof=debug info warn error"`
	LogFormat          string        `validate:"oneof=text json"`
	MetricsNamespace   string        `validate:"required"`
}

// Load reads configuration from the environment, fills defaults and validates the result.
func Load() (*Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	port, err := strconv.Atoi(valueOrDefault(k.String("port"), "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid %sPORT: %w", EnvPrefix, err)
	}
	sessionTTL, err := time.ParseDuration(valueOrDefault(k.String("session_ttl"), "2h"))
	if err != nil {
		return nil, fmt.Errorf("invalid %sSESSION_TTL: %w", EnvPrefix, err)
	}
	sweepInterval, err := time.ParseDuration(valueOrDefault(k.String("sweep_interval"), "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid %sSWEEP_INTERVAL: %w", EnvPrefix, err)
	}

	cfg := &Config{
		Port:               port,
		DBPath:             valueOrDefault(k.String("db_path"), ":memory:"),
		SessionTTL:         sessionTTL,
		SweepInterval:      sweepInterval,
		CORSAllowedOrigins: splitAndTrim(valueOrDefault(k.String("cors_allowed_origins"), "*")),
		LogLevel:           strings.ToLower(valueOrDefault(k.String("log_level"), "info")),
		LogFormat:          strings.ToLower(valueOrDefault(k.String("log_format"), "text")),
		MetricsNamespace:   valueOrDefault(k.String("metrics_namespace"), "splitter"),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// HTTPAddr returns the address the HTTP server should bind to.
func (c *Config) HTTPAddr() string {
	return ":" + strconv.Itoa(c.Port)
}

func splitAndTrim(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func valueOrDefault(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return fallback
}
