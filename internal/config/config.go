package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultHTTPAddr        = ":8080"
	defaultAppEnv          = "production"
	defaultLogLevel        = "info"
	defaultKafkaBrokers    = "localhost:9092"
	defaultKafkaTopic      = "transfer_notifications"
	defaultShutdownTimeout = 10 * time.Second
)

const (
	NotifierLog   = "log"
	NotifierKafka = "kafka"
)

type Config struct {
	HTTPAddr        string
	AppEnv          string
	LogLevel        string
	Notifier        string
	KafkaBrokers    []string
	KafkaTopic      string
	ShutdownTimeout time.Duration
}

// Load reads the configuration from the environment. Values from a .env file
// in the working directory are applied first without overriding variables
// already set in the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{
		HTTPAddr:   valueOrDefault(getenv("HTTP_ADDR"), defaultHTTPAddr),
		AppEnv:     strings.ToLower(valueOrDefault(getenv("APP_ENV"), defaultAppEnv)),
		LogLevel:   strings.ToLower(valueOrDefault(getenv("LOG_LEVEL"), defaultLogLevel)),
		Notifier:   strings.ToLower(valueOrDefault(getenv("NOTIFIER"), NotifierLog)),
		KafkaTopic: valueOrDefault(getenv("KAFKA_TOPIC"), defaultKafkaTopic),
	}

	switch cfg.Notifier {
	case NotifierLog, NotifierKafka:
	default:
		return Config{}, fmt.Errorf("NOTIFIER must be one of %s, %s", NotifierLog, NotifierKafka)
	}

	cfg.KafkaBrokers = splitList(valueOrDefault(getenv("KAFKA_BROKERS"), defaultKafkaBrokers))
	if cfg.Notifier == NotifierKafka && len(cfg.KafkaBrokers) == 0 {
		return Config{}, fmt.Errorf("KAFKA_BROKERS is required when NOTIFIER is %s", NotifierKafka)
	}

	cfg.ShutdownTimeout = defaultShutdownTimeout
	if raw := strings.TrimSpace(getenv("SHUTDOWN_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("parse SHUTDOWN_TIMEOUT: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
		}
		cfg.ShutdownTimeout = d
	}

	return cfg, nil
}

func valueOrDefault(raw, fallback string) string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return fallback
	}
	return v
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
