// Package config loads service settings from an optional .env file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	DefaultHTTPAddr   = ":8080"
	DefaultKafkaTopic = "item_recorded"
)

type Config struct {
	HTTPAddr     string
	DatabaseURL  string   // empty selects the in-memory store
	KafkaBrokers []string // empty disables events
	KafkaTopic   string
	LogLevel     string
}

// Load reads the given .env files (".env" when none are given) and then the
// environment. Missing files are ignored; variables already set in the
// environment win over file values.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}

	return Config{
		HTTPAddr:     getenv("HTTP_ADDR", DefaultHTTPAddr),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getenv("KAFKA_TOPIC", DefaultKafkaTopic),
		LogLevel:     getenv("LOG_LEVEL", "info"),
	}, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
