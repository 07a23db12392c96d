package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

var (
	ErrMissingDirs        = errors.New("need exactly input_dir and output_dir")
	ErrInvalidConcurrency = errors.New("concurrency must be at least 1")
)

type Config struct {
	InputDir         string
	OutputDir        string
	Concurrency      int
	FailOnError      bool
	DryRun           bool
	AutoOrient       bool
	ReportPath       string
	LogLevel         string
	ProgressInterval time.Duration

	// Optional sinks. Empty disables the sink.
	RedisAddr    string
	DatabaseURL  string
	KafkaBrokers string
	KafkaTopic   string
	StatusTTL    time.Duration
}

func Load() *Config {
	return &Config{
		Concurrency:      getEnvAsInt("WORKER_COUNT", runtime.NumCPU()),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		ProgressInterval: 200 * time.Millisecond,
		RedisAddr:        getEnv("REDIS_ADDR", ""),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		KafkaBrokers:     getEnv("KAFKA_BROKERS", ""),
		KafkaTopic:       getEnv("KAFKA_TOPIC", "image_outcomes"),
		StatusTTL:        getEnvAsDuration("STATUS_TTL", 24*time.Hour),
	}
}

// Brokers splits KafkaBrokers on commas, dropping blanks.
func (c *Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}

func (c *Config) Level() (zapcore.Level, error) {
	return zapcore.ParseLevel(c.LogLevel)
}

func (c *Config) Validate() error {
	if c.InputDir == "" || c.OutputDir == "" {
		return ErrMissingDirs
	}
	if c.Concurrency < 1 {
		return ErrInvalidConcurrency
	}
	if _, err := c.Level(); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}

// normalizeDir cleans a directory argument, keeping "." for empty input.
func normalizeDir(p string) string {
	if p == "" {
		return "."
	}
	return filepath.Clean(p)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
