package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
// A .env file in the working directory is loaded first when present.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Matrix input and CSV output locations for the cycle driver.
	DataDir    string
	LatFile    string
	LonFile    string
	S4CFile    string
	OutputFile string

	// Alert log settings.
	AlertLogPath   string
	AlertThreshold float64
	RetentionDays  int

	CycleInterval time.Duration

	// GitHub publishing of data.csv (enabled when a token is set).
	GitHubEnabled bool
	GitHubToken   string
	GitHubOwner   string
	GitHubRepo    string
	GitHubPath    string

	// Optional Kafka delivery of alert candidates.
	KafkaEnabled    bool
	KafkaBrokers    []string
	KafkaAlertTopic string

	// Optional Redis-backed result store for the query endpoints.
	RedisEnabled bool
	RedisAddr    string
}

// Load reads configuration from the environment, applying defaults where
// unset and validating the result.
func Load() (*Config, error) {
	_ = godotenv.Load()

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cycleInterval, err := parseDuration("CYCLE_INTERVAL", "15m")
	if err != nil {
		return nil, err
	}
	threshold, err := parseFloat("ALERT_THRESHOLD", "0.4")
	if err != nil {
		return nil, err
	}
	retentionDays, err := parseInt("RETENTION_DAYS", "60")
	if err != nil {
		return nil, err
	}

	githubToken := os.Getenv("GITHUB_TOKEN")
	githubEnabled := githubToken != ""
	if v := os.Getenv("GITHUB_ENABLED"); v != "" {
		githubEnabled = v == "true"
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		DataDir:    envOrDefault("DATA_DIR", "data"),
		LatFile:    envOrDefault("LAT_FILE", "SN560_Lat_last15min.csv"),
		LonFile:    envOrDefault("LON_FILE", "SN560_Lon_last15min.csv"),
		S4CFile:    envOrDefault("S4C_FILE", "SN560_S4C_last15min.csv"),
		OutputFile: envOrDefault("OUTPUT_FILE", "data/data.csv"),

		AlertLogPath:   envOrDefault("ALERT_LOG_PATH", "data/alert_log.csv"),
		AlertThreshold: threshold,
		RetentionDays:  retentionDays,
		CycleInterval:  cycleInterval,

		GitHubEnabled: githubEnabled,
		GitHubToken:   githubToken,
		GitHubOwner:   os.Getenv("GITHUB_OWNER"),
		GitHubRepo:    os.Getenv("GITHUB_REPO"),
		GitHubPath:    envOrDefault("GITHUB_PATH", "data.csv"),

		KafkaEnabled:    os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:    parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaAlertTopic: envOrDefault("KAFKA_ALERT_TOPIC", "scintillation-alerts"),

		RedisEnabled: os.Getenv("REDIS_ENABLED") == "true",
		RedisAddr:    envOrDefault("REDIS_ADDR", "localhost:6379"),
	}

	if cfg.AlertThreshold <= 0 {
		return nil, errors.New("ALERT_THRESHOLD must be positive")
	}
	if cfg.RetentionDays <= 0 {
		return nil, errors.New("RETENTION_DAYS must be positive")
	}
	if cfg.GitHubEnabled {
		if cfg.GitHubToken == "" {
			return nil, errors.New("GITHUB_ENABLED is true but GITHUB_TOKEN is not set")
		}
		if cfg.GitHubOwner == "" || cfg.GitHubRepo == "" {
			return nil, errors.New("GITHUB_OWNER and GITHUB_REPO are required when GitHub upload is enabled")
		}
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(envOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}

func parseFloat(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(envOrDefault(key, def), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parseInt(key, def string) (int, error) {
	v, err := strconv.Atoi(envOrDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return v, nil
}

func parseBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
