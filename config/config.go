package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/fx"
)

// Config holds all configuration for the relay bot
type Config struct {
	Telegram  TelegramConfig
	Extractor ExtractorConfig
	Relay     RelayConfig
	Kafka     KafkaConfig
	Logging   LoggingConfig
	Service   ServiceConfig
}

// TelegramConfig holds Telegram bot configuration
type TelegramConfig struct {
	BotToken string
}

// ExtractorConfig holds yt-dlp options. They are fixed for the lifetime
// of the process.
type ExtractorConfig struct {
	Executable     string
	Format         string
	OutputTemplate string
	Retries        int
	NoPlaylist     bool
	Quiet          bool
	Timeout        time.Duration // 0 disables the timeout
	AutoInstall    bool
}

// RelayConfig holds request handling configuration
type RelayConfig struct {
	TempDir       string
	MaxConcurrent int // 0 means unlimited
}

// KafkaConfig holds Kafka configuration. Empty Brokers disables events.
type KafkaConfig struct {
	Brokers    []string
	RelayTopic string
}

// Enabled reports whether relay events should be published
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// ServiceConfig holds service configuration
type ServiceConfig struct {
	Name string
	Port string
}

// Result provides config parts for fx dependency injection using fx.Out pattern
type Result struct {
	fx.Out

	Config    *Config
	Telegram  *TelegramConfig
	Extractor *ExtractorConfig
	Relay     *RelayConfig
	Kafka     *KafkaConfig
	Logging   *LoggingConfig
	Service   *ServiceConfig
}

// Out loads configuration and returns Result for fx injection
func Out() (Result, error) {
	cfg, err := Load()
	if err != nil {
		return Result{}, err
	}

	return Result{
		Config:    cfg,
		Telegram:  &cfg.Telegram,
		Extractor: &cfg.Extractor,
		Relay:     &cfg.Relay,
		Kafka:     &cfg.Kafka,
		Logging:   &cfg.Logging,
		Service:   &cfg.Service,
	}, nil
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	retries, err := getEnvInt("YTDLP_RETRIES", 3)
	if err != nil {
		return nil, err
	}

	timeout, err := getEnvDuration("YTDLP_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}

	maxConcurrent, err := getEnvInt("RELAY_MAX_CONCURRENT_DOWNLOADS", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Telegram: TelegramConfig{
			BotToken: getEnv("BOT_TOKEN", getEnv("TELEGRAM_BOT_TOKEN", "")),
		},
		Extractor: ExtractorConfig{
			Executable:     getEnv("YTDLP_PATH", "yt-dlp"),
			Format:         getEnv("YTDLP_FORMAT", "bestvideo[ext=mp4]+bestaudio[ext=m4a]/best"),
			OutputTemplate: getEnv("YTDLP_OUTPUT_TEMPLATE", "%(id)s.%(ext)s"),
			Retries:        retries,
			NoPlaylist:     getEnvBool("YTDLP_NO_PLAYLIST", true),
			Quiet:          getEnvBool("YTDLP_QUIET", true),
			Timeout:        timeout,
			AutoInstall:    getEnvBool("YTDLP_AUTO_INSTALL", false),
		},
		Relay: RelayConfig{
			TempDir:       getEnv("RELAY_TEMP_DIR", os.TempDir()),
			MaxConcurrent: maxConcurrent,
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(getEnv("KAFKA_BROKERS", "")),
			RelayTopic: getEnv("KAFKA_RELAY_TOPIC", "media.relay.completed"),
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
		Service: ServiceConfig{
			Name: getEnv("SERVICE_NAME", "hdtokster"),
			Port: getEnv("SERVICE_PORT", "8081"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("BOT_TOKEN is required")
	}

	if c.Extractor.Executable == "" {
		return fmt.Errorf("YTDLP_PATH must not be empty")
	}

	if !strings.Contains(c.Extractor.OutputTemplate, "%(id)s") {
		return fmt.Errorf("YTDLP_OUTPUT_TEMPLATE must contain %%(id)s")
	}

	if c.Extractor.Retries < 0 {
		return fmt.Errorf("YTDLP_RETRIES must not be negative")
	}

	if c.Extractor.Timeout < 0 {
		return fmt.Errorf("YTDLP_TIMEOUT must not be negative")
	}

	if c.Relay.MaxConcurrent < 0 {
		return fmt.Errorf("RELAY_MAX_CONCURRENT_DOWNLOADS must not be negative")
	}

	if c.Kafka.Enabled() && c.Kafka.RelayTopic == "" {
		return fmt.Errorf("KAFKA_RELAY_TOPIC is required when KAFKA_BROKERS is set")
	}

	return nil
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return defaultValue
	}
	return b
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

// splitList splits a comma separated list and drops empty items
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
