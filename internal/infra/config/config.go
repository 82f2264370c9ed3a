package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultEndpoint     = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultPollInterval = 600 * time.Second
	MinPollInterval     = time.Second
)

// MissingError lists required variables that are not set.
type MissingError struct {
	Keys []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("required environment variables are not set: %s", strings.Join(e.Keys, ", "))
}

// InvalidError reports a variable that is set but cannot be parsed.
type InvalidError struct {
	Key string
	Err error
}

func (e *InvalidError) Error() string {
	return fmt.Sprintf("invalid %s: %v", e.Key, e.Err)
}

func (e *InvalidError) Unwrap() error { return e.Err }

// AppConfig holds all configuration for the application
type AppConfig struct {
	PracticumToken string
	TelegramToken  string
	TelegramChatID int64
	TelegramAPIURL string // empty: telebot default
	Endpoint       string
	PollInterval   time.Duration
	LogLevel       string
	Environment    string
	LogFile        string // empty: stdout only
	DatabaseURL    string // empty: delivery journal disabled
	BotCommands    bool
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var missing []string

	cfg.PracticumToken = firstEnv("PRACTICUM_TOKEN", "YA_TOKEN")
	if cfg.PracticumToken == "" {
		missing = append(missing, "PRACTICUM_TOKEN")
	}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}

	chatIDStr := firstEnv("TELEGRAM_CHAT_ID", "CHAT_ID")
	if chatIDStr == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}

	if len(missing) > 0 {
		return nil, &MissingError{Keys: missing}
	}

	var err error
	cfg.TelegramChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, &InvalidError{Key: "TELEGRAM_CHAT_ID", Err: err}
	}

	cfg.Endpoint = os.Getenv("PRACTICUM_ENDPOINT")
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}

	cfg.PollInterval = DefaultPollInterval
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		cfg.PollInterval, err = time.ParseDuration(v)
		if err != nil {
			return nil, &InvalidError{Key: "POLL_INTERVAL", Err: err}
		}
		if cfg.PollInterval < MinPollInterval {
			return nil, &InvalidError{Key: "POLL_INTERVAL", Err: fmt.Errorf("must be at least %s, got %s", MinPollInterval, cfg.PollInterval)}
		}
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.TelegramAPIURL = os.Getenv("TELEGRAM_API_URL")
	cfg.LogFile = os.Getenv("LOG_FILE")
	cfg.DatabaseURL = os.Getenv("DATABASE_URL")

	cfg.BotCommands = true
	if v := os.Getenv("BOT_COMMANDS"); v != "" {
		cfg.BotCommands, err = strconv.ParseBool(v)
		if err != nil {
			return nil, &InvalidError{Key: "BOT_COMMANDS", Err: err}
		}
	}

	return cfg, nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
