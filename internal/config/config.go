package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment.
type Config struct {
	Addr        string
	PlatformURL string

	// Word source
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	AITimeout     time.Duration

	// Reminder
	ReminderSecret string
	ReminderHour   int
	BrevoAPIKey    string
	SenderEmail    string
	RecipientEmail string

	// Optional Telegram reminder channel
	TelegramToken  string
	TelegramChatID int64
}

// Load reads the .env file if present and assembles the configuration.
// Missing optional values fall back to defaults; required secrets are
// validated where they are used.
func Load() *Config {
	// Best effort: a missing .env just means plain environment variables.
	_ = godotenv.Load()

	return &Config{
		Addr:           getEnv("ADDR", ":8080"),
		PlatformURL:    getEnv("PLATFORM_URL", "http://localhost:3000"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:    os.Getenv("OPENAI_MODEL"),
		AITimeout:      25 * time.Second,
		ReminderSecret: os.Getenv("REMINDER_SECRET"),
		ReminderHour:   getEnvInt("REMINDER_HOUR", -1),
		BrevoAPIKey:    os.Getenv("BREVO_API_KEY"),
		SenderEmail:    os.Getenv("SENDER_EMAIL"),
		RecipientEmail: os.Getenv("RECIPIENT_EMAIL"),
		TelegramToken:  os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID: getEnvInt64("TELEGRAM_CHAT_ID", 0),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}
