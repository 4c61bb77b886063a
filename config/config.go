package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`
	APIAuthToken      string `mapstructure:"API_AUTH_TOKEN"`

	// Redis configuration.
	RedisAddr          string `mapstructure:"REDIS_ADDR"`
	RedisPassword      string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB       int    `mapstructure:"REDIS_CACHE_DB"`
	RedisAgentCtxDB    int    `mapstructure:"REDIS_AGENT_CTX_DB"`
	RedisReminderQueue int    `mapstructure:"REDIS_REMINDER_QUEUE_DB"`

	// LiveKit room transport.
	LiveKitURL       string `mapstructure:"LIVEKIT_URL"`
	LiveKitAPIKey    string `mapstructure:"LIVEKIT_API_KEY"`
	LiveKitAPISecret string `mapstructure:"LIVEKIT_API_SECRET"`
	LiveKitRoom      string `mapstructure:"LIVEKIT_ROOM"`
	AgentIdentity    string `mapstructure:"AGENT_IDENTITY"`

	// Google Calendar booking backend.
	GoogleCalAccessToken string `mapstructure:"GOOGLE_CAL_ACCESS_TOKEN"`
	GoogleCalBaseURL     string `mapstructure:"GOOGLE_CAL_BASE_URL"`
	CalendarID           string `mapstructure:"CALENDAR_ID"`
	CalendarTimezone     string `mapstructure:"CALENDAR_TIMEZONE"`
	EventDurationMin     int    `mapstructure:"EVENT_DURATION_MIN"`

	// Gemini vision/chat model.
	GeminiAPIKey string `mapstructure:"GEMINI_API_KEY"`
	GeminiModel  string `mapstructure:"GEMINI_MODEL"`

	// Google Cloud Speech-to-Text.
	GoogleAPIKey string `mapstructure:"GOOGLE_API_KEY"`

	// Optional webhook POSTed by the appointment reminder worker.
	ReminderWebhookURL string `mapstructure:"REMINDER_WEBHOOK_URL"`
}

var AppConfig Config

// LoadConfig initializes Viper to load config values from env, file, or defaults.
func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_AGENT_CTX_DB", 1)
	viper.SetDefault("REDIS_REMINDER_QUEUE_DB", 2)
	viper.SetDefault("AGENT_IDENTITY", "screenqa-agent")
	viper.SetDefault("CALENDAR_ID", "primary")
	viper.SetDefault("CALENDAR_TIMEZONE", "Asia/Ho_Chi_Minh")
	viper.SetDefault("EVENT_DURATION_MIN", 60)
	viper.SetDefault("GEMINI_MODEL", "models/gemini-1.5-pro")

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
