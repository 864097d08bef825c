package config

import (
	"log"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Booking backend.
	BackendURL string `mapstructure:"BACKEND_URL"`
	ProviderID string `mapstructure:"PROVIDER_ID"`

	// Origins allowed to read the JSON fragment endpoints cross-origin.
	AllowedOrigins []string `mapstructure:"ALLOWED_ORIGINS"`

	// Session cookie.
	CookieSecure bool `mapstructure:"COOKIE_SECURE"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "3000")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("BACKEND_URL", "http://localhost:8080")
	viper.SetDefault("PROVIDER_ID", "")
	viper.SetDefault("ALLOWED_ORIGINS", []string{})
	viper.SetDefault("COOKIE_SECURE", false)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Slot queries are always scoped to a provider, so refuse to start
	// without a parseable one.
	if _, err := uuid.Parse(AppConfig.ProviderID); err != nil {
		log.Fatalf("PROVIDER_ID must be a valid UUID: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
