package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Feed     FeedConfig
	Auth     AuthConfig
	Detect   DetectConfig
}

// ServerConfig holds HTTP settings.
type ServerConfig struct {
	Port       string
	CORSOrigin string `mapstructure:"cors_origin"`
	Env        string
}

// DatabaseConfig holds Postgres settings.
type DatabaseConfig struct {
	URL string
}

// FeedConfig holds the bank aggregator credentials and endpoints.
type FeedConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	ClientID      string `mapstructure:"client_id"`
	Secret        string
	WebhookSecret string `mapstructure:"webhook_secret"`
}

// AuthConfig holds JWT and internal API key settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	APIKey    string `mapstructure:"api_key"`
}

// DetectConfig holds subscription detection tunables.
type DetectConfig struct {
	LookbackDays     int     `mapstructure:"lookback_days"`
	MinTransactions  int     `mapstructure:"min_transactions"`
	AutoThreshold    float64 `mapstructure:"auto_threshold"`
	SuggestThreshold float64 `mapstructure:"suggest_threshold"`
	SyncPageSize     int     `mapstructure:"sync_page_size"`
}

// Load reads configuration from file and env. Env var overrides use prefix STREAMSENSE_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("server.port", "8080")
	v.SetDefault("server.cors_origin", "*")
	v.SetDefault("server.env", "dev")
	v.SetDefault("database.url", "")
	v.SetDefault("feed.base_url", "https://sandbox.plaid.com")
	v.SetDefault("feed.client_id", "")
	v.SetDefault("feed.secret", "")
	v.SetDefault("feed.webhook_secret", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.api_key", "")
	v.SetDefault("detect.lookback_days", 365)
	v.SetDefault("detect.min_transactions", 2)
	v.SetDefault("detect.auto_threshold", 80)
	v.SetDefault("detect.suggest_threshold", 60)
	v.SetDefault("detect.sync_page_size", 100)

	v.SetConfigType("toml")
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/streamsense")

	v.SetEnvPrefix("STREAMSENSE")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// config file is optional; env vars alone are enough
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.Database.URL == "" {
		return Config{}, fmt.Errorf("database url is not set (STREAMSENSE_DATABASE_URL)")
	}
	return c, nil
}
