package config

import (
	"sync"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Auth   AuthConfig
}

var (
	ConfigInstance *Config
	once           sync.Once
)

type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// StoreConfig points at the external message store. Every call to the store
// is bounded by Timeout; there are no retries.
type StoreConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AuthConfig carries the bot token used to verify init data signatures.
// An empty token disables verification and any well-formed payload is
// accepted.
type AuthConfig struct {
	BotToken string
}

func LoadConfig() (*Config, error) {
	// Viper setup
	once.Do(func() {
		viper.SetDefault("CHAT_PORT", "8080")
		viper.SetDefault("CHAT_READ_TIMEOUT", 30*time.Second)
		viper.SetDefault("CHAT_WRITE_TIMEOUT", 30*time.Second)
		viper.SetDefault("CHAT_IDLE_TIMEOUT", 60*time.Second)
		viper.SetDefault("CHAT_STORE_URL", "")
		viper.SetDefault("CHAT_STORE_TIMEOUT", 10*time.Second)
		viper.SetDefault("CHAT_BOT_TOKEN", "")
		viper.AutomaticEnv()

		ConfigInstance = &Config{
			Server: ServerConfig{
				Host:         viper.GetString("CHAT_HOST"),
				Port:         viper.GetString("CHAT_PORT"),
				ReadTimeout:  viper.GetDuration("CHAT_READ_TIMEOUT"),
				WriteTimeout: viper.GetDuration("CHAT_WRITE_TIMEOUT"),
				IdleTimeout:  viper.GetDuration("CHAT_IDLE_TIMEOUT"),
			},
			Store: StoreConfig{
				BaseURL: viper.GetString("CHAT_STORE_URL"),
				Timeout: viper.GetDuration("CHAT_STORE_TIMEOUT"),
			},
			Auth: AuthConfig{
				BotToken: viper.GetString("CHAT_BOT_TOKEN"),
			},
		}
	})

	return ConfigInstance, nil
}
