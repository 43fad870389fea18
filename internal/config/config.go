package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/framesync/framesync/internal/domain"
	"github.com/framesync/framesync/internal/logger"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	WebSocket WebSocketConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Sync      SyncConfig
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       logger.Config
}

type ServerConfig struct {
	Port           string
	AllowedOrigins string `mapstructure:"allowed_origins"` // comma-separated, "*" allows all
}

type WebSocketConfig struct {
	MaxMessageSize int64 `mapstructure:"max_message_size"`
}

type DatabaseConfig struct {
	Driver   string // postgres or sqlite
	Host     string
	Port     int
	User     string
	Password string
	DBName   string `mapstructure:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode"`
	FilePath string `mapstructure:"file_path"` // sqlite only
}

type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

type SyncConfig struct {
	DriftInterval  time.Duration `mapstructure:"drift_interval"`
	PersistTimeout time.Duration `mapstructure:"persist_timeout"`
}

type RateLimitConfig struct {
	API int
	WS  int
}

// Origins returns the allowed origins as a slice
func (s ServerConfig) Origins() []string {
	parts := strings.Split(s.AllowedOrigins, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}

// Load reads configuration from an optional config file and the environment
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("server.port", "3000")
	v.SetDefault("server.allowed_origins", "http://localhost:3000")
	v.SetDefault("websocket.max_message_size", domain.MaxMessageSize)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "framesync")
	v.SetDefault("database.password", "")
	v.SetDefault("database.db_name", "framesync")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.file_path", "framesync.db")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("sync.drift_interval", domain.DriftPulseInterval.String())
	v.SetDefault("sync.persist_timeout", domain.PersistTimeout.String())
	v.SetDefault("rate_limit.api", domain.DefaultRateLimitAPI)
	v.SetDefault("rate_limit.ws", domain.DefaultRateLimitWS)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// Flat env aliases, the names container deployments usually set
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.allowed_origins", "ALLOWED_ORIGINS")
	v.BindEnv("auth.jwt_secret", "JWT_SECRET")
	v.BindEnv("database.driver", "DB_DRIVER")
	v.BindEnv("database.host", "DB_HOST")
	v.BindEnv("database.port", "DB_PORT")
	v.BindEnv("database.user", "DB_USER")
	v.BindEnv("database.password", "DB_PASSWORD")
	v.BindEnv("database.db_name", "DB_NAME")
	v.BindEnv("database.file_path", "DB_FILE")
	v.BindEnv("log.level", "LOG_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// No config file: rely on defaults and env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
