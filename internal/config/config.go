package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application level configuration.
type Config struct {
	ServerPort string
	DBDriver   string
	DBDSN      string
	RedisAddr  string
	RedisDB    int
	RedisPass  string
	JWTSecret  string
	SessionTTL time.Duration

	AdminEmail    string
	AdminPassword string
	AdminName     string

	CORSOrigins []string
	LogLevel    string
	SwaggerHost string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_port", "8080")
	v.SetDefault("db_driver", "mysql")
	v.SetDefault("db_dsn", "user:password@tcp(localhost:3306)/teamdesk?charset=utf8mb4&parseTime=True&loc=UTC")
	v.SetDefault("redis_addr", "localhost:6379")
	v.SetDefault("redis_db", 0)
	v.SetDefault("redis_password", "")
	v.SetDefault("jwt_secret", "change-me")
	v.SetDefault("session_ttl", "168h")
	v.SetDefault("admin_email", "admin@teamdesk.local")
	v.SetDefault("admin_password", "Admin#2025!")
	v.SetDefault("admin_name", "Administrator")
	v.SetDefault("cors_origins", "*")
	v.SetDefault("log_level", "info")
	v.SetDefault("swagger_host", "")
}

// Load reads defaults, then configFile when set (or ./config.yaml when
// present), then environment variables such as SERVER_PORT and DB_DSN.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{
		ServerPort:    v.GetString("server_port"),
		DBDriver:      strings.ToLower(v.GetString("db_driver")),
		DBDSN:         v.GetString("db_dsn"),
		RedisAddr:     v.GetString("redis_addr"),
		RedisDB:       v.GetInt("redis_db"),
		RedisPass:     v.GetString("redis_password"),
		JWTSecret:     v.GetString("jwt_secret"),
		SessionTTL:    v.GetDuration("session_ttl"),
		AdminEmail:    v.GetString("admin_email"),
		AdminPassword: v.GetString("admin_password"),
		AdminName:     v.GetString("admin_name"),
		CORSOrigins:   splitList(v.GetString("cors_origins")),
		LogLevel:      v.GetString("log_level"),
		SwaggerHost:   v.GetString("swagger_host"),
	}
	if cfg.JWTSecret == "" {
		return nil, errors.New("jwt_secret must not be empty")
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("session_ttl must be positive, got %s", cfg.SessionTTL)
	}
	return cfg, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
