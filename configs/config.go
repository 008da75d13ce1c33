package config

import (
	"os"
	"strings"
	"time"
)

// DefaultPredictEndpoint はローカルで起動した予測APIのエンドポイントです。
const DefaultPredictEndpoint = "http://127.0.0.1:8080/predict"

// Config holds the application configuration
type Config struct {
	Port               string
	Environment        string
	PredictEndpoint    string
	PredictTimeout     time.Duration
	PredictProxyURL    string
	AllowedOrigins     []string
	ContentPath        string
	LogLevel           string
	MonitoringTimezone string
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Port:               getEnv("PORT", "3000"),
		Environment:        getEnv("ENVIRONMENT", "development"),
		PredictEndpoint:    getEnv("PREDICT_ENDPOINT", DefaultPredictEndpoint),
		PredictTimeout:     getDuration("PREDICT_TIMEOUT", 30*time.Second),
		PredictProxyURL:    getEnv("PREDICT_PROXY_URL", ""),
		AllowedOrigins:     getList("ALLOWED_ORIGINS"),
		ContentPath:        getEnv("CONTENT_PATH", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		MonitoringTimezone: getEnv("MONITORING_TIMEZONE", "UTC"),
	}
}

// IsDevelopment 開発環境かどうか
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// getEnv gets an environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getDuration は "30s" のような期間表記を読み込みます。不正な値はデフォルトにフォールバックします。
func getDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return defaultValue
	}
	return d
}

// getList はカンマ区切りの環境変数を読み込みます。
func getList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
