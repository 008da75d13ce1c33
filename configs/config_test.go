package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	// テスト用の環境変数を設定
	testCases := map[string]string{
		"PORT":                "9000",
		"ENVIRONMENT":         "test",
		"PREDICT_ENDPOINT":    "http://forecast.internal:8080/predict",
		"PREDICT_TIMEOUT":     "5s",
		"PREDICT_PROXY_URL":   "http://proxy.internal:3128",
		"ALLOWED_ORIGINS":     "http://localhost:3000, https://forecast.example.com,",
		"CONTENT_PATH":        "/etc/forecast/content.yaml",
		"LOG_LEVEL":           "debug",
		"MONITORING_TIMEZONE": "Asia/Tokyo",
	}
	for key, value := range testCases {
		t.Setenv(key, value)
	}

	cfg := LoadConfig()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "test", cfg.Environment)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "http://forecast.internal:8080/predict", cfg.PredictEndpoint)
	assert.Equal(t, 5*time.Second, cfg.PredictTimeout)
	assert.Equal(t, "http://proxy.internal:3128", cfg.PredictProxyURL)
	assert.Equal(t, []string{"http://localhost:3000", "https://forecast.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "/etc/forecast/content.yaml", cfg.ContentPath)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "Asia/Tokyo", cfg.MonitoringTimezone)
}

func TestLoadConfigDefaults(t *testing.T) {
	// 環境変数をクリア
	vars := []string{
		"PORT", "ENVIRONMENT", "PREDICT_ENDPOINT", "PREDICT_TIMEOUT",
		"PREDICT_PROXY_URL", "ALLOWED_ORIGINS", "CONTENT_PATH", "LOG_LEVEL",
		"MONITORING_TIMEZONE",
	}
	for _, v := range vars {
		t.Setenv(v, "")
	}

	cfg := LoadConfig()

	// デフォルト値の検証
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, DefaultPredictEndpoint, cfg.PredictEndpoint)
	assert.Equal(t, 30*time.Second, cfg.PredictTimeout)
	assert.Empty(t, cfg.PredictProxyURL)
	assert.Nil(t, cfg.AllowedOrigins)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "UTC", cfg.MonitoringTimezone)
}

func TestLoadConfigInvalidTimeoutFallsBack(t *testing.T) {
	t.Setenv("PREDICT_TIMEOUT", "soon")
	assert.Equal(t, 30*time.Second, LoadConfig().PredictTimeout)

	t.Setenv("PREDICT_TIMEOUT", "0")
	assert.Equal(t, time.Duration(0), LoadConfig().PredictTimeout)
}
