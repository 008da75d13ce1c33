package services

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMonitoringServiceTimezoneFallback(t *testing.T) {
	s := NewMonitoringService("Not/AZone", nil)
	assert.Equal(t, time.UTC, s.location)

	s = NewMonitoringService("Asia/Tokyo", nil)
	assert.Equal(t, "Asia/Tokyo", s.location.String())
}

func TestLoggingMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := NewMonitoringService("UTC", nil)

	router := gin.New()
	router.Use(s.LoggingMiddleware())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/api/v1/monitoring/logs", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/api/v1/predict", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	// リクエストIDが採番されること
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)

	// 受け取ったリクエストIDはそのまま返すこと
	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))

	// モニタリング自身へのアクセスは記録しない
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/monitoring/logs", nil))

	data := s.GetDashboardData(1)
	assert.Equal(t, map[string]int{"/health": 1, "/api/v1/predict": 1}, data.Endpoints)
	require.Len(t, data.RecentErrors, 1)
	assert.Equal(t, "abc-123", data.RecentErrors[0].RequestID)
	assert.Equal(t, http.StatusBadGateway, data.RecentErrors[0].StatusCode)
}

func TestGetDashboardData(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	s := NewMonitoringService("UTC", nil)
	s.now = func() time.Time { return now }

	s.LogRequest(LogEntry{Timestamp: now.Add(-10 * time.Minute), Path: "/", StatusCode: 200, ResponseTime: 20 * time.Millisecond})
	s.LogRequest(LogEntry{Timestamp: now.Add(-20 * time.Minute), Path: "/", StatusCode: 200, ResponseTime: 40 * time.Millisecond})
	s.LogRequest(LogEntry{Timestamp: now.Add(-90 * time.Minute), Path: "/api/v1/predict", StatusCode: 400})
	s.LogRequest(LogEntry{Timestamp: now.Add(-48 * time.Hour), Path: "/old", StatusCode: 500})

	data := s.GetDashboardData(24)

	assert.Len(t, data.RequestsOverTime, 24)
	assert.Equal(t, "12:00", data.RequestsOverTime[23]["time"])
	assert.Equal(t, 2, data.RequestsOverTime[23]["requests"])
	assert.Equal(t, 1, data.RequestsOverTime[22]["requests"])

	assert.Equal(t, map[string]int{"/": 2, "/api/v1/predict": 1}, data.Endpoints)
	assert.Equal(t, []map[string]interface{}{
		{"name": "2xx Success", "value": 2},
		{"name": "4xx Client Error", "value": 1},
		{"name": "5xx Server Error", "value": 0},
	}, data.StatusCodes)
	assert.Empty(t, data.RecentErrors)

	for _, avg := range data.AvgResponseTimes {
		if avg["endpoint"] == "/" {
			assert.Equal(t, int64(30), avg["responseTime"])
		}
	}
}

func TestLogRequestKeepsNewestEntries(t *testing.T) {
	s := NewMonitoringService("UTC", nil)
	for i := 0; i < maxLogEntries+5; i++ {
		s.LogRequest(LogEntry{StatusCode: i})
	}
	assert.Len(t, s.logs, maxLogEntries)
	assert.Equal(t, 5, s.logs[0].StatusCode)
}
