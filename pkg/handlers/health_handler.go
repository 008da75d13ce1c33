package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthHandler は外部のヘルスチェッカー（例: ロードバランサー）からのリクエストに応答します。
type HealthHandler struct {
	PredictEndpoint string
	Environment     string
}

// NewHealthHandler は新しいHealthHandlerを生成します。
func NewHealthHandler(predictEndpoint, environment string) *HealthHandler {
	return &HealthHandler{
		PredictEndpoint: predictEndpoint,
		Environment:     environment,
	}
}

// HealthCheck reports that the service is up and where predictions go.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "ok",
		"environment":      h.Environment,
		"predict_endpoint": h.PredictEndpoint,
	})
}
