package server

import (
	"fmt"
	"net/http"

	config "sales-forecast-web/configs"
	"sales-forecast-web/pkg/handlers"
	"sales-forecast-web/pkg/services"
	"sales-forecast-web/pkg/web"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies are the collaborators the router wires into its handlers.
type Dependencies struct {
	Config    *config.Config
	Content   *config.PageContent
	Predictor services.Predictor
	Logger    *zap.Logger
}

// NewRouter はGinルーターを初期化し、すべてのルートを登録します。
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	tmpl, err := web.Templates()
	if err != nil {
		return nil, fmt.Errorf("テンプレートの読み込みに失敗: %w", err)
	}

	r := gin.New()

	// サービスの初期化
	monitoringService := services.NewMonitoringService(deps.Config.MonitoringTimezone, deps.Logger)

	// ハンドラーの初期化
	pageHandler := handlers.NewPageHandler(deps.Predictor, deps.Content, tmpl, deps.Logger)
	predictHandler := handlers.NewPredictHandler(deps.Predictor, deps.Logger)
	monitoringHandler := handlers.NewMonitoringHandler(monitoringService)
	healthHandler := handlers.NewHealthHandler(deps.Config.PredictEndpoint, deps.Config.Environment)

	// ミドルウェアの登録
	r.Use(gin.Recovery())
	r.Use(monitoringService.LoggingMiddleware())
	r.Use(cors.New(corsConfig(deps.Config.AllowedOrigins)))

	r.StaticFS("/static", web.Static())

	// ページ
	r.GET("/", pageHandler.Index)
	r.POST("/predict-form", pageHandler.SubmitForm)

	// ヘルスチェックエンドポイント
	r.GET("/health", healthHandler.HealthCheck)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/predict", predictHandler.Predict)
		v1.POST("/predict/batch", predictHandler.PredictBatch)
		v1.GET("/catalog/:selector", predictHandler.Catalog)
		v1.GET("/monitoring/logs", monitoringHandler.GetLogs)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return r, nil
}

// corsConfig は許可オリジンが未設定の場合、すべてのオリジンを許可します。
func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, services.RequestIDHeader)
	cfg.ExposeHeaders = []string{services.RequestIDHeader, "Content-Disposition"}
	return cfg
}
