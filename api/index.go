package handler

import (
	"log"
	"net/http"
	"sync"

	config "sales-forecast-web/configs"
	"sales-forecast-web/pkg/logging"
	"sales-forecast-web/pkg/server"
	"sales-forecast-web/pkg/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	app    *gin.Engine
	appErr error
	once   sync.Once
)

// setupApp はGinアプリケーションを初期化します。
// サーバーレス環境では、リクエストごとに初期化が走らないようsync.Onceで一度だけ実行します。
func setupApp() (*gin.Engine, error) {
	once.Do(func() {
		// .envファイルはVercelの環境変数設定から読み込まれるため、ここではgodotenvを呼び出しません。
		cfg := config.LoadConfig()
		gin.SetMode(gin.ReleaseMode)

		logger, err := logging.NewLogger("production", cfg.LogLevel)
		if err != nil {
			log.Printf("Warning: falling back to a no-op logger: %v", err)
			logger = zap.NewNop()
		}

		content, err := config.LoadPageContent(cfg.ContentPath)
		if err != nil {
			appErr = err
			return
		}

		predictor, err := services.NewPredictionClient(cfg.PredictEndpoint, cfg.PredictTimeout, cfg.PredictProxyURL)
		if err != nil {
			appErr = err
			return
		}

		app, appErr = server.NewRouter(server.Dependencies{
			Config:    cfg,
			Content:   content,
			Predictor: predictor,
			Logger:    logger,
		})
	})
	return app, appErr
}

// Handler はVercelからのすべてのリクエストを処理するエントリーポイントです。
func Handler(w http.ResponseWriter, r *http.Request) {
	app, err := setupApp()
	if err != nil {
		log.Printf("FATAL: failed to initialize application: %v", err)
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}
	app.ServeHTTP(w, r)
}
