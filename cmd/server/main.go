package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "sales-forecast-web/configs"
	"sales-forecast-web/pkg/logging"
	"sales-forecast-web/pkg/server"
	"sales-forecast-web/pkg/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// .envファイルを読み込み
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	// 設定の読み込み
	cfg := config.LoadConfig()

	logger, err := logging.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	r, err := setupRouter(cfg, logger)
	if err != nil {
		logger.Fatal("failed to set up router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("starting sales forecast server",
			zap.String("addr", srv.Addr),
			zap.String("predict_endpoint", cfg.PredictEndpoint))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}

// setupRouter はサービスを初期化し、ルーターを組み立てます。
func setupRouter(cfg *config.Config, logger *zap.Logger) (*gin.Engine, error) {
	content, err := config.LoadPageContent(cfg.ContentPath)
	if err != nil {
		return nil, err
	}

	predictor, err := services.NewPredictionClient(cfg.PredictEndpoint, cfg.PredictTimeout, cfg.PredictProxyURL)
	if err != nil {
		return nil, err
	}

	return server.NewRouter(server.Dependencies{
		Config:    cfg,
		Content:   content,
		Predictor: predictor,
		Logger:    logger,
	})
}
