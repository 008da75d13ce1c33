package services

import (
	"context"
	"sync"

	"sales-forecast-web/pkg/models"
)

// stubPredictor は予測APIの代わりに固定の結果を返します。
type stubPredictor struct {
	mu       sync.Mutex
	calls    []models.PredictionRequest
	result   *models.PredictionResult
	err      error
	block    chan struct{}
	started  chan struct{}
	resultFn func(models.PredictionRequest) (*models.PredictionResult, error)
}

func (s *stubPredictor) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error) {
	s.mu.Lock()
	s.calls = append(s.calls, req)
	s.mu.Unlock()

	if s.started != nil {
		close(s.started)
	}
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.resultFn != nil {
		return s.resultFn(req)
	}
	return s.result, s.err
}

func (s *stubPredictor) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

func success(sales float64) *models.PredictionResult {
	return &models.PredictionResult{Status: models.StatusSuccess, PredictedSales: sales}
}

// validInput 必須項目がすべて埋まったフォーム
func validInput() models.FormInput {
	input := models.NewFormInput()
	input.Date = "2017-08-16"
	input.Family = "GROCERY I"
	input.State = "Pichincha"
	input.City = "Quito"
	input.StoreType = "D"
	return input
}
