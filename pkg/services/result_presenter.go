package services

import (
	"fmt"

	"sales-forecast-web/pkg/models"
)

// 需要区分のしきい値
const (
	HighDemandThreshold = 5000.0
	LowDemandThreshold  = 500.0
)

// トーストの表示時間（ミリ秒）
const (
	alertAutoCloseMs  = 5000
	normalAutoCloseMs = 3000
	errorAutoCloseMs  = 5000
)

// ClassifyDemand maps a predicted sales value to a demand level.
// Both thresholds are inclusive.
func ClassifyDemand(sales float64) models.DemandLevel {
	switch {
	case sales >= HighDemandThreshold:
		return models.DemandHigh
	case sales <= LowDemandThreshold:
		return models.DemandLow
	default:
		return models.DemandNormal
	}
}

// FormatSales formats a sales value the way the result card shows it.
func FormatSales(sales float64) string {
	return fmt.Sprintf("$%.2f", sales)
}

// Present は予測結果を結果カードの表示内容に変換します。
// ステータスが空の場合は何も表示しません。
func Present(result *models.PredictionResult) models.Presentation {
	if result == nil || result.Status == "" {
		return models.Presentation{State: models.PresentationEmpty}
	}

	if !result.IsSuccess() {
		msg := result.Message
		if msg == "" {
			msg = MsgPredictionFailed
		}
		return models.Presentation{State: models.PresentationError, Message: msg}
	}

	p := models.Presentation{
		State:          models.PresentationSuccess,
		DemandLevel:    ClassifyDemand(result.PredictedSales),
		PredictedSales: result.PredictedSales,
		FormattedSales: FormatSales(result.PredictedSales),
		Message:        result.Message,
	}
	switch p.DemandLevel {
	case models.DemandHigh:
		p.Recommendation = "Increase inventory and schedule extra staff"
		p.Icon = "fire"
		p.Theme = "red"
	case models.DemandLow:
		p.Recommendation = "Reduce orders and consider promotions"
		p.Icon = "box-open"
		p.Theme = "yellow"
	default:
		p.Recommendation = "Maintain current stock levels"
		p.Icon = "chart-line"
		p.Theme = "green"
	}
	return p
}

// SuccessNotification returns the toast for a successful prediction, or nil
// when the result is not a success.
func SuccessNotification(result *models.PredictionResult) *models.Notification {
	if !result.IsSuccess() {
		return nil
	}

	sales := FormatSales(result.PredictedSales)
	switch ClassifyDemand(result.PredictedSales) {
	case models.DemandHigh:
		return &models.Notification{
			Kind:        models.NotificationSuccess,
			Icon:        "🚀",
			Headline:    "High Demand Alert!",
			Body:        "Stock up immediately - predicted sales " + sales,
			AutoCloseMs: alertAutoCloseMs,
		}
	case models.DemandLow:
		return &models.Notification{
			Kind:        models.NotificationWarning,
			Icon:        "⚠️",
			Headline:    "Low Demand Warning",
			Body:        "Adjust inventory - predicted sales " + sales,
			AutoCloseMs: alertAutoCloseMs,
		}
	default:
		return &models.Notification{
			Kind:        models.NotificationInfo,
			Icon:        "📊",
			Headline:    "Normal Demand",
			Body:        "Predicted sales " + sales,
			AutoCloseMs: normalAutoCloseMs,
		}
	}
}

// ErrorNotification エラー用のトースト
func ErrorNotification(message string) *models.Notification {
	return &models.Notification{
		Kind:        models.NotificationError,
		Body:        message,
		AutoCloseMs: errorAutoCloseMs,
	}
}
