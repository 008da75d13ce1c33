package services

import (
	"errors"
	"fmt"
	"strings"
)

// ユーザーに表示する固定メッセージ
const (
	MsgRequiredFields   = "Please fill all required fields"
	MsgPredictionFailed = "Prediction failed"
	MsgUnknownError     = "An unknown error occurred"
)

// ErrSubmissionInFlight is returned when Submit is called while a previous
// submission on the same controller has not finished yet.
var ErrSubmissionInFlight = errors.New("a prediction is already in progress")

// ValidationError はクライアント側の入力チェックに失敗したことを表します。
// この場合、予測APIへのリクエストは送信されません。
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UpstreamError is a non-2xx answer from the prediction API.
type UpstreamError struct {
	StatusCode int
	Detail     string
}

func (e *UpstreamError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return MsgPredictionFailed
}

// IsValidationError reports whether err was caused by local input checks.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// errorMessage はエラーを画面表示用の文字列に変換します。
func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return MsgUnknownError
}

func fieldError(field, format string, args ...interface{}) *ValidationError {
	return &ValidationError{
		Fields:  []string{field},
		Message: fmt.Sprintf(format, args...),
	}
}
