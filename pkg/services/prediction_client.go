package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"sales-forecast-web/pkg/models"
)

// maxResponseBytes 予測APIのレスポンスとして読み込む最大サイズ
const maxResponseBytes = 1 << 20

// Predictor sends one prediction request to the forecasting API.
type Predictor interface {
	Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error)
}

// PredictionClient 外部の予測APIクライアント
type PredictionClient struct {
	endpoint string
	client   *http.Client
}

// NewPredictionClient 新しい予測APIクライアントを作成
// timeoutが0の場合はトランスポート側の挙動に任せます。
func NewPredictionClient(endpoint string, timeout time.Duration, proxyURL string) (*PredictionClient, error) {
	if _, err := url.ParseRequestURI(endpoint); err != nil {
		return nil, fmt.Errorf("invalid prediction endpoint %q: %w", endpoint, err)
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxyURL != "" {
		proxy, err := url.Parse(proxyURL)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url %q: %w", proxyURL, err)
		}
		transport.Proxy = http.ProxyURL(proxy)
	}

	return &PredictionClient{
		endpoint: endpoint,
		client: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}, nil
}

// Endpoint returns the URL requests are posted to.
func (pc *PredictionClient) Endpoint() string {
	return pc.endpoint
}

// Predict posts req as JSON and decodes the answer.
// Non-2xx answers are returned as *UpstreamError.
func (pc *PredictionClient) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error) {
	status, body, err := pc.PostRaw(ctx, req)
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		return nil, &UpstreamError{StatusCode: status, Detail: parseDetail(body)}
	}

	var result models.PredictionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("invalid prediction response: %w", err)
	}
	return &result, nil
}

// PostRaw sends the request and returns the status code and body untouched.
func (pc *PredictionClient) PostRaw(ctx context.Context, req models.PredictionRequest) (int, []byte, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to encode prediction request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, pc.endpoint, bytes.NewReader(payload))
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create prediction request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := pc.client.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read prediction response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// parseDetail はエラーレスポンスの detail を取り出します。
// FastAPIのバリデーションエラーのように配列で返る場合は msg を連結します。
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var text string
	if err := json.Unmarshal(envelope.Detail, &text); err == nil {
		return text
	}

	var items []struct {
		Loc []interface{} `json:"loc"`
		Msg string        `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, item := range items {
			if item.Msg == "" {
				continue
			}
			if field := lastLocation(item.Loc); field != "" {
				msgs = append(msgs, field+": "+item.Msg)
			} else {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	if string(envelope.Detail) == "null" {
		return ""
	}
	return string(envelope.Detail)
}

func lastLocation(loc []interface{}) string {
	if len(loc) == 0 {
		return ""
	}
	return fmt.Sprint(loc[len(loc)-1])
}
