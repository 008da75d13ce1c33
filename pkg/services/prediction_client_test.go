package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sales-forecast-web/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *PredictionClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := NewPredictionClient(srv.URL+"/predict", 5*time.Second, "")
	require.NoError(t, err)
	t.Cleanup(client.client.CloseIdleConnections)
	return client
}

func TestNewPredictionClientValidation(t *testing.T) {
	_, err := NewPredictionClient("not a url", time.Second, "")
	assert.Error(t, err)

	_, err = NewPredictionClient("http://127.0.0.1:8080/predict", time.Second, "://bad-proxy")
	assert.Error(t, err)

	client, err := NewPredictionClient("http://127.0.0.1:8080/predict", 0, "http://proxy.local:3128")
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8080/predict", client.Endpoint())
	assert.Zero(t, client.client.Timeout)
}

func TestPredictSendsJSONBody(t *testing.T) {
	var received models.PredictionRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/predict", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &received))

		// 数値は数値型で送られていること
		var raw map[string]interface{}
		assert.NoError(t, json.Unmarshal(body, &raw))
		assert.IsType(t, float64(0), raw["store_nbr"])
		assert.IsType(t, float64(0), raw["dcoilwtico"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","predicted_sales":7500}`))
	})

	req, err := BuildPredictionRequest(validInput())
	require.NoError(t, err)

	result, err := client.Predict(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsSuccess())
	assert.Equal(t, 7500.0, result.PredictedSales)
	assert.Equal(t, req, received)
}

func TestPredictUpstreamErrors(t *testing.T) {
	testCases := []struct {
		name     string
		status   int
		body     string
		expected string
	}{
		{"string detail", http.StatusBadRequest, `{"detail":"Model not loaded"}`, "Model not loaded"},
		{"validation detail", http.StatusUnprocessableEntity,
			`{"detail":[{"loc":["body","store_nbr"],"msg":"field required"},{"loc":["body","date"],"msg":"invalid date"}]}`,
			"store_nbr: field required; date: invalid date"},
		{"no detail", http.StatusInternalServerError, `Internal Server Error`, MsgPredictionFailed},
		{"null detail", http.StatusServiceUnavailable, `{"detail":null}`, MsgPredictionFailed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.Predict(context.Background(), models.PredictionRequest{})
			require.Error(t, err)

			var upstream *UpstreamError
			require.True(t, errors.As(err, &upstream))
			assert.Equal(t, tc.status, upstream.StatusCode)
			assert.Equal(t, tc.expected, err.Error())
		})
	}
}

func TestPredictMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	})

	_, err := client.Predict(context.Background(), models.PredictionRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid prediction response")
}

func TestPredictTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	endpoint := srv.URL + "/predict"
	srv.Close()

	client, err := NewPredictionClient(endpoint, time.Second, "")
	require.NoError(t, err)

	_, err = client.Predict(context.Background(), models.PredictionRequest{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prediction request failed")
}

func TestPostRawReturnsBodyUntouched(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(`{"detail":"short and stout"}`))
	})

	status, body, err := client.PostRaw(context.Background(), models.PredictionRequest{})
	require.NoError(t, err)
	assert.Equal(t, http.StatusTeapot, status)
	assert.JSONEq(t, `{"detail":"short and stout"}`, string(body))
}
