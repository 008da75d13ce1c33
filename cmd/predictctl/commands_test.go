package main

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCatalogCommand(t *testing.T) {
	out, err := run(t, "catalog", "city", "gua")
	require.NoError(t, err)
	assert.Equal(t, "Guaranda\nGuayaquil\n", out)

	out, err = run(t, "catalog", "store-type")
	require.NoError(t, err)
	assert.Contains(t, out, "D\tSupermarket\n")

	_, err = run(t, "catalog", "planet")
	assert.Error(t, err)
}

func TestPredictCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","predicted_sales":420}`))
	}))
	defer srv.Close()

	out, err := run(t, "predict", "--endpoint", srv.URL,
		"--date", "2017-08-16", "--family", "dairy", "--state", "Azuay",
		"--city", "Cuenca", "--store-type", "A")
	require.NoError(t, err)
	assert.Contains(t, out, "Low Demand Warning")
	assert.Contains(t, out, "predicted_sales: $420.00")
	assert.Contains(t, out, "Reduce orders and consider promotions")
}

func TestPredictCommandErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"error"}`))
	}))
	defer srv.Close()

	out, err := run(t, "predict", "--endpoint", srv.URL,
		"--date", "2017-08-16", "--family", "dairy", "--state", "Azuay",
		"--city", "Cuenca", "--store-type", "A")
	require.Error(t, err)
	assert.Equal(t, "Prediction failed", err.Error())
	assert.Contains(t, out, "error: Prediction failed")
	assert.NotContains(t, out, "predicted_sales:")
	assert.NotContains(t, out, "demand_level:")
}

func TestPredictCommandMissingFields(t *testing.T) {
	_, err := run(t, "predict", "--endpoint", "http://127.0.0.1:1/predict")
	require.Error(t, err)
	assert.Equal(t, "Please fill all required fields", err.Error())
}

func TestRawCommand(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"bad"}`))
	}))
	defer srv.Close()

	out, err := run(t, "raw", "--endpoint", srv.URL)
	require.Error(t, err)
	assert.Contains(t, out, "status: 422")
	assert.Contains(t, out, `{"detail":"bad"}`)
}
