package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCurrencyTestServer(t *testing.T, handler http.HandlerFunc) *CurrencyService {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return &CurrencyService{
		BaseURL: server.URL,
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func TestRates(t *testing.T) {
	svc := newCurrencyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/PHP", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"result":"success","base_code":"PHP","rates":{"PHP":1,"USD":0.017,"EUR":0.016}}`))
	})

	rates, err := svc.Rates(context.Background(), "php")
	require.NoError(t, err)
	assert.Equal(t, 0.017, rates["USD"])
}

func TestRatesAPIError(t *testing.T) {
	svc := newCurrencyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"error","error-type":"unsupported-code"}`))
	})

	_, err := svc.Rates(context.Background(), "XXX")
	assert.Error(t, err)
}

func TestRatesBadStatus(t *testing.T) {
	svc := newCurrencyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := svc.Rates(context.Background(), "PHP")
	assert.Error(t, err)
}

func TestConvert(t *testing.T) {
	svc := newCurrencyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success","rates":{"USD":0.017}}`))
	})

	result, err := svc.Convert(context.Background(), 1000, "php", "usd")
	require.NoError(t, err)
	assert.Equal(t, "PHP", result.From)
	assert.Equal(t, "USD", result.To)
	assert.InDelta(t, 17.0, result.Converted, 1e-9)
}

func TestConvertUnknownCurrency(t *testing.T) {
	svc := newCurrencyTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":"success","rates":{"USD":0.017}}`))
	})

	_, err := svc.Convert(context.Background(), 1000, "PHP", "XYZ")
	assert.Error(t, err)
}
