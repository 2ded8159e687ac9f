package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"quickcount-api/models"
)

// CurrencyService talks to the public exchange-rate API the mobile converter
// used. Failures surface immediately to the caller; there are no retries.
type CurrencyService struct {
	BaseURL string
	Client  *http.Client
}

func NewCurrencyService() *CurrencyService {
	baseURL := os.Getenv("EXCHANGE_RATE_API_URL")
	if baseURL == "" {
		baseURL = "https://open.er-api.com/v6/latest"
	}

	return &CurrencyService{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Rates fetches the rate table for a base currency.
func (s *CurrencyService) Rates(ctx context.Context, base string) (map[string]float64, error) {
	base = strings.ToUpper(base)

	req, err := http.NewRequestWithContext(ctx, "GET", s.BaseURL+"/"+base, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("exchange rate API returned status %d", resp.StatusCode)
	}

	var result struct {
		Result string             `json:"result"`
		Rates  map[string]float64 `json:"rates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	if result.Result != "success" || result.Rates == nil {
		return nil, fmt.Errorf("exchange rate API returned result %q", result.Result)
	}

	return result.Rates, nil
}

// Convert fetches the rate table once and converts amount from one currency
// to another.
func (s *CurrencyService) Convert(ctx context.Context, amount float64, from, to string) (*models.ConvertResponse, error) {
	from = strings.ToUpper(from)
	to = strings.ToUpper(to)

	rates, err := s.Rates(ctx, from)
	if err != nil {
		return nil, err
	}

	rate, ok := rates[to]
	if !ok {
		return nil, fmt.Errorf("no rate available for %s", to)
	}

	return &models.ConvertResponse{
		Amount:    amount,
		From:      from,
		To:        to,
		Rate:      rate,
		Converted: amount * rate,
	}, nil
}
