package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// PaymentGateway captures a payment for a computed total. The total is
// always computed server-side; caller-supplied amounts never reach here.
type PaymentGateway interface {
	Capture(ctx context.Context, amount float64, currency string) (*CaptureResult, error)
}

// CaptureResult is the gateway's answer to a capture attempt.
type CaptureResult struct {
	Success       bool   `json:"success"`
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message"`
}

// PaymentService talks to an external payment gateway over HTTP. When no
// gateway URL is configured it approves captures locally, which is how
// development and test environments run.
type PaymentService struct {
	gatewayURL string
	apiKey     string
	client     *http.Client
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(gatewayURL, apiKey string) *PaymentService {
	return &PaymentService{
		gatewayURL: gatewayURL,
		apiKey:     apiKey,
		client:     &http.Client{Timeout: 15 * time.Second},
	}
}

type captureRequest struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Capture charges the given amount. A non-positive amount is rejected
// before any gateway call.
func (s *PaymentService) Capture(ctx context.Context, amount float64, currency string) (*CaptureResult, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("capture amount must be positive, got %v", amount)
	}

	if s.gatewayURL == "" {
		log.Printf("[Payment] gateway not configured, simulating capture of %v %s", amount, currency)
		return &CaptureResult{
			Success:       true,
			TransactionID: uuid.NewString(),
			Message:       "simulated capture",
		}, nil
	}

	payload, err := json.Marshal(captureRequest{Amount: amount, Currency: currency})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL+"/capture", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("gateway request build: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gateway request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("gateway returned status %d, body: %s", resp.StatusCode, string(body))
	}

	var result CaptureResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("gateway response unmarshal: %w", err)
	}

	return &result, nil
}
