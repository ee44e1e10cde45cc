package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mbd888/hispayment/internal/customer"
	"github.com/mbd888/hispayment/internal/fraud"
	"github.com/mbd888/hispayment/internal/ledger"
)

// Config holds the configuration for connecting to the payment API.
type Config struct {
	APIURL  string        // Base URL, e.g. "http://localhost:3001"
	Timeout time.Duration // per-request; defaults to DefaultTimeout
}

// DefaultTimeout bounds each API call when Config.Timeout is unset.
const DefaultTimeout = 30 * time.Second

// APIError is a non-2xx response from the API.
type APIError struct {
	StatusCode         int    `json:"-"`
	Code               string `json:"error"`
	Message            string `json:"message"`
	RemainingSeconds   int64  `json:"remainingSeconds,omitempty"`
	BlockedUntil       string `json:"blockedUntil,omitempty"`
	FraudAlertRecorded bool   `json:"fraudAlertRecorded,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error (%d): %s", e.StatusCode, e.Code)
}

// PaymentClient is a pure HTTP client for the payment API.
type PaymentClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewPaymentClient creates a new API client.
func NewPaymentClient(cfg Config) *PaymentClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &PaymentClient{
		baseURL:    strings.TrimRight(cfg.APIURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// do sends a request and decodes a successful response into out.
func (c *PaymentClient) do(ctx context.Context, method, path string, body, out any) error {
	u, err := url.Parse(c.baseURL + path)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if json.Unmarshal(respBody, apiErr) != nil || (apiErr.Code == "" && apiErr.Message == "") {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// CreateCustomer registers a customer and returns its id.
func (c *PaymentClient) CreateCustomer(ctx context.Context, req customer.CreateRequest) (string, error) {
	var resp struct {
		CustomerID string `json:"customerId"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/customers", req, &resp); err != nil {
		return "", err
	}
	return resp.CustomerID, nil
}

// GetCustomer fetches one customer.
func (c *PaymentClient) GetCustomer(ctx context.Context, id string) (*customer.Customer, error) {
	var cust customer.Customer
	if err := c.do(ctx, http.MethodGet, "/v1/customers/"+url.PathEscape(id), nil, &cust); err != nil {
		return nil, err
	}
	return &cust, nil
}

// SubmitTransaction submits a transaction for admission and returns the
// new transaction id. Rejections come back as *APIError.
func (c *PaymentClient) SubmitTransaction(ctx context.Context, customerID, amount, currency string) (string, error) {
	body := map[string]any{
		"customerId": customerID,
		"amount":     json.Number(amount),
		"currency":   currency,
	}
	var resp struct {
		TransactionID string `json:"transactionId"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/transactions", body, &resp); err != nil {
		return "", err
	}
	return resp.TransactionID, nil
}

// ListTransactions returns a customer's ledger in insertion order.
func (c *PaymentClient) ListTransactions(ctx context.Context, customerID string) ([]ledger.Transaction, error) {
	var txs []ledger.Transaction
	if err := c.do(ctx, http.MethodGet, "/v1/customers/"+url.PathEscape(customerID)+"/transactions", nil, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// ListFraudAlerts returns the alerts raised against a customer.
func (c *PaymentClient) ListFraudAlerts(ctx context.Context, customerID string) ([]fraud.Alert, error) {
	var resp struct {
		Alerts []fraud.Alert `json:"alerts"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/customers/"+url.PathEscape(customerID)+"/fraud-alerts", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Alerts, nil
}

// asAPIError unwraps an *APIError.
func asAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}
