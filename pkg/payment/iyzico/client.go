package iyzico

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client represents an iyzico API client
type Client struct {
	config     Config
	httpClient *http.Client
}

// NewClient creates a new iyzico client with the given configuration
func NewClient(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Create HTTP client with reasonable timeout
	httpClient := &http.Client{
		Timeout: 30 * time.Second,
	}

	return &Client{
		config:     config,
		httpClient: httpClient,
	}, nil
}

// GetConfig returns the client configuration
func (c *Client) GetConfig() Config {
	return c.config
}

// Charge submits a card payment for authorization.
// A declined card comes back as a PaymentResult with Status "failure",
// not as an error; errors are reserved for transport and credential
// problems.
func (c *Client) Charge(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	if req.PaymentChannel == "" {
		req.PaymentChannel = PaymentChannelWeb
	}
	if req.PaymentGroup == "" {
		req.PaymentGroup = PaymentGroupProduct
	}

	resp, err := c.doRequest(ctx, "payment/auth", req)
	if err != nil {
		return nil, fmt.Errorf("failed to make charge request: %w", err)
	}

	var result PaymentResult
	if err := json.Unmarshal(resp, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal charge response: %w", err)
	}

	return &result, nil
}

// doRequest performs an HTTP request to the iyzico API
func (c *Client) doRequest(ctx context.Context, endpoint string, payload interface{}) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	url := fmt.Sprintf("%s/%s", c.config.BaseURL, endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	// iyzico request signing: random nonce plus an HMAC-SHA1 over
	// apiKey + nonce + body, base64 encoded
	nonce := uuid.New().String()
	req.Header.Set("Authorization", "IYZWS "+c.config.APIKey+":"+c.sign(nonce, reqBody))
	req.Header.Set("x-iyzi-rnd", nonce)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNetworkError, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	// Handle error responses
	if resp.StatusCode != http.StatusOK {
		var errResp PaymentResult
		if err := json.Unmarshal(body, &errResp); err != nil {
			// If we can't parse the error response, return a generic error
			return nil, fmt.Errorf("%w: unexpected status code: %d, body: %s", ErrPaymentFailed, resp.StatusCode, string(body))
		}

		errorMsg := fmt.Sprintf("iyzico API error - Status: %d, Code: %s, Message: %s",
			resp.StatusCode, errResp.ErrorCode, errResp.ErrorMessage)

		// Map common error codes to custom errors
		switch resp.StatusCode {
		case http.StatusUnauthorized:
			return nil, fmt.Errorf("%w: %s", ErrUnauthorized, errorMsg)
		case http.StatusBadRequest:
			return nil, fmt.Errorf("%w: %s", ErrInvalidRequest, errorMsg)
		default:
			return nil, fmt.Errorf("%w: %s", ErrPaymentFailed, errorMsg)
		}
	}

	return body, nil
}

func (c *Client) sign(nonce string, body []byte) string {
	mac := hmac.New(sha1.New, []byte(c.config.SecretKey))
	mac.Write([]byte(c.config.APIKey))
	mac.Write([]byte(nonce))
	mac.Write(body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
