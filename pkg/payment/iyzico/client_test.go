package iyzico

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(baseURL string) Config {
	return Config{
		APIKey:    "test-api-key",
		SecretKey: "test-secret-key",
		BaseURL:   baseURL,
	}
}

func testPaymentRequest() PaymentRequest {
	return PaymentRequest{
		Locale:         "tr",
		ConversationID: "conv-123",
		Price:          "25.00",
		PaidPrice:      "25.00",
		Currency:       "TRY",
		Installment:    1,
		BasketID:       "basket-1",
		PaymentCard: PaymentCard{
			CardHolderName: "Jane Doe",
			CardNumber:     "5528790000000008",
			ExpireMonth:    "12",
			ExpireYear:     "2030",
			CVC:            "123",
		},
		Buyer: Buyer{
			ID:                  "1",
			Name:                "Jane",
			Surname:             "Doe",
			Email:               "jane@example.com",
			IdentityNumber:      "11111111111",
			RegistrationAddress: "Test Street 1",
			IP:                  "127.0.0.1",
			City:                "Istanbul",
			Country:             "Turkey",
		},
		ShippingAddress: Address{
			ContactName: "Jane Doe",
			City:        "Istanbul",
			Country:     "Turkey",
			Description: "Test Street 1",
		},
		BillingAddress: Address{
			ContactName: "Jane Doe",
			City:        "Istanbul",
			Country:     "Turkey",
			Description: "Test Street 1",
		},
		BasketItems: []BasketItem{
			{ID: "1", Name: "Widget", Category1: "Tools", ItemType: ItemTypePhysical, Price: "25.00"},
		},
	}
}

func TestNewClient_InvalidConfig(t *testing.T) {
	tests := []struct {
		name   string
		config Config
	}{
		{name: "Missing API key", config: Config{SecretKey: "s", BaseURL: "http://localhost"}},
		{name: "Missing secret key", config: Config{APIKey: "k", BaseURL: "http://localhost"}},
		{name: "Missing base URL", config: Config{APIKey: "k", SecretKey: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.config)
			assert.Error(t, err)
			assert.Nil(t, client)
		})
	}
}

func TestCharge_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/payment/auth", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("x-iyzi-rnd"))

		var req PaymentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "conv-123", req.ConversationID)
		assert.Equal(t, PaymentChannelWeb, req.PaymentChannel)
		assert.Equal(t, PaymentGroupProduct, req.PaymentGroup)

		json.NewEncoder(w).Encode(PaymentResult{
			Status:         StatusSuccess,
			PaymentID:      "pay-42",
			ConversationID: req.ConversationID,
			Price:          req.Price,
			PaidPrice:      req.PaidPrice,
			Currency:       req.Currency,
		})
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	result, err := client.Charge(context.Background(), testPaymentRequest())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Succeeded())
	assert.Equal(t, "pay-42", result.PaymentID)
	assert.Equal(t, "conv-123", result.ConversationID)
}

func TestCharge_Declined(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The gateway answers 200 with a failure status for declined cards
		json.NewEncoder(w).Encode(PaymentResult{
			Status:         StatusFailure,
			ConversationID: "conv-123",
			ErrorCode:      "10051",
			ErrorMessage:   "Insufficient funds",
		})
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	result, err := client.Charge(context.Background(), testPaymentRequest())
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.False(t, result.Succeeded())
	assert.Equal(t, "10051", result.ErrorCode)
	assert.Equal(t, "Insufficient funds", result.ErrorMessage)
}

func TestCharge_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(PaymentResult{
			Status:       StatusFailure,
			ErrorCode:    "1001",
			ErrorMessage: "Invalid api credentials",
		})
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	result, err := client.Charge(context.Background(), testPaymentRequest())
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Nil(t, result)
}

func TestCharge_BadRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(PaymentResult{
			Status:       StatusFailure,
			ErrorCode:    "5002",
			ErrorMessage: "basketId is required",
		})
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	result, err := client.Charge(context.Background(), testPaymentRequest())
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Nil(t, result)
}

func TestCharge_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("internal error"))
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	result, err := client.Charge(context.Background(), testPaymentRequest())
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrPaymentFailed)
	assert.Nil(t, result)
}

func TestCharge_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	result, err := client.Charge(context.Background(), testPaymentRequest())
	assert.Error(t, err)
	assert.ErrorIs(t, err, ErrNetworkError)
	assert.Nil(t, result)
}

func TestCharge_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		json.NewEncoder(w).Encode(PaymentResult{Status: StatusSuccess})
	}))
	defer server.Close()

	client, err := NewClient(testConfig(server.URL))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	result, err := client.Charge(ctx, testPaymentRequest())
	assert.Error(t, err)
	assert.Nil(t, result)
}
