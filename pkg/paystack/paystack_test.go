package paystack

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTransaction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/transaction/initialize", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_xyz", r.Header.Get("Authorization"))

		var payload map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "buyer@example.com", payload["email"])
		assert.Equal(t, "10000", payload["amount"])
		meta := payload["metadata"].(map[string]interface{})
		assert.Equal(t, "42", meta["transaction_ref"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": true,
			"message": "Authorization URL created",
			"data": {
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code": "abc123",
				"reference": "ps-ref-1"
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, SecretKey: "sk_test_xyz"})
	resp, err := c.InitializeTransaction(context.Background(), InitializeRequest{
		Email:       "buyer@example.com",
		AmountCents: 10000,
		Metadata:    Metadata{TransactionRef: "42", ItemType: "COURSE", ItemID: "7"},
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc123", resp.AuthorizationURL)
	assert.Equal(t, "ps-ref-1", resp.Reference)
}

func TestInitializeTransactionGatewayDecline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status": false, "message": "Invalid key"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, SecretKey: "bad"})
	_, err := c.InitializeTransaction(context.Background(), InitializeRequest{Email: "x@example.com", AmountCents: 100})
	assert.ErrorIs(t, err, ErrInitFailed)
}

func TestVerifyTransactionEchoesMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/transaction/verify/ps-ref-1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": true,
			"message": "Verification successful",
			"data": {
				"status": "success",
				"amount": 10000,
				"reference": "ps-ref-1",
				"metadata": {"transaction_ref": "42", "item_type": "COURSE", "item_id": "7"}
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, SecretKey: "sk_test_xyz"})
	resp, err := c.VerifyTransaction(context.Background(), "ps-ref-1")
	require.NoError(t, err)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, int64(10000), resp.AmountCents)
	assert.Equal(t, Metadata{TransactionRef: "42", ItemType: "COURSE", ItemID: "7"}, resp.Metadata)
}

func TestVerifyTransactionNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": true,
			"message": "Verification successful",
			"data": {"status": "abandoned", "amount": 10000, "reference": "ps-ref-2", "metadata": {}}
		}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, SecretKey: "sk_test_xyz"})
	resp, err := c.VerifyTransaction(context.Background(), "ps-ref-2")
	require.NoError(t, err)
	assert.Equal(t, "abandoned", resp.Status)
}

func TestVerifyTransactionInvalidReference(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"status": false, "message": "Transaction reference not found"}`))
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, SecretKey: "sk_test_xyz"})
	_, err := c.VerifyTransaction(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrInvalidReference)
}
