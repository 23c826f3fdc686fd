package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

var (
	// ErrInvalidReference means the gateway rejected the reference (4xx on verify).
	ErrInvalidReference = errors.New("paystack: invalid transaction reference")
	// ErrInitFailed means the gateway reported initialization failure.
	ErrInitFailed = errors.New("paystack: transaction initialization failed")
)

// Config holds the gateway credentials. Injected at construction; business
// logic never reads the environment.
type Config struct {
	BaseURL   string
	SecretKey string
}

// Client talks to the Paystack transaction API.
type Client struct {
	baseURL   string
	secretKey string
	client    *http.Client
}

func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.paystack.co"
	}
	return &Client{
		baseURL:   cfg.BaseURL,
		secretKey: cfg.SecretKey,
		client:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Metadata is the opaque bag set at initialization and echoed back verbatim on
// verification. TransactionRef carries the internal payment id.
type Metadata struct {
	TransactionRef string `json:"transaction_ref"`
	ItemType       string `json:"item_type"`
	ItemID         string `json:"item_id"`
}

type InitializeRequest struct {
	Email       string
	AmountCents int64
	CallbackURL string
	Metadata    Metadata
}

type InitializeResponse struct {
	AuthorizationURL string
	AccessCode       string
	Reference        string
}

type initializePayload struct {
	Email       string   `json:"email"`
	Amount      string   `json:"amount"` // minor units, as a string per API docs
	CallbackURL string   `json:"callback_url,omitempty"`
	Metadata    Metadata `json:"metadata"`
}

type initializeResponseBody struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// InitializeTransaction creates a hosted-payment-page session and returns the
// gateway reference the client completes payment against.
func (c *Client) InitializeTransaction(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	payload := initializePayload{
		Email:       req.Email,
		Amount:      strconv.FormatInt(req.AmountCents, 10),
		CallbackURL: req.CallbackURL,
		Metadata:    req.Metadata,
	}
	body, _ := json.Marshal(payload)
	apiReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/transaction/initialize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	apiReq.Header.Set("Content-Type", "application/json")
	apiReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	resp, err := c.client.Do(apiReq)
	if err != nil {
		return nil, fmt.Errorf("paystack initialize: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("%w: status %d", ErrInitFailed, resp.StatusCode)
	}
	var out initializeResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	if !out.Status {
		return nil, fmt.Errorf("%w: %s", ErrInitFailed, out.Message)
	}
	return &InitializeResponse{
		AuthorizationURL: out.Data.AuthorizationURL,
		AccessCode:       out.Data.AccessCode,
		Reference:        out.Data.Reference,
	}, nil
}

type VerifyResponse struct {
	// Status is the gateway-reported transaction status, e.g. "success",
	// "failed", "abandoned".
	Status      string
	AmountCents int64
	Reference   string
	Metadata    Metadata
}

type verifyResponseBody struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status    string   `json:"status"`
		Amount    int64    `json:"amount"`
		Reference string   `json:"reference"`
		Metadata  Metadata `json:"metadata"`
	} `json:"data"`
}

// VerifyTransaction confirms a transaction reference with the gateway. A 4xx
// response maps to ErrInvalidReference; the echoed metadata is returned as-is.
func (c *Client) VerifyTransaction(ctx context.Context, reference string) (*VerifyResponse, error) {
	apiReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, err
	}
	apiReq.Header.Set("Authorization", "Bearer "+c.secretKey)
	resp, err := c.client.Do(apiReq)
	if err != nil {
		return nil, fmt.Errorf("paystack verify: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusBadRequest && resp.StatusCode < http.StatusInternalServerError {
		return nil, ErrInvalidReference
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paystack verify: status %d", resp.StatusCode)
	}
	var out verifyResponseBody
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, err
	}
	return &VerifyResponse{
		Status:      out.Data.Status,
		AmountCents: out.Data.Amount,
		Reference:   out.Data.Reference,
		Metadata:    out.Data.Metadata,
	}, nil
}
