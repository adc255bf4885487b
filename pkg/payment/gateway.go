package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"
)

// GatewayProvider sends the STK push to an HTTP mobile-money gateway.
// The gateway accepts the push and confirms out-of-band via webhook, so an
// accepted request maps to ResultProcessing; the collection service resolves
// the session when the callback arrives (or the timed follow-up fires).
type GatewayProvider struct {
	BaseURL string
	APIKey  string
	client  *http.Client
}

func NewGatewayProvider(baseURL, apiKey string) *GatewayProvider {
	return &GatewayProvider{
		BaseURL: baseURL,
		APIKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

type stkPushReq struct {
	PhoneNumber string `json:"phone_number"`
	Amount      string `json:"amount"`
	Reference   string `json:"reference"`
}

type stkPushResp struct {
	TransactionID       string `json:"transaction_id"`
	CheckoutReference   string `json:"checkout_reference"`
	ResponseCode        string `json:"response_code"`
	ResponseDescription string `json:"response_description"`
}

func (p *GatewayProvider) Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResult, error) {
	payload := stkPushReq{
		PhoneNumber: req.PhoneNumber,
		Amount:      strconv.FormatFloat(req.AmountKES, 'f', 2, 64),
		Reference:   req.TransactionID,
	}
	body, _ := json.Marshal(payload)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.BaseURL+"/api/v1/stkpush", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if p.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+p.APIKey)
	}
	log.Printf("[STK] POST %s/api/v1/stkpush reference=%s phone=%s", p.BaseURL, req.TransactionID, req.PhoneNumber)
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("stk push: status %d", resp.StatusCode)
	}
	var out stkPushResp
	if err := json.Unmarshal(respBody, &out); err != nil {
		return nil, err
	}
	log.Printf("[STK] response reference=%s checkout=%s code=%s", req.TransactionID, out.CheckoutReference, out.ResponseCode)
	if out.ResponseCode != "0" {
		return nil, fmt.Errorf("stk push rejected: %s", out.ResponseDescription)
	}
	// Confirmation arrives via the gateway webhook.
	return &AuthorizeResult{Status: ResultProcessing}, nil
}
