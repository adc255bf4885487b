package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGatewayProviderAccepted(t *testing.T) {
	var gotBody stkPushReq
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/stkpush", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(stkPushResp{
			TransactionID:       "GW-1",
			CheckoutReference:   "CHK-1",
			ResponseCode:        "0",
			ResponseDescription: "Success. Request accepted for processing",
		})
	}))
	defer srv.Close()

	p := NewGatewayProvider(srv.URL, "apikey")
	res, err := p.Authorize(context.Background(), AuthorizeRequest{
		PhoneNumber:   "254712345678",
		AmountKES:     1500.5,
		TransactionID: "TXN-1",
	})
	require.NoError(t, err)
	assert.Equal(t, ResultProcessing, res.Status, "confirmation arrives via webhook")
	assert.Equal(t, "254712345678", gotBody.PhoneNumber)
	assert.Equal(t, "1500.50", gotBody.Amount)
	assert.Equal(t, "TXN-1", gotBody.Reference)
	assert.Equal(t, "Bearer apikey", gotAuth)
}

func TestGatewayProviderRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(stkPushResp{
			ResponseCode:        "1032",
			ResponseDescription: "Request cancelled by user",
		})
	}))
	defer srv.Close()

	p := NewGatewayProvider(srv.URL, "")
	_, err := p.Authorize(context.Background(), AuthorizeRequest{PhoneNumber: "254712345678", AmountKES: 10, TransactionID: "TXN-2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Request cancelled by user")
}

func TestGatewayProviderHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := NewGatewayProvider(srv.URL, "")
	_, err := p.Authorize(context.Background(), AuthorizeRequest{PhoneNumber: "254712345678", AmountKES: 10, TransactionID: "TXN-3"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
