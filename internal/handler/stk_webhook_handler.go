package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"time"

	"dukadrop/internal/service"

	"github.com/gin-gonic/gin"
)

// STKCallback is the confirmation payload the gateway posts after the
// customer answers (or ignores) the push.
type STKCallback struct {
	Reference           string `json:"reference"` // our transaction id
	CheckoutReference   string `json:"checkout_reference"`
	ResponseCode        string `json:"response_code"`
	ResponseDescription string `json:"response_description"`
	ReceiptNumber       string `json:"receipt_number"`
	TransactionDate     string `json:"transaction_date"` // RFC 3339
	Status              string `json:"status"`           // COMPLETED | FAILED
}

type STKWebhookHandler struct {
	collections *service.CollectionService
}

func NewSTKWebhookHandler(collections *service.CollectionService) *STKWebhookHandler {
	return &STKWebhookHandler{collections: collections}
}

// Handle resolves the matching collection session from the gateway
// confirmation. Unknown references are acknowledged but ignored; the
// gateway retries otherwise.
func (h *STKWebhookHandler) Handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	var payload STKCallback
	if err := json.Unmarshal(body, &payload); err != nil {
		log.Printf("[STK callback] unmarshal: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	log.Printf("[STK callback] reference=%s status=%s code=%s receipt=%s", payload.Reference, payload.Status, payload.ResponseCode, payload.ReceiptNumber)
	if payload.Reference == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing reference"})
		return
	}
	success := payload.Status == "COMPLETED" && payload.ResponseCode == "0"
	at := time.Now()
	if t, err := time.Parse(time.RFC3339, payload.TransactionDate); err == nil {
		at = t
	}
	message := payload.ResponseDescription
	if message == "" {
		message = "Payment failed at the gateway."
	}
	err = h.collections.HandleGatewayResult(payload.Reference, success, payload.ReceiptNumber, message, at)
	if err != nil && !errors.Is(err, service.ErrUnknownTransaction) {
		log.Printf("[STK callback] reference=%s: %v", payload.Reference, err)
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
