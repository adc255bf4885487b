package payment

import (
	"context"
	"time"
)

// Result is the disposition of a collection attempt as reported to callers.
type Result string

const (
	ResultSuccess    Result = "success"
	ResultProcessing Result = "processing"
	ResultFailed     Result = "failed"
)

// AuthorizeRequest is the STK push sent to an authorization provider.
type AuthorizeRequest struct {
	PhoneNumber   string  // normalized, e.g. 254712345678
	AmountKES     float64 // order outstanding total
	TransactionID string  // locally generated attempt reference
}

// AuthorizeResult is a provider resolution. Status is ResultSuccess
// (receipt and timestamp set) or ResultProcessing (gateway accepted the
// push but the customer has not yet authorized; confirmation follows).
type AuthorizeResult struct {
	Status    Result
	ReceiptID string
	Timestamp time.Time
}

// Provider pushes an authorization prompt to the customer's phone. The mock
// provider resolves in-process; a real one talks to a mobile-money gateway.
// The session state machine is agnostic to which is plugged in.
type Provider interface {
	Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResult, error)
}

// Status is the externally observable result of one collection session.
type Status struct {
	TransactionID string     `json:"transaction_id"`
	Status        Result     `json:"status"`
	AmountKES     float64    `json:"amount"`
	PhoneNumber   string     `json:"phone_number"`
	ReceiptID     string     `json:"mpesa_receipt_number,omitempty"`
	CompletedAt   *time.Time `json:"transaction_date,omitempty"`
	ErrorMessage  string     `json:"error_message,omitempty"`
}
