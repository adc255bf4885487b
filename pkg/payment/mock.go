package payment

import (
	"context"
	"errors"
	"time"
)

// ErrDeclined is the fixed rejection the mock reports; the message is what
// the app displays, verbatim.
var ErrDeclined = errors.New("Payment failed. Customer cancelled or insufficient funds.")

// MockProvider is the in-process test double. The outcome is derived from
// the last digit of the normalized phone number: 0-2 declined, 3-6
// immediate success, 7-9 accepted but pending customer authorization.
type MockProvider struct {
	latency time.Duration
	clock   Clock
	ids     IDs
}

// NewMockProvider builds the default mock. latency simulates the gateway
// round trip; pass zero in tests.
func NewMockProvider(latency time.Duration) *MockProvider {
	return &MockProvider{latency: latency, clock: SystemClock(), ids: UUIDs()}
}

// NewMockProviderWith allows injecting the clock and id generator.
func NewMockProviderWith(latency time.Duration, clock Clock, ids IDs) *MockProvider {
	return &MockProvider{latency: latency, clock: clock, ids: ids}
}

func (m *MockProvider) Authorize(ctx context.Context, req AuthorizeRequest) (*AuthorizeResult, error) {
	if m.latency > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.latency):
		}
	}
	if req.PhoneNumber == "" {
		return nil, ErrDeclined
	}
	last := req.PhoneNumber[len(req.PhoneNumber)-1]
	switch {
	case last <= '2':
		return nil, ErrDeclined
	case last <= '6':
		return &AuthorizeResult{
			Status:    ResultSuccess,
			ReceiptID: m.ids.ReceiptID(),
			Timestamp: m.clock.Now(),
		}, nil
	default:
		return &AuthorizeResult{Status: ResultProcessing}, nil
	}
}
