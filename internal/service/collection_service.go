package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"dukadrop/internal/erpnext"
	"dukadrop/internal/ws"
	"dukadrop/pkg/payment"
)

var (
	// ErrCollectionActive rejects opening a second collection for an order.
	ErrCollectionActive = errors.New("collection already active for this order")
	// ErrNoCollection means no session exists for the order.
	ErrNoCollection = errors.New("no collection for this order")
	// ErrUnknownTransaction means a gateway callback referenced no live session.
	ErrUnknownTransaction = errors.New("unknown transaction reference")
)

// CollectionEvent is broadcast to app clients over the websocket stream.
type CollectionEvent struct {
	Type    string         `json:"type"`
	OrderID string         `json:"order_id"`
	Payment payment.Status `json:"payment"`
}

// CollectionService owns the per-order payment sessions. Sessions for
// different orders are independent; at most one is live per order.
type CollectionService struct {
	provider payment.Provider
	erp      *erpnext.Client
	hub      *ws.Hub
	clock    payment.Clock
	ids      payment.IDs
	delays   payment.Delays

	mu       sync.Mutex
	sessions map[string]*payment.Session
}

func NewCollectionService(provider payment.Provider, erp *erpnext.Client, hub *ws.Hub, clock payment.Clock, ids payment.IDs, delays payment.Delays) *CollectionService {
	return &CollectionService{
		provider: provider,
		erp:      erp,
		hub:      hub,
		clock:    clock,
		ids:      ids,
		delays:   delays,
		sessions: make(map[string]*payment.Session),
	}
}

// Start opens a fresh session for the order and begins the STK push flow.
// Returns the transaction ID of the new attempt.
func (s *CollectionService) Start(orderID, rawPhone string, amountKES float64) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[orderID]; ok {
		return "", ErrCollectionActive
	}
	session := s.newSession(orderID)
	if err := session.Start(rawPhone, amountKES); err != nil {
		return "", err
	}
	s.sessions[orderID] = session
	log.Printf("[COLLECT] order %s: started tx=%s phone=%s amount=%.2f", orderID, session.TransactionID(), session.PhoneNumber(), amountKES)
	return session.TransactionID(), nil
}

// Status reports the session phase and attempt status for an order.
func (s *CollectionService) Status(orderID string) (payment.Phase, *payment.Status, error) {
	s.mu.Lock()
	session, ok := s.sessions[orderID]
	s.mu.Unlock()
	if !ok {
		return "", nil, ErrNoCollection
	}
	phase, st := session.Snapshot()
	return phase, st, nil
}

// Retry replaces a failed session with a fresh one sharing the same phone
// and amount. The new attempt gets its own transaction ID.
func (s *CollectionService) Retry(orderID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	old, ok := s.sessions[orderID]
	if !ok {
		return "", ErrNoCollection
	}
	if old.Phase() != payment.PhaseFailed {
		return "", payment.ErrNotFailed
	}
	phone, amount := old.PhoneNumber(), old.AmountKES()
	old.Cancel()
	fresh := s.newSession(orderID)
	if err := fresh.Start(phone, amount); err != nil {
		return "", err
	}
	s.sessions[orderID] = fresh
	log.Printf("[COLLECT] order %s: retry tx=%s", orderID, fresh.TransactionID())
	return fresh.TransactionID(), nil
}

// Cancel abandons the order's session. Pending timers will not fire and no
// completion callback is delivered.
func (s *CollectionService) Cancel(orderID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[orderID]
	if !ok {
		return ErrNoCollection
	}
	session.Cancel()
	delete(s.sessions, orderID)
	log.Printf("[COLLECT] order %s: cancelled", orderID)
	return nil
}

// HandleGatewayResult resolves a pending session from an out-of-band
// gateway confirmation, matched by transaction reference.
func (s *CollectionService) HandleGatewayResult(transactionID string, success bool, receiptID, message string, at time.Time) error {
	s.mu.Lock()
	var session *payment.Session
	for _, candidate := range s.sessions {
		if candidate.TransactionID() == transactionID {
			session = candidate
			break
		}
	}
	s.mu.Unlock()
	if session == nil {
		return ErrUnknownTransaction
	}
	if success {
		return session.Resolve(receiptID, at)
	}
	return session.Fail(message)
}

func (s *CollectionService) newSession(orderID string) *payment.Session {
	return payment.NewSession(payment.SessionConfig{
		Provider: s.provider,
		Clock:    s.clock,
		IDs:      s.ids,
		Delays:   s.delays,
		OnComplete: func(st payment.Status) {
			s.finish(orderID, st)
		},
	})
}

// finish runs once per successful session: broadcast the result, reconcile
// the ERP order, and drop the session.
func (s *CollectionService) finish(orderID string, st payment.Status) {
	log.Printf("[COLLECT] order %s: completed tx=%s receipt=%s amount=%.2f", orderID, st.TransactionID, st.ReceiptID, st.AmountKES)
	if s.hub != nil {
		s.hub.Broadcast(CollectionEvent{
			Type:    "collection.completed",
			OrderID: orderID,
			Payment: st,
		})
	}
	// The backend reconciles the same payment independently; a failure here
	// is logged and the local result stands.
	if s.erp != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := s.erp.UpdateOrderStatus(ctx, orderID, "Completed"); err != nil {
			log.Printf("[COLLECT] order %s: erp status update failed: %v", orderID, err)
		}
	}
	s.mu.Lock()
	delete(s.sessions, orderID)
	s.mu.Unlock()
}
