package payment

import (
	"context"
	"errors"
	"sync"
	"time"

	"dukadrop/pkg/phone"
)

// Phase is the session state-machine state.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseInitiating Phase = "initiating"
	PhaseProcessing Phase = "processing"
	PhaseCompleted  Phase = "completed"
	PhaseFailed     Phase = "failed"
)

var (
	// ErrInvalidPhone rejects Start before any state change or timer.
	ErrInvalidPhone = errors.New("payment: invalid phone number")
	// ErrInvalidAmount rejects a non-positive collection amount.
	ErrInvalidAmount = errors.New("payment: amount must be positive")
	// ErrDoubleStart rejects Start while the session is not idle.
	ErrDoubleStart = errors.New("payment: session already started")
	// ErrNotFailed rejects Reset outside the failed phase.
	ErrNotFailed = errors.New("payment: session is not in a failed phase")
	// ErrNotProcessing rejects an out-of-band resolution outside processing.
	ErrNotProcessing = errors.New("payment: session is not awaiting confirmation")
)

// Delays are the timed gaps in the collection flow.
type Delays struct {
	Initiation time.Duration // gateway round trip before the push goes out
	FollowUp   time.Duration // wait before a pending push is confirmed
	Display    time.Duration // result shown before the completion callback
}

// DefaultDelays matches the live flow timings.
func DefaultDelays() Delays {
	return Delays{
		Initiation: 1 * time.Second,
		FollowUp:   5 * time.Second,
		Display:    2 * time.Second,
	}
}

// SessionConfig wires a session's collaborators. Provider is required;
// zero-value fields fall back to system defaults.
type SessionConfig struct {
	Provider   Provider
	Clock      Clock
	IDs        IDs
	Delays     Delays
	OnComplete func(Status) // fired at most once, only on success
}

// Session is a single-use state machine driving one STK push collection
// for one order: idle -> initiating -> processing -> completed|failed.
// A failed session can be reset to idle for another attempt; a session is
// never reused after completion. Safe for concurrent use, but each session
// belongs to exactly one order.
type Session struct {
	provider   Provider
	clock      Clock
	ids        IDs
	delays     Delays
	onComplete func(Status)

	mu       sync.Mutex
	phase    Phase
	gen      int // bumped on Cancel/Reset; stale timers check it first
	phone    string
	amount   float64
	txID     string
	lastErr  string
	result   *Status
	timer    Timer
	cancelFn context.CancelFunc
	notified bool
}

func NewSession(cfg SessionConfig) *Session {
	if cfg.Clock == nil {
		cfg.Clock = SystemClock()
	}
	if cfg.IDs == nil {
		cfg.IDs = UUIDs()
	}
	if cfg.Delays == (Delays{}) {
		cfg.Delays = DefaultDelays()
	}
	return &Session{
		provider:   cfg.Provider,
		clock:      cfg.Clock,
		ids:        cfg.IDs,
		delays:     cfg.Delays,
		onComplete: cfg.OnComplete,
		phase:      PhaseIdle,
	}
}

// Start validates the phone and amount, then enters the collection flow.
// On validation failure the session stays idle and nothing is scheduled.
// Phone and amount are fixed for the life of the attempt.
func (s *Session) Start(rawPhone string, amountKES float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseIdle {
		return ErrDoubleStart
	}
	if !phone.IsValid(rawPhone) {
		return ErrInvalidPhone
	}
	if amountKES <= 0 {
		return ErrInvalidAmount
	}
	s.phone = phone.Normalize(rawPhone)
	s.amount = amountKES
	s.txID = s.ids.TransactionID()
	s.phase = PhaseInitiating
	ctx, cancel := context.WithCancel(context.Background())
	s.cancelFn = cancel
	gen := s.gen
	s.timer = s.clock.AfterFunc(s.delays.Initiation, func() { s.initiate(gen, ctx) })
	return nil
}

// initiate moves initiating -> processing and issues the provider request.
func (s *Session) initiate(gen int, ctx context.Context) {
	s.mu.Lock()
	if gen != s.gen || s.phase != PhaseInitiating {
		s.mu.Unlock()
		return
	}
	s.phase = PhaseProcessing
	req := AuthorizeRequest{
		PhoneNumber:   s.phone,
		AmountKES:     s.amount,
		TransactionID: s.txID,
	}
	s.mu.Unlock()

	res, err := s.provider.Authorize(ctx, req)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.phase != PhaseProcessing {
		return
	}
	if err != nil {
		s.failLocked(err.Error())
		return
	}
	switch res.Status {
	case ResultSuccess:
		s.completeLocked(gen, res.ReceiptID, res.Timestamp)
	case ResultProcessing:
		s.result = &Status{
			TransactionID: s.txID,
			Status:        ResultProcessing,
			AmountKES:     s.amount,
			PhoneNumber:   s.phone,
		}
		s.timer = s.clock.AfterFunc(s.delays.FollowUp, func() { s.confirm(gen) })
	default:
		s.failLocked("unexpected provider status: " + string(res.Status))
	}
}

// confirm resolves a pending push. The reference flow models a single
// webhook round trip that always confirms; a gateway callback arriving
// first (Resolve/Fail) moves the session out of processing and makes this
// a no-op.
func (s *Session) confirm(gen int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.phase != PhaseProcessing {
		return
	}
	s.completeLocked(gen, s.ids.ReceiptID(), s.clock.Now())
}

// Resolve completes a pending attempt from an out-of-band gateway
// confirmation, preempting the scheduled follow-up.
func (s *Session) Resolve(receiptID string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseProcessing {
		return ErrNotProcessing
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.completeLocked(s.gen, receiptID, at)
	return nil
}

// Fail marks a pending attempt failed from an out-of-band gateway rejection.
func (s *Session) Fail(message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseProcessing {
		return ErrNotProcessing
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.failLocked(message)
	return nil
}

func (s *Session) failLocked(message string) {
	s.phase = PhaseFailed
	s.lastErr = message
	s.result = &Status{
		TransactionID: s.txID,
		Status:        ResultFailed,
		AmountKES:     s.amount,
		PhoneNumber:   s.phone,
		ErrorMessage:  message,
	}
}

func (s *Session) completeLocked(gen int, receiptID string, at time.Time) {
	s.phase = PhaseCompleted
	completed := at
	s.result = &Status{
		TransactionID: s.txID,
		Status:        ResultSuccess,
		AmountKES:     s.amount,
		PhoneNumber:   s.phone,
		ReceiptID:     receiptID,
		CompletedAt:   &completed,
	}
	final := *s.result
	s.timer = s.clock.AfterFunc(s.delays.Display, func() { s.notify(gen, final) })
}

func (s *Session) notify(gen int, final Status) {
	s.mu.Lock()
	if gen != s.gen || s.notified {
		s.mu.Unlock()
		return
	}
	s.notified = true
	cb := s.onComplete
	s.mu.Unlock()
	if cb != nil {
		cb(final)
	}
}

// Cancel abandons the session at any phase. Pending timers and the
// in-flight provider call are invalidated; the completion callback will
// not fire afterwards.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancelFn != nil {
		s.cancelFn()
		s.cancelFn = nil
	}
}

// Reset returns a failed session to idle for another attempt with the same
// phone and amount. A fresh transaction ID is generated on the next Start.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase != PhaseFailed {
		return ErrNotFailed
	}
	s.gen++
	s.phase = PhaseIdle
	s.lastErr = ""
	s.result = nil
	s.txID = ""
	return nil
}

// Phase returns the current state-machine state.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// LastError returns the recorded failure message, empty unless failed.
func (s *Session) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// TransactionID returns the current attempt reference, empty before Start.
func (s *Session) TransactionID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.txID
}

// PhoneNumber returns the normalized phone fixed at Start.
func (s *Session) PhoneNumber() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phone
}

// AmountKES returns the amount fixed at Start.
func (s *Session) AmountKES() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.amount
}

// Snapshot returns the phase and a copy of the attempt status, nil while
// no provider resolution has been recorded yet.
func (s *Session) Snapshot() (Phase, *Status) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return s.phase, nil
	}
	st := *s.result
	return s.phase, &st
}
