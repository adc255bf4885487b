package service

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"dukadrop/internal/erpnext"
	"dukadrop/internal/models"
	"dukadrop/pkg/payment"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDelays() payment.Delays {
	return payment.Delays{
		Initiation: 1 * time.Second,
		FollowUp:   5 * time.Second,
		Display:    2 * time.Second,
	}
}

type erpRecorder struct {
	mu      sync.Mutex
	updates []string
}

func (e *erpRecorder) add(path string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.updates = append(e.updates, path)
}

func (e *erpRecorder) paths() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string(nil), e.updates...)
}

func newTestService(t *testing.T) (*CollectionService, *payment.ManualClock, *erpRecorder) {
	t.Helper()
	rec := &erpRecorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPut {
			rec.add(r.URL.EscapedPath())
		}
		w.Write([]byte(`{"data":{}}`))
	}))
	t.Cleanup(srv.Close)
	erp := erpnext.NewClient(func() models.Settings {
		return models.Settings{BaseURL: srv.URL}
	})
	clock := payment.NewManualClock()
	svc := NewCollectionService(payment.NewMockProviderWith(0, clock, payment.UUIDs()), erp, nil, clock, payment.UUIDs(), testDelays())
	return svc, clock, rec
}

func TestStartAndComplete(t *testing.T) {
	svc, clock, rec := newTestService(t)
	tx, err := svc.Start("SO-0001", "0712345675", 1500)
	require.NoError(t, err)
	assert.NotEmpty(t, tx)

	phase, _, err := svc.Status("SO-0001")
	require.NoError(t, err)
	assert.Equal(t, payment.PhaseInitiating, phase)

	clock.Advance(time.Second)
	phase, st, err := svc.Status("SO-0001")
	require.NoError(t, err)
	assert.Equal(t, payment.PhaseCompleted, phase)
	require.NotNil(t, st)
	assert.NotEmpty(t, st.ReceiptID)

	clock.Advance(2 * time.Second) // display delay fires the completion path
	_, _, err = svc.Status("SO-0001")
	assert.ErrorIs(t, err, ErrNoCollection, "session destroyed after completion")
	assert.Equal(t, []string{"/api/resource/Sales%20Order/SO-0001"}, rec.paths())
}

func TestSecondStartRejectedWhileActive(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Start("SO-0001", "0712345678", 100)
	require.NoError(t, err)
	_, err = svc.Start("SO-0001", "0712345678", 100)
	assert.ErrorIs(t, err, ErrCollectionActive)
}

func TestIndependentOrders(t *testing.T) {
	svc, clock, _ := newTestService(t)
	_, err := svc.Start("SO-0001", "0712345671", 100) // will fail
	require.NoError(t, err)
	_, err = svc.Start("SO-0002", "0712345675", 200) // will succeed
	require.NoError(t, err)

	clock.Advance(time.Second)
	p1, _, _ := svc.Status("SO-0001")
	p2, _, _ := svc.Status("SO-0002")
	assert.Equal(t, payment.PhaseFailed, p1)
	assert.Equal(t, payment.PhaseCompleted, p2)
}

func TestInvalidStartRegistersNothing(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Start("SO-0001", "12345", 100)
	assert.ErrorIs(t, err, payment.ErrInvalidPhone)
	_, _, err = svc.Status("SO-0001")
	assert.ErrorIs(t, err, ErrNoCollection)
}

func TestRetryAfterFailure(t *testing.T) {
	svc, clock, _ := newTestService(t)
	tx1, err := svc.Start("SO-0001", "0712345671", 100)
	require.NoError(t, err)
	clock.Advance(time.Second)
	phase, _, _ := svc.Status("SO-0001")
	require.Equal(t, payment.PhaseFailed, phase)

	tx2, err := svc.Retry("SO-0001")
	require.NoError(t, err)
	assert.NotEqual(t, tx1, tx2, "fresh attempt gets an independent transaction id")
	phase, _, _ = svc.Status("SO-0001")
	assert.Equal(t, payment.PhaseInitiating, phase)
}

func TestRetryRequiresFailedSession(t *testing.T) {
	svc, _, _ := newTestService(t)
	_, err := svc.Retry("SO-0001")
	assert.ErrorIs(t, err, ErrNoCollection)

	_, err = svc.Start("SO-0001", "0712345675", 100)
	require.NoError(t, err)
	_, err = svc.Retry("SO-0001")
	assert.ErrorIs(t, err, payment.ErrNotFailed)
}

func TestCancelSuppressesCompletionAndERPUpdate(t *testing.T) {
	svc, clock, rec := newTestService(t)
	_, err := svc.Start("SO-0001", "0712345678", 100)
	require.NoError(t, err)
	clock.Advance(time.Second)
	phase, _, _ := svc.Status("SO-0001")
	require.Equal(t, payment.PhaseProcessing, phase)

	require.NoError(t, svc.Cancel("SO-0001"))
	clock.Advance(time.Minute)
	assert.Empty(t, rec.paths(), "abandoned session must not touch the ERP")
	_, _, err = svc.Status("SO-0001")
	assert.ErrorIs(t, err, ErrNoCollection)
}

func TestGatewayResultResolvesPendingSession(t *testing.T) {
	svc, clock, rec := newTestService(t)
	tx, err := svc.Start("SO-0001", "0712345679", 100)
	require.NoError(t, err)
	clock.Advance(time.Second) // now processing

	require.NoError(t, svc.HandleGatewayResult(tx, true, "MPEGW42", "", clock.Now()))
	phase, st, _ := svc.Status("SO-0001")
	assert.Equal(t, payment.PhaseCompleted, phase)
	assert.Equal(t, "MPEGW42", st.ReceiptID)

	clock.Advance(2 * time.Second)
	assert.Len(t, rec.paths(), 1)
}

func TestGatewayResultUnknownTransaction(t *testing.T) {
	svc, _, _ := newTestService(t)
	err := svc.HandleGatewayResult("TXN-NOPE", true, "MPE1", "", time.Now())
	assert.ErrorIs(t, err, ErrUnknownTransaction)
}

func TestGatewayFailureRecordsMessage(t *testing.T) {
	svc, clock, _ := newTestService(t)
	tx, err := svc.Start("SO-0001", "0712345679", 100)
	require.NoError(t, err)
	clock.Advance(time.Second)

	require.NoError(t, svc.HandleGatewayResult(tx, false, "", "The balance is insufficient", time.Now()))
	phase, st, _ := svc.Status("SO-0001")
	assert.Equal(t, payment.PhaseFailed, phase)
	assert.Equal(t, "The balance is insufficient", st.ErrorMessage)
}
