package payment

import (
	"strings"

	"github.com/google/uuid"
)

// IDs generates transaction and receipt identifiers. Injectable so tests
// can assert on fixed values.
type IDs interface {
	TransactionID() string
	ReceiptID() string
}

type uuidIDs struct{}

// UUIDs returns the default uuid-backed generator.
func UUIDs() IDs { return uuidIDs{} }

func (uuidIDs) TransactionID() string { return "TXN" + token(12) }

func (uuidIDs) ReceiptID() string { return "MPE" + token(8) }

func token(n int) string {
	s := strings.ReplaceAll(uuid.New().String(), "-", "")
	return strings.ToUpper(s[:n])
}
