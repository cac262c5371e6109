package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// PaymentMethod tags how funds were received. All methods reconcile identically.
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodCheck    PaymentMethod = "check"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

var confirmationPrefixes = map[PaymentMethod]string{
	PaymentMethodCash:     "CASH",
	PaymentMethodCheck:    "CHK",
	PaymentMethodTransfer: "TRF",
}

// Valid reports whether m is one of the accepted payment methods.
func (m PaymentMethod) Valid() bool {
	_, ok := confirmationPrefixes[m]
	return ok
}

// NewConfirmation returns a traceable reference such as CHK-3F2A9C1B07DE.
func (m PaymentMethod) NewConfirmation() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return confirmationPrefixes[m] + "-" + id[:12]
}

// Payment is an append-only ledger entry of funds applied to one invoice.
type Payment struct {
	ID           string        `json:"id"`
	InvoiceID    string        `json:"invoiceId"`
	Amount       float64       `json:"amount"`
	PaymentDate  time.Time     `json:"paymentDate"`
	Method       PaymentMethod `json:"method"`
	Note         string        `json:"note,omitempty"`
	Confirmation string        `json:"confirmation"`
	RecordedBy   string        `json:"recordedBy"`
	CreatedAt    time.Time     `json:"createdAt"`
}
