package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the settlement state of an invoice.
type InvoiceStatus string

const (
	InvoiceStatusUnpaid        InvoiceStatus = "unpaid"
	InvoiceStatusPartiallyPaid InvoiceStatus = "partially_paid"
	InvoiceStatusPaid          InvoiceStatus = "paid"
	InvoiceStatusOverdue       InvoiceStatus = "overdue"
)

// Valid reports whether s is one of the known statuses.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceStatusUnpaid, InvoiceStatusPartiallyPaid, InvoiceStatusPaid, InvoiceStatusOverdue:
		return true
	}
	return false
}

// OutstandingStatuses are the statuses an invoice can be overdue from.
var OutstandingStatuses = []InvoiceStatus{InvoiceStatusUnpaid, InvoiceStatusPartiallyPaid}

// Invoice is a debt instrument owed by exactly one client.
type Invoice struct {
	ID            string        `json:"id"`
	InvoiceNumber string        `json:"invoiceNumber"`
	ClientID      string        `json:"clientId"`
	Amount        float64       `json:"amount"`
	AmountPaid    float64       `json:"amountPaid"`
	DueDate       time.Time     `json:"dueDate"`
	Status        InvoiceStatus `json:"status"`
	CreatedBy     string        `json:"createdBy"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// RemainingBalance returns amount minus amountPaid, in cents precision.
func (inv *Invoice) RemainingBalance() float64 {
	return money(inv.Amount).Sub(money(inv.AmountPaid)).InexactFloat64()
}

// IsOverdue reports whether the invoice is still outstanding past its due date.
// The stored overdue status counts as overdue regardless of the date.
func (inv *Invoice) IsOverdue(now time.Time) bool {
	switch inv.Status {
	case InvoiceStatusOverdue:
		return true
	case InvoiceStatusUnpaid, InvoiceStatusPartiallyPaid:
		return !inv.DueDate.IsZero() && inv.DueDate.Before(now)
	}
	return false
}

// ApplyPayment adds amount to AmountPaid and derives the new status.
// A paid invoice accepts nothing further, and the amount may never exceed the
// remaining balance. The invoice is left untouched on error.
func (inv *Invoice) ApplyPayment(amount float64) error {
	if inv.Status == InvoiceStatusPaid {
		return ErrAlreadySettled
	}

	total := money(inv.Amount)
	paid := money(inv.AmountPaid)
	remaining := total.Sub(paid)

	pay := money(amount)
	if pay.GreaterThan(remaining) {
		return &ExceedsBalanceError{Remaining: remaining.InexactFloat64()}
	}

	paid = paid.Add(pay)
	inv.AmountPaid = paid.InexactFloat64()
	if paid.GreaterThanOrEqual(total) {
		inv.Status = InvoiceStatusPaid
	} else {
		inv.Status = InvoiceStatusPartiallyPaid
	}
	return nil
}

// CheckManualStatus rejects a manual status that contradicts the balance:
// paid while money is still owed, or anything else once a paid-in balance
// reaches zero.
func (inv *Invoice) CheckManualStatus(status InvoiceStatus) error {
	remaining := money(inv.Amount).Sub(money(inv.AmountPaid))
	settled := !remaining.IsPositive() && money(inv.AmountPaid).IsPositive()
	switch {
	case status == InvoiceStatusPaid && remaining.IsPositive():
		return NewValidationError("status cannot be paid while a balance remains")
	case status != InvoiceStatusPaid && settled:
		return NewValidationError("status must be paid once the balance is settled")
	}
	return nil
}

// ReconcileStatus re-derives the status after the amount was edited. A
// manual overdue mark is kept while a balance remains.
func (inv *Invoice) ReconcileStatus() {
	remaining := money(inv.Amount).Sub(money(inv.AmountPaid))
	paid := money(inv.AmountPaid)
	switch {
	case !remaining.IsPositive():
		if paid.IsPositive() {
			inv.Status = InvoiceStatusPaid
		}
	case inv.Status == InvoiceStatusOverdue:
	case paid.IsPositive():
		inv.Status = InvoiceStatusPartiallyPaid
	default:
		inv.Status = InvoiceStatusUnpaid
	}
}

// ValidatePaymentAmount rejects amounts that are not positive once rounded to cents.
func ValidatePaymentAmount(amount float64) error {
	if !money(amount).IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

// RoundMoney rounds v to cents.
func RoundMoney(v float64) float64 {
	return money(v).InexactFloat64()
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}
