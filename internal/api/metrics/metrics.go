// Package metrics defines the business Prometheus metrics of the collections
// API. HTTP request metrics come from echoprometheus; everything here is
// recorded by handlers once a domain operation has an outcome.
//
// Metrics register with the default Prometheus registry on import.
package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/recoverydesk/collections-api/internal/core/domain"
)

const namespace = "collections"

// ── Payment metrics ───────────────────────────────────────────────────────────

// PaymentsRecordedTotal counts payments reconciled against an invoice.
// Labels:
//   - method: cash, check or transfer
//   - status: the invoice status after the payment (partially_paid, paid)
var PaymentsRecordedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_recorded_total",
		Help:      "Total number of payments recorded, by method and resulting invoice status.",
	},
	[]string{"method", "status"},
)

// PaymentsAmountTotal sums the money collected.
// Label:
//   - method: cash, check or transfer
var PaymentsAmountTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_amount_total",
		Help:      "Total amount collected through recorded payments, by method.",
	},
	[]string{"method"},
)

// PaymentsRejectedTotal counts payments refused by reconciliation.
// Label:
//   - reason: see RejectionReason
var PaymentsRejectedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "payments_rejected_total",
		Help:      "Total number of payments rejected, by reason.",
	},
	[]string{"reason"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RejectionReason maps a reconciliation error to a low-cardinality label.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, domain.ErrInvalidMethod):
		return "invalid_method"
	case errors.Is(err, domain.ErrNotFound):
		return "invoice_not_found"
	case errors.Is(err, domain.ErrAlreadySettled):
		return "already_settled"
	case errors.Is(err, domain.ErrExceedsBalance):
		return "exceeds_balance"
	case errors.Is(err, domain.ErrLockTimeout):
		return "lock_timeout"
	case errors.Is(err, domain.ErrConflict):
		return "conflict"
	default:
		return "error"
	}
}
